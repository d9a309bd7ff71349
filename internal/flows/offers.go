package flows

import (
	"fmt"
	"regexp"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/config"
	"github.com/themizzi/shopcheck/internal/failure"
)

// OffersOutcome is the one state the offers page settles into.
type OffersOutcome string

const (
	OffersPrompt OffersOutcome = "geolocation-prompt"
	OffersNone   OffersOutcome = "no-offers"
	OffersCards  OffersOutcome = "offer-cards"
)

// Offers page selectors and coordinates known to the storefront.
const (
	OfferCard  = "div.offer"
	OfferImage = "div.offer img"
	OfferTitle = "div.offer .offer-title"

	OffersLatitude    = 37.7749
	OffersLongitude   = -122.4194
	NoOffersLatitude  = -85.0
	NoOffersLongitude = 0.0
)

const noGeolocationJS = `Object.defineProperty(navigator, 'geolocation', { get: () => undefined });`

var (
	geolocationPromptText = regexp.MustCompile(`Please enable Geolocation|Geolocation is not available`)
	noOffersText          = regexp.MustCompile(`do not have any promotional offers|promotional offers in your location`)
)

// ObserveOffers waits, within the geolocation timeout, for the current
// offers page to show one of its three outcomes and reports which. Seeing
// more than one at once is an assertion failure.
func (s *Session) ObserveOffers() (OffersOutcome, error) {
	prompt := s.Page.GetByText(geolocationPromptText)
	none := s.Page.GetByText(noOffersText)
	cards := s.Page.Locator(OfferCard)

	err := prompt.Or(none).Or(cards).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(config.Milliseconds(s.cfg.GeolocationTimeout)),
	})
	if err != nil {
		return "", failure.Timeoutf(err, "offers page never showed a prompt, a no-offers message or offer cards")
	}

	var seen []OffersOutcome
	for _, c := range []struct {
		outcome OffersOutcome
		loc     playwright.Locator
	}{
		{OffersPrompt, prompt},
		{OffersNone, none},
		{OffersCards, cards},
	} {
		n, err := c.loc.Count()
		if err != nil {
			return "", waitErr(err, "count %s", c.outcome)
		}
		if n > 0 {
			seen = append(seen, c.outcome)
		}
	}
	if len(seen) != 1 {
		return "", failure.Assertionf("offers page shows %v at once", seen)
	}

	s.logger.Debug("offers outcome", zap.String("outcome", string(seen[0])))
	return seen[0], nil
}

// ExpectOffersOutcome opens the offers page and asserts it settles into want.
func (s *Session) ExpectOffersOutcome(want OffersOutcome) error {
	if err := s.Goto(FeatureOffers.Path()); err != nil {
		return err
	}
	got, err := s.ObserveOffers()
	if err != nil {
		return err
	}
	return Check(got == want, "offers page settled into %s, want %s", got, want)
}

// DisableGeolocationAPI makes every later page load in this session see a
// browser without navigator.geolocation.
func (s *Session) DisableGeolocationAPI() error {
	err := s.Page.AddInitScript(playwright.Script{Content: playwright.String(noGeolocationJS)})
	if err != nil {
		return fmt.Errorf("install geolocation override: %w", err)
	}
	return nil
}

// ExpectOfferCards asserts every offer card shows an image and a non-empty title.
func (s *Session) ExpectOfferCards() error {
	n, err := s.Count(OfferCard)
	if err != nil {
		return err
	}
	if err := Check(n > 0, "no offer cards listed"); err != nil {
		return err
	}
	images, err := s.Count(OfferImage)
	if err != nil {
		return err
	}
	if err := Check(images == n, "%d offer cards but %d images", n, images); err != nil {
		return err
	}
	titles, err := s.Texts(OfferTitle)
	if err != nil {
		return err
	}
	if err := Check(len(titles) == n, "%d offer cards but %d titles", n, len(titles)); err != nil {
		return err
	}
	for i, title := range titles {
		if err := Check(title != "", "offer card %d has an empty title", i); err != nil {
			return err
		}
	}
	return nil
}
