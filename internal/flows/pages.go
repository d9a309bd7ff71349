package flows

import (
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/themizzi/shopcheck/internal/failure"
)

// Orders page selectors.
const (
	OrderCard        = "div.order"
	OrderLabel       = "span.a-color-secondary.label"
	OrderShipment    = "div.shipment.shipment-is-delivered"
	OrderItemImage   = "img.item-image"
	OrderItemRow     = "div.a-row"
	OrderItemPrice   = "span.a-size-small.a-color-price"
	NoOrdersHeading  = "h2"
	NoOrdersText     = "No orders found"
	FavouritesLink   = "a#favourites"
	OrdersLink       = "a#orders"
	OffersLink       = "a#offers"
	LogoutLink       = "a#logout"
	LogoLink         = "a.Navbar_logo__26S5Y"
	Footer           = "footer"
	imagesCompleteJS = `sel => Array.from(document.querySelectorAll(sel)).every(img => img.complete)`
)

// ImageWidths waits until every image matching selector finished loading
// (successfully or not) and returns their natural widths.
func (s *Session) ImageWidths(selector string) ([]float64, error) {
	if err := s.WaitVisible(selector); err != nil {
		return nil, err
	}
	if _, err := s.Page.WaitForFunction(imagesCompleteJS, selector); err != nil {
		return nil, waitErr(err, "images %s never finished loading", selector)
	}

	images := s.Page.Locator(selector)
	n, err := images.Count()
	if err != nil {
		return nil, waitErr(err, "count %s", selector)
	}
	widths := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		v, err := images.Nth(i).Evaluate("img => img.naturalWidth", nil)
		if err != nil {
			return nil, waitErr(err, "natural width of %s #%d", selector, i)
		}
		widths = append(widths, toFloat(v))
	}
	return widths, nil
}

// ExpectOrderLabels asserts each order card carries the placed/total/ship-to labels.
func (s *Session) ExpectOrderLabels() error {
	labels, err := s.Texts(OrderLabel)
	if err != nil {
		return err
	}
	joined := strings.Join(labels, "\n")
	for _, want := range []string{"Order placed", "Total", "Ship to"} {
		if !strings.Contains(joined, want) {
			return failure.Assertionf("order cards are missing the %q label", want)
		}
	}
	return nil
}

// ExpectNoOrders asserts the empty order history heading.
func (s *Session) ExpectNoOrders() error {
	heading := s.Page.Locator(NoOrdersHeading).Filter(playwright.LocatorFilterOptions{
		HasText: NoOrdersText,
	})
	return s.ExpectLocatorVisible(heading.First(), "the no-orders heading")
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}
