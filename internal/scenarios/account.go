package scenarios

import (
	"regexp"

	"github.com/playwright-community/playwright-go"

	"github.com/themizzi/shopcheck/internal/flows"
)

var priceText = regexp.MustCompile(`\$[\d.,]+`)

func orderScenarios() []Scenario {
	return []Scenario{
		redirectSignIn("TC-211", SuiteOrders, "Orders page requires authentication", flows.FeatureOrders),
		{
			ID: "TC-212", Suite: SuiteOrders, Name: "existing_orders_user sees order history",
			Run: func(s *flows.Session) error {
				if err := openOrders(s, flows.UserExistingOrders); err != nil {
					return err
				}
				n, err := s.Count(flows.OrderCard)
				if err != nil {
					return err
				}
				if err := flows.Check(n > 0, "%s has no order history", flows.UserExistingOrders); err != nil {
					return err
				}
				if err := s.ExpectOrderLabels(); err != nil {
					return err
				}
				first := s.Page.Locator(flows.OrderCard).First()
				return s.ExpectLocatorVisible(first.Locator(flows.OrderShipment), "delivered shipment of the first order")
			},
		},
		{
			ID: "TC-213", Suite: SuiteOrders, Name: "Orders page shows empty state for user with no orders",
			Run: func(s *flows.Session) error {
				return steps(
					func() error { return openOrders(s, flows.UserStandard) },
					s.ExpectNoOrders,
					func() error { return s.ExpectCount(flows.OrderCard, 0) },
				)
			},
		},
		{
			ID: "TC-214", Suite: SuiteOrders, Name: "New order placed via checkout appears in order history",
			Run: func(s *flows.Session) error {
				if err := steps(
					func() error { return placeOrder(s) },
					func() error { return s.Visit(flows.FeatureOrders.Path()) },
				); err != nil {
					return err
				}
				n, err := s.Count(flows.OrderCard)
				if err != nil {
					return err
				}
				return flows.Check(n > 0, "placed order missing from history")
			},
		},
		{
			ID: "TC-215", Suite: SuiteOrders, Name: "Order details display correct product information",
			Run: func(s *flows.Session) error {
				if err := openOrders(s, flows.UserExistingOrders); err != nil {
					return err
				}
				first := s.Page.Locator(flows.OrderCard).First()
				title := first.Locator(flows.OrderItemRow).Filter(playwright.LocatorFilterOptions{HasText: "Title:"}).First()
				price := first.Locator(flows.OrderItemPrice).First()
				if err := steps(
					func() error { return s.ExpectLocatorVisible(first.Locator(flows.OrderItemImage).First(), "first order item image") },
					func() error { return s.ExpectLocatorVisible(title, "first order title row") },
					func() error { return s.ExpectLocatorVisible(price, "first order price") },
				); err != nil {
					return err
				}
				text, err := price.InnerText()
				if err != nil {
					return err
				}
				return flows.Check(priceText.MatchString(text), "order price %q is not a dollar amount", text)
			},
		},
	}
}

func openOrders(s *flows.Session, user string) error {
	return steps(
		func() error { return s.SignIn(user) },
		func() error { return s.Visit(flows.FeatureOrders.Path()) },
	)
}

func offerScenarios() []Scenario {
	granted := flows.WithGeolocation(flows.OffersLatitude, flows.OffersLongitude)
	return []Scenario{
		redirectSignIn("TC-216", SuiteOffers, "Offers page requires authentication", flows.FeatureOffers),
		{
			ID: "TC-217", Suite: SuiteOffers, Name: "Offers page requests geolocation permission",
			Run: func(s *flows.Session) error {
				if err := s.SignIn(flows.UserStandard); err != nil {
					return err
				}
				if err := s.Goto(flows.FeatureOffers.Path()); err != nil {
					return err
				}
				outcome, err := s.ObserveOffers()
				if err != nil {
					return err
				}
				return flows.Check(outcome == flows.OffersPrompt || outcome == flows.OffersNone,
					"offers page without permission settled into %s", outcome)
			},
		},
		{
			ID: "TC-218", Suite: SuiteOffers, Name: "Offers display when geolocation is allowed", Options: granted,
			Run: func(s *flows.Session) error {
				return steps(
					func() error { return s.SignIn(flows.UserStandard) },
					func() error { return s.ExpectOffersOutcome(flows.OffersCards) },
					s.ExpectOfferCards,
				)
			},
		},
		{
			ID: "TC-219", Suite: SuiteOffers, Name: "Error message displayed when geolocation is denied",
			Run: func(s *flows.Session) error {
				return steps(
					func() error { return s.SignIn(flows.UserStandard) },
					func() error { return s.ExpectOffersOutcome(flows.OffersPrompt) },
					func() error { return s.ExpectCount(flows.OfferCard, 0) },
				)
			},
		},
		{
			ID: "TC-220", Suite: SuiteOffers, Name: "No offers available message for current location",
			Options: flows.WithGeolocation(flows.NoOffersLatitude, flows.NoOffersLongitude),
			Run: func(s *flows.Session) error {
				return steps(
					func() error { return s.SignIn(flows.UserStandard) },
					func() error { return s.ExpectOffersOutcome(flows.OffersNone) },
				)
			},
		},
		{
			ID: "TC-221", Suite: SuiteOffers, Name: "Offers page handles browser without geolocation support",
			Run: func(s *flows.Session) error {
				return steps(
					func() error { return s.SignIn(flows.UserStandard) },
					s.DisableGeolocationAPI,
					func() error { return s.ExpectOffersOutcome(flows.OffersPrompt) },
				)
			},
		},
		{
			ID: "TC-222", Suite: SuiteOffers, Name: "Each offer card displays an image and a title", Options: granted,
			Run: func(s *flows.Session) error {
				if err := steps(
					func() error { return s.SignIn(flows.UserStandard) },
					func() error { return s.ExpectOffersOutcome(flows.OffersCards) },
					s.ExpectOfferCards,
				); err != nil {
					return err
				}
				heights, err := s.Page.Locator(flows.OfferImage).EvaluateAll("imgs => imgs.map(img => img.style.height)")
				if err != nil {
					return err
				}
				list, _ := heights.([]any)
				if err := flows.Check(len(list) > 0, "no offer images"); err != nil {
					return err
				}
				for i, h := range list {
					if err := flows.Check(h == "150px", "offer image %d has height %v, want 150px", i, h); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}

func navigationScenarios() []Scenario {
	return []Scenario{
		{
			ID: "TC-223", Suite: SuiteNavigation, Name: "Header navigation links are accessible when signed in",
			Run: func(s *flows.Session) error {
				return steps(
					func() error { return s.SignIn(flows.UserStandard) },
					func() error { return s.ExpectVisible(flows.OffersLink) },
					func() error { return s.ExpectVisible(flows.OrdersLink) },
					func() error { return s.ExpectVisible(flows.FavouritesLink) },
					func() error { return s.Click(flows.OffersLink) },
					func() error { return s.ExpectURL(flows.RoutePattern(flows.FeatureOffers.Path())) },
					func() error { return s.Click(flows.OrdersLink) },
					func() error { return s.ExpectURL(flows.RoutePattern(flows.FeatureOrders.Path())) },
					func() error { return s.Click(flows.FavouritesLink) },
					func() error { return s.ExpectURL(flows.RoutePattern(flows.FeatureFavourites.Path())) },
				)
			},
		},
		{
			ID: "TC-224", Suite: SuiteNavigation, Name: "Sign out clears session and redirects to sign in",
			Run: func(s *flows.Session) error {
				signInPage := flows.RoutePattern("/signin")
				return steps(
					func() error { return s.SignIn(flows.UserStandard) },
					s.SignOut,
					func() error { return s.Goto(flows.FeatureOrders.Path()) },
					func() error { return s.ExpectURL(signInPage) },
					func() error { return s.Goto(flows.FeatureCheckout.Path()) },
					func() error { return s.ExpectURL(signInPage) },
				)
			},
		},
		{
			ID: "TC-225", Suite: SuiteNavigation, Name: "Cart count in header reflects items added and resets after checkout",
			Run: func(s *flows.Session) error {
				return steps(
					func() error { return s.SignIn(flows.UserStandard) },
					func() error { return s.ExpectCartQuantity(0) },
					func() error { return s.AddToCart(0) },
					func() error { return s.ExpectCartQuantity(1) },
					func() error { return s.AddToCart(1) },
					func() error { return s.ExpectCartQuantity(2) },
					func() error { return s.CompleteCheckout(flows.DefaultAddress) },
					func() error { return s.Visit("/") },
					func() error { return s.ExpectCartQuantity(0) },
				)
			},
		},
		{
			ID: "TC-226", Suite: SuiteNavigation, Name: "StackDemo logo navigates to home page",
			Run: func(s *flows.Session) error {
				return steps(
					func() error { return s.SignIn(flows.UserStandard) },
					func() error { return s.Goto(flows.FeatureOrders.Path()) },
					func() error { return s.ExpectURL(flows.RoutePattern(flows.FeatureOrders.Path())) },
					func() error { return s.Click(flows.LogoLink) },
					func() error { return s.ExpectURL(flows.HomePattern(s.Config().BaseURL)) },
				)
			},
		},
		{
			ID: "TC-227", Suite: SuiteNavigation, Name: "Footer is present on all pages",
			Run: func(s *flows.Session) error {
				footerOn := func(path string) func() error {
					return func() error {
						if err := s.Visit(path); err != nil {
							return err
						}
						return s.ExpectVisible(flows.Footer)
					}
				}
				return steps(
					func() error { return s.SignIn(flows.UserStandard) },
					footerOn("/"),
					footerOn(flows.FeatureOrders.Path()),
					func() error { return s.Visit("/") },
					func() error { return s.AddToCart(0) },
					footerOn(flows.FeatureCheckout.Path()),
					footerOn(flows.FeatureFavourites.Path()),
				)
			},
		},
	}
}
