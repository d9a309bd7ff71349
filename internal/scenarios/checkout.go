package scenarios

import (
	"fmt"

	"github.com/themizzi/shopcheck/internal/flows"
)

func checkoutScenarios() []Scenario {
	all := []Scenario{
		{
			ID: "TC-196", Suite: SuiteCheckout, Name: "Successful checkout with all required fields",
			Run: func(s *flows.Session) error {
				return steps(
					func() error { return s.SignIn(flows.UserStandard) },
					func() error { return s.AddToCart(0) },
					func() error { return s.CompleteCheckout(flows.DefaultAddress) },
				)
			},
		},
	}

	names := map[flows.ShippingField]string{
		flows.FieldFirstName:    "First Name",
		flows.FieldLastName:     "Last Name",
		flows.FieldAddressLine1: "Address",
		flows.FieldProvince:     "State/Province",
		flows.FieldPostalCode:   "Postal Code",
	}
	for i, field := range flows.ShippingFields {
		all = append(all, rejectedCheckout(
			fmt.Sprintf("TC-%d", 197+i),
			fmt.Sprintf("Checkout blocked when %s is empty", names[field]),
			flows.DefaultAddress.Without(field),
		))
	}
	all = append(all, rejectedCheckout("TC-202", "Checkout blocked when all fields are empty", flows.ShippingAddress{}))

	return append(all,
		Scenario{
			ID: "TC-203", Suite: SuiteCheckout, Name: "Order summary shows correct items and total",
			Run: func(s *flows.Session) error {
				if err := s.SignIn(flows.UserStandard); err != nil {
					return err
				}
				prices, err := shelfPrices(s, 2)
				if err != nil {
					return err
				}
				if err := steps(
					func() error { return s.AddToCart(0) },
					func() error { return s.AddToCart(1) },
					s.OpenCheckout,
					func() error { return s.ExpectCount(flows.CheckoutItems, 2) },
				); err != nil {
					return err
				}
				total, err := s.OrderTotal()
				if err != nil {
					return err
				}
				want := prices[0] + prices[1]
				return flows.Check(total == want, "checkout total is %d cents, want %d", total, want)
			},
		},
		redirectOnly("TC-204", SuiteCheckout, "Checkout requires authentication", flows.FeatureCheckout),
		emptyCheckout("TC-205", SuiteCheckout, "Checkout with empty cart shows empty state or submit unavailable"),
	)
}

// rejectedCheckout submits addr with one item in the cart and expects the
// form to refuse it without navigating.
func rejectedCheckout(id, name string, addr flows.ShippingAddress) Scenario {
	return Scenario{
		ID: id, Suite: SuiteCheckout, Name: name, ExpectsRejection: true,
		Run: func(s *flows.Session) error {
			return steps(
				func() error { return s.SignIn(flows.UserStandard) },
				func() error { return s.AddToCart(0) },
				s.OpenCheckout,
				func() error { return s.ExpectVisible("#" + string(flows.FieldFirstName)) },
				func() error { return s.FillShipping(addr) },
				s.SubmitShipping,
				s.ExpectCheckoutRejected,
			)
		},
	}
}

// redirectOnly asserts an anonymous visit to f lands on its sign-in redirect.
func redirectOnly(id string, suite Suite, name string, f flows.Feature) Scenario {
	return Scenario{
		ID: id, Suite: suite, Name: name,
		Run: func(s *flows.Session) error { return s.ExpectRedirectToSignIn(f) },
	}
}

// shelfPrices reads the prices of the first n listed products in cents.
func shelfPrices(s *flows.Session, n int) ([]int64, error) {
	if err := s.WaitVisible(flows.BuyButton); err != nil {
		return nil, err
	}
	texts, err := s.Texts(flows.ShelfPrice + " b")
	if err != nil {
		return nil, err
	}
	if err := flows.Check(len(texts) >= n, "only %d prices listed, need %d", len(texts), n); err != nil {
		return nil, err
	}
	prices := make([]int64, n)
	for i := range prices {
		cents, err := flows.ParsePrice(texts[i])
		if err != nil {
			return nil, fmt.Errorf("price of product %d: %w", i, err)
		}
		prices[i] = cents
	}
	return prices, nil
}

func confirmationScenarios() []Scenario {
	return []Scenario{
		{
			ID: "TC-206", Suite: SuiteConfirmation, Name: "Confirmation page displays after successful checkout",
			Run: func(s *flows.Session) error {
				if err := placeOrder(s); err != nil {
					return err
				}
				if _, err := s.ExpectConfirmation(); err != nil {
					return err
				}
				if err := steps(
					func() error { return s.ExpectVisible(flows.OrderSummary) },
					func() error { return s.ExpectText(flows.OrderSummaryTitle, "Order Summary") },
				); err != nil {
					return err
				}
				n, err := s.Count(flows.CheckoutItems)
				if err != nil {
					return err
				}
				return flows.Check(n > 0, "order summary lists no items")
			},
		},
		{
			ID: "TC-207", Suite: SuiteConfirmation, Name: "Continue Shopping button returns to home page",
			Run: func(s *flows.Session) error {
				return steps(
					func() error { return placeOrder(s) },
					func() error { return s.Click(flows.ContinueShopping) },
					func() error { return s.ExpectURL(flows.HomePattern(s.Config().BaseURL)) },
					func() error { return s.ExpectCartQuantity(0) },
				)
			},
		},
		{
			ID: "TC-208", Suite: SuiteConfirmation, Name: "Download order receipt generates a PDF download",
			Run: func(s *flows.Session) error {
				if err := steps(
					func() error { return placeOrder(s) },
					func() error { return s.ExpectVisible(flows.ReceiptLink) },
				); err != nil {
					return err
				}
				_, err := s.DownloadReceipt()
				return err
			},
		},
		{
			ID: "TC-209", Suite: SuiteConfirmation, Name: "Confirmation page cannot be accessed directly without placing an order",
			Run: func(s *flows.Session) error {
				if err := steps(
					func() error { return s.SignIn(flows.UserStandard) },
					func() error { return s.Visit("/confirmation") },
				); err != nil {
					return err
				}
				current := s.Page.URL()
				if flows.RoutePattern("/confirmation").MatchString(current) {
					visible, err := s.Visible(flows.ConfirmationMessage)
					if err != nil {
						return err
					}
					return flows.Check(!visible, "confirmation message shown without an order")
				}
				return flows.Check(flows.HomePattern(s.Config().BaseURL).MatchString(current),
					"direct confirmation visit landed on %s", current)
			},
		},
		{
			ID: "TC-210", Suite: SuiteConfirmation, Name: "Order number is within valid range (1-100)",
			Run: func(s *flows.Session) error {
				if err := placeOrder(s); err != nil {
					return err
				}
				if err := s.ExpectVisible(flows.OrderNumber); err != nil {
					return err
				}
				text, err := s.Text(flows.OrderNumber)
				if err != nil {
					return err
				}
				_, err = flows.ParseOrderNumber(text)
				return flows.Check(err == nil, "order number %q: %v", text, err)
			},
		},
	}
}

// placeOrder signs in as the standard user, adds the first product and
// checks out with the default address.
func placeOrder(s *flows.Session) error {
	return steps(
		func() error { return s.SignIn(flows.UserStandard) },
		func() error { return s.AddToCart(0) },
		func() error { return s.CompleteCheckout(flows.DefaultAddress) },
	)
}
