package flows

import (
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/config"
	"github.com/themizzi/shopcheck/internal/failure"
)

// ShippingField is the element id of a shipping form input.
type ShippingField string

const (
	FieldFirstName    ShippingField = "firstNameInput"
	FieldLastName     ShippingField = "lastNameInput"
	FieldAddressLine1 ShippingField = "addressLine1Input"
	FieldProvince     ShippingField = "provinceInput"
	FieldPostalCode   ShippingField = "postCodeInput"
)

// ShippingFields lists the form inputs in the order they are filled.
var ShippingFields = []ShippingField{FieldFirstName, FieldLastName, FieldAddressLine1, FieldProvince, FieldPostalCode}

// Checkout and confirmation selectors.
const (
	ShippingContinue    = "#checkout-shipping-continue"
	CheckoutItems       = "ul.productList li.productList-item"
	CheckoutListItems   = "ul.productList li"
	CheckoutTotal       = "span.cart-priceItem-value span"
	ConfirmationMessage = "legend#confirmation-message"
	OrderNumber         = "legend#confirmation-message ~ div strong"
	OrderSummary        = "article.cart[data-test='cart']"
	OrderSummaryTitle   = "h3.cart-title"
	ReceiptLink         = "a#downloadpdf"
	ContinueShopping    = "button.button--tertiary"

	ConfirmationText = "Your Order has been successfully placed."
)

// ShippingAddress is the data typed into the checkout form.
type ShippingAddress struct {
	FirstName    string
	LastName     string
	AddressLine1 string
	Province     string
	PostalCode   string
}

// DefaultAddress is the address used by every happy-path checkout.
var DefaultAddress = ShippingAddress{
	FirstName:    "John",
	LastName:     "Doe",
	AddressLine1: "123 Main Street",
	Province:     "California",
	PostalCode:   "90001",
}

// Value returns the address value typed into field.
func (a ShippingAddress) Value(field ShippingField) string {
	switch field {
	case FieldFirstName:
		return a.FirstName
	case FieldLastName:
		return a.LastName
	case FieldAddressLine1:
		return a.AddressLine1
	case FieldProvince:
		return a.Province
	case FieldPostalCode:
		return a.PostalCode
	}
	return ""
}

// Without returns a copy of a with field left blank.
func (a ShippingAddress) Without(field ShippingField) ShippingAddress {
	switch field {
	case FieldFirstName:
		a.FirstName = ""
	case FieldLastName:
		a.LastName = ""
	case FieldAddressLine1:
		a.AddressLine1 = ""
	case FieldProvince:
		a.Province = ""
	case FieldPostalCode:
		a.PostalCode = ""
	}
	return a
}

// OpenCheckout navigates to the checkout page and waits for it to settle.
func (s *Session) OpenCheckout() error {
	return s.Visit(FeatureCheckout.Path())
}

// FillShipping types addr into the shipping form. Blank values leave the
// field untouched so any one of them can be omitted.
func (s *Session) FillShipping(addr ShippingAddress) error {
	for _, field := range ShippingFields {
		value := addr.Value(field)
		if value == "" {
			continue
		}
		if err := s.Page.Locator("#" + string(field)).Fill(value); err != nil {
			return waitErr(err, "fill #%s", field)
		}
	}
	return nil
}

// SubmitShipping presses the continue button of the shipping form.
func (s *Session) SubmitShipping() error {
	return waitErr(s.Page.Locator(ShippingContinue).Click(), "press shipping continue")
}

// CompleteCheckout submits addr for the current cart and waits for the
// confirmation page within the checkout timeout. The cart must not be empty.
func (s *Session) CompleteCheckout(addr ShippingAddress) error {
	qty, err := s.CartQuantity()
	if err != nil {
		return err
	}
	if qty == 0 {
		return failure.Assertion(ErrEmptyCart, "checkout needs at least one item in the cart")
	}

	if err := s.OpenCheckout(); err != nil {
		return err
	}
	if err := s.FillShipping(addr); err != nil {
		return err
	}
	if err := s.SubmitShipping(); err != nil {
		return err
	}

	err = s.Page.WaitForURL(RoutePattern("/confirmation"), playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(config.Milliseconds(s.cfg.CheckoutTimeout)),
	})
	if err != nil {
		return failure.Timeoutf(err, "confirmation page never loaded after submitting shipping")
	}
	s.logger.Info("checkout completed", zap.Int("items", qty))
	return nil
}

// ExpectCheckoutRejected asserts a submitted shipping form did not navigate:
// once the network settles the browser is still on /checkout with the
// continue button shown.
func (s *Session) ExpectCheckoutRejected() error {
	if err := s.WaitForNetworkIdle(); err != nil {
		return err
	}
	if err := s.ExpectURL(RoutePattern("/checkout")); err != nil {
		return err
	}
	return s.ExpectVisible(ShippingContinue)
}

// ExpectConfirmation asserts the confirmation message and a valid order number.
func (s *Session) ExpectConfirmation() (int, error) {
	if err := s.ExpectText(ConfirmationMessage, ConfirmationText); err != nil {
		return 0, err
	}
	text, err := s.Text(OrderNumber)
	if err != nil {
		return 0, err
	}
	n, err := ParseOrderNumber(text)
	if err != nil {
		return n, failure.Assertion(err, "confirmation order number")
	}
	return n, nil
}

// DownloadReceipt clicks the receipt link and returns the suggested file name.
func (s *Session) DownloadReceipt() (string, error) {
	download, err := s.Page.ExpectDownload(func() error {
		return s.Page.Locator(ReceiptLink).Click()
	})
	if err != nil {
		return "", waitErr(err, "receipt download never started")
	}
	name := download.SuggestedFilename()
	if name == "" {
		return "", failure.Assertionf("receipt download has no file name")
	}
	return name, nil
}

// OrderTotal returns the checkout total in cents.
func (s *Session) OrderTotal() (int64, error) {
	text, err := s.Text(CheckoutTotal)
	if err != nil {
		return 0, err
	}
	cents, err := ParsePrice(text)
	if err != nil {
		return 0, failure.Assertion(err, "checkout total %q", text)
	}
	return cents, nil
}

// EmptyCheckoutState asserts what an empty-cart checkout visit shows. Either
// outcome is accepted: no shipping form at all, or a form whose order list
// holds zero items.
func (s *Session) EmptyCheckoutState() error {
	if err := s.WaitForNetworkIdle(); err != nil {
		return err
	}
	formVisible, err := s.Visible("#" + string(FieldFirstName))
	if err != nil {
		return err
	}
	if !formVisible {
		s.logger.Debug("empty cart checkout renders no form")
		return nil
	}
	n, err := s.Count(CheckoutListItems)
	if err != nil {
		return err
	}
	return Check(n == 0, "empty cart checkout lists %d items at %s", n, s.Page.URL())
}
