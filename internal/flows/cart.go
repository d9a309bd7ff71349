package flows

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/failure"
)

// Shelf and cart selectors.
const (
	ShelfItem       = ".shelf-container .shelf-item"
	ShelfThumb      = ".shelf-container .shelf-item__thumb img"
	ShelfTitle      = ".shelf-container .shelf-item__title"
	ShelfPrice      = ".shelf-container .shelf-item__price"
	BuyButton       = ".shelf-container .shelf-item__buy-btn"
	CartBadge       = ".bag__quantity"
	CartItems       = ".float-cart__shelf-container .shelf-item"
	FavouriteHeart  = ".shelf-container .shelf-stopper button"
	FavouriteMarked = ".shelf-container .shelf-stopper button.clicked"
	ProductsCounter = "small.products-found span"
)

var (
	ErrEmptyCart    = errors.New("cart is empty")
	ErrInvalidIndex = errors.New("product index out of range")
)

// AddToCart presses the purchase control of the product at index on the
// current listing and waits for the cart quantity indicator to change.
func (s *Session) AddToCart(index int) error {
	if index < 0 {
		return failure.Assertion(ErrInvalidIndex, "product index %d is negative", index)
	}

	buttons := s.Page.Locator(BuyButton)
	if err := buttons.First().WaitFor(); err != nil {
		return waitErr(err, "no purchase controls rendered on %s", s.Page.URL())
	}
	n, err := buttons.Count()
	if err != nil {
		return fmt.Errorf("count purchase controls: %w", err)
	}
	if index >= n {
		return failure.Assertion(ErrInvalidIndex, "product index %d but only %d products listed", index, n)
	}

	badge := s.Page.Locator(CartBadge).First()
	before, err := badge.InnerText()
	if err != nil {
		return waitErr(err, "read cart quantity")
	}

	if err := buttons.Nth(index).Click(); err != nil {
		return waitErr(err, "press purchase control %d", index)
	}

	if err := s.expect.Locator(badge).Not().ToHaveText(strings.TrimSpace(before)); err != nil {
		return failure.Timeoutf(err, "cart quantity never changed from %q after adding product %d", before, index)
	}
	s.logger.Debug("added product to cart", zap.Int("index", index), zap.String("before", before))
	return nil
}

// CartQuantity returns the number shown on the header cart indicator.
func (s *Session) CartQuantity() (int, error) {
	text, err := s.Text(CartBadge)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, failure.Assertion(err, "cart quantity %q is not an integer", text)
	}
	return n, nil
}

// ExpectCartQuantity asserts the cart indicator reads n.
func (s *Session) ExpectCartQuantity(n int) error {
	return s.ExpectText(CartBadge, strconv.Itoa(n))
}

// ProductTitles returns the titles of every listed product.
func (s *Session) ProductTitles() ([]string, error) {
	if err := s.WaitVisible(ShelfItem); err != nil {
		return nil, err
	}
	return s.Texts(ShelfTitle)
}

// ProductsFound parses the "N Product(s) found" counter.
func (s *Session) ProductsFound() (int, error) {
	text, err := s.Text(ProductsCounter)
	if err != nil {
		return 0, err
	}
	field := strings.Fields(text)
	if len(field) == 0 {
		return 0, failure.Assertionf("products counter is empty")
	}
	n, err := strconv.Atoi(field[0])
	if err != nil {
		return 0, failure.Assertion(err, "products counter %q does not start with a number", text)
	}
	return n, nil
}

// ToggleVendorFilter checks or unchecks the vendor checkbox and waits for the
// listing counter to change.
func (s *Session) ToggleVendorFilter(vendor string, on bool) error {
	before, err := s.Text(ProductsCounter)
	if err != nil {
		return err
	}
	box := s.Page.Locator(fmt.Sprintf(".filters input[value='%s']", vendor))
	if on {
		err = box.Check(playwright.LocatorCheckOptions{Force: playwright.Bool(true)})
	} else {
		err = box.Uncheck(playwright.LocatorUncheckOptions{Force: playwright.Bool(true)})
	}
	if err != nil {
		return waitErr(err, "toggle %s filter", vendor)
	}
	if err := s.expect.Locator(s.Page.Locator(ProductsCounter).First()).Not().ToHaveText(before); err != nil {
		return failure.Timeoutf(err, "listing never changed after toggling %s filter", vendor)
	}
	return nil
}
