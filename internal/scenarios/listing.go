package scenarios

import (
	"strings"

	"github.com/themizzi/shopcheck/internal/flows"
)

const sortControlMissing = "sort control not present on the live storefront"

func listingScenarios() []Scenario {
	return []Scenario{
		{
			ID: "TC-176", Suite: SuiteListing, Name: "Home page loads with product listings",
			Run: func(s *flows.Session) error {
				return steps(
					func() error { return s.SignIn(flows.UserStandard) },
					func() error { return expectProductCards(s) },
				)
			},
		},
		{
			ID: "TC-177", Suite: SuiteListing, Name: "Product images load correctly for demouser",
			Run: func(s *flows.Session) error {
				if err := s.SignIn(flows.UserStandard); err != nil {
					return err
				}
				widths, err := s.ImageWidths(flows.ShelfThumb)
				if err != nil {
					return err
				}
				if err := flows.Check(len(widths) > 0, "no product images listed"); err != nil {
					return err
				}
				for i, w := range widths {
					if err := flows.Check(w > 0, "product image %d did not load", i); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			ID: "TC-178", Suite: SuiteListing, Name: "Product images fail to load for image_not_loading_user",
			Run: func(s *flows.Session) error {
				if err := s.SignIn(flows.UserBrokenImages); err != nil {
					return err
				}
				widths, err := s.ImageWidths(flows.ShelfThumb)
				if err != nil {
					return err
				}
				if err := flows.Check(len(widths) > 0, "no product images listed"); err != nil {
					return err
				}
				broken := 0
				for _, w := range widths {
					if w == 0 {
						broken++
					}
				}
				return flows.Check(broken > 0, "all %d product images loaded for %s", len(widths), flows.UserBrokenImages)
			},
		},
		{
			ID: "TC-179", Suite: SuiteListing, Name: "Filter products by a single category",
			Run: func(s *flows.Session) error {
				if err := s.SignIn(flows.UserStandard); err != nil {
					return err
				}
				before, err := listedProducts(s)
				if err != nil {
					return err
				}
				if err := flows.Check(before > 0, "no products listed before filtering"); err != nil {
					return err
				}

				if err := s.ToggleVendorFilter("Apple", true); err != nil {
					return err
				}
				filtered, err := s.Count(flows.ShelfItem)
				if err != nil {
					return err
				}
				if err := flows.Check(filtered > 0 && filtered <= before, "Apple filter lists %d of %d products", filtered, before); err != nil {
					return err
				}
				counter, err := s.Text(flows.ProductsCounter)
				if err != nil {
					return err
				}
				if err := flows.Check(strings.Contains(counter, "Product(s) found"), "products counter reads %q", counter); err != nil {
					return err
				}

				if err := s.ToggleVendorFilter("Apple", false); err != nil {
					return err
				}
				restored, err := s.Count(flows.ShelfItem)
				if err != nil {
					return err
				}
				return flows.Check(restored == before, "clearing the filter lists %d products, want %d", restored, before)
			},
		},
		{
			ID: "TC-180", Suite: SuiteListing, Name: "Filter products by multiple categories simultaneously",
			Run: func(s *flows.Session) error {
				if err := s.SignIn(flows.UserStandard); err != nil {
					return err
				}
				if _, err := listedProducts(s); err != nil {
					return err
				}
				if err := s.ToggleVendorFilter("Apple", true); err != nil {
					return err
				}
				apple, err := s.Count(flows.ShelfItem)
				if err != nil {
					return err
				}
				if err := s.ToggleVendorFilter("Samsung", true); err != nil {
					return err
				}
				both, err := s.Count(flows.ShelfItem)
				if err != nil {
					return err
				}
				return flows.Check(both > 0 && both >= apple, "Apple+Samsung lists %d products, Apple alone %d", both, apple)
			},
		},
		{ID: "TC-181", Suite: SuiteListing, Name: "Sort products by price (low to high)", Skip: sortControlMissing},
		{ID: "TC-182", Suite: SuiteListing, Name: "Sort products by price (high to low)", Skip: sortControlMissing},
		{
			ID: "TC-183", Suite: SuiteListing, Name: "Home page is accessible without authentication",
			Run: func(s *flows.Session) error {
				return steps(
					func() error { return s.Visit("/") },
					func() error { return expectTitledPage(s) },
				)
			},
		},
	}
}

// listedProducts waits for the shelf and counts its products.
func listedProducts(s *flows.Session) (int, error) {
	if err := s.WaitVisible(flows.ShelfItem); err != nil {
		return 0, err
	}
	return s.Count(flows.ShelfItem)
}

// expectProductCards asserts the current shelf lists products and the first
// one shows its image, title and price.
func expectProductCards(s *flows.Session) error {
	n, err := listedProducts(s)
	if err != nil {
		return err
	}
	if err := flows.Check(n > 0, "no products listed on %s", s.Page.URL()); err != nil {
		return err
	}
	first := s.Page.Locator(flows.ShelfItem).First()
	for _, part := range []string{".shelf-item__thumb img", ".shelf-item__title", ".shelf-item__price"} {
		if err := s.ExpectLocatorVisible(first.Locator(part), "first product "+part); err != nil {
			return err
		}
	}
	return nil
}
