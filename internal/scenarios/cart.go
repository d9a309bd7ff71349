package scenarios

import (
	"github.com/themizzi/shopcheck/internal/flows"
)

func productCartScenarios() []Scenario {
	return []Scenario{
		{
			ID: "TC-184", Suite: SuiteProductCart, Name: "Add a single product to cart",
			Run: func(s *flows.Session) error {
				return steps(
					func() error { return s.SignIn(flows.UserStandard) },
					func() error { return s.ExpectCartQuantity(0) },
					func() error { return s.AddToCart(0) },
					func() error { return s.ExpectCartQuantity(1) },
				)
			},
		},
		{
			ID: "TC-185", Suite: SuiteProductCart, Name: "Add multiple different products to cart",
			Run: func(s *flows.Session) error {
				return steps(
					func() error { return s.SignIn(flows.UserStandard) },
					func() error { return s.AddToCart(0) },
					func() error { return s.ExpectCartQuantity(1) },
					func() error { return s.AddToCart(1) },
					func() error { return s.ExpectCartQuantity(2) },
					func() error { return s.ExpectCount(flows.CartItems, 2) },
				)
			},
		},
		{
			ID: "TC-186", Suite: SuiteProductCart, Name: "Add the same product to cart multiple times",
			Run: func(s *flows.Session) error {
				if err := s.SignIn(flows.UserStandard); err != nil {
					return err
				}
				if err := s.AddToCart(0); err != nil {
					return err
				}
				first, err := s.CartQuantity()
				if err != nil {
					return err
				}
				if err := flows.Check(first >= 1, "cart holds %d after one add", first); err != nil {
					return err
				}
				if err := s.AddToCart(0); err != nil {
					return err
				}
				second, err := s.CartQuantity()
				if err != nil {
					return err
				}
				return flows.Check(second == first+1, "adding the same product again took the cart from %d to %d", first, second)
			},
		},
		{
			ID: "TC-187", Suite: SuiteProductCart, Name: "Add to Favourites from product listing",
			Run: func(s *flows.Session) error {
				if err := steps(
					func() error { return s.SignIn(flows.UserStandard) },
					func() error { return s.WaitVisible(flows.FavouriteHeart) },
					func() error { return s.Click(flows.FavouriteHeart) },
					func() error { return s.ExpectVisible(flows.FavouriteMarked) },
					func() error { return s.Visit(flows.FeatureFavourites.Path()) },
				); err != nil {
					return err
				}
				n, err := s.Count(flows.ShelfItem)
				if err != nil {
					return err
				}
				return flows.Check(n > 0, "favourites page lists nothing after marking a product")
			},
		},
		{
			ID: "TC-188", Suite: SuiteProductCart, Name: "Remove a product from favourites",
			Run: func(s *flows.Session) error {
				if err := s.SignIn(flows.UserFavourites); err != nil {
					return err
				}
				if err := s.Visit(flows.FeatureFavourites.Path()); err != nil {
					return err
				}
				before, err := listedProducts(s)
				if err != nil {
					return err
				}
				if err := flows.Check(before > 0, "%s has no favourites to remove", flows.UserFavourites); err != nil {
					return err
				}
				if err := s.Click(flows.FavouriteMarked); err != nil {
					return err
				}
				return s.ExpectCount(flows.ShelfItem, before-1)
			},
		},
	}
}

func favouritesScenarios() []Scenario {
	return []Scenario{
		redirectSignIn("TC-189", SuiteFavourites, "Favourites page requires authentication", flows.FeatureFavourites),
		{
			ID: "TC-190", Suite: SuiteFavourites, Name: "fav_user sees pre-seeded favourites",
			Run: func(s *flows.Session) error {
				return steps(
					func() error { return s.SignIn(flows.UserFavourites) },
					func() error { return s.Visit(flows.FeatureFavourites.Path()) },
					func() error { return expectProductCards(s) },
				)
			},
		},
		{
			ID: "TC-191", Suite: SuiteFavourites, Name: "Empty favourites state for new user",
			Run: func(s *flows.Session) error {
				if err := s.SignIn(flows.UserStandard); err != nil {
					return err
				}
				if err := s.Visit(flows.FeatureFavourites.Path()); err != nil {
					return err
				}
				found, err := s.ProductsFound()
				if err != nil {
					return err
				}
				if err := flows.Check(found == 0, "new user has %d favourites", found); err != nil {
					return err
				}
				return s.ExpectCount(flows.ShelfItem, 0)
			},
		},
		{
			ID: "TC-192", Suite: SuiteFavourites, Name: "Add to cart from favourites page",
			Run: func(s *flows.Session) error {
				if err := s.SignIn(flows.UserFavourites); err != nil {
					return err
				}
				if err := s.Visit(flows.FeatureFavourites.Path()); err != nil {
					return err
				}
				before, err := s.CartQuantity()
				if err != nil {
					return err
				}
				if err := s.AddToCart(0); err != nil {
					return err
				}
				after, err := s.CartQuantity()
				if err != nil {
					return err
				}
				return flows.Check(after == before+1, "cart went from %d to %d, want %d", before, after, before+1)
			},
		},
	}
}

func cartScenarios() []Scenario {
	return []Scenario{
		{
			ID: "TC-193", Suite: SuiteCart, Name: "Cart persists items across navigation",
			Run: func(s *flows.Session) error {
				return steps(
					func() error { return s.SignIn(flows.UserStandard) },
					func() error { return s.AddToCart(0) },
					func() error { return s.ExpectCartQuantity(1) },
					func() error { return s.Visit(flows.FeatureFavourites.Path()) },
					func() error { return s.Visit("/") },
					func() error { return s.ExpectCartQuantity(1) },
				)
			},
		},
		{
			ID: "TC-194", Suite: SuiteCart, Name: "Cart is cleared after successful checkout",
			Run: func(s *flows.Session) error {
				return steps(
					func() error { return s.SignIn(flows.UserStandard) },
					func() error { return s.AddToCart(0) },
					func() error { return s.CompleteCheckout(flows.DefaultAddress) },
					func() error { return s.Visit("/") },
					func() error { return s.ExpectCartQuantity(0) },
				)
			},
		},
		emptyCheckout("TC-195", SuiteCart, "Cart is empty when no items added"),
	}
}

// emptyCheckout visits checkout with nothing in the cart and accepts either
// empty-cart rendering.
func emptyCheckout(id string, suite Suite, name string) Scenario {
	return Scenario{
		ID: id, Suite: suite, Name: name,
		Run: func(s *flows.Session) error {
			return steps(
				func() error { return s.SignIn(flows.UserStandard) },
				func() error { return s.Goto(flows.FeatureCheckout.Path()) },
				s.EmptyCheckoutState,
			)
		},
	}
}
