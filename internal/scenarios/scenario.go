// Package scenarios is the catalog of storefront checks. Each scenario is a
// short sequence of session actions followed by assertions; it opens its own
// session and builds its own cart, so scenarios run in any order and in
// parallel.
package scenarios

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/themizzi/shopcheck/internal/flows"
)

// Suite groups scenarios by the storefront area they cover.
type Suite string

const (
	SuiteSmoke        Suite = "smoke"
	SuiteSignIn       Suite = "signin"
	SuiteListing      Suite = "listing"
	SuiteProductCart  Suite = "product-cart"
	SuiteFavourites   Suite = "favourites"
	SuiteCart         Suite = "cart"
	SuiteCheckout     Suite = "checkout"
	SuiteConfirmation Suite = "confirmation"
	SuiteOrders       Suite = "orders"
	SuiteOffers       Suite = "offers"
	SuiteNavigation   Suite = "navigation"
)

// Suites lists every suite in catalog order.
var Suites = []Suite{
	SuiteSmoke, SuiteSignIn, SuiteListing, SuiteProductCart, SuiteFavourites, SuiteCart,
	SuiteCheckout, SuiteConfirmation, SuiteOrders, SuiteOffers, SuiteNavigation,
}

// Scenario is one catalog entry.
type Scenario struct {
	ID    string
	Suite Suite
	Name  string

	// Options configure the browser context the scenario's session opens with.
	Options flows.Options

	// ExpectsRejection marks scenarios whose passing outcome is the storefront
	// refusing the action (locked user, incomplete form).
	ExpectsRejection bool

	// Skip, when set, is why the scenario is not executed.
	Skip string

	Run func(s *flows.Session) error
}

// Number returns the numeric part of the scenario id, or 0.
func (sc Scenario) Number() int {
	n, err := strconv.Atoi(strings.TrimPrefix(sc.ID, "TC-"))
	if err != nil {
		return 0
	}
	return n
}

// Catalog returns every scenario ordered by id number.
func Catalog() []Scenario {
	var all []Scenario
	for _, group := range [][]Scenario{
		smokeScenarios(),
		signInScenarios(),
		listingScenarios(),
		productCartScenarios(),
		favouritesScenarios(),
		cartScenarios(),
		checkoutScenarios(),
		confirmationScenarios(),
		orderScenarios(),
		offerScenarios(),
		navigationScenarios(),
	} {
		all = append(all, group...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Number() < all[j].Number() })
	return all
}

// Select filters all down to the given suites and ids. Empty filters match
// everything; an id or suite that matches nothing is an error.
func Select(all []Scenario, suites []string, ids []string) ([]Scenario, error) {
	for _, name := range suites {
		if !slices.Contains(Suites, Suite(name)) {
			return nil, fmt.Errorf("unknown suite %q", name)
		}
	}
	for _, id := range ids {
		if !slices.ContainsFunc(all, func(sc Scenario) bool { return sc.ID == id }) {
			return nil, fmt.Errorf("unknown scenario %q", id)
		}
	}

	var out []Scenario
	for _, sc := range all {
		if len(suites) > 0 && !slices.Contains(suites, string(sc.Suite)) {
			continue
		}
		if len(ids) > 0 && !slices.Contains(ids, sc.ID) {
			continue
		}
		out = append(out, sc)
	}
	return out, nil
}

func smokeScenarios() []Scenario {
	return []Scenario{
		{
			ID: "TC-99", Suite: SuiteSmoke, Name: "Homepage loads successfully",
			Run: func(s *flows.Session) error {
				if err := s.Goto("/"); err != nil {
					return err
				}
				return expectTitledPage(s)
			},
		},
	}
}

// expectTitledPage asserts the page has a non-empty title and a visible body.
func expectTitledPage(s *flows.Session) error {
	title, err := s.Page.Title()
	if err != nil {
		return fmt.Errorf("read page title: %w", err)
	}
	if err := flows.Check(strings.TrimSpace(title) != "", "page %s has no title", s.Page.URL()); err != nil {
		return err
	}
	return s.ExpectVisible("body")
}

// steps runs fns in order and stops at the first error.
func steps(fns ...func() error) error {
	for _, fn := range fns {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}
