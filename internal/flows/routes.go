package flows

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Fixture users seeded by the storefront. They share one password.
const (
	UserStandard       = "demouser"
	UserBrokenImages   = "image_not_loading_user"
	UserExistingOrders = "existing_orders_user"
	UserFavourites     = "fav_user"
	UserLocked         = "locked_user"
)

// FixtureUsers lists every username the sign-in dropdown offers, in display order.
var FixtureUsers = []string{
	UserStandard,
	UserBrokenImages,
	UserExistingOrders,
	UserFavourites,
	UserLocked,
}

// Feature names an authentication-gated route.
type Feature string

const (
	FeatureCheckout   Feature = "checkout"
	FeatureFavourites Feature = "favourites"
	FeatureOffers     Feature = "offers"
	FeatureOrders     Feature = "orders"
)

// ProtectedFeatures lists every route that redirects anonymous visitors to sign-in.
var ProtectedFeatures = []Feature{FeatureCheckout, FeatureFavourites, FeatureOffers, FeatureOrders}

// Path returns the route of the feature.
func (f Feature) Path() string { return "/" + string(f) }

// Order numbers shown on the confirmation page fall in this closed range.
const (
	MinOrderNumber = 1
	MaxOrderNumber = 100
)

var ErrInvalidOrderNumber = errors.New("order number out of range")

// HomePattern matches the storefront root: the base URL followed by an
// optional slash and an optional query or fragment.
func HomePattern(baseURL string) *regexp.Regexp {
	base := strings.TrimSuffix(baseURL, "/")
	return regexp.MustCompile(`^` + regexp.QuoteMeta(base) + `/?(\?[^#]*)?(#.*)?$`)
}

// SignInRedirectPattern matches /signin?<feature>=true.
func SignInRedirectPattern(f Feature) *regexp.Regexp {
	return regexp.MustCompile(`/signin\?` + regexp.QuoteMeta(string(f)) + `=true`)
}

// RoutePattern matches any URL containing path.
func RoutePattern(path string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(path))
}

// FeatureFromRedirect returns the feature a sign-in URL will redirect back to.
func FeatureFromRedirect(rawURL string) (Feature, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || !strings.HasSuffix(u.Path, "/signin") {
		return "", false
	}
	q := u.Query()
	for _, f := range ProtectedFeatures {
		if q.Get(string(f)) == "true" {
			return f, true
		}
	}
	return "", false
}

// ParsePrice converts a rendered price such as "$1,099.50" into cents.
func ParsePrice(text string) (int64, error) {
	var digits strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' {
			digits.WriteRune(r)
		}
	}
	clean := digits.String()
	if clean == "" {
		return 0, fmt.Errorf("no price in %q", text)
	}

	whole, frac, _ := strings.Cut(clean, ".")
	if strings.Contains(frac, ".") {
		return 0, fmt.Errorf("malformed price %q", text)
	}
	if whole == "" {
		whole = "0"
	}
	dollars, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed price %q: %w", text, err)
	}

	frac = (frac + "00")[:2]
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed price %q: %w", text, err)
	}
	return dollars*100 + cents, nil
}

// ValidOrderNumber reports whether n is inside the confirmation range.
func ValidOrderNumber(n int) bool {
	return n >= MinOrderNumber && n <= MaxOrderNumber
}

// ParseOrderNumber parses the confirmation page's order number and checks its range.
func ParseOrderNumber(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("order number %q is not an integer: %w", text, err)
	}
	if !ValidOrderNumber(n) {
		return n, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidOrderNumber, n, MinOrderNumber, MaxOrderNumber)
	}
	return n, nil
}
