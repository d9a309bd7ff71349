package scenarios

import (
	"fmt"

	"github.com/themizzi/shopcheck/internal/flows"
)

const arbitraryUsername = "fakeuser123"

func signInScenarios() []Scenario {
	return []Scenario{
		{
			ID: "TC-166", Suite: SuiteSignIn, Name: "Successful sign in with valid credentials",
			Run: func(s *flows.Session) error {
				return steps(
					func() error { return s.SignIn(flows.UserStandard) },
					func() error { return s.ExpectText(flows.SignedInUsername, flows.UserStandard) },
				)
			},
		},
		redirectSignIn("TC-167", SuiteSignIn, "Sign in redirects to checkout when coming from cart", flows.FeatureCheckout),
		redirectSignIn("TC-168", SuiteSignIn, "Sign in redirects to favourites when coming from favourites", flows.FeatureFavourites),
		redirectSignIn("TC-169", SuiteSignIn, "Sign in redirects to offers when coming from offers", flows.FeatureOffers),
		{
			ID: "TC-170", Suite: SuiteSignIn, Name: "Locked user cannot sign in", ExpectsRejection: true,
			Run: func(s *flows.Session) error {
				return steps(
					func() error { return s.Goto("/signin") },
					func() error { return s.SubmitSignIn(flows.UserLocked) },
					s.ExpectSignInRejected,
				)
			},
		},
		{
			ID: "TC-171", Suite: SuiteSignIn, Name: "Username dropdown displays all expected options",
			Run: func(s *flows.Session) error {
				if err := s.Goto("/signin"); err != nil {
					return err
				}
				if err := s.OpenDropdown(flows.UsernameDropdown); err != nil {
					return err
				}
				for _, user := range flows.FixtureUsers {
					option := s.DropdownOption(flows.UsernameDropdown, user).First()
					if err := s.ExpectLocatorVisible(option, fmt.Sprintf("username option %q", user)); err != nil {
						return err
					}
				}
				n, err := s.DropdownOptions(flows.UsernameDropdown).Count()
				if err != nil {
					return fmt.Errorf("count username options: %w", err)
				}
				return flows.Check(n == len(flows.FixtureUsers), "username dropdown lists %d options, want %d", n, len(flows.FixtureUsers))
			},
		},
		{
			ID: "TC-172", Suite: SuiteSignIn, Name: "Username field does not allow arbitrary text entry", ExpectsRejection: true,
			Run: func(s *flows.Session) error {
				if err := s.Goto("/signin"); err != nil {
					return err
				}
				if err := s.OpenDropdown(flows.UsernameDropdown); err != nil {
					return err
				}
				if err := s.Page.Locator(flows.DropdownInput).Fill(arbitraryUsername); err != nil {
					return fmt.Errorf("type into username: %w", err)
				}
				n, err := s.DropdownOption(flows.UsernameDropdown, arbitraryUsername).Count()
				if err != nil {
					return fmt.Errorf("count matching options: %w", err)
				}
				if err := flows.Check(n == 0, "dropdown offers the typed username %q", arbitraryUsername); err != nil {
					return err
				}
				if err := s.Page.Keyboard().Press("Escape"); err != nil {
					return fmt.Errorf("dismiss dropdown: %w", err)
				}
				return steps(
					func() error { return s.Click(flows.SignInButton) },
					func() error { return s.ExpectVisible(flows.SignInButton) },
				)
			},
		},
		{
			ID: "TC-173", Suite: SuiteSignIn, Name: "Log In button with no credentials selected shows error", ExpectsRejection: true,
			Run: func(s *flows.Session) error {
				return steps(
					func() error { return s.Goto("/signin") },
					func() error { return s.Click(flows.SignInButton) },
					s.ExpectSignInRejected,
				)
			},
		},
		{
			ID: "TC-174", Suite: SuiteSignIn, Name: "Sign in with username selected but no password shows error", ExpectsRejection: true,
			Run: func(s *flows.Session) error {
				return steps(
					func() error { return s.Goto("/signin") },
					func() error { return s.SelectDropdownOption(flows.UsernameDropdown, flows.UserStandard) },
					func() error { return s.Click(flows.SignInButton) },
					s.ExpectSignInRejected,
				)
			},
		},
		{
			ID: "TC-175", Suite: SuiteSignIn, Name: "Sign in page is accessible without authentication and redirects when already logged in",
			Run: func(s *flows.Session) error {
				home := flows.HomePattern(s.Config().BaseURL)
				return steps(
					func() error { return s.Goto("/signin") },
					func() error { return s.ExpectURL(flows.RoutePattern("/signin")) },
					func() error { return s.ExpectVisible(flows.SignInButton) },
					func() error { return s.SubmitSignIn(flows.UserStandard) },
					func() error { return s.ExpectURL(home) },
					func() error { return s.Goto("/signin") },
					func() error { return s.ExpectURL(home) },
				)
			},
		},
	}
}

// redirectSignIn builds the scenario for one protected feature: an anonymous
// visit lands on /signin?<feature>=true and signing in there returns to the
// feature.
func redirectSignIn(id string, suite Suite, name string, f flows.Feature) Scenario {
	return Scenario{
		ID: id, Suite: suite, Name: name,
		Run: func(s *flows.Session) error {
			return steps(
				func() error { return s.ExpectRedirectToSignIn(f) },
				func() error { return s.SignInFromRedirect(flows.UserStandard) },
			)
		},
	}
}
