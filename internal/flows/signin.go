package flows

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/failure"
)

// Sign-in page selectors.
const (
	UsernameDropdown   = "username"
	PasswordDropdown   = "password"
	DropdownInput      = "#react-select-2-input"
	SignInButton       = "#login-btn"
	SignInError        = "h3.api-error"
	SignedInUsername   = "span.username"
	dropdownOptions    = "div[id*='react-select'][id*='option']"
	dropdownMenuSuffix = " [class*='menu']"
)

var (
	ErrNoSuchOption      = errors.New("dropdown has no such option")
	ErrNoPendingRedirect = errors.New("page is not a sign-in redirect")
)

func exactText(text string) *regexp.Regexp {
	return regexp.MustCompile(`^\s*` + regexp.QuoteMeta(text) + `\s*$`)
}

// DropdownMenu returns the option list of the custom dropdown with the given container id.
func (s *Session) DropdownMenu(containerID string) playwright.Locator {
	return s.Page.Locator("#" + containerID + dropdownMenuSuffix).First()
}

// DropdownOptions returns every option currently rendered in the dropdown's menu.
func (s *Session) DropdownOptions(containerID string) playwright.Locator {
	return s.Page.Locator("#" + containerID + dropdownMenuSuffix).Locator(dropdownOptions)
}

// DropdownOption returns the options of the dropdown whose text is exactly text.
func (s *Session) DropdownOption(containerID, text string) playwright.Locator {
	return s.DropdownOptions(containerID).Filter(playwright.LocatorFilterOptions{
		HasText: exactText(text),
	})
}

// OpenDropdown clicks the dropdown container and waits for its option list.
func (s *Session) OpenDropdown(containerID string) error {
	if err := s.Page.Locator("#" + containerID).Click(); err != nil {
		return waitErr(err, "open dropdown #%s", containerID)
	}
	err := s.DropdownMenu(containerID).WaitFor(playwright.LocatorWaitForOptions{
		State: playwright.WaitForSelectorStateVisible,
	})
	return waitErr(err, "option list of #%s never appeared", containerID)
}

// SelectDropdownOption opens the dropdown with the given container id and
// clicks the option whose visible text equals optionText exactly.
func (s *Session) SelectDropdownOption(containerID, optionText string) error {
	if err := s.OpenDropdown(containerID); err != nil {
		return err
	}

	option := s.DropdownOption(containerID, optionText)
	n, err := option.Count()
	if err != nil {
		return fmt.Errorf("count options of #%s: %w", containerID, err)
	}
	if n == 0 {
		return failure.Assertion(ErrNoSuchOption, "dropdown #%s has no option %q", containerID, optionText)
	}

	if err := option.First().Click(); err != nil {
		return waitErr(err, "choose %q in #%s", optionText, containerID)
	}
	s.logger.Debug("selected dropdown option", zap.String("dropdown", containerID), zap.String("option", optionText))
	return nil
}

// SubmitSignIn fills both dropdowns on the current sign-in page and presses
// the log-in button without asserting where the browser ends up.
func (s *Session) SubmitSignIn(username string) error {
	if err := s.SelectDropdownOption(UsernameDropdown, username); err != nil {
		return fmt.Errorf("select username: %w", err)
	}
	if err := s.SelectDropdownOption(PasswordDropdown, s.cfg.Password); err != nil {
		return fmt.Errorf("select password: %w", err)
	}
	return waitErr(s.Page.Locator(SignInButton).Click(), "press log in")
}

// SignIn authenticates as username from the sign-in page and expects to land on home.
func (s *Session) SignIn(username string) error {
	if err := s.Goto("/signin"); err != nil {
		return err
	}
	if err := s.SubmitSignIn(username); err != nil {
		return err
	}
	if err := s.ExpectURL(HomePattern(s.cfg.BaseURL)); err != nil {
		return fmt.Errorf("sign in as %s: %w", username, err)
	}
	s.logger.Info("signed in", zap.String("user", username))
	return nil
}

// SignInFromRedirect authenticates on the sign-in page the browser was
// redirected to and expects to land on the feature that triggered it.
func (s *Session) SignInFromRedirect(username string) error {
	current := s.Page.URL()
	feature, ok := FeatureFromRedirect(current)
	if !ok {
		return failure.Assertion(ErrNoPendingRedirect, "%s carries no feature to return to", current)
	}
	if err := s.SubmitSignIn(username); err != nil {
		return err
	}
	if err := s.ExpectURL(RoutePattern(feature.Path())); err != nil {
		return fmt.Errorf("sign in as %s from %s redirect: %w", username, feature, err)
	}
	s.logger.Info("signed in from redirect", zap.String("user", username), zap.String("feature", string(feature)))
	return nil
}

// ExpectRedirectToSignIn visits a protected feature anonymously and expects
// to be sent to /signin?<feature>=true.
func (s *Session) ExpectRedirectToSignIn(f Feature) error {
	if err := s.Goto(f.Path()); err != nil {
		return err
	}
	return s.ExpectURL(SignInRedirectPattern(f))
}

// ExpectSignInRejected asserts the sign-in error banner is shown and the browser stayed on /signin.
func (s *Session) ExpectSignInRejected() error {
	if err := s.ExpectVisible(SignInError); err != nil {
		return err
	}
	return s.ExpectURL(RoutePattern("/signin"))
}

// SignOut presses the logout link and expects the sign-in page.
func (s *Session) SignOut() error {
	if err := s.Click("a#logout"); err != nil {
		return err
	}
	return s.ExpectURL(RoutePattern("/signin"))
}
