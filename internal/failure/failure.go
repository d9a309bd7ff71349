// Package failure classifies scenario outcomes so that environmental
// flakiness (timeouts, broken infrastructure) stays distinguishable from
// behavioural regressions (assertion failures).
package failure

import (
	"context"
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Kind is the reporting category of a scenario outcome.
type Kind string

const (
	KindPassed    Kind = "passed"
	KindAssertion Kind = "assertion"
	KindTimeout   Kind = "timeout"
	KindError     Kind = "error"
	KindSkipped   Kind = "skipped"
)

// Failed reports whether the kind counts against the run.
func (k Kind) Failed() bool {
	return k == KindAssertion || k == KindTimeout || k == KindError
}

// AssertionError means the observed page state contradicts the expected contract.
type AssertionError struct {
	Message string
	Cause   error
}

func (e *AssertionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("assertion failed: %s: %v", e.Message, e.Cause)
	}
	return "assertion failed: " + e.Message
}

func (e *AssertionError) Unwrap() error { return e.Cause }

// TimeoutError means an awaited condition never resolved within its bound.
type TimeoutError struct {
	Message string
	Cause   error
}

func (e *TimeoutError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("timed out: %s: %v", e.Message, e.Cause)
	}
	return "timed out: " + e.Message
}

func (e *TimeoutError) Unwrap() error { return e.Cause }

// SkipError marks a scenario that is deliberately not executed.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string { return "skipped: " + e.Reason }

// Assertionf builds an AssertionError from a format string.
func Assertionf(format string, args ...any) error {
	return &AssertionError{Message: fmt.Sprintf(format, args...)}
}

// Assertion wraps cause as an assertion failure. A nil cause returns nil.
func Assertion(cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	return &AssertionError{Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Timeoutf wraps cause as a timeout failure. A nil cause returns nil.
func Timeoutf(cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	return &TimeoutError{Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Skip returns an error that classifies as KindSkipped.
func Skip(reason string) error {
	return &SkipError{Reason: reason}
}

// Classify maps an error returned by a scenario to its reporting category.
// The outermost explicit classification wins, so an assertion built on top of
// a Playwright timeout still reports as an assertion.
func Classify(err error) Kind {
	if err == nil {
		return KindPassed
	}
	if k := outermost(err); k != KindError {
		return k
	}
	if errors.Is(err, playwright.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindError
}

func outermost(err error) Kind {
	for e := err; e != nil; e = errors.Unwrap(e) {
		switch e.(type) {
		case *SkipError:
			return KindSkipped
		case *AssertionError:
			return KindAssertion
		case *TimeoutError:
			return KindTimeout
		}
	}
	return KindError
}
