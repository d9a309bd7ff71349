// Package report turns scenario results into the run's outputs: a JUnit XML
// file, console lines tagged with the scenario id, and per-kind counts.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/themizzi/shopcheck/internal/failure"
)

// OutcomeExpectedRejection is the outcome of a passing scenario whose
// contract is that the storefront refuses the action.
const OutcomeExpectedRejection = "expected-rejection"

// Result is the outcome of one scenario.
type Result struct {
	ID    string `json:"id"`
	Suite string `json:"suite"`
	Name  string `json:"name"`

	Kind              failure.Kind `json:"kind"`
	ExpectedRejection bool         `json:"expectedRejection,omitempty"`
	Message           string       `json:"message,omitempty"`

	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"durationNs"`
}

// NewResult classifies err into a result for the given scenario.
func NewResult(id, suite, name string, expectsRejection bool, started time.Time, err error) Result {
	r := Result{
		ID:        id,
		Suite:     suite,
		Name:      name,
		Kind:      failure.Classify(err),
		StartedAt: started,
		Duration:  time.Since(started),
	}
	if err != nil {
		r.Message = err.Error()
	}
	r.ExpectedRejection = expectsRejection && r.Kind == failure.KindPassed
	return r
}

// Outcome is the label shown in reports: the kind, except that passing
// negative scenarios read "expected-rejection".
func (r Result) Outcome() string {
	if r.ExpectedRejection {
		return OutcomeExpectedRejection
	}
	return string(r.Kind)
}

// Summary counts results per kind.
type Summary struct {
	Total             int `json:"total"`
	Passed            int `json:"passed"`
	ExpectedRejection int `json:"expectedRejection"`
	Assertion         int `json:"assertion"`
	Timeout           int `json:"timeout"`
	Error             int `json:"error"`
	Skipped           int `json:"skipped"`
}

// Summarize counts results. ExpectedRejection results are also counted as passed.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		s.Total++
		switch r.Kind {
		case failure.KindPassed:
			s.Passed++
			if r.ExpectedRejection {
				s.ExpectedRejection++
			}
		case failure.KindAssertion:
			s.Assertion++
		case failure.KindTimeout:
			s.Timeout++
		case failure.KindSkipped:
			s.Skipped++
		default:
			s.Error++
		}
	}
	return s
}

// Failed reports whether any scenario failed, timed out or errored.
func (s Summary) Failed() bool {
	return s.Assertion+s.Timeout+s.Error > 0
}

// Document is the JSON form of a finished run.
type Document struct {
	Name    string   `json:"name"`
	Summary Summary  `json:"summary"`
	Results []Result `json:"results"`
}

// WriteJSON writes the run's results and their summary as indented JSON.
func WriteJSON(w io.Writer, name string, results []Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	doc := Document{Name: name, Summary: Summarize(results), Results: results}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return nil
}
