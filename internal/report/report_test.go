package report

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/themizzi/shopcheck/internal/failure"
)

var started = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

func sampleResults() []Result {
	return []Result{
		{ID: "TC-166", Suite: "signin", Name: "Successful sign in", Kind: failure.KindPassed, StartedAt: started, Duration: 1500 * time.Millisecond},
		{ID: "TC-170", Suite: "signin", Name: "Locked user cannot sign in", Kind: failure.KindPassed, ExpectedRejection: true, StartedAt: started, Duration: time.Second},
		{ID: "TC-184", Suite: "product-cart", Name: "Add a single product", Kind: failure.KindAssertion, Message: "assertion failed: expected .bag__quantity to read \"1\"", StartedAt: started, Duration: 2 * time.Second},
		{ID: "TC-194", Suite: "cart", Name: "Cart cleared", Kind: failure.KindTimeout, Message: "timed out: confirmation page never loaded", StartedAt: started, Duration: 15 * time.Second},
		{ID: "TC-227", Suite: "navigation", Name: "Footer", Kind: failure.KindError, Message: "browser crashed", StartedAt: started},
		{ID: "TC-181", Suite: "listing", Name: "Sort low to high", Kind: failure.KindSkipped, Message: "sort control not present"},
	}
}

func TestNewResult(t *testing.T) {
	tests := []struct {
		name             string
		expectsRejection bool
		err              error
		wantKind         failure.Kind
		wantOutcome      string
	}{
		{name: "pass", wantKind: failure.KindPassed, wantOutcome: "passed"},
		{name: "expected rejection", expectsRejection: true, wantKind: failure.KindPassed, wantOutcome: OutcomeExpectedRejection},
		{name: "negative scenario that failed", expectsRejection: true, err: failure.Assertionf("no error banner"), wantKind: failure.KindAssertion, wantOutcome: "assertion"},
		{name: "timeout", err: failure.Timeoutf(errors.New("30000ms exceeded"), "badge"), wantKind: failure.KindTimeout, wantOutcome: "timeout"},
		{name: "infrastructure", err: errors.New("connection refused"), wantKind: failure.KindError, wantOutcome: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResult("TC-1", "suite", "name", tt.expectsRejection, time.Now(), tt.err)

			assert.Equal(t, tt.wantKind, r.Kind)
			assert.Equal(t, tt.wantOutcome, r.Outcome())
			if tt.err != nil {
				assert.Equal(t, tt.err.Error(), r.Message)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleResults())

	assert.Equal(t, Summary{Total: 6, Passed: 2, ExpectedRejection: 1, Assertion: 1, Timeout: 1, Error: 1, Skipped: 1}, s)
	assert.True(t, s.Failed())
	assert.False(t, Summarize(sampleResults()[:2]).Failed())
}

func TestWriteJUnit(t *testing.T) {
	// GIVEN a mixed run
	var buf bytes.Buffer

	// WHEN it is written as JUnit
	require.NoError(t, WriteJUnit(&buf, "shopcheck", sampleResults()))

	// THEN it parses back with the categories kept apart
	var doc junitSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, 6, doc.Tests)
	assert.Equal(t, 1, doc.Failures)
	assert.Equal(t, 2, doc.Errors)
	assert.Equal(t, 1, doc.Skipped)

	suites := make([]string, 0, len(doc.Suites))
	for _, s := range doc.Suites {
		suites = append(suites, s.Name)
	}
	assert.Equal(t, []string{"signin", "product-cart", "cart", "navigation", "listing"}, suites)

	signin := doc.Suites[0]
	assert.Equal(t, 2, signin.Tests)
	assert.Equal(t, "2.500", signin.Time)
	assert.Equal(t, "2026-03-04T05:06:07Z", signin.Timestamp)
	rejected := signin.Cases[1]
	assert.Equal(t, "TC-170 - Locked user cannot sign in", rejected.Name)
	assert.Contains(t, rejected.Properties, junitProperty{Name: "outcome", Value: OutcomeExpectedRejection})
	assert.Nil(t, rejected.Failure)

	assertion := doc.Suites[1].Cases[0]
	require.NotNil(t, assertion.Failure)
	assert.Equal(t, "assertion", assertion.Failure.Type)
	assert.Nil(t, assertion.Error)
	assert.Equal(t, "[[PROPERTY|id=TC-184]]", assertion.SystemOut)

	timeout := doc.Suites[2].Cases[0]
	require.NotNil(t, timeout.Error)
	assert.Equal(t, "timeout", timeout.Error.Type)

	infra := doc.Suites[3].Cases[0]
	require.NotNil(t, infra.Error)
	assert.Equal(t, "error", infra.Error.Type)

	skipped := doc.Suites[4].Cases[0]
	require.NotNil(t, skipped.Skipped)
	assert.Equal(t, "sort control not present", skipped.Skipped.Message)
}

func TestWriteJUnitFile_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test-results", "junit.xml")

	require.NoError(t, WriteJUnitFile(path, "shopcheck", sampleResults()[:1]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), xml.Header))
	assert.Contains(t, string(data), `name="scenario" value="TC-166"`)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, "shopcheck", sampleResults()))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "shopcheck", doc.Name)
	assert.Equal(t, 6, doc.Summary.Total)
	assert.Len(t, doc.Results, 6)
	assert.Equal(t, failure.KindTimeout, doc.Results[3].Kind)
}

func TestConsole_Report(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	var buf bytes.Buffer
	console := NewConsole(&buf, zap.New(core))

	for _, r := range sampleResults() {
		console.Report(r)
	}
	console.PrintSummary(Summarize(sampleResults()))

	out := buf.String()
	assert.Contains(t, out, "[[PROPERTY|id=TC-166]]\nPASS    TC-166 Successful sign in (1.5s)\n")
	assert.Contains(t, out, "PASS    TC-170 Locked user cannot sign in (1s) [expected-rejection]")
	assert.Contains(t, out, "FAIL    TC-184")
	assert.Contains(t, out, "TIMEOUT TC-194")
	assert.Contains(t, out, "ERROR   TC-227")
	assert.Contains(t, out, "SKIP    TC-181")
	assert.Contains(t, out, "6 scenarios: 2 passed (1 expected rejections), 1 assertion failures, 1 timeouts, 1 errors, 1 skipped")

	assert.Equal(t, 1, logs.FilterMessage("scenario timed out").Len())
	assert.Equal(t, 2, logs.FilterMessage("scenario failed").Len())
	entry := logs.FilterField(zap.String("scenario", "TC-170")).All()
	require.Len(t, entry, 1)
	assert.Equal(t, OutcomeExpectedRejection, entry[0].ContextMap()["outcome"])
}

func TestMarker(t *testing.T) {
	assert.Equal(t, "[[PROPERTY|id=TC-99]]", Marker("TC-99"))
}
