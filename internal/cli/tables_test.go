package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themizzi/shopcheck/internal/models"
	"github.com/themizzi/shopcheck/internal/scenarios"
)

func TestPrintCatalog(t *testing.T) {
	list, err := scenarios.Select(scenarios.Catalog(), nil, []string{"TC-166", "TC-170", "TC-181"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, PrintCatalog(&buf, list))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "TC-166")
	assert.Contains(t, lines[2], "expects rejection")
	assert.Contains(t, lines[3], "skipped: ")
}

func TestPrintFlakiness(t *testing.T) {
	tests := []struct {
		name    string
		entries []models.Flakiness
		want    []string
	}{
		{
			name: "empty",
			want: []string{"no finished runs recorded"},
		},
		{
			name: "flags",
			entries: []models.Flakiness{
				{ScenarioID: "TC-218", Runs: 4, Passed: 2, Timeout: 2, LastOutcome: models.OutcomeTimeout},
				{ScenarioID: "TC-184", Runs: 4, Passed: 3, Assertion: 1, LastOutcome: models.OutcomePassed},
				{ScenarioID: "TC-227", Runs: 2, Error: 2, LastOutcome: models.OutcomeError},
				{ScenarioID: "TC-99", Runs: 4, Passed: 4, LastOutcome: models.OutcomePassed},
			},
			want: []string{"SCENARIO", "flaky (environmental)", "TC-184", "  flaky", "environmental", "100"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, PrintFlakiness(&buf, tt.entries))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestPrintRecent(t *testing.T) {
	var buf bytes.Buffer
	err := PrintRecent(&buf, []models.ScenarioResult{
		{
			RunID: "run-2", ScenarioID: "TC-170", Outcome: models.OutcomePassed, ExpectedRejection: true,
			StartedAt: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC), Duration: 1500 * time.Millisecond,
		},
	})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "2026-03-04 05:06:07")
	assert.Contains(t, buf.String(), "passed (expected rejection)")
	assert.Contains(t, buf.String(), "1.5s")
}
