package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/themizzi/shopcheck/internal/models"
	"github.com/themizzi/shopcheck/internal/scenarios"
)

// PrintCatalog lists scenarios one per line with their suite and notes.
func PrintCatalog(w io.Writer, list []scenarios.Scenario) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSUITE\tNAME\tNOTE")
	for _, sc := range list {
		note := ""
		switch {
		case sc.Skip != "":
			note = "skipped: " + sc.Skip
		case sc.ExpectsRejection:
			note = "expects rejection"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", sc.ID, sc.Suite, sc.Name, note)
	}
	return tw.Flush()
}

// PrintFlakiness renders a flakiness report, worst scenarios first as given.
func PrintFlakiness(w io.Writer, entries []models.Flakiness) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "no finished runs recorded")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tRUNS\tPASS%\tASSERT\tTIMEOUT\tERROR\tSKIP\tLAST\tFLAG")
	for _, f := range entries {
		flag := ""
		switch {
		case f.Flaky() && f.Environmental():
			flag = "flaky (environmental)"
		case f.Flaky():
			flag = "flaky"
		case f.Environmental():
			flag = "environmental"
		}
		fmt.Fprintf(tw, "%s\t%d\t%.0f\t%d\t%d\t%d\t%d\t%s\t%s\n",
			f.ScenarioID, f.Runs, f.PassRate()*100, f.Assertion, f.Timeout, f.Error, f.Skipped, f.LastOutcome, flag)
	}
	return tw.Flush()
}

// PrintRecent renders the latest results of one scenario, newest first.
func PrintRecent(w io.Writer, results []models.ScenarioResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tRUN\tOUTCOME\tDURATION\tMESSAGE")
	for _, r := range results {
		outcome := r.Outcome
		if r.ExpectedRejection {
			outcome += " (expected rejection)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.StartedAt.UTC().Format("2006-01-02 15:04:05"), r.RunID, outcome, r.Duration, r.Message)
	}
	return tw.Flush()
}
