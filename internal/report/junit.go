package report

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/themizzi/shopcheck/internal/failure"
)

type junitSuites struct {
	XMLName  xml.Name     `xml:"testsuites"`
	Name     string       `xml:"name,attr"`
	Tests    int          `xml:"tests,attr"`
	Failures int          `xml:"failures,attr"`
	Errors   int          `xml:"errors,attr"`
	Skipped  int          `xml:"skipped,attr"`
	Time     string       `xml:"time,attr"`
	Suites   []junitSuite `xml:"testsuite"`
}

type junitSuite struct {
	Name      string      `xml:"name,attr"`
	Tests     int         `xml:"tests,attr"`
	Failures  int         `xml:"failures,attr"`
	Errors    int         `xml:"errors,attr"`
	Skipped   int         `xml:"skipped,attr"`
	Time      string      `xml:"time,attr"`
	Timestamp string      `xml:"timestamp,attr,omitempty"`
	Cases     []junitCase `xml:"testcase"`
}

type junitCase struct {
	Name       string          `xml:"name,attr"`
	Classname  string          `xml:"classname,attr"`
	Time       string          `xml:"time,attr"`
	Properties []junitProperty `xml:"properties>property"`
	Failure    *junitProblem   `xml:"failure,omitempty"`
	Error      *junitProblem   `xml:"error,omitempty"`
	Skipped    *junitSkipped   `xml:"skipped,omitempty"`
	SystemOut  string          `xml:"system-out,omitempty"`
}

type junitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type junitProblem struct {
	Type    string `xml:"type,attr"`
	Message string `xml:"message,attr"`
	Body    string `xml:",chardata"`
}

type junitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

// WriteJUnit writes results as JUnit XML, one <testsuite> per scenario suite
// in first-seen order. Assertion failures become <failure>; timeouts and
// other errors become <error> with type "timeout" or "error".
func WriteJUnit(w io.Writer, name string, results []Result) error {
	doc := junitSuites{Name: name}
	index := map[string]int{}
	suiteTime := map[string]time.Duration{}
	var total time.Duration

	for _, r := range results {
		i, ok := index[r.Suite]
		if !ok {
			i = len(doc.Suites)
			index[r.Suite] = i
			suite := junitSuite{Name: r.Suite}
			if !r.StartedAt.IsZero() {
				suite.Timestamp = r.StartedAt.UTC().Format(time.RFC3339)
			}
			doc.Suites = append(doc.Suites, suite)
		}
		suite := &doc.Suites[i]

		c := junitCase{
			Name:      fmt.Sprintf("%s - %s", r.ID, r.Name),
			Classname: r.Suite,
			Time:      seconds(r.Duration),
			Properties: []junitProperty{
				{Name: "scenario", Value: r.ID},
				{Name: "outcome", Value: r.Outcome()},
			},
			SystemOut: Marker(r.ID),
		}
		switch r.Kind {
		case failure.KindAssertion:
			c.Failure = &junitProblem{Type: string(failure.KindAssertion), Message: r.Message, Body: r.Message}
			suite.Failures++
		case failure.KindTimeout:
			c.Error = &junitProblem{Type: string(failure.KindTimeout), Message: r.Message, Body: r.Message}
			suite.Errors++
		case failure.KindError:
			c.Error = &junitProblem{Type: string(failure.KindError), Message: r.Message, Body: r.Message}
			suite.Errors++
		case failure.KindSkipped:
			c.Skipped = &junitSkipped{Message: r.Message}
			suite.Skipped++
		}

		suite.Tests++
		suite.Cases = append(suite.Cases, c)
		suiteTime[r.Suite] += r.Duration
		total += r.Duration
	}

	for i := range doc.Suites {
		s := &doc.Suites[i]
		s.Time = seconds(suiteTime[s.Name])
		doc.Tests += s.Tests
		doc.Failures += s.Failures
		doc.Errors += s.Errors
		doc.Skipped += s.Skipped
	}
	doc.Time = seconds(total)

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("failed to write junit header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode junit report: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("failed to write junit report: %w", err)
	}
	return nil
}

// WriteJUnitFile writes the JUnit report to path, creating parent directories.
func WriteJUnitFile(path, name string, results []Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create junit report: %w", err)
	}
	if err := WriteJUnit(f, name, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
