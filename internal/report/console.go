package report

import (
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/themizzi/shopcheck/internal/failure"
)

// Marker is the console tag external tooling uses to tie a log line to a scenario.
func Marker(id string) string {
	return fmt.Sprintf("[[PROPERTY|id=%s]]", id)
}

var verdicts = map[failure.Kind]string{
	failure.KindPassed:    "PASS",
	failure.KindAssertion: "FAIL",
	failure.KindTimeout:   "TIMEOUT",
	failure.KindError:     "ERROR",
	failure.KindSkipped:   "SKIP",
}

// Console prints one tagged block per result as scenarios finish. It is safe
// for concurrent use.
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	logger *zap.Logger
}

// NewConsole creates a console reporter writing to w and logging through logger.
func NewConsole(w io.Writer, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{w: w, logger: logger}
}

// Report prints r.
func (c *Console) Report(r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintln(c.w, Marker(r.ID))
	line := fmt.Sprintf("%-7s %s %s (%s)", verdicts[r.Kind], r.ID, r.Name, r.Duration.Round(time.Millisecond))
	if r.ExpectedRejection {
		line += " [" + OutcomeExpectedRejection + "]"
	}
	fmt.Fprintln(c.w, line)
	if r.Message != "" && r.Kind != failure.KindPassed {
		fmt.Fprintf(c.w, "        %s\n", r.Message)
	}

	fields := []zap.Field{
		zap.String("scenario", r.ID),
		zap.String("suite", r.Suite),
		zap.String("outcome", r.Outcome()),
		zap.Duration("duration", r.Duration),
	}
	switch r.Kind {
	case failure.KindPassed, failure.KindSkipped:
		c.logger.Info("scenario finished", fields...)
	case failure.KindTimeout:
		c.logger.Warn("scenario timed out", append(fields, zap.String("reason", r.Message))...)
	default:
		c.logger.Error("scenario failed", append(fields, zap.String("reason", r.Message))...)
	}
}

// PrintSummary prints the per-kind totals.
func (c *Console) PrintSummary(s Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.w, "\n%d scenarios: %d passed (%d expected rejections), %d assertion failures, %d timeouts, %d errors, %d skipped\n",
		s.Total, s.Passed, s.ExpectedRejection, s.Assertion, s.Timeout, s.Error, s.Skipped)
}
