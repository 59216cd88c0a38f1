package compare

import (
	"context"
	"fmt"
	"strings"

	"github.com/swantron/covcompare/internal/coverage"
	"github.com/swantron/covcompare/internal/ctxlog"
)

// Exit codes returned in Result.Code
const (
	CodePass       = 0
	CodeRegression = 1
	CodeNoChange   = 8
	CodeNoBaseline = 9
)

const (
	msgNoBaseline = "No base result for comparison"
	msgNoChange   = "Nothing found to compare"

	markPass = "✅"
	markFail = "❌"
)

// DefaultTolerance is the coverage drop allowed before a metric fails
const DefaultTolerance = 0.002

// Metric is the comparison of a single coverage rate
type Metric struct {
	Name   string
	Base   float64
	Change float64
	Delta  float64
	OK     bool
}

// Line renders the metric as a single report line
func (m Metric) Line() string {
	mark := markFail
	if m.OK {
		mark = markPass
	}
	return fmt.Sprintf("%s coverage changed from %.3f to %.3f (%+.3f) %s",
		m.Name, m.Base, m.Change, m.Delta, mark)
}

// Result is the outcome of comparing two reports. Code is the process exit
// status and Message the human-readable report.
type Result struct {
	Code      int
	Message   string
	Tolerance float64

	// Baseline and Change are nil when the comparison stopped early.
	Baseline *coverage.Summary
	Change   *coverage.Summary
	Metrics  []Metric
}

// Passed reports whether neither metric regressed beyond tolerance
func (r Result) Passed() bool {
	return r.Code == CodePass
}

// Compare extracts the coverage summaries of the baseline and change reports
// and checks that neither rate dropped by more than tolerance. The only
// error is an unparsable rate attribute; missing or malformed files are
// reported through Result.Code.
func Compare(ctx context.Context, baselinePath, changePath string, tolerance float64) (Result, error) {
	log := ctxlog.FromContext(ctx)

	base, ok, err := coverage.ExtractSummary(baselinePath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read baseline: %w", err)
	}
	if !ok {
		log.Debug("baseline absent", "path", baselinePath)
		return Result{Code: CodeNoBaseline, Message: msgNoBaseline, Tolerance: tolerance}, nil
	}

	change, ok, err := coverage.ExtractSummary(changePath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read change: %w", err)
	}
	if !ok {
		log.Debug("change absent", "path", changePath)
		return Result{Code: CodeNoChange, Message: msgNoChange, Tolerance: tolerance}, nil
	}

	log.Debug("extracted summaries",
		"baseline_line", base.Line, "baseline_branch", base.Branch,
		"change_line", change.Line, "change_branch", change.Branch)

	return Summaries(base, change, tolerance), nil
}

// Summaries compares two already extracted summaries. Both are truncated to
// three decimal places first so that the printed values always agree with
// the verdict.
func Summaries(base, change coverage.Summary, tolerance float64) Result {
	base = base.Truncate()
	change = change.Truncate()

	metrics := []Metric{
		newMetric("Line", base.Line, change.Line, tolerance),
		newMetric("Branch", base.Branch, change.Branch, tolerance),
	}

	code := CodePass
	lines := make([]string, 0, len(metrics))
	for _, m := range metrics {
		if !m.OK {
			code = CodeRegression
		}
		lines = append(lines, m.Line())
	}

	return Result{
		Code:      code,
		Message:   strings.Join(lines, "\n"),
		Tolerance: tolerance,
		Baseline:  &base,
		Change:    &change,
		Metrics:   metrics,
	}
}

func newMetric(name string, base, change, tolerance float64) Metric {
	delta := change - base
	return Metric{
		Name:   name,
		Base:   base,
		Change: change,
		Delta:  delta,
		OK:     delta >= -tolerance,
	}
}
