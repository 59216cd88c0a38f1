package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/swantron/covcompare/internal/compare"
)

// ComparisonReport represents the JSON output structure for a comparison
type ComparisonReport struct {
	Code      int           `json:"code"`
	Passed    bool          `json:"passed"`
	Status    string        `json:"status"`
	Message   string        `json:"message"`
	Tolerance float64       `json:"tolerance"`
	Line      *MetricReport `json:"line,omitempty"`
	Branch    *MetricReport `json:"branch,omitempty"`
}

// MetricReport represents a single compared rate
type MetricReport struct {
	Baseline float64 `json:"baseline"`
	Change   float64 `json:"change"`
	Delta    float64 `json:"delta"`
	OK       bool    `json:"ok"`
}

// Status returns a short machine-friendly label for a result code
func Status(code int) string {
	switch code {
	case compare.CodePass:
		return "pass"
	case compare.CodeRegression:
		return "regression"
	case compare.CodeNoChange:
		return "no-change-report"
	case compare.CodeNoBaseline:
		return "no-baseline-report"
	default:
		return "unknown"
	}
}

// ToJSON converts a comparison Result to JSON format
func ToJSON(result compare.Result) ([]byte, error) {
	report := &ComparisonReport{
		Code:      result.Code,
		Passed:    result.Passed(),
		Status:    Status(result.Code),
		Message:   result.Message,
		Tolerance: result.Tolerance,
	}

	for _, m := range result.Metrics {
		mr := &MetricReport{
			Baseline: m.Base,
			Change:   m.Change,
			Delta:    m.Delta,
			OK:       m.OK,
		}
		switch m.Name {
		case "Line":
			report.Line = mr
		case "Branch":
			report.Branch = mr
		}
	}

	return json.MarshalIndent(report, "", "  ")
}

// ToMarkdown converts a comparison Result to Markdown format, suitable for a
// pull request comment
func ToMarkdown(result compare.Result) string {
	var sb strings.Builder

	sb.WriteString("# Coverage Comparison Report\n\n")

	status := "❌ FAIL"
	if result.Passed() {
		status = "✅ PASS"
	}
	sb.WriteString(fmt.Sprintf("- **Status**: %s\n", status))
	sb.WriteString(fmt.Sprintf("- **Tolerance**: %.3f\n\n", result.Tolerance))

	if len(result.Metrics) == 0 {
		sb.WriteString(fmt.Sprintf("%s\n", result.Message))
		return sb.String()
	}

	sb.WriteString("| Metric | Baseline | Change | Delta | Status |\n")
	sb.WriteString("|--------|----------|--------|-------|--------|\n")
	for _, m := range result.Metrics {
		mark := "❌"
		if m.OK {
			mark = "✅"
		}
		sb.WriteString(fmt.Sprintf("| %s | %.3f | %.3f | %+.3f | %s |\n",
			m.Name, m.Base, m.Change, m.Delta, mark))
	}
	sb.WriteString("\n")

	return sb.String()
}
