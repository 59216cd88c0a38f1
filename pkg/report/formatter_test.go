package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swantron/covcompare/internal/compare"
	"github.com/swantron/covcompare/internal/coverage"
)

func regression() compare.Result {
	return compare.Summaries(
		coverage.Summary{Line: 0.80, Branch: 0.70},
		coverage.Summary{Line: 0.75, Branch: 0.70},
		0.002,
	)
}

func TestToJSON(t *testing.T) {
	out, err := ToJSON(regression())
	require.NoError(t, err)

	var got ComparisonReport
	require.NoError(t, json.Unmarshal(out, &got))

	assert.Equal(t, compare.CodeRegression, got.Code)
	assert.False(t, got.Passed)
	assert.Equal(t, "regression", got.Status)
	assert.Equal(t, 0.002, got.Tolerance)
	require.NotNil(t, got.Line)
	require.NotNil(t, got.Branch)
	assert.False(t, got.Line.OK)
	assert.Equal(t, 0.8, got.Line.Baseline)
	assert.Equal(t, 0.75, got.Line.Change)
	assert.True(t, got.Branch.OK)
}

func TestToJSON_Absent(t *testing.T) {
	out, err := ToJSON(compare.Result{Code: compare.CodeNoBaseline, Message: "No base result for comparison"})
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, `"status": "no-baseline-report"`)
	assert.NotContains(t, s, `"line"`)
	assert.NotContains(t, s, `"branch"`)
}

func TestToMarkdown(t *testing.T) {
	md := ToMarkdown(regression())

	assert.True(t, strings.HasPrefix(md, "# Coverage Comparison Report"))
	assert.Contains(t, md, "❌ FAIL")
	assert.Contains(t, md, "| Line | 0.800 | 0.750 | -0.050 | ❌ |")
	assert.Contains(t, md, "| Branch | 0.700 | 0.700 | +0.000 | ✅ |")
}

func TestToMarkdown_Absent(t *testing.T) {
	md := ToMarkdown(compare.Result{Code: compare.CodeNoChange, Message: "Nothing found to compare"})

	assert.Contains(t, md, "❌ FAIL")
	assert.Contains(t, md, "Nothing found to compare")
	assert.NotContains(t, md, "| Metric |")
}

func TestStatus(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{compare.CodePass, "pass"},
		{compare.CodeRegression, "regression"},
		{compare.CodeNoChange, "no-change-report"},
		{compare.CodeNoBaseline, "no-baseline-report"},
		{42, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, Status(tt.code))
		})
	}
}
