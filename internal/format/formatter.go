// Package format renders execution results as chat-sized localized text.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dukaan-ai/salesbot/internal/domain"
)

// The thresholds are contractual: the target transport is a chat message
// with an effective length limit, so anything wider than 3 columns or
// longer than 10 rows collapses into the summary form.
const (
	compactMaxColumns    = 3
	compactMaxRows       = 10
	summaryPreviewRows   = 5
	summaryPreviewValues = 3
)

// Format renders the result for the given locale. Zero rows always yield
// the localized "no results" message.
func Format(result *domain.ExecutionResult, loc domain.Locale) string {
	if result == nil || len(result.Rows) == 0 {
		return Message("no_results", loc)
	}
	if len(result.Columns) <= compactMaxColumns && len(result.Rows) <= compactMaxRows {
		return compactForm(result, loc)
	}
	return summaryForm(result, loc)
}

func compactForm(result *domain.ExecutionResult, loc domain.Locale) string {
	var sb strings.Builder
	sb.WriteString(Message("results_header", loc))
	for i, row := range result.Rows {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "%d. ", i+1)
		for j, col := range result.Columns {
			if j > 0 {
				sb.WriteString(" | ")
			}
			fmt.Fprintf(&sb, "%s: %s", col, formatValue(row[j]))
		}
	}
	return sb.String()
}

func summaryForm(result *domain.ExecutionResult, loc domain.Locale) string {
	preview := len(result.Rows)
	if preview > summaryPreviewRows {
		preview = summaryPreviewRows
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, Message("summary", loc), len(result.Rows), preview)
	for i := 0; i < preview; i++ {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "%d. ", i+1)
		row := result.Rows[i]
		n := len(row)
		if n > summaryPreviewValues {
			n = summaryPreviewValues
		}
		for j := 0; j < n; j++ {
			if j > 0 {
				sb.WriteString(" | ")
			}
			sb.WriteString(formatValue(row[j]))
		}
		sb.WriteString(" ...")
	}
	return sb.String()
}

// formatValue renders a single cell. Fractional numbers are rounded to two
// decimals; integral floats (every JSON number decodes as float64) print
// without a decimal part.
func formatValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatFloat(t, 'f', 0, 64)
		}
		return strconv.FormatFloat(t, 'f', 2, 64)
	case float32:
		return formatValue(float64(t))
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}
