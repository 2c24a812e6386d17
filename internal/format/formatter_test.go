package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaan-ai/salesbot/internal/domain"
)

func result(columns []string, rows ...[]interface{}) *domain.ExecutionResult {
	return &domain.ExecutionResult{Columns: columns, Rows: rows}
}

func TestFormatCompactForm(t *testing.T) {
	// 2 columns, 3 rows: within both thresholds.
	res := result([]string{"item_name", "profit"},
		[]interface{}{"Milk", 4.5},
		[]interface{}{"Bread", 1.253},
		[]interface{}{"Eggs", 2.0},
	)
	out := Format(res, domain.LocaleEnglish)

	assert.True(t, strings.HasPrefix(out, "Results:"))
	assert.Contains(t, out, "1. item_name: Milk | profit: 4.50")
	assert.Contains(t, out, "2. item_name: Bread | profit: 1.25")
	assert.Contains(t, out, "3. item_name: Eggs | profit: 2")
}

func TestFormatSummaryOnColumnCount(t *testing.T) {
	// 4 columns, 3 rows: the column boundary alone forces the summary form.
	res := result([]string{"a", "b", "c", "d"},
		[]interface{}{"1", "2", "3", "4"},
		[]interface{}{"5", "6", "7", "8"},
		[]interface{}{"9", "10", "11", "12"},
	)
	out := Format(res, domain.LocaleEnglish)

	assert.NotContains(t, out, "Results:")
	assert.Contains(t, out, "Found 3 rows")
	// Rows truncate to their first 3 values with a trailing ellipsis.
	assert.Contains(t, out, "1. 1 | 2 | 3 ...")
	assert.NotContains(t, out, "| 4")
}

func TestFormatSummaryOnRowCount(t *testing.T) {
	rows := make([][]interface{}, 11)
	for i := range rows {
		rows[i] = []interface{}{"x", float64(i)}
	}
	out := Format(result([]string{"name", "n"}, rows...), domain.LocaleEnglish)

	assert.Contains(t, out, "Found 11 rows")
	// Only the first 5 rows preview.
	assert.Contains(t, out, "5. ")
	assert.NotContains(t, out, "6. ")
}

func TestFormatNoResults(t *testing.T) {
	empty := result([]string{})
	assert.Equal(t, "No data found for this query.", Format(empty, domain.LocaleEnglish))
	assert.Equal(t, "इस सवाल के लिए कोई डेटा नहीं मिला।", Format(empty, domain.LocaleHindi))
	assert.Equal(t, "No data found for this query.", Format(nil, domain.LocaleEnglish))
}

func TestFormatHindiHeader(t *testing.T) {
	res := result([]string{"item_name"}, []interface{}{"दूध"})
	out := Format(res, domain.LocaleHindi)
	assert.True(t, strings.HasPrefix(out, "परिणाम:"))
	assert.Contains(t, out, "दूध")
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "4.50", formatValue(4.5))
	assert.Equal(t, "1.26", formatValue(1.256))
	assert.Equal(t, "5", formatValue(5.0))
	assert.Equal(t, "", formatValue(nil))
	assert.Equal(t, "text", formatValue("text"))
	assert.Equal(t, "7", formatValue(7))
}

func TestApologyIncludesDescription(t *testing.T) {
	out := Apology(domain.LocaleEnglish, "sql generation exhausted")
	require.Contains(t, out, "sql generation exhausted")
	outHi := Apology(domain.LocaleHindi, "backend down")
	require.Contains(t, outHi, "backend down")
	require.Contains(t, outHi, "त्रुटि")
}

func TestSampleQuestionsLocales(t *testing.T) {
	require.NotEmpty(t, SampleQuestions(domain.LocaleEnglish))
	require.NotEmpty(t, SampleQuestions(domain.LocaleHindi))
	assert.NotEqual(t, SampleQuestions(domain.LocaleEnglish)[0], SampleQuestions(domain.LocaleHindi)[0])
}
