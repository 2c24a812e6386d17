// Package sqlextract isolates a SQL statement from a model completion.
// Providers wrap SQL in prose or markdown fences; the extractor tolerates
// both and fails only when no SELECT is present at all.
package sqlextract

import (
	"strings"

	"github.com/dukaan-ai/salesbot/internal/domain"
)

var fenceMarkers = []string{"```sql", "```SQL", "```"}

// Extract returns the first SELECT statement found in raw. The statement
// runs through the first semicolon after the SELECT keyword, or to the end
// of the text when no semicolon follows. Extract is idempotent: applying it
// to its own output yields the same statement.
func Extract(raw string) (string, error) {
	for _, m := range fenceMarkers {
		raw = strings.ReplaceAll(raw, m, "")
	}

	lower := strings.ToLower(raw)
	start := strings.Index(lower, "select")
	if start == -1 {
		return "", domain.ErrNotSQLLike
	}

	stmt := raw[start:]
	if semi := strings.Index(stmt, ";"); semi != -1 {
		stmt = stmt[:semi+1]
	}
	stmt = strings.TrimSpace(stmt)
	if stmt == "" {
		return "", domain.ErrNotSQLLike
	}
	return stmt, nil
}
