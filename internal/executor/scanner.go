package executor

import (
	"strings"
)

// The supported grammar is intentionally tiny (SELECT with simple
// FROM/JOIN/WHERE shapes), so statements are scanned by hand instead of
// importing a SQL parser. Everything here is internal to the executors.

// isSelect reports whether the trimmed statement begins with SELECT.
func isSelect(stmt string) bool {
	fields := strings.Fields(stmt)
	return len(fields) > 0 && strings.EqualFold(fields[0], "select")
}

// primaryTable returns the first identifier after FROM, lower-cased and
// stripped of quoting and a schema qualifier. ok is false when the
// statement has no FROM clause.
func primaryTable(stmt string) (string, bool) {
	fields := strings.Fields(stmt)
	for i, f := range fields {
		if strings.EqualFold(f, "from") && i+1 < len(fields) {
			name := fields[i+1]
			name = strings.TrimRight(name, ";,)")
			name = strings.Trim(name, "\"`")
			if dot := strings.LastIndex(name, "."); dot != -1 {
				name = name[dot+1:]
			}
			name = strings.ToLower(name)
			if name == "" {
				return "", false
			}
			return name, true
		}
	}
	return "", false
}

var unsupportedClauses = []string{"group by", "order by", "sum(", "count(", "avg(", "min(", "max("}

// hasAggregation reports whether the statement carries grouping, ordering
// or aggregate functions, none of which the REST backend executes.
func hasAggregation(stmt string) bool {
	lower := strings.ToLower(stmt)
	for _, kw := range unsupportedClauses {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
