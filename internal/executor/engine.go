// Package executor provides the two interchangeable query backends: a
// direct relational engine and a SQL-to-REST planner.
package executor

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukaan-ai/salesbot/internal/domain"
	"github.com/dukaan-ai/salesbot/internal/metrics"
)

// Engine runs statements directly against a SQL database. Engine errors are
// propagated to the caller as-is; SQL correctness errors are not transient,
// so there is no retry.
type Engine struct {
	db *sql.DB
}

func NewEngine(db *sql.DB) *Engine {
	return &Engine{db: db}
}

// Execute runs the statement verbatim. The generated SQL already carries any
// tenant filter (the prompt includes the scoping clause), so tenantID is not
// used by this backend.
func (e *Engine) Execute(ctx context.Context, sqlText string, tenantID string) (*domain.ExecutionResult, error) {
	start := time.Now()
	defer func() {
		metrics.QueryDuration.WithLabelValues("engine").Observe(time.Since(start).Seconds())
	}()

	if !isSelect(sqlText) {
		return nil, fmt.Errorf("%w: only SELECT is executed", domain.ErrUnsupportedStatement)
	}
	if e.db == nil {
		return nil, &domain.BackendError{Backend: "engine", Err: fmt.Errorf("database not available")}
	}

	rows, err := e.db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, &domain.BackendError{Backend: "engine", Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &domain.BackendError{Backend: "engine", Err: err}
	}

	result := &domain.ExecutionResult{Columns: cols, Rows: [][]interface{}{}}
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		scans := make([]interface{}, len(cols))
		for i := range vals {
			scans[i] = &vals[i]
		}
		if err := rows.Scan(scans...); err != nil {
			return nil, &domain.BackendError{Backend: "engine", Err: err}
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.BackendError{Backend: "engine", Err: err}
	}
	return result, nil
}
