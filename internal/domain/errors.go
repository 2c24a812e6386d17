package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the query pipeline. Only provider-level failures are
// absorbed (the cascade advances past them); everything else surfaces to the
// outermost handler, which turns it into a localized reply.
var (
	// ErrGenerationExhausted means every configured provider, including the
	// fallback, failed to produce a SELECT statement.
	ErrGenerationExhausted = errors.New("sql generation exhausted: all providers failed")

	// ErrNotSQLLike means a completion contained no extractable SELECT.
	// The cascade treats it like any other provider failure.
	ErrNotSQLLike = errors.New("completion is not SQL-like")

	// ErrTenantNotFound means the caller identity is unregistered. Callers
	// must treat this as "no tenant scoping applies", not as fatal.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrUnsupportedStatement means the planner cannot translate the SQL.
	ErrUnsupportedStatement = errors.New("unsupported statement")
)

// BackendError wraps a failure from a query backend after a valid plan.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
