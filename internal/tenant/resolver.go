// Package tenant maps caller identities (phone numbers) to shops. An
// unregistered identity is not an error condition: callers treat
// ErrTenantNotFound as "no tenant scoping applies" and serve the query
// unscoped.
package tenant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/dukaan-ai/salesbot/internal/domain"
	"github.com/dukaan-ai/salesbot/internal/executor"
)

// RESTResolver looks up the shop owner in the shops table of the REST
// backend by exact phone match.
type RESTResolver struct {
	tables      executor.TableFetcher
	table       string
	phoneColumn string
	idColumn    string
}

func NewRESTResolver(tables executor.TableFetcher) *RESTResolver {
	return &RESTResolver{
		tables:      tables,
		table:       "shops",
		phoneColumn: "owner_phone",
		idColumn:    "id",
	}
}

func (r *RESTResolver) Resolve(ctx context.Context, ownerIdentity string) (domain.Tenant, error) {
	if ownerIdentity == "" {
		return domain.Tenant{}, domain.ErrTenantNotFound
	}
	records, err := r.tables.Fetch(ctx, r.table, &executor.Eq{Column: r.phoneColumn, Value: ownerIdentity})
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("resolve tenant: %w", err)
	}
	if len(records) == 0 {
		return domain.Tenant{}, domain.ErrTenantNotFound
	}
	id := idString(records[0].Fields[r.idColumn])
	if id == "" {
		return domain.Tenant{}, domain.ErrTenantNotFound
	}
	return domain.Tenant{ID: id, OwnerIdentity: ownerIdentity}, nil
}

func idString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

// SQLResolver looks up the shop owner directly in the relational store.
type SQLResolver struct {
	db *sql.DB
}

func NewSQLResolver(db *sql.DB) *SQLResolver {
	return &SQLResolver{db: db}
}

func (r *SQLResolver) Resolve(ctx context.Context, ownerIdentity string) (domain.Tenant, error) {
	if r.db == nil || ownerIdentity == "" {
		return domain.Tenant{}, domain.ErrTenantNotFound
	}
	var id string
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM shops WHERE owner_phone = $1 LIMIT 1", ownerIdentity).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Tenant{}, domain.ErrTenantNotFound
	}
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("resolve tenant: %w", err)
	}
	return domain.Tenant{ID: id, OwnerIdentity: ownerIdentity}, nil
}
