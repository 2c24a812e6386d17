package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dukaan-ai/salesbot/internal/domain"
	"github.com/dukaan-ai/salesbot/internal/metrics"
	"github.com/dukaan-ai/salesbot/internal/schema"
)

// TableFetcher is the slice of the REST client the planner needs.
type TableFetcher interface {
	Fetch(ctx context.Context, table string, eq *Eq) ([]Record, error)
}

// RESTPlanner executes a constrained SELECT subset against a
// resource-per-table REST API. The API supports only full scans and
// single-column equality filters, so tenant scoping across two tables is
// emulated with a client-side semi-join.
//
// Grouping, ordering and aggregate functions in the statement are NOT
// executed by this backend; the fetch runs as a plain tenant-scoped scan
// and a warning is logged.
type RESTPlanner struct {
	tables  TableFetcher
	catalog *schema.Catalog
	log     *zap.Logger
}

func NewRESTPlanner(tables TableFetcher, cat *schema.Catalog, log *zap.Logger) *RESTPlanner {
	if log == nil {
		log = zap.NewNop()
	}
	return &RESTPlanner{tables: tables, catalog: cat, log: log}
}

func (p *RESTPlanner) Execute(ctx context.Context, sqlText string, tenantID string) (*domain.ExecutionResult, error) {
	start := time.Now()
	defer func() {
		metrics.QueryDuration.WithLabelValues("rest").Observe(time.Since(start).Seconds())
	}()

	stmt := strings.TrimSpace(sqlText)
	if !isSelect(stmt) {
		return nil, fmt.Errorf("%w: only SELECT can be planned", domain.ErrUnsupportedStatement)
	}
	table, ok := primaryTable(stmt)
	if !ok {
		return nil, fmt.Errorf("%w: no FROM clause", domain.ErrUnsupportedStatement)
	}
	if !p.catalog.HasTable(table) {
		return nil, fmt.Errorf("%w: unknown table %q", domain.ErrUnsupportedStatement, table)
	}
	if hasAggregation(stmt) {
		p.log.Warn("grouping/ordering clauses are not executed by the rest backend",
			zap.String("table", table),
			zap.String("statement", stmt))
	}

	rows, err := p.fetchScoped(ctx, table, tenantID)
	if err != nil {
		return nil, &domain.BackendError{Backend: "rest", Err: err}
	}
	return shapeResult(rows), nil
}

// fetchScoped applies the tenant filter appropriate to the table's role.
func (p *RESTPlanner) fetchScoped(ctx context.Context, table, tenantID string) ([]Record, error) {
	if tenantID == "" {
		return p.tables.Fetch(ctx, table, nil)
	}

	scope := p.catalog.TenantScope(table)
	switch scope.Kind {
	case schema.ScopeOwner, schema.ScopeDirect:
		return p.tables.Fetch(ctx, table, &Eq{Column: scope.FilterColumn, Value: tenantID})

	case schema.ScopeIndirect:
		inter, err := p.tables.Fetch(ctx, scope.Intermediate, &Eq{Column: scope.IntermediateFK, Value: tenantID})
		if err != nil {
			return nil, err
		}
		keep := make(map[string]struct{}, len(inter))
		for _, r := range inter {
			keep[valueKey(r.Fields[scope.IntermediatePK])] = struct{}{}
		}

		// The API has no IN filter, so scan the target table and keep
		// rows whose foreign key is in the intermediate key set.
		all, err := p.tables.Fetch(ctx, table, nil)
		if err != nil {
			return nil, err
		}
		rows := all[:0:0]
		for _, r := range all {
			if _, ok := keep[valueKey(r.Fields[scope.TargetFK])]; ok {
				rows = append(rows, r)
			}
		}
		return rows, nil

	default:
		return p.tables.Fetch(ctx, table, nil)
	}
}

// shapeResult derives columns from the first record's key order; an empty
// record set yields an empty column list.
func shapeResult(rows []Record) *domain.ExecutionResult {
	if len(rows) == 0 {
		return &domain.ExecutionResult{Columns: []string{}, Rows: [][]interface{}{}}
	}

	columns := rows[0].Keys
	out := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		vals := make([]interface{}, len(columns))
		for i, col := range columns {
			vals[i] = flattenValue(r.Fields[col])
		}
		out = append(out, vals)
	}
	return &domain.ExecutionResult{Columns: columns, Rows: out}
}

// flattenValue reduces nested structures (embedded related records) to a
// display string, preferring a human-readable name field over the raw shape.
var displayFields = []string{"name", "item_name", "shop_name", "display_name", "title"}

func flattenValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for _, f := range displayFields {
			if d, ok := t[f]; ok {
				if s, ok := d.(string); ok && s != "" {
					return s
				}
			}
		}
		return renderJSON(t)
	case []interface{}:
		return renderJSON(t)
	default:
		return v
	}
}

func renderJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// valueKey canonicalizes a field value for set membership. JSON numbers
// arrive as float64; integral ones must compare equal to their string ids.
func valueKey(v interface{}) string {
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
