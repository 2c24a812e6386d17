package executor

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaan-ai/salesbot/internal/domain"
	"github.com/dukaan-ai/salesbot/internal/schema"
)

// fakeTables serves canned records and applies equality filters the way the
// real REST API would.
type fakeTables struct {
	data  map[string][]Record
	calls []string
}

func (f *fakeTables) Fetch(ctx context.Context, table string, eq *Eq) ([]Record, error) {
	call := table
	if eq != nil {
		call = fmt.Sprintf("%s?%s=eq.%s", table, eq.Column, eq.Value)
	}
	f.calls = append(f.calls, call)

	rows, ok := f.data[table]
	if !ok {
		return nil, fmt.Errorf("no such table %q", table)
	}
	if eq == nil {
		return rows, nil
	}
	var out []Record
	for _, r := range rows {
		if valueKey(r.Fields[eq.Column]) == eq.Value {
			out = append(out, r)
		}
	}
	return out, nil
}

func rec(keys []string, vals ...interface{}) Record {
	fields := make(map[string]interface{}, len(keys))
	for i, k := range keys {
		fields[k] = vals[i]
	}
	return Record{Fields: fields, Keys: keys}
}

var itemKeys = []string{"id", "shop_id", "item_name"}
var saleKeys = []string{"id", "item_id", "item_name", "quantity_sold", "profit"}

func testTables() *fakeTables {
	return &fakeTables{data: map[string][]Record{
		"shops": {
			rec([]string{"id", "owner_phone", "shop_name"}, "shopA", "911111", "A Store"),
			rec([]string{"id", "owner_phone", "shop_name"}, "shopB", "922222", "B Store"),
		},
		"items": {
			rec(itemKeys, "I1", "shopA", "Milk"),
			rec(itemKeys, "I2", "shopA", "Bread"),
			rec(itemKeys, "I3", "shopB", "Eggs"),
		},
		"sales": {
			rec(saleKeys, "S1", "I1", "Milk", 10.0, 4.5),
			rec(saleKeys, "S2", "I2", "Bread", 3.0, 1.25),
			rec(saleKeys, "S3", "I3", "Eggs", 7.0, 2.0),
			rec(saleKeys, "S4", "I1", "Milk", 2.0, 0.9),
		},
	}}
}

func newPlanner(tables TableFetcher) *RESTPlanner {
	return NewRESTPlanner(tables, schema.Default(), nil)
}

func TestPlannerOwnerTableScope(t *testing.T) {
	tables := testTables()
	p := newPlanner(tables)

	res, err := p.Execute(context.Background(), "SELECT * FROM shops", "shopA")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, []string{"id", "owner_phone", "shop_name"}, res.Columns)
	assert.Equal(t, "shopA", res.Rows[0][0])
	assert.Equal(t, []string{"shops?id=eq.shopA"}, tables.calls)
}

func TestPlannerDirectFKScope(t *testing.T) {
	tables := testTables()
	p := newPlanner(tables)

	res, err := p.Execute(context.Background(), "SELECT * FROM items;", "shopA")
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, []string{"items?shop_id=eq.shopA"}, tables.calls)
}

func TestPlannerTwoHopSemiJoin(t *testing.T) {
	// shopA's items are {I1, I2}; sales reference I1, I2 and I3. Only the
	// rows referencing I1 or I2 survive the client-side semi-join.
	tables := testTables()
	p := newPlanner(tables)

	res, err := p.Execute(context.Background(), "SELECT * FROM sales", "shopA")
	require.NoError(t, err)

	assert.Equal(t, []string{"items?shop_id=eq.shopA", "sales"}, tables.calls)
	require.Len(t, res.Rows, 3)
	ids := []interface{}{res.Rows[0][0], res.Rows[1][0], res.Rows[2][0]}
	assert.Equal(t, []interface{}{"S1", "S2", "S4"}, ids)
}

func TestPlannerUnscopedFullScan(t *testing.T) {
	tables := testTables()
	p := newPlanner(tables)

	res, err := p.Execute(context.Background(), "SELECT * FROM sales", "")
	require.NoError(t, err)
	assert.Len(t, res.Rows, 4)
	assert.Equal(t, []string{"sales"}, tables.calls)
}

func TestPlannerEmptyResult(t *testing.T) {
	tables := &fakeTables{data: map[string][]Record{"sales": nil, "items": nil}}
	p := newPlanner(tables)

	res, err := p.Execute(context.Background(), "SELECT * FROM sales", "shopA")
	require.NoError(t, err)
	assert.Empty(t, res.Columns)
	assert.Empty(t, res.Rows)
}

func TestPlannerRejectsNonSelect(t *testing.T) {
	p := newPlanner(testTables())

	for _, stmt := range []string{
		"DELETE FROM sales",
		"UPDATE items SET item_name = 'x'",
		"DROP TABLE shops",
	} {
		_, err := p.Execute(context.Background(), stmt, "shopA")
		require.ErrorIs(t, err, domain.ErrUnsupportedStatement, stmt)
	}
}

func TestPlannerRejectsUnknownShapes(t *testing.T) {
	p := newPlanner(testTables())

	_, err := p.Execute(context.Background(), "SELECT 1", "")
	require.ErrorIs(t, err, domain.ErrUnsupportedStatement)

	_, err = p.Execute(context.Background(), "SELECT * FROM invoices", "")
	require.ErrorIs(t, err, domain.ErrUnsupportedStatement)
}

func TestPlannerBackendErrorWrapped(t *testing.T) {
	tables := &fakeTables{data: map[string][]Record{}}
	p := newPlanner(tables)

	_, err := p.Execute(context.Background(), "SELECT * FROM sales", "")
	require.Error(t, err)
	var be *domain.BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "rest", be.Backend)
}

func TestPlannerFlattensEmbeddedRecords(t *testing.T) {
	tables := &fakeTables{data: map[string][]Record{
		"items": {
			rec([]string{"id", "shop_id", "shop"}, "I1", "shopA",
				map[string]interface{}{"id": "shopA", "shop_name": "A Store"}),
			rec([]string{"id", "shop_id", "shop"}, "I2", "shopA",
				map[string]interface{}{"id": "shopA", "opaque": true}),
		},
	}}
	p := newPlanner(tables)

	res, err := p.Execute(context.Background(), "SELECT * FROM items", "shopA")
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	// A display field wins over the raw structure.
	assert.Equal(t, "A Store", res.Rows[0][2])
	// Without one, the structure is string-rendered.
	assert.Equal(t, `{"id":"shopA","opaque":true}`, res.Rows[1][2])
}

// The REST backend does not execute grouping, ordering or aggregates: a
// question like "top 5 selling items" still runs as a plain tenant-scoped
// fetch of the sales rows, unaggregated.
func TestPlannerTopSellingItemsRunsUnaggregated(t *testing.T) {
	tables := testTables()
	p := newPlanner(tables)

	stmt := "SELECT item_name, SUM(quantity_sold) AS total FROM sales GROUP BY item_name ORDER BY total DESC LIMIT 5"
	res, err := p.Execute(context.Background(), stmt, "shopA")
	require.NoError(t, err)

	// Plan: items filtered to the shop, then sales semi-joined to them.
	assert.Equal(t, []string{"items?shop_id=eq.shopA", "sales"}, tables.calls)
	// Raw scoped rows come back, not a 5-row aggregate.
	assert.Len(t, res.Rows, 3)
	assert.Equal(t, saleKeys, res.Columns)
}
