package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDDL(t *testing.T) {
	ddl := `
CREATE TABLE shops (
    id TEXT PRIMARY KEY,
    owner_phone TEXT NOT NULL,
    shop_name TEXT
);

CREATE TABLE IF NOT EXISTS items (
    id TEXT PRIMARY KEY,
    shop_id TEXT REFERENCES shops(id),
    item_name TEXT
);

CREATE TABLE public.sales (
    id TEXT PRIMARY KEY,
    item_id TEXT REFERENCES items(id),
    profit REAL,
    UNIQUE (id)
);
`
	c := FromDDL(ddl)
	require.Equal(t, []string{"shops", "items", "sales"}, c.TableNames())

	shops, ok := c.Table("shops")
	require.True(t, ok)
	assert.Equal(t, "id", shops.PrimaryKey)
	assert.Len(t, shops.Columns, 3)

	sales, ok := c.Table("SALES")
	require.True(t, ok)
	assert.Len(t, sales.Columns, 3) // UNIQUE constraint is not a column

	require.Len(t, c.Relationships, 2)
	assert.Equal(t, Relationship{ChildTable: "items", FKColumn: "shop_id", ParentTable: "shops", PKColumn: "id"}, c.Relationships[0])
	assert.Equal(t, Relationship{ChildTable: "sales", FKColumn: "item_id", ParentTable: "items", PKColumn: "id"}, c.Relationships[1])
}

func TestFromDDLTableLevelForeignKey(t *testing.T) {
	ddl := `
CREATE TABLE shops (
    id TEXT PRIMARY KEY,
    owner_phone TEXT NOT NULL
);

CREATE TABLE items (
    id TEXT PRIMARY KEY,
    shop_id TEXT NOT NULL,
    item_name TEXT,
    CONSTRAINT fk_items_shop FOREIGN KEY (shop_id) REFERENCES shops(id)
);

CREATE TABLE sales (
    id TEXT PRIMARY KEY,
    item_id TEXT NOT NULL,
    profit REAL,
    FOREIGN KEY (item_id) REFERENCES items(id)
);
`
	c := FromDDL(ddl)
	require.Len(t, c.Relationships, 2)
	assert.Equal(t, Relationship{ChildTable: "items", FKColumn: "shop_id", ParentTable: "shops", PKColumn: "id"}, c.Relationships[0])
	assert.Equal(t, Relationship{ChildTable: "sales", FKColumn: "item_id", ParentTable: "items", PKColumn: "id"}, c.Relationships[1])

	// Tenant scoping works the same as with inline REFERENCES.
	c.TenantTable = "shops"
	direct := c.TenantScope("items")
	assert.Equal(t, ScopeDirect, direct.Kind)
	assert.Equal(t, "shop_id", direct.FilterColumn)
	assert.Equal(t, ScopeIndirect, c.TenantScope("sales").Kind)

	// The constraint lines are not columns.
	items, ok := c.Table("items")
	require.True(t, ok)
	assert.Len(t, items.Columns, 3)
}

func TestTenantScope(t *testing.T) {
	c := Default()

	owner := c.TenantScope("shops")
	assert.Equal(t, ScopeOwner, owner.Kind)
	assert.Equal(t, "id", owner.FilterColumn)

	direct := c.TenantScope("items")
	assert.Equal(t, ScopeDirect, direct.Kind)
	assert.Equal(t, "shop_id", direct.FilterColumn)

	indirect := c.TenantScope("sales")
	assert.Equal(t, ScopeIndirect, indirect.Kind)
	assert.Equal(t, "items", indirect.Intermediate)
	assert.Equal(t, "shop_id", indirect.IntermediateFK)
	assert.Equal(t, "id", indirect.IntermediatePK)
	assert.Equal(t, "item_id", indirect.TargetFK)

	none := c.TenantScope("unknown_table")
	assert.Equal(t, ScopeNone, none.Kind)
}

func TestPromptDDL(t *testing.T) {
	out := Default().PromptDDL()
	assert.Contains(t, out, "TABLE shops (")
	assert.Contains(t, out, "TABLE sales (")
	assert.Contains(t, out, "sales.item_id references items.id")
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	c := Load("/nonexistent/schema.sql")
	require.Equal(t, Default().TableNames(), c.TableNames())
}
