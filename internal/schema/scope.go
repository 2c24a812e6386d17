package schema

import "strings"

// ScopeKind classifies how a table relates to the tenant-owning table.
type ScopeKind int

const (
	// ScopeNone: the table has no known path to the tenant table; no
	// tenant filter is applied.
	ScopeNone ScopeKind = iota
	// ScopeOwner: the table IS the tenant table; filter its primary key.
	ScopeOwner
	// ScopeDirect: the table references the tenant table; filter the
	// foreign key column.
	ScopeDirect
	// ScopeIndirect: the table is two hops away; resolve the intermediate
	// table first and semi-join client side.
	ScopeIndirect
)

// Scope describes the tenant filter for one table.
type Scope struct {
	Kind ScopeKind

	// FilterColumn is the column compared against the tenant id for
	// ScopeOwner and ScopeDirect.
	FilterColumn string

	// For ScopeIndirect: fetch Intermediate rows where IntermediateFK
	// equals the tenant id, collect their IntermediatePK values, then keep
	// target rows whose TargetFK is in that set.
	Intermediate   string
	IntermediateFK string
	IntermediatePK string
	TargetFK       string
}

// TenantScope resolves the scoping strategy for table by its role relative
// to the tenant-owning table.
func (c *Catalog) TenantScope(table string) Scope {
	table = strings.ToLower(table)
	if table == c.TenantTable {
		pk := "id"
		if t, ok := c.Table(table); ok && t.PrimaryKey != "" {
			pk = t.PrimaryKey
		}
		return Scope{Kind: ScopeOwner, FilterColumn: pk}
	}

	if r, ok := c.parentOf(table, c.TenantTable); ok {
		return Scope{Kind: ScopeDirect, FilterColumn: r.FKColumn}
	}

	// Two hops: table -> intermediate -> tenant table.
	for _, r1 := range c.Relationships {
		if r1.ChildTable != table {
			continue
		}
		if r2, ok := c.parentOf(r1.ParentTable, c.TenantTable); ok {
			return Scope{
				Kind:           ScopeIndirect,
				Intermediate:   r1.ParentTable,
				IntermediateFK: r2.FKColumn,
				IntermediatePK: r1.PKColumn,
				TargetFK:       r1.FKColumn,
			}
		}
	}

	return Scope{Kind: ScopeNone}
}
