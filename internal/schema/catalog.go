package schema

import (
	"fmt"
	"os"
	"strings"
)

// Column is a named, typed column.
type Column struct {
	Name string
	Type string
}

// Table describes one table in the catalog.
type Table struct {
	Name       string
	PrimaryKey string
	Columns    []Column
}

// Relationship is a foreign key: ChildTable.FKColumn references
// ParentTable.PKColumn.
type Relationship struct {
	ChildTable  string
	FKColumn    string
	ParentTable string
	PKColumn    string
}

// Catalog is the static schema description shared read-only by all requests.
// It is loaded once at startup and never mutated afterwards.
type Catalog struct {
	Tables        []Table
	Relationships []Relationship
	TenantTable   string // the table whose rows are shops (tenants)
}

// Default returns the built-in sales catalog matching the migrations.
func Default() *Catalog {
	return &Catalog{
		TenantTable: "shops",
		Tables: []Table{
			{
				Name:       "shops",
				PrimaryKey: "id",
				Columns: []Column{
					{Name: "id", Type: "TEXT"},
					{Name: "owner_phone", Type: "TEXT"},
					{Name: "shop_name", Type: "TEXT"},
				},
			},
			{
				Name:       "items",
				PrimaryKey: "id",
				Columns: []Column{
					{Name: "id", Type: "TEXT"},
					{Name: "shop_id", Type: "TEXT"},
					{Name: "item_name", Type: "TEXT"},
					{Name: "stock_quantity", Type: "INTEGER"},
					{Name: "expiry_date", Type: "DATE"},
				},
			},
			{
				Name:       "sales",
				PrimaryKey: "id",
				Columns: []Column{
					{Name: "id", Type: "TEXT"},
					{Name: "item_id", Type: "TEXT"},
					{Name: "item_name", Type: "TEXT"},
					{Name: "quantity_sold", Type: "INTEGER"},
					{Name: "profit", Type: "REAL"},
					{Name: "sale_date", Type: "DATE"},
					{Name: "expiry_date", Type: "DATE"},
				},
			},
		},
		Relationships: []Relationship{
			{ChildTable: "items", FKColumn: "shop_id", ParentTable: "shops", PKColumn: "id"},
			{ChildTable: "sales", FKColumn: "item_id", ParentTable: "items", PKColumn: "id"},
		},
	}
}

// Load returns the catalog parsed from the DDL file at path, or the built-in
// default when the file is absent or yields no tables.
func Load(path string) *Catalog {
	def := Default()
	if path == "" {
		return def
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return def
	}
	c := FromDDL(string(data))
	if len(c.Tables) == 0 {
		return def
	}
	c.TenantTable = def.TenantTable
	if !c.HasTable(c.TenantTable) && len(c.Tables) > 0 {
		c.TenantTable = c.Tables[0].Name
	}
	return c
}

// FromDDL extracts tables, columns and REFERENCES relationships from CREATE
// TABLE statements. The scanner is intentionally forgiving: anything it does
// not understand is skipped rather than rejected.
func FromDDL(ddl string) *Catalog {
	c := &Catalog{}
	lower := strings.ToLower(ddl)
	idx := 0
	for {
		j := strings.Index(lower[idx:], "create table")
		if j == -1 {
			break
		}
		start := idx + j + len("create table")
		rest := strings.TrimSpace(ddl[start:])
		rest = strings.TrimPrefix(rest, "IF NOT EXISTS ")
		rest = strings.TrimPrefix(rest, "if not exists ")

		end := len(rest)
		if p := strings.IndexAny(rest, " (\n\r\t"); p != -1 {
			end = p
		}
		name := strings.TrimSpace(rest[:end])
		if strings.HasPrefix(strings.ToLower(name), "public.") {
			name = name[len("public."):]
		}
		name = strings.ToLower(strings.Trim(name, "\""))

		body := columnBody(rest[end:])
		if name != "" && body != "" {
			tbl, rels := parseTableBody(name, body)
			if !c.HasTable(name) {
				c.Tables = append(c.Tables, tbl)
				c.Relationships = append(c.Relationships, rels...)
			}
		}
		idx = start
	}
	return c
}

// columnBody returns the text between the outermost parentheses.
func columnBody(s string) string {
	open := strings.Index(s, "(")
	if open == -1 {
		return ""
	}
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[open+1 : i]
			}
		}
	}
	return s[open+1:]
}

func parseTableBody(table, body string) (Table, []Relationship) {
	tbl := Table{Name: table}
	var rels []Relationship
	for _, def := range splitTopLevel(body) {
		fields := strings.Fields(def)
		if len(fields) == 0 {
			continue
		}
		head := strings.ToLower(fields[0])
		// Table-level constraints carry no column of their own, but a
		// FOREIGN KEY constraint still declares a relationship.
		if head == "primary" || head == "foreign" || head == "constraint" || head == "unique" || head == "check" {
			if r, ok := tableConstraintFK(table, def); ok {
				rels = append(rels, r)
			}
			continue
		}
		col := Column{Name: strings.ToLower(strings.Trim(fields[0], "\"")), Type: "TEXT"}
		if len(fields) > 1 {
			col.Type = strings.ToUpper(fields[1])
		}
		tbl.Columns = append(tbl.Columns, col)

		if strings.Contains(strings.ToLower(def), "primary key") {
			tbl.PrimaryKey = col.Name
		}
		if parent, pk, ok := referencesTarget(def); ok {
			rels = append(rels, Relationship{
				ChildTable:  table,
				FKColumn:    col.Name,
				ParentTable: parent,
				PKColumn:    pk,
			})
		}
	}
	if tbl.PrimaryKey == "" && len(tbl.Columns) > 0 {
		tbl.PrimaryKey = tbl.Columns[0].Name
	}
	return tbl, rels
}

// referencesTarget parses a "REFERENCES parent(pk)" clause anywhere in def.
// The primary key defaults to "id" when the clause names no column.
func referencesTarget(def string) (parent, pk string, ok bool) {
	k := strings.Index(strings.ToLower(def), "references ")
	if k == -1 {
		return "", "", false
	}
	target := strings.TrimSpace(def[k+len("references "):])
	parent, pk = target, "id"
	if p := strings.Index(target, "("); p != -1 {
		parent = strings.TrimSpace(target[:p])
		if q := strings.Index(target, ")"); q > p {
			pk = strings.ToLower(strings.TrimSpace(target[p+1 : q]))
		}
	} else if p := strings.IndexAny(target, " \t"); p != -1 {
		parent = target[:p]
	}
	parent = strings.ToLower(strings.Trim(parent, "\","))
	if parent == "" {
		return "", "", false
	}
	return parent, pk, true
}

// tableConstraintFK extracts a single-column table-level
// "FOREIGN KEY (col) REFERENCES parent(pk)" constraint, with or without a
// leading CONSTRAINT name. Composite keys are skipped.
func tableConstraintFK(table, def string) (Relationship, bool) {
	k := strings.Index(strings.ToLower(def), "foreign key")
	if k == -1 {
		return Relationship{}, false
	}
	rest := def[k+len("foreign key"):]
	open := strings.Index(rest, "(")
	closing := strings.Index(rest, ")")
	if open == -1 || closing <= open {
		return Relationship{}, false
	}
	col := strings.ToLower(strings.Trim(strings.TrimSpace(rest[open+1:closing]), "\""))
	if col == "" || strings.Contains(col, ",") {
		return Relationship{}, false
	}
	parent, pk, ok := referencesTarget(rest[closing:])
	if !ok {
		return Relationship{}, false
	}
	return Relationship{ChildTable: table, FKColumn: col, ParentTable: parent, PKColumn: pk}, true
}

// splitTopLevel splits the column body on commas outside parentheses.
func splitTopLevel(body string) []string {
	var out []string
	depth, last := 0, 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(body[last:i]))
				last = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(body[last:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

// HasTable reports whether name is a known table (case-insensitive).
func (c *Catalog) HasTable(name string) bool {
	_, ok := c.Table(name)
	return ok
}

// Table returns the table description for name.
func (c *Catalog) Table(name string) (Table, bool) {
	name = strings.ToLower(name)
	for _, t := range c.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// TableNames returns table names in declaration order.
func (c *Catalog) TableNames() []string {
	names := make([]string, 0, len(c.Tables))
	for _, t := range c.Tables {
		names = append(names, t.Name)
	}
	return names
}

// PromptDDL renders the catalog as compact DDL-style text for model prompts.
func (c *Catalog) PromptDDL() string {
	var sb strings.Builder
	for _, t := range c.Tables {
		cols := make([]string, 0, len(t.Columns))
		for _, col := range t.Columns {
			cols = append(cols, col.Name+" "+col.Type)
		}
		fmt.Fprintf(&sb, "TABLE %s (%s)\n", t.Name, strings.Join(cols, ", "))
	}
	for _, r := range c.Relationships {
		fmt.Fprintf(&sb, "-- %s.%s references %s.%s\n", r.ChildTable, r.FKColumn, r.ParentTable, r.PKColumn)
	}
	return sb.String()
}

// parentOf returns the relationship from child to parent, if declared.
func (c *Catalog) parentOf(child, parent string) (Relationship, bool) {
	for _, r := range c.Relationships {
		if r.ChildTable == child && r.ParentTable == parent {
			return r, true
		}
	}
	return Relationship{}, false
}
