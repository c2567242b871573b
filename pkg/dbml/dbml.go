// Package dbml renders the live database schema as DBML (Database Markup
// Language) documentation.
package dbml

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/wajiddaudtamboli/careercompass/pkg/executor"
)

// Generator handles DBML generation from PostgreSQL databases
type Generator struct {
	exec executor.Executor
}

// Options configures DBML generation
type Options struct {
	Schema        string   // empty means public
	ExcludeTables []string // tables left out of the output
}

// Column is one column of a table
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Default  string
	PK       bool
}

type Table struct {
	Name    string
	Columns []Column
}

// Ref is a foreign key between two columns
type Ref struct {
	Table, Column       string
	RefTable, RefColumn       string
}

// Schema is everything Write renders
type Schema struct {
	Tables []Table
	Refs   []Ref
}

func New(exec executor.Executor) *Generator {
	return &Generator{exec: exec}
}

const columnsQuery = `SELECT table_name, column_name, data_type, is_nullable, column_default
FROM information_schema.columns
WHERE table_schema = $1
ORDER BY table_name, ordinal_position`

const constraintsQuery = `SELECT tc.constraint_type, kcu.table_name, kcu.column_name,
       ccu.table_name AS ref_table, ccu.column_name AS ref_column
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
JOIN information_schema.constraint_column_usage ccu
  ON tc.constraint_name = ccu.constraint_name AND tc.table_schema = ccu.table_schema
WHERE tc.table_schema = $1 AND tc.constraint_type IN ('PRIMARY KEY', 'FOREIGN KEY')
ORDER BY kcu.table_name, kcu.column_name`

// Inspect reads the tables, primary keys and foreign keys of the schema
func (g *Generator) Inspect(ctx context.Context, opts Options) (*Schema, error) {
	schemaName := opts.Schema
	if schemaName == "" {
		schemaName = "public"
	}
	excluded := make(map[string]bool, len(opts.ExcludeTables))
	for _, t := range opts.ExcludeTables {
		excluded[strings.TrimSpace(t)] = true
	}

	cols, err := g.exec.Query(ctx, columnsQuery, schemaName)
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}
	cons, err := g.exec.Query(ctx, constraintsQuery, schemaName)
	if err != nil {
		return nil, fmt.Errorf("reading constraints: %w", err)
	}

	pks := make(map[string]bool)
	out := &Schema{}
	for i := 0; i < cons.Len(); i++ {
		table, column := cons.String(i, 1), cons.String(i, 2)
		if excluded[table] {
			continue
		}
		switch cons.String(i, 0) {
		case "PRIMARY KEY":
			pks[table+"."+column] = true
		case "FOREIGN KEY":
			if excluded[cons.String(i, 3)] {
				continue
			}
			out.Refs = append(out.Refs, Ref{Table: table, Column: column, RefTable: cons.String(i, 3), RefColumn: cons.String(i, 4)})
		}
	}

	index := make(map[string]int)
	for i := 0; i < cols.Len(); i++ {
		table := cols.String(i, 0)
		if excluded[table] {
			continue
		}
		pos, ok := index[table]
		if !ok {
			pos = len(out.Tables)
			index[table] = pos
			out.Tables = append(out.Tables, Table{Name: table})
		}
		name := cols.String(i, 1)
		out.Tables[pos].Columns = append(out.Tables[pos].Columns, Column{
			Name:     name,
			Type:     cols.String(i, 2),
			Nullable: cols.String(i, 3) == "YES",
			Default:  cols.String(i, 4),
			PK:       pks[table+"."+name],
		})
	}

	sort.Slice(out.Tables, func(i, j int) bool { return out.Tables[i].Name < out.Tables[j].Name })
	return out, nil
}

// Generate inspects the database and writes its DBML to w
func (g *Generator) Generate(ctx context.Context, w io.Writer, opts Options) error {
	s, err := g.Inspect(ctx, opts)
	if err != nil {
		return err
	}
	return Write(w, s)
}

// Write renders s as DBML
func Write(w io.Writer, s *Schema) error {
	var b strings.Builder
	for i, t := range s.Tables {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Table %s {\n", ident(t.Name))
		for _, c := range t.Columns {
			fmt.Fprintf(&b, "  %s %s", ident(c.Name), ident(c.Type))
			if attrs := c.attributes(); len(attrs) > 0 {
				fmt.Fprintf(&b, " [%s]", strings.Join(attrs, ", "))
			}
			b.WriteString("\n")
		}
		b.WriteString("}\n")
	}

	if len(s.Refs) > 0 {
		b.WriteString("\n")
	}
	for _, r := range s.Refs {
		fmt.Fprintf(&b, "Ref: %s.%s > %s.%s\n", ident(r.Table), ident(r.Column), ident(r.RefTable), ident(r.RefColumn))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (c Column) attributes() []string {
	var attrs []string
	if c.PK {
		attrs = append(attrs, "pk")
	}
	switch {
	case strings.HasPrefix(c.Default, "nextval("):
		attrs = append(attrs, "increment")
	case c.Default != "":
		attrs = append(attrs, "default: `"+c.Default+"`")
	}
	if !c.Nullable && !c.PK {
		attrs = append(attrs, "not null")
	}
	return attrs
}

// ident quotes names DBML cannot take bare, such as "character varying"
func ident(s string) string {
	for _, r := range s {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
		}
	}
	return s
}
