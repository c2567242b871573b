// Package backup writes and replays data-only SQL backups.
//
// A backup is a plain SQL script. For every table it holds a comment header,
// one TRUNCATE ... CASCADE and one INSERT per row. Tables are written parents
// first so that replaying a TRUNCATE never cascades into rows restored
// earlier in the script. Schema is not captured; it is expected to come from
// the shipped schema files.
package backup

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/wajiddaudtamboli/careercompass/pkg/executor"
)

// TableSummary is the number of rows written for one table
type TableSummary struct {
	Name string
	Rows int
}

// Summary describes a written backup
type Summary struct {
	CreatedAt time.Time
	Tables    []TableSummary
}

// Rows returns the total number of rows written
func (s *Summary) Rows() int {
	n := 0
	for _, t := range s.Tables {
		n += t.Rows
	}
	return n
}

// Writer serialises table data
type Writer struct {
	exec executor.Executor
	now  func() time.Time
}

// NewWriter creates a Writer reading through exec
func NewWriter(exec executor.Executor) *Writer {
	return &Writer{exec: exec, now: time.Now}
}

// Write dumps every table of the public schema to out
func (w *Writer) Write(ctx context.Context, out io.Writer) (*Summary, error) {
	tables, err := ListTables(ctx, w.exec)
	if err != nil {
		return nil, err
	}
	edges, err := foreignKeys(ctx, w.exec)
	if err != nil {
		return nil, err
	}
	tables = ParentsFirst(tables, edges)

	sum := &Summary{CreatedAt: w.now().UTC()}
	fmt.Fprintf(out, "-- Career Compass data backup\n-- Created: %s\n-- Tables: %d\n\n",
		sum.CreatedAt.Format(time.RFC3339), len(tables))

	for _, table := range tables {
		n, err := w.table(ctx, out, table)
		if err != nil {
			return nil, fmt.Errorf("backing up %s: %w", table, err)
		}
		sum.Tables = append(sum.Tables, TableSummary{Name: table, Rows: n})
	}
	return sum, nil
}

func (w *Writer) table(ctx context.Context, out io.Writer, table string) (int, error) {
	ident := pq.QuoteIdentifier(table)
	res, err := w.exec.Query(ctx, "SELECT * FROM "+ident+" ORDER BY 1")
	if err != nil {
		return 0, err
	}

	cols := make([]string, len(res.Columns))
	for i, c := range res.Columns {
		cols[i] = pq.QuoteIdentifier(c)
	}
	colList := strings.Join(cols, ", ")
	idCol := -1
	for i, c := range res.Columns {
		if c == "id" {
			idCol = i
		}
	}

	fmt.Fprintf(out, "-- Table: %s (%d rows)\n", table, res.Len())
	fmt.Fprintf(out, "TRUNCATE TABLE %s CASCADE;\n", ident)

	serial := false
	for i, row := range res.Rows {
		values := make([]string, len(row))
		for j, v := range row {
			values[j] = Literal(v)
		}
		fmt.Fprintf(out, "INSERT INTO %s (%s) VALUES (%s);\n", ident, colList, strings.Join(values, ", "))
		if idCol >= 0 {
			if _, ok := res.Value(i, idCol).(int64); ok {
				serial = true
			}
		}
	}

	if serial {
		fmt.Fprintf(out, "SELECT setval(pg_get_serial_sequence(%s, 'id'), MAX(id)) FROM %s;\n",
			quote(table), ident)
	}
	_, err = io.WriteString(out, "\n")
	return res.Len(), err
}

// Literal renders a driver value as a SQL literal
func Literal(v any) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if t {
			return "TRUE"
		}
		return "FALSE"
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return quote(strconv.FormatFloat(t, 'g', -1, 64))
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case time.Time:
		return quote(t.Format(time.RFC3339Nano))
	case []byte:
		return quote(string(t))
	case string:
		return quote(t)
	default:
		return quote(fmt.Sprint(t))
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// ListTables returns every table of the public schema, sorted by name
func ListTables(ctx context.Context, exec executor.Executor) ([]string, error) {
	res, err := exec.Query(ctx, "SELECT tablename FROM pg_catalog.pg_tables WHERE schemaname = 'public' ORDER BY tablename")
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	return res.Column(0), nil
}

// Edge is a foreign key from Child to Parent
type Edge struct {
	Child, Parent string
}

func foreignKeys(ctx context.Context, exec executor.Executor) ([]Edge, error) {
	res, err := exec.Query(ctx, `SELECT conrelid::regclass::text AS child, confrelid::regclass::text AS parent
FROM pg_constraint
WHERE contype = 'f' AND connamespace = 'public'::regnamespace`)
	if err != nil {
		return nil, fmt.Errorf("listing foreign keys: %w", err)
	}
	edges := make([]Edge, 0, res.Len())
	for i := 0; i < res.Len(); i++ {
		edges = append(edges, Edge{
			Child:  strings.Trim(res.String(i, 0), `"`),
			Parent: strings.Trim(res.String(i, 1), `"`),
		})
	}
	return edges, nil
}

// ParentsFirst orders tables so that every referenced table precedes the
// tables referencing it. Ties keep name order; tables caught in a cycle are
// appended in name order.
func ParentsFirst(tables []string, edges []Edge) []string {
	known := make(map[string]bool, len(tables))
	for _, t := range tables {
		known[t] = true
	}

	indegree := make(map[string]int, len(tables))
	children := make(map[string][]string)
	for _, e := range edges {
		if e.Child == e.Parent || !known[e.Child] || !known[e.Parent] {
			continue
		}
		indegree[e.Child]++
		children[e.Parent] = append(children[e.Parent], e.Child)
	}

	var ready []string
	for _, t := range tables {
		if indegree[t] == 0 {
			ready = append(ready, t)
		}
	}
	sort.Strings(ready)

	ordered := make([]string, 0, len(tables))
	done := make(map[string]bool, len(tables))
	for len(ready) > 0 {
		t := ready[0]
		ready = ready[1:]
		ordered = append(ordered, t)
		done[t] = true
		for _, c := range children[t] {
			indegree[c]--
			if indegree[c] == 0 {
				ready = append(ready, c)
				sort.Strings(ready)
			}
		}
	}

	var rest []string
	for _, t := range tables {
		if !done[t] {
			rest = append(rest, t)
		}
	}
	sort.Strings(rest)
	return append(ordered, rest...)
}
