// Package executortest provides an in-memory executor.Executor for tests.
//
// The fake understands just enough SQL to track which tables exist, which
// columns they declare and which rows they hold: CREATE/DROP/TRUNCATE TABLE,
// INSERT ... VALUES, simple SELECT lists, COUNT(*), and the catalog queries
// issued by the db, migrate and backup packages. Other DDL (indexes,
// extensions, functions, ANALYZE) is accepted and recorded.
package executortest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wajiddaudtamboli/careercompass/pkg/executor"
)

var _ executor.Executor = (*Fake)(nil)

// QueryFunc answers a query intercepted by OnQuery
type QueryFunc func(query string, args []any) (*executor.Result, error)

type table struct {
	columns []string
	rows    []map[string]any
}

func (t *table) clone() *table {
	c := &table{columns: append([]string(nil), t.columns...)}
	for _, r := range t.rows {
		row := make(map[string]any, len(r))
		for k, v := range r {
			row[k] = v
		}
		c.rows = append(c.rows, row)
	}
	return c
}

type hook struct {
	substr string
	fn     QueryFunc
}

// Fake is an in-memory Executor
type Fake struct {
	mu         sync.Mutex
	tables     map[string]*table
	databases  map[string]bool
	indexes    map[string]bool
	foreignKey map[string][]string
	hooks      []hook
	failures   map[string]error

	// Statements records every statement executed, in order
	Statements []string
	// PingErr is returned by Ping when set
	PingErr error
	// Now is the server time reported by SELECT NOW()
	Now time.Time
}

// New creates an empty Fake
func New() *Fake {
	return &Fake{
		tables:     make(map[string]*table),
		databases:  make(map[string]bool),
		indexes:    make(map[string]bool),
		foreignKey: make(map[string][]string),
		failures:   make(map[string]error),
		Now:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// OnQuery intercepts every Query whose text contains substr
func (f *Fake) OnQuery(substr string, fn QueryFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hooks = append(f.hooks, hook{substr: substr, fn: fn})
}

// FailOn makes every statement containing substr fail with err
func (f *Fake) FailOn(substr string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[substr] = err
}

// AddForeignKey declares that child references parent
func (f *Fake) AddForeignKey(child, parent string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.foreignKey[child] = append(f.foreignKey[child], parent)
}

// Tables returns the names of every table, sorted
func (f *Fake) Tables() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tableNames()
}

// RowCount returns the number of rows in a table, or -1 if it does not exist
func (f *Fake) RowCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tables[name]
	if !ok {
		return -1
	}
	return len(t.rows)
}

// Rows returns a copy of the rows of a table
func (f *Fake) Rows(name string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tables[name]
	if !ok {
		return nil
	}
	return t.clone().rows
}

// HasIndex reports whether CREATE INDEX ran for name
func (f *Fake) HasIndex(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.indexes[name]
}

// HasDatabase reports whether CREATE DATABASE ran for name
func (f *Fake) HasDatabase(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.databases[name]
}

// Count returns how many recorded statements contain substr
func (f *Fake) Count(substr string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.Statements {
		if strings.Contains(s, substr) {
			n++
		}
	}
	return n
}

func (f *Fake) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.PingErr
}

func (f *Fake) Exec(ctx context.Context, query string, args ...any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exec(query, args)
}

func (f *Fake) ExecBatch(ctx context.Context, stmts []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	snapshot := make(map[string]*table, len(f.tables))
	for name, t := range f.tables {
		snapshot[name] = t.clone()
	}

	for i, stmt := range stmts {
		if err := f.exec(stmt, nil); err != nil {
			f.tables = snapshot
			return &executor.BatchError{Index: i + 1, Statement: stmt, Err: err}
		}
	}
	return nil
}

func (f *Fake) Query(ctx context.Context, query string, args ...any) (*executor.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	hooks := append([]hook(nil), f.hooks...)
	f.mu.Unlock()

	for _, h := range hooks {
		if strings.Contains(query, h.substr) {
			return h.fn(query, args)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.Statements = append(f.Statements, query)
	if err := f.injected(query); err != nil {
		return nil, err
	}
	return f.query(query, args)
}

func (f *Fake) injected(stmt string) error {
	for substr, err := range f.failures {
		if strings.Contains(stmt, substr) {
			return err
		}
	}
	return nil
}

func (f *Fake) tableNames() []string {
	names := make([]string, 0, len(f.tables))
	for name := range f.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f *Fake) exec(stmt string, args []any) error {
	f.Statements = append(f.Statements, stmt)
	if err := f.injected(stmt); err != nil {
		return err
	}

	toks := lex(stmt)
	if len(toks) == 0 {
		return nil
	}

	switch {
	case toks[0].is("CREATE"):
		return f.create(toks)
	case toks[0].is("DROP"):
		return f.drop(toks)
	case toks[0].is("TRUNCATE"):
		return f.truncate(toks)
	case toks[0].is("INSERT"):
		return f.insert(toks, args)
	case toks[0].is("SELECT"):
		// pg_advisory_xact_lock, setval and friends
		return nil
	case toks[0].is("ALTER"), toks[0].is("ANALYZE"), toks[0].is("VACUUM"),
		toks[0].is("COMMENT"), toks[0].is("SET"), toks[0].is("DO"),
		toks[0].is("GRANT"), toks[0].is("UPDATE"), toks[0].is("DELETE"):
		return nil
	}
	return fmt.Errorf("executortest: unsupported statement: %s", firstLine(stmt))
}

func (f *Fake) create(toks []token) error {
	i := 1
	if i < len(toks) && toks[i].is("OR") {
		// CREATE OR REPLACE FUNCTION / VIEW / TRIGGER
		return nil
	}
	if i < len(toks) && toks[i].is("UNIQUE") {
		i++
	}
	if i >= len(toks) {
		return fmt.Errorf("executortest: malformed CREATE")
	}

	kind := strings.ToUpper(toks[i].text)
	i++
	ifNotExists := false
	if i+2 < len(toks) && toks[i].is("IF") && toks[i+1].is("NOT") && toks[i+2].is("EXISTS") {
		ifNotExists = true
		i += 3
	}
	if i >= len(toks) {
		return fmt.Errorf("executortest: malformed CREATE %s", kind)
	}
	name := tableName(toks[i])

	switch kind {
	case "TABLE":
		if _, ok := f.tables[name]; ok {
			if ifNotExists {
				return nil
			}
			return fmt.Errorf("relation %q already exists", name)
		}
		cols, _ := groups(toks, i+1)
		t := &table{}
		for _, g := range cols {
			if len(g) == 0 || g[0].kind == tokPunct {
				continue
			}
			switch strings.ToUpper(g[0].text) {
			case "CONSTRAINT", "PRIMARY", "UNIQUE", "CHECK", "FOREIGN", "EXCLUDE":
				continue
			}
			t.columns = append(t.columns, tableName(g[0]))
		}
		f.tables[name] = t
	case "INDEX":
		if f.indexes[name] && !ifNotExists {
			return fmt.Errorf("relation %q already exists", name)
		}
		f.indexes[name] = true
	case "DATABASE":
		if f.databases[name] {
			return fmt.Errorf("database %q already exists", name)
		}
		f.databases[name] = true
	}
	return nil
}

func (f *Fake) drop(toks []token) error {
	if len(toks) < 2 {
		return fmt.Errorf("executortest: malformed DROP")
	}
	kind := strings.ToUpper(toks[1].text)
	i := 2
	ifExists := false
	if i+1 < len(toks) && toks[i].is("IF") && toks[i+1].is("EXISTS") {
		ifExists = true
		i += 2
	}

	for ; i < len(toks); i++ {
		t := toks[i]
		if t.kind == tokPunct {
			continue
		}
		if t.is("CASCADE") || t.is("RESTRICT") || t.is("WITH") || t.is("FORCE") {
			continue
		}
		name := tableName(t)
		switch kind {
		case "TABLE":
			if _, ok := f.tables[name]; !ok {
				if ifExists {
					continue
				}
				return fmt.Errorf("table %q does not exist", name)
			}
			delete(f.tables, name)
		case "DATABASE":
			if !f.databases[name] && !ifExists {
				return fmt.Errorf("database %q does not exist", name)
			}
			delete(f.databases, name)
		case "INDEX":
			delete(f.indexes, name)
		}
	}
	return nil
}

func (f *Fake) truncate(toks []token) error {
	i := 1
	if i < len(toks) && toks[i].is("TABLE") {
		i++
	}
	for ; i < len(toks); i++ {
		t := toks[i]
		if t.kind == tokPunct || t.is("CASCADE") || t.is("RESTRICT") || t.is("RESTART") || t.is("IDENTITY") {
			continue
		}
		name := tableName(t)
		tbl, ok := f.tables[name]
		if !ok {
			return fmt.Errorf("relation %q does not exist", name)
		}
		tbl.rows = nil
		f.cascade(name)
	}
	return nil
}

// cascade empties every table that references name
func (f *Fake) cascade(name string) {
	for child, parents := range f.foreignKey {
		for _, p := range parents {
			if p == name {
				if t, ok := f.tables[child]; ok && len(t.rows) > 0 {
					t.rows = nil
					f.cascade(child)
				}
			}
		}
	}
}

func (f *Fake) insert(toks []token, args []any) error {
	if len(toks) < 3 || !toks[1].is("INTO") {
		return fmt.Errorf("executortest: malformed INSERT")
	}
	name := tableName(toks[2])
	tbl, ok := f.tables[name]
	if !ok {
		return fmt.Errorf("relation %q does not exist", name)
	}

	i := 3
	cols := tbl.columns
	if i < len(toks) && toks[i].text == "(" {
		var named [][]token
		named, i = groups(toks, i)
		cols = make([]string, 0, len(named))
		for _, g := range named {
			if len(g) > 0 {
				cols = append(cols, tableName(g[0]))
			}
		}
	}
	if i >= len(toks) || !toks[i].is("VALUES") {
		return fmt.Errorf("executortest: only INSERT ... VALUES is supported")
	}
	i++

	for i < len(toks) && toks[i].text == "(" {
		var values [][]token
		values, i = groups(toks, i)
		if len(values) != len(cols) {
			return fmt.Errorf("INSERT has %d expressions but %d target columns", len(values), len(cols))
		}
		row := make(map[string]any, len(cols))
		for j, col := range cols {
			row[col] = literal(values[j], args)
		}
		tbl.rows = append(tbl.rows, row)

		if i < len(toks) && toks[i].text == "," {
			i++
			continue
		}
		break
	}
	return nil
}

func (f *Fake) query(query string, args []any) (*executor.Result, error) {
	switch {
	case strings.Contains(query, "pg_catalog.pg_tables"):
		res := &executor.Result{Columns: []string{"tablename"}}
		for _, name := range f.tableNames() {
			res.Rows = append(res.Rows, []any{name})
		}
		return res, nil
	case strings.Contains(query, "information_schema.tables"):
		name := ""
		if len(args) > 0 {
			name = executor.AsString(args[0])
		}
		_, ok := f.tables[name]
		return &executor.Result{Columns: []string{"exists"}, Rows: [][]any{{ok}}}, nil
	case strings.Contains(query, "pg_constraint"):
		res := &executor.Result{Columns: []string{"child", "parent"}}
		children := make([]string, 0, len(f.foreignKey))
		for child := range f.foreignKey {
			children = append(children, child)
		}
		sort.Strings(children)
		for _, child := range children {
			for _, parent := range f.foreignKey[child] {
				res.Rows = append(res.Rows, []any{child, parent})
			}
		}
		return res, nil
	case strings.Contains(query, "information_schema.columns"):
		return f.columnsOf(), nil
	case strings.Contains(query, "pg_total_relation_size"):
		return &executor.Result{Columns: []string{"size"}, Rows: [][]any{{"16 kB"}}}, nil
	case strings.Contains(query, "pg_database"):
		name := ""
		if len(args) > 0 {
			name = executor.AsString(args[0])
		}
		res := &executor.Result{Columns: []string{"?column?"}}
		if f.databases[name] {
			res.Rows = append(res.Rows, []any{int64(1)})
		}
		return res, nil
	case strings.Contains(query, "version()"):
		return &executor.Result{
			Columns: []string{"now", "version"},
			Rows:    [][]any{{f.Now, "PostgreSQL 16.0 (executortest)"}},
		}, nil
	}
	return f.selectFrom(query)
}

// columnsOf answers an information_schema.columns listing for every table
func (f *Fake) columnsOf() *executor.Result {
	res := &executor.Result{Columns: []string{"table_name", "column_name", "data_type", "is_nullable", "column_default"}}
	for _, name := range f.tableNames() {
		for _, col := range f.tables[name].columns {
			res.Rows = append(res.Rows, []any{name, col, "text", "YES", nil})
		}
	}
	return res
}

func (f *Fake) selectFrom(query string) (*executor.Result, error) {
	toks := lex(query)
	if len(toks) == 0 || !toks[0].is("SELECT") {
		return nil, fmt.Errorf("executortest: unsupported query: %s", firstLine(query))
	}

	from := -1
	depth := 0
	for i, t := range toks {
		if t.text == "(" {
			depth++
		}
		if t.text == ")" {
			depth--
		}
		if depth == 0 && t.is("FROM") {
			from = i
			break
		}
	}
	if from < 0 || from+1 >= len(toks) {
		return nil, fmt.Errorf("executortest: unsupported query: %s", firstLine(query))
	}

	name := tableName(toks[from+1])
	tbl, ok := f.tables[name]
	if !ok {
		return nil, fmt.Errorf("relation %q does not exist", name)
	}

	list := toks[1:from]
	if len(list) >= 4 && list[0].is("COUNT") {
		return &executor.Result{Columns: []string{"count"}, Rows: [][]any{{int64(len(tbl.rows))}}}, nil
	}

	var cols []string
	if len(list) == 1 && list[0].text == "*" {
		cols = tbl.columns
	} else {
		for _, t := range list {
			if t.kind == tokWord || t.kind == tokIdent {
				cols = append(cols, tableName(t))
			}
		}
	}

	rows := tbl.clone().rows
	for i := from + 2; i+2 < len(toks); i++ {
		if toks[i].is("ORDER") && toks[i+1].is("BY") {
			key := tableName(toks[i+2])
			sort.SliceStable(rows, func(a, b int) bool {
				return executor.AsString(rows[a][key]) < executor.AsString(rows[b][key])
			})
			break
		}
	}

	res := &executor.Result{Columns: cols}
	for _, r := range rows {
		values := make([]any, len(cols))
		for j, c := range cols {
			values[j] = r[c]
		}
		res.Rows = append(res.Rows, values)
	}
	return res, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
