package db

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/wajiddaudtamboli/careercompass/pkg/backup"
	"github.com/wajiddaudtamboli/careercompass/pkg/executor"
	"github.com/wajiddaudtamboli/careercompass/pkg/migrate"
	"github.com/wajiddaudtamboli/careercompass/pkg/schema"
	"github.com/wajiddaudtamboli/careercompass/pkg/seed"
	"github.com/wajiddaudtamboli/careercompass/pkg/sqlfile"
)

// Logger receives progress messages from the manager
type Logger interface {
	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)    {}
func (nopLogger) Success(string, ...any) {}
func (nopLogger) Warn(string, ...any)    {}
func (nopLogger) Error(string, ...any)   {}

// Manager handles database setup operations over one executor
type Manager struct {
	exec          executor.Executor
	files         fs.FS
	migrationsDir string
	log           Logger
	state         State
}

// Option configures a Manager
type Option func(*Manager)

// WithFiles overrides the SQL files applied by the schema and seed phases
func WithFiles(fsys fs.FS) Option {
	return func(m *Manager) {
		m.files = fsys
	}
}

// WithMigrationsDir sets the directory read by the migrations phase. An
// empty dir skips migrations.
func WithMigrationsDir(dir string) Option {
	return func(m *Manager) {
		m.migrationsDir = dir
	}
}

// WithLogger sets the progress logger
func WithLogger(l Logger) Option {
	return func(m *Manager) {
		m.log = l
	}
}

// New creates a new Manager with the given executor
func New(exec executor.Executor, opts ...Option) *Manager {
	m := &Manager{
		exec: exec,
		log:  nopLogger{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.files == nil {
		// the embedded tree always exists
		m.files, _ = schema.FS("")
	}
	return m
}

// State returns the furthest setup state reached
func (m *Manager) State() State {
	return m.state
}

// SetupSchema applies the schema files, each in its own transaction, and
// returns how many statements ran
func (m *Manager) SetupSchema(ctx context.Context) (int, error) {
	total := 0
	for _, name := range schema.SchemaFiles {
		n, err := sqlfile.ApplyFS(ctx, m.exec, m.files, name)
		if err != nil {
			return total, err
		}
		m.log.Info("Applied %s (%d statements)", name, n)
		total += n
	}
	return total, nil
}

// IndexResult is the outcome of one CREATE INDEX
type IndexResult struct {
	Name string
	Err  error
}

// SetupIndexes creates every index. A failing index is logged and does not
// stop the others; the error reports how many failed.
func (m *Manager) SetupIndexes(ctx context.Context) ([]IndexResult, error) {
	results := make([]IndexResult, 0, len(schema.Indexes))
	failed := 0
	for _, idx := range schema.Indexes {
		err := m.exec.Exec(ctx, idx.SQL)
		if err != nil {
			failed++
			m.log.Warn("Index %s failed: %v", idx.Name, err)
		}
		results = append(results, IndexResult{Name: idx.Name, Err: err})
	}
	if failed > 0 {
		return results, fmt.Errorf("%d of %d indexes failed", failed, len(schema.Indexes))
	}
	return results, nil
}

// RunMigrations applies pending migrations and returns their names
func (m *Manager) RunMigrations(ctx context.Context) ([]string, error) {
	if m.migrationsDir == "" {
		return nil, nil
	}
	created, err := migrate.EnsureDir(m.migrationsDir, time.Now())
	if err != nil {
		return nil, err
	}
	if created {
		m.log.Info("Created %s with a placeholder migration", m.migrationsDir)
	}
	applied, err := migrate.New(m.exec, m.migrationsDir).Up(ctx)
	for _, name := range applied {
		m.log.Info("Applied migration %s", name)
	}
	return applied, err
}

// SeedData loads sample data into tables that are still empty
func (m *Manager) SeedData(ctx context.Context) ([]seed.Result, error) {
	results, err := seed.New(m.exec, m.files, schema.SeedSets).Run(ctx)
	for _, r := range results {
		switch {
		case r.Err != nil:
			m.log.Warn("Seeding %s failed: %v", r.File, r.Err)
		case r.Applied:
			m.log.Info("Seeded %s from %s (%d rows)", r.Table, r.File, r.Rows)
		default:
			m.log.Info("%s already has %d rows, skipping %s", r.Table, r.Rows, r.File)
		}
	}
	return results, err
}

// TableCheck reports one required table
type TableCheck struct {
	Name   string
	Exists bool
	Rows   int64
}

// CheckTables inspects every required table. It never modifies anything.
func (m *Manager) CheckTables(ctx context.Context) ([]TableCheck, error) {
	checks := make([]TableCheck, 0, len(schema.RequiredTables))
	for _, name := range schema.RequiredTables {
		exists, err := m.tableExists(ctx, name)
		if err != nil {
			return nil, err
		}
		check := TableCheck{Name: name, Exists: exists}
		if exists {
			if check.Rows, err = executor.Count(ctx, m.exec, name); err != nil {
				return nil, fmt.Errorf("counting %s: %w", name, err)
			}
		}
		checks = append(checks, check)
	}
	return checks, nil
}

func (m *Manager) tableExists(ctx context.Context, name string) (bool, error) {
	res, err := m.exec.Query(ctx,
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1)",
		name)
	if err != nil {
		return false, fmt.Errorf("checking table %s: %w", name, err)
	}
	return res.Bool(0, 0), nil
}

// Verify checks that every required table exists and every seeded table
// holds data
func (m *Manager) Verify(ctx context.Context) ([]TableCheck, error) {
	checks, err := m.CheckTables(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]TableCheck, len(checks))
	var missing, empty []string
	for _, c := range checks {
		byName[c.Name] = c
		if !c.Exists {
			missing = append(missing, c.Name)
		}
	}
	for _, set := range schema.SeedSets {
		if c, ok := byName[set.Table]; ok && c.Exists && c.Rows == 0 {
			empty = append(empty, set.Table)
		}
	}

	switch {
	case len(missing) > 0:
		return checks, fmt.Errorf("missing tables: %s", strings.Join(missing, ", "))
	case len(empty) > 0:
		return checks, fmt.Errorf("tables without data: %s", strings.Join(empty, ", "))
	}
	return checks, nil
}

// TableStat holds size information for one table
type TableStat struct {
	Name string
	Rows int64
	Size string
}

// TableStats reports the row count and on-disk size of every table
func (m *Manager) TableStats(ctx context.Context) ([]TableStat, error) {
	tables, err := backup.ListTables(ctx, m.exec)
	if err != nil {
		return nil, err
	}

	stats := make([]TableStat, 0, len(tables))
	for _, name := range tables {
		rows, err := executor.Count(ctx, m.exec, name)
		if err != nil {
			return nil, fmt.Errorf("counting %s: %w", name, err)
		}
		size, err := m.exec.Query(ctx, "SELECT pg_size_pretty(pg_total_relation_size($1::regclass)) AS size", pq.QuoteIdentifier(name))
		if err != nil {
			return nil, fmt.Errorf("sizing %s: %w", name, err)
		}
		stats = append(stats, TableStat{Name: name, Rows: rows, Size: size.String(0, 0)})
	}
	return stats, nil
}

// Backup writes a data-only backup script to w
func (m *Manager) Backup(ctx context.Context, w io.Writer) (*backup.Summary, error) {
	sum, err := backup.NewWriter(m.exec).Write(ctx, w)
	if err != nil {
		return nil, err
	}
	m.log.Info("Backed up %d rows from %d tables", sum.Rows(), len(sum.Tables))
	return sum, nil
}

// Restore re-applies the schema and migrations, then replays a backup script
// in one transaction. Backups hold no DDL, so every table has to exist first.
func (m *Manager) Restore(ctx context.Context, r io.Reader) (int, error) {
	if _, err := m.SetupSchema(ctx); err != nil {
		return 0, fmt.Errorf("restoring schema: %w", err)
	}
	if m.migrationsDir == "" {
		if err := migrate.New(m.exec, "").EnsureLedger(ctx); err != nil {
			return 0, err
		}
	} else if _, err := m.RunMigrations(ctx); err != nil {
		return 0, fmt.Errorf("restoring migrations: %w", err)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("reading backup: %w", err)
	}
	n, err := sqlfile.Apply(ctx, m.exec, "backup", string(content))
	if err != nil {
		return 0, err
	}
	m.log.Info("Restored backup (%d statements)", n)
	return n, nil
}

// Analyze refreshes planner statistics
func (m *Manager) Analyze(ctx context.Context) error {
	return m.exec.Exec(ctx, "ANALYZE")
}

// Vacuum reclaims dead rows and refreshes statistics. It cannot run inside
// a transaction.
func (m *Manager) Vacuum(ctx context.Context) error {
	return m.exec.Exec(ctx, "VACUUM ANALYZE")
}

// DropTables drops every table of the public schema in one transaction and
// returns their names
func (m *Manager) DropTables(ctx context.Context) ([]string, error) {
	tables, err := backup.ListTables(ctx, m.exec)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, nil
	}

	stmts := make([]string, 0, len(tables))
	for _, t := range tables {
		stmts = append(stmts, "DROP TABLE IF EXISTS "+pq.QuoteIdentifier(t)+" CASCADE")
	}
	if err := m.exec.ExecBatch(ctx, stmts); err != nil {
		return nil, fmt.Errorf("dropping tables: %w", err)
	}
	m.state = Disconnected
	return tables, nil
}

// Reset drops every table and runs a full setup. It is destructive; callers
// must confirm first.
func (m *Manager) Reset(ctx context.Context) (*SetupReport, error) {
	dropped, err := m.DropTables(ctx)
	if err != nil {
		return nil, err
	}
	m.log.Warn("Dropped %d tables", len(dropped))
	return m.FullSetup(ctx), nil
}
