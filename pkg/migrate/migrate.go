// Package migrate applies versioned SQL migrations and records them in a
// ledger table.
//
// Migration files are named <14-digit UTC timestamp>_<name>.sql and run in
// name order. Each pending file runs in its own transaction together with its
// ledger row, serialised across processes by a transaction-scoped advisory
// lock. A checksum of every applied file is kept so later edits are detected.
package migrate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/wajiddaudtamboli/careercompass/pkg/executor"
	"github.com/wajiddaudtamboli/careercompass/pkg/model"
	"github.com/wajiddaudtamboli/careercompass/pkg/sqlfile"
)

// LedgerTable records applied migrations
const LedgerTable = "migrations"

const lockID int64 = 7251934

const ledgerDDL = `CREATE TABLE IF NOT EXISTS migrations (
    id SERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL UNIQUE,
    checksum VARCHAR(64) NOT NULL DEFAULT '',
    executed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const placeholderName = "init"

const placeholderContent = `-- Migrations in this directory run once each, in file name order.
-- Add statements below or create a new file with: compass migrate create <name>
`

// ErrChecksumMismatch is returned when an applied migration file has changed
var ErrChecksumMismatch = errors.New("migration checksum mismatch")

// File is one migration on disk
type File struct {
	Name     string // file name without extension, the ledger key
	Version  string // leading timestamp
	Path     string
	Content  string
	Checksum string
}

// Status describes one migration known to the files, the ledger, or both
type Status struct {
	Name      string
	Applied   bool
	AppliedAt *time.Time
	// Drift is set when the recorded checksum differs from the file
	Drift bool
	// Missing is set when the ledger records a file that no longer exists
	Missing bool
}

// Migrator handles database migrations
type Migrator struct {
	exec executor.Executor
	dir  string
}

// New creates a new Migrator reading files from dir
func New(exec executor.Executor, dir string) *Migrator {
	return &Migrator{exec: exec, dir: dir}
}

// Checksum returns the hex SHA-256 of a migration's content
func Checksum(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Load reads every .sql file of fsys in name order
func Load(fsys fs.FS) ([]File, error) {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("listing migrations: %w", err)
	}
	sort.Strings(names)

	files := make([]File, 0, len(names))
	for _, name := range names {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", name, err)
		}
		base := strings.TrimSuffix(path.Base(name), ".sql")
		version, _, _ := strings.Cut(base, "_")
		files = append(files, File{
			Name:     base,
			Version:  version,
			Path:     name,
			Content:  string(content),
			Checksum: Checksum(string(content)),
		})
	}
	return files, nil
}

// EnsureDir creates dir with a placeholder migration when it does not exist.
// It reports whether the directory was created.
func EnsureDir(dir string, now time.Time) (bool, error) {
	if _, err := os.Stat(dir); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if _, err := write(dir, placeholderName, placeholderContent, now); err != nil {
		return false, err
	}
	return true, nil
}

// Create creates a new, empty migration file and returns its path
func Create(dir, name string, now time.Time) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("migration name is required")
	}
	name = strings.ToLower(strings.Join(strings.Fields(name), "_"))
	return write(dir, name, "-- "+name+"\n", now)
}

func write(dir, name, content string, now time.Time) (string, error) {
	filename := fmt.Sprintf("%s_%s.sql", now.UTC().Format("20060102150405"), name)
	p := filepath.Join(dir, filename)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating migrations directory: %w", err)
	}
	if _, err := os.Stat(p); err == nil {
		return "", fmt.Errorf("migration %s already exists", filename)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing migration file: %w", err)
	}
	return p, nil
}

// EnsureLedger creates the ledger table if needed
func (m *Migrator) EnsureLedger(ctx context.Context) error {
	if err := m.exec.Exec(ctx, ledgerDDL); err != nil {
		return fmt.Errorf("creating %s table: %w", LedgerTable, err)
	}
	return nil
}

// Applied returns the ledger keyed by migration name
func (m *Migrator) Applied(ctx context.Context) (map[string]model.Migration, error) {
	res, err := m.exec.Query(ctx, "SELECT id, name, checksum, executed_at FROM migrations ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("reading %s table: %w", LedgerTable, err)
	}

	applied := make(map[string]model.Migration, res.Len())
	for i := 0; i < res.Len(); i++ {
		rec := model.Migration{
			Name:     res.String(i, 1),
			Checksum: res.String(i, 2),
		}
		if id, err := res.Int64(i, 0); err == nil {
			rec.ID = int(id)
		}
		if t, ok := res.Value(i, 3).(time.Time); ok {
			rec.ExecutedAt = t
		}
		applied[rec.Name] = rec
	}
	return applied, nil
}

func (m *Migrator) files() ([]File, error) {
	if _, err := EnsureDir(m.dir, time.Now()); err != nil {
		return nil, err
	}
	return Load(os.DirFS(m.dir))
}

// Up applies every pending migration and returns the names applied. It
// refuses to run anything when an applied file has changed.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	files, err := m.files()
	if err != nil {
		return nil, err
	}
	if err := m.EnsureLedger(ctx); err != nil {
		return nil, err
	}
	applied, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}

	for _, f := range files {
		if rec, ok := applied[f.Name]; ok && rec.Checksum != "" && rec.Checksum != f.Checksum {
			return nil, fmt.Errorf("%s: %w", f.Name, ErrChecksumMismatch)
		}
	}

	var ran []string
	for _, f := range files {
		if _, ok := applied[f.Name]; ok {
			continue
		}
		if err := m.apply(ctx, f); err != nil {
			return ran, err
		}
		ran = append(ran, f.Name)
	}
	return ran, nil
}

func (m *Migrator) apply(ctx context.Context, f File) error {
	body := sqlfile.Split(f.Content)

	stmts := make([]string, 0, len(body)+2)
	stmts = append(stmts, fmt.Sprintf("SELECT pg_advisory_xact_lock(%d)", lockID))
	stmts = append(stmts, body...)
	stmts = append(stmts, fmt.Sprintf("INSERT INTO migrations (name, checksum) VALUES (%s, %s)",
		pq.QuoteLiteral(f.Name), pq.QuoteLiteral(f.Checksum)))

	err := m.exec.ExecBatch(ctx, stmts)
	if err == nil {
		return nil
	}

	var batchErr *executor.BatchError
	if errors.As(err, &batchErr) {
		switch {
		case batchErr.Index == 1:
			return fmt.Errorf("migration %s: acquiring lock: %w", f.Name, batchErr.Err)
		case batchErr.Index == len(stmts):
			return fmt.Errorf("migration %s: recording in ledger: %w", f.Name, batchErr.Err)
		}
		return fmt.Errorf("migration %s: %w", f.Name, &sqlfile.StatementError{
			File:      f.Path,
			Index:     batchErr.Index - 1,
			Statement: batchErr.Statement,
			Err:       batchErr.Err,
		})
	}
	return fmt.Errorf("migration %s: %w", f.Name, err)
}

// Status reports every migration on disk and in the ledger, in name order
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	files, err := Load(os.DirFS(m.dir))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if err := m.EnsureLedger(ctx); err != nil {
		return nil, err
	}
	applied, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}
	return merge(files, applied), nil
}

func merge(files []File, applied map[string]model.Migration) []Status {
	seen := make(map[string]bool, len(files))
	out := make([]Status, 0, len(files))
	for _, f := range files {
		seen[f.Name] = true
		st := Status{Name: f.Name}
		if rec, ok := applied[f.Name]; ok {
			st.Applied = true
			if !rec.ExecutedAt.IsZero() {
				at := rec.ExecutedAt
				st.AppliedAt = &at
			}
			st.Drift = rec.Checksum != "" && rec.Checksum != f.Checksum
		}
		out = append(out, st)
	}
	for name, rec := range applied {
		if seen[name] {
			continue
		}
		st := Status{Name: name, Applied: true, Missing: true}
		if !rec.ExecutedAt.IsZero() {
			at := rec.ExecutedAt
			st.AppliedAt = &at
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
