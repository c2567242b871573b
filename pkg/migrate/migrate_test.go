package migrate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/wajiddaudtamboli/careercompass/pkg/executor/executortest"
	"github.com/wajiddaudtamboli/careercompass/pkg/sqlfile"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadSortsAndChecksums(t *testing.T) {
	fsys := fstest.MapFS{
		"20240102000000_b.sql": &fstest.MapFile{Data: []byte("SELECT 2;")},
		"20240101000000_a.sql": &fstest.MapFile{Data: []byte("SELECT 1;")},
		"README.md":            &fstest.MapFile{Data: []byte("ignored")},
	}
	files, err := Load(fsys)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if files[0].Name != "20240101000000_a" || files[0].Version != "20240101000000" {
		t.Fatalf("unexpected first file %+v", files[0])
	}
	if files[0].Checksum != Checksum("SELECT 1;") || len(files[0].Checksum) != 64 {
		t.Fatalf("unexpected checksum %q", files[0].Checksum)
	}
}

func TestEnsureDirCreatesPlaceholder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "migrations")

	created, err := EnsureDir(dir, epoch)
	if err != nil || !created {
		t.Fatalf("expected directory to be created, got %v, %v", created, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "20240301120000_init.sql" {
		t.Fatalf("unexpected placeholder files %v", entries)
	}
	data, _ := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if len(sqlfile.Split(string(data))) != 0 {
		t.Fatal("placeholder should contain comments only")
	}

	created, err = EnsureDir(dir, epoch)
	if err != nil || created {
		t.Fatalf("second call should be a no-op, got %v, %v", created, err)
	}
}

func TestCreate(t *testing.T) {
	dir := t.TempDir()
	p, err := Create(dir, "Add Saved Careers", epoch)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(p) != "20240301120000_add_saved_careers.sql" {
		t.Fatalf("unexpected path %s", p)
	}
	if _, err := Create(dir, "add saved careers", epoch); err == nil {
		t.Fatal("expected an error for an existing file")
	}
	if _, err := Create(dir, "  ", epoch); err == nil {
		t.Fatal("expected an error for an empty name")
	}
}

func TestUpAppliesPendingOnce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "20240101000000_saved.sql", "CREATE TABLE IF NOT EXISTS saved_careers (id SERIAL PRIMARY KEY, career_id INTEGER);")
	writeFile(t, dir, "20240102000000_notes.sql", "CREATE TABLE IF NOT EXISTS notes (id SERIAL PRIMARY KEY, body TEXT);")

	fake := executortest.New()
	m := New(fake, dir)
	ctx := context.Background()

	ran, err := m.Up(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(ran, ",") != "20240101000000_saved,20240102000000_notes" {
		t.Fatalf("unexpected applied list %v", ran)
	}
	if fake.RowCount(LedgerTable) != 2 {
		t.Fatalf("expected 2 ledger rows, got %d", fake.RowCount(LedgerTable))
	}
	if fake.Count("pg_advisory_xact_lock") != 2 {
		t.Fatal("expected one advisory lock per migration")
	}

	ran, err = m.Up(ctx)
	if err != nil || len(ran) != 0 {
		t.Fatalf("second run should apply nothing, got %v, %v", ran, err)
	}
	if fake.RowCount(LedgerTable) != 2 {
		t.Fatal("ledger changed on rerun")
	}
}

func TestUpCreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "migrations")
	fake := executortest.New()

	ran, err := New(fake, dir).Up(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(ran) != 1 || !strings.HasSuffix(ran[0], "_init") {
		t.Fatalf("expected the placeholder to be recorded, got %v", ran)
	}
}

func TestUpDetectsChecksumDrift(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "20240101000000_saved.sql", "CREATE TABLE IF NOT EXISTS saved_careers (id SERIAL PRIMARY KEY);")

	fake := executortest.New()
	m := New(fake, dir)
	ctx := context.Background()
	if _, err := m.Up(ctx); err != nil {
		t.Fatal(err)
	}

	writeFile(t, dir, "20240101000000_saved.sql", "CREATE TABLE IF NOT EXISTS saved_careers (id BIGSERIAL PRIMARY KEY);")
	writeFile(t, dir, "20240102000000_more.sql", "CREATE TABLE IF NOT EXISTS more (id SERIAL PRIMARY KEY);")

	if _, err := m.Up(ctx); !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("expected ErrChecksumMismatch, got %v", err)
	}
	if fake.RowCount("more") != -1 {
		t.Fatal("no migration should run when drift is detected")
	}

	status, err := m.Status(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(status) != 2 || !status[0].Drift || status[1].Applied {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestUpRollsBackFailedMigration(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "20240101000000_bad.sql", `
CREATE TABLE IF NOT EXISTS first (id SERIAL PRIMARY KEY);
INSERT INTO broken (id) VALUES (1);
`)
	fake := executortest.New()

	_, err := New(fake, dir).Up(context.Background())
	var stmtErr *sqlfile.StatementError
	if !errors.As(err, &stmtErr) {
		t.Fatalf("expected a statement error, got %v", err)
	}
	if stmtErr.Index != 2 {
		t.Fatalf("expected statement 2 to fail, got %d", stmtErr.Index)
	}
	if fake.RowCount("first") != -1 {
		t.Fatal("failed migration was not rolled back")
	}
	if fake.RowCount(LedgerTable) != 0 {
		t.Fatal("failed migration was recorded")
	}
}

func TestStatusReportsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "20240101000000_a.sql", "SELECT 1;")

	fake := executortest.New()
	m := New(fake, dir)
	ctx := context.Background()
	if _, err := m.Up(ctx); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(dir, "20240101000000_a.sql")); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "20240102000000_b.sql", "SELECT 2;")

	status, err := m.Status(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(status) != 2 {
		t.Fatalf("expected 2 entries, got %+v", status)
	}
	if !status[0].Missing || !status[0].Applied {
		t.Fatalf("expected first entry to be a missing applied migration, got %+v", status[0])
	}
	if status[1].Applied {
		t.Fatalf("expected second entry to be pending, got %+v", status[1])
	}
}
