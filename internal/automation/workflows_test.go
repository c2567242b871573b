package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wajiddaudtamboli/careercompass/pkg/backup"
	"github.com/wajiddaudtamboli/careercompass/pkg/db"
	"github.com/wajiddaudtamboli/careercompass/pkg/executor/executortest"
)

func newDeps(t *testing.T, fake *executortest.Fake) Deps {
	t.Helper()
	log := &recordingLogger{}
	clock := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	return Deps{
		Exec:      fake,
		Manager:   db.New(fake, db.WithMigrationsDir(filepath.Join(t.TempDir(), "migrations")), db.WithLogger(log)),
		Log:       log,
		BackupDir: filepath.Join(t.TempDir(), "backups"),
		Keep:      2,
		Now: func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		},
	}
}

func TestSetupWorkflow(t *testing.T) {
	fake := executortest.New()
	d := newDeps(t, fake)

	res := NewRunner(d.Log).Run(context.Background(), d.Setup())
	if !res.Success {
		t.Fatalf("setup failed: %+v", res.Failed())
	}
	if fake.RowCount("careers") == 0 {
		t.Fatal("expected seeded careers")
	}
	if d.Manager.State() != db.Verified {
		t.Fatalf("state = %s", d.Manager.State())
	}
}

func TestHealthWorkflowOnEmptyDatabase(t *testing.T) {
	d := newDeps(t, executortest.New())
	res := NewRunner(d.Log).Run(context.Background(), d.Health())

	if res.Success {
		t.Fatal("expected health to fail before setup")
	}
	if len(res.Steps) != 3 || res.Steps[0].Err != nil {
		t.Fatalf("connection test should pass, got %+v", res.Steps)
	}
	if res.Steps[1].Err == nil {
		t.Fatal("verify should report missing tables")
	}
}

func TestOptimizeIsolatesFailures(t *testing.T) {
	fake := executortest.New()
	d := newDeps(t, fake)
	ctx := context.Background()
	NewRunner(d.Log).Run(ctx, d.Setup())

	fake.FailOn("VACUUM", errors.New("cannot run inside a transaction block"))
	res := NewRunner(d.Log).Run(ctx, d.Optimize())
	if res.Success {
		t.Fatal("expected vacuum failure to fail the workflow")
	}
	failed := res.Failed()
	if len(failed) != 1 || failed[0].Name != "vacuum" {
		t.Fatalf("unexpected failures %+v", failed)
	}
}

func TestBackupWorkflowPrunes(t *testing.T) {
	fake := executortest.New()
	d := newDeps(t, fake)
	ctx := context.Background()
	NewRunner(d.Log).Run(ctx, d.Setup())

	for i := 0; i < 3; i++ {
		if res := NewRunner(d.Log).Run(ctx, d.Backup()); !res.Success {
			t.Fatalf("backup %d failed: %+v", i, res.Failed())
		}
	}
	files, err := backup.List(d.BackupDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 backups kept, got %v", files)
	}
}

func TestBackupToDirRemovesPartialFile(t *testing.T) {
	fake := executortest.New()
	d := newDeps(t, fake)
	ctx := context.Background()
	NewRunner(d.Log).Run(ctx, d.Setup())

	fake.FailOn("SELECT * FROM", errors.New("permission denied"))
	if _, _, err := BackupToDir(ctx, d.Manager, d.BackupDir, d.now()); err == nil {
		t.Fatal("expected an error")
	}
	entries, _ := os.ReadDir(d.BackupDir)
	if len(entries) != 0 {
		t.Fatalf("partial backup left behind: %v", entries)
	}

	if _, _, err := BackupToDir(ctx, d.Manager, "", d.now()); err == nil {
		t.Fatal("expected an error without a directory")
	}
}

func TestMaintenanceCombinesWorkflows(t *testing.T) {
	d := newDeps(t, executortest.New())
	want := len(d.Health().Steps) + len(d.Optimize().Steps) + len(d.Backup().Steps)
	if got := len(d.Maintenance().Steps); got != want {
		t.Fatalf("expected %d steps, got %d", want, got)
	}
}

func TestLookup(t *testing.T) {
	d := newDeps(t, executortest.New())
	for _, name := range Names {
		wf, err := d.Lookup(name)
		if err != nil || wf.Name != name {
			t.Errorf("Lookup(%q) = %q, %v", name, wf.Name, err)
		}
	}
	if _, err := d.Lookup("deploy"); err == nil {
		t.Fatal("expected an error for an unknown workflow")
	}
}
