package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/wajiddaudtamboli/careercompass/internal/metrics"
	"github.com/wajiddaudtamboli/careercompass/pkg/backup"
	"github.com/wajiddaudtamboli/careercompass/pkg/db"
	"github.com/wajiddaudtamboli/careercompass/pkg/executor"
)

// Names lists the workflows Lookup knows
var Names = []string{"setup", "health", "optimize", "backup", "maintenance"}

// Deps are what the workflows operate on
type Deps struct {
	Exec      executor.Executor
	Manager   *db.Manager
	Log       Logger
	BackupDir string
	// Keep is how many backups survive pruning, 0 keeps all
	Keep int
	Now  func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Lookup returns the named workflow
func (d Deps) Lookup(name string) (Workflow, error) {
	switch name {
	case "setup":
		return d.Setup(), nil
	case "health":
		return d.Health(), nil
	case "optimize":
		return d.Optimize(), nil
	case "backup":
		return d.Backup(), nil
	case "maintenance":
		return d.Maintenance(), nil
	}
	return Workflow{}, fmt.Errorf("unknown workflow %q (expected one of %v)", name, Names)
}

func (d Deps) Setup() Workflow {
	return Workflow{Name: "setup", Steps: []Step{
		{Name: "test connection", Run: d.testConnection},
		{Name: "full setup", Run: d.fullSetup},
		{Name: "table statistics", Run: d.tableStats},
	}}
}

func (d Deps) Health() Workflow {
	return Workflow{Name: "health", Steps: []Step{
		{Name: "test connection", Run: d.testConnection},
		{Name: "verify tables", Run: d.verify},
		{Name: "table statistics", Run: d.tableStats},
	}}
}

func (d Deps) Optimize() Workflow {
	return Workflow{Name: "optimize", Steps: []Step{
		{Name: "ensure indexes", Run: d.indexes},
		{Name: "analyze", Run: d.Manager.Analyze},
		{Name: "vacuum", Run: d.Manager.Vacuum},
	}}
}

func (d Deps) Backup() Workflow {
	return Workflow{Name: "backup", Steps: []Step{
		{Name: "write backup", Run: d.writeBackup},
		{Name: "prune backups", Run: d.prune},
	}}
}

// Maintenance is a health check followed by optimize and backup
func (d Deps) Maintenance() Workflow {
	var steps []Step
	for _, wf := range []Workflow{d.Health(), d.Optimize(), d.Backup()} {
		steps = append(steps, wf.Steps...)
	}
	return Workflow{Name: "maintenance", Steps: steps}
}

func (d Deps) testConnection(ctx context.Context) error {
	test := db.TestConnection(ctx, d.Exec)
	if !test.OK {
		return test.Err
	}
	d.Log.Info("Connected: %s", test.Version)
	return nil
}

func (d Deps) fullSetup(ctx context.Context) error {
	report := d.Manager.FullSetup(ctx)
	for _, res := range report.Results {
		metrics.PhaseRuns.WithLabelValues(string(res.Phase), res.Outcome.String()).Inc()
	}
	d.Log.Info("Database state: %s", report.State)
	return report.Err()
}

func (d Deps) verify(ctx context.Context) error {
	checks, err := d.Manager.Verify(ctx)
	for _, c := range checks {
		if c.Exists {
			d.Log.Info("  %s: %d rows", c.Name, c.Rows)
		}
	}
	return err
}

func (d Deps) tableStats(ctx context.Context) error {
	stats, err := d.Manager.TableStats(ctx)
	if err != nil {
		return err
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Rows > stats[j].Rows })
	for _, s := range stats {
		d.Log.Info("  %-20s %8d rows  %s", s.Name, s.Rows, s.Size)
	}
	return nil
}

func (d Deps) indexes(ctx context.Context) error {
	_, err := d.Manager.SetupIndexes(ctx)
	return err
}

func (d Deps) writeBackup(ctx context.Context) error {
	path, sum, err := BackupToDir(ctx, d.Manager, d.BackupDir, d.now())
	if err != nil {
		return err
	}
	d.Log.Info("Wrote %s (%d rows)", path, sum.Rows())
	return nil
}

func (d Deps) prune(context.Context) error {
	removed, err := backup.Prune(d.BackupDir, d.Keep)
	for _, f := range removed {
		d.Log.Info("Removed old backup %s", f)
	}
	return err
}

// BackupToDir writes a timestamped backup file into dir and returns its path.
// A partially written file is removed.
func BackupToDir(ctx context.Context, m *db.Manager, dir string, now time.Time) (string, *backup.Summary, error) {
	if dir == "" {
		return "", nil, errors.New("no backup directory configured")
	}
	f, err := backup.Create(dir, now)
	if err != nil {
		return "", nil, fmt.Errorf("creating backup file: %w", err)
	}
	path := f.Name()

	sum, err := m.Backup(ctx, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	return path, sum, nil
}
