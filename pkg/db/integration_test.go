//go:build integration

package db_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/wajiddaudtamboli/careercompass/pkg/datasource"
	"github.com/wajiddaudtamboli/careercompass/pkg/db"
	"github.com/wajiddaudtamboli/careercompass/pkg/executor"
	"github.com/wajiddaudtamboli/careercompass/pkg/model"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithUsername("compass"),
		postgres.WithPassword("compass"),
		postgres.WithDatabase("compass_test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(120*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminating container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}
	return connStr
}

func TestLiveDatabase(t *testing.T) {
	url := startPostgres(t)
	ctx := context.Background()

	h, err := db.Connect(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	m := db.New(h.Executor(), db.WithMigrationsDir(filepath.Join(t.TempDir(), "migrations")))

	t.Run("reset then full setup seeds every table", func(t *testing.T) {
		report, err := m.Reset(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if !report.OK() {
			t.Fatalf("setup not clean: %v", report.Err())
		}

		want := map[string]int64{
			"careers":        5,
			"colleges":       4,
			"quiz_questions": 5,
			"testimonials":   3,
			"site_content":   4,
			"faqs":           3,
		}
		for table, n := range want {
			got, err := executor.Count(ctx, h.Executor(), table)
			if err != nil {
				t.Fatal(err)
			}
			if got != n {
				t.Errorf("%s: got %d rows, want %d", table, got, n)
			}
		}
	})

	t.Run("setup is idempotent", func(t *testing.T) {
		if r := m.FullSetup(ctx); !r.OK() {
			t.Fatal(r.Err())
		}
		n, err := executor.Count(ctx, h.Executor(), "careers")
		if err != nil || n != 5 {
			t.Fatalf("careers = %d, %v", n, err)
		}
	})

	t.Run("health reports connected", func(t *testing.T) {
		health := db.HealthCheck(ctx, url)
		if health.Status != db.StatusConnected || health.Version == "" {
			t.Fatalf("unexpected health %+v", health)
		}
	})

	t.Run("backup replays to identical counts", func(t *testing.T) {
		before, err := m.TableStats(ctx)
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if _, err := m.Backup(ctx, &buf); err != nil {
			t.Fatal(err)
		}
		if err := h.Executor().Exec(ctx, "TRUNCATE careers, colleges, testimonials CASCADE"); err != nil {
			t.Fatal(err)
		}
		if _, err := m.Restore(ctx, &buf); err != nil {
			t.Fatal(err)
		}
		after, err := m.TableStats(ctx)
		if err != nil {
			t.Fatal(err)
		}
		counts := make(map[string]int64, len(after))
		for _, s := range after {
			counts[s.Name] = s.Rows
		}
		for _, s := range before {
			if counts[s.Name] != s.Rows {
				t.Errorf("%s: %d rows before backup, %d after restore", s.Name, s.Rows, counts[s.Name])
			}
		}
	})

	t.Run("postgres data source serves seeded rows", func(t *testing.T) {
		ds := datasource.Select(ctx, datasource.Options{DatabaseURL: url}, nopLogger{})
		defer ds.Close()
		if ds.Mode() != datasource.ModePostgres {
			t.Fatalf("expected postgres mode, got %s", ds.Mode())
		}

		careers, err := ds.Careers(ctx, model.CareerFilter{})
		if err != nil {
			t.Fatal(err)
		}
		if len(careers) == 0 {
			t.Fatal("expected careers")
		}
		for _, c := range careers {
			if !c.Active {
				t.Errorf("inactive career %q returned", c.Title)
			}
		}

		saved, err := ds.AddContactMessage(ctx, model.ContactMessage{Name: "Asha", Email: "asha@example.com", Message: "Hello"})
		if err != nil {
			t.Fatal(err)
		}
		if saved.ID == "" || saved.Status != "new" {
			t.Fatalf("unexpected saved message %+v", saved)
		}
	})
}

type nopLogger struct{}

func (nopLogger) Warn(string, ...any) {}
func (nopLogger) Info(string, ...any) {}
