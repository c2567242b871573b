package check

import (
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/wajiddaudtamboli/careercompass/pkg/migrate"
)

var now = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func file(s string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(s)}
}

func TestDirAcceptsWellFormedMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"20240101000000_init.sql":           file("-- init"),
		"20240201093000_add_saved_jobs.sql": file("SELECT 1;"),
		"notes.txt":                         file("not a migration"),
	}
	r, err := Dir(fsys, now)
	if err != nil {
		t.Fatal(err)
	}
	if !r.OK() || r.Files != 2 {
		t.Fatalf("expected a clean report over 2 files, got %+v", r)
	}
	if r.Err() != nil {
		t.Fatal("clean report should have no error")
	}
}

func TestDirFindsProblems(t *testing.T) {
	fsys := fstest.MapFS{
		"add_table.sql":            file(""),
		"20241399000000_bad.sql":   file(""),
		"20990101000000_later.sql": file(""),
		"20240101000000_a.sql":     file(""),
		"20240101000000_b.sql":     file(""),
		"20240102000000_Upper.sql": file(""),
	}
	r, err := Dir(fsys, now)
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]string{
		"add_table.sql":            "name must match",
		"20241399000000_bad.sql":   "not a valid date",
		"20990101000000_later.sql": "in the future",
		"20240101000000_b.sql":     "duplicate version",
		"20240102000000_Upper.sql": "name must match",
	}
	if len(r.Problems) != len(want) {
		t.Fatalf("expected %d problems, got %v", len(want), r.Problems)
	}
	for _, p := range r.Problems {
		if !strings.Contains(p.Message, want[p.File]) {
			t.Errorf("%s: unexpected message %q", p.File, p.Message)
		}
	}
	if r.Err() == nil {
		t.Fatal("expected an error")
	}
}

func TestLedger(t *testing.T) {
	r := &Report{}
	Ledger(r, []migrate.Status{
		{Name: "20240101000000_a", Applied: true, Drift: true},
		{Name: "20240102000000_b", Applied: false},
		{Name: "20240103000000_c", Applied: true},
		{Name: "20240104000000_d", Applied: true, Missing: true},
		{Name: "20240105000000_e", Applied: false},
	})

	got := make([]string, 0, len(r.Problems))
	for _, p := range r.Problems {
		got = append(got, p.File)
	}
	want := "20240101000000_a,20240102000000_b,20240104000000_d"
	if strings.Join(got, ",") != want {
		t.Fatalf("unexpected findings %v", r.Problems)
	}
}
