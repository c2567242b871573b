package dbml

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/wajiddaudtamboli/careercompass/pkg/executor"
	"github.com/wajiddaudtamboli/careercompass/pkg/executor/executortest"
)

func TestWrite(t *testing.T) {
	s := &Schema{
		Tables: []Table{{
			Name: "quiz_results",
			Columns: []Column{
				{Name: "id", Type: "uuid", Default: "gen_random_uuid()", PK: true},
				{Name: "user_id", Type: "character varying", Nullable: true},
				{Name: "answers", Type: "jsonb"},
				{Name: "seq", Type: "integer", Default: "nextval('quiz_results_seq_seq'::regclass)"},
			},
		}},
		Refs: []Ref{{Table: "quiz_results", Column: "user_id", RefTable: "users", RefColumn: "id"}},
	}

	var buf bytes.Buffer
	if err := Write(&buf, s); err != nil {
		t.Fatal(err)
	}
	want := "Table quiz_results {\n" +
		"  id uuid [pk, default: `gen_random_uuid()`]\n" +
		"  user_id \"character varying\"\n" +
		"  answers jsonb [not null]\n" +
		"  seq integer [increment, not null]\n" +
		"}\n" +
		"\n" +
		"Ref: quiz_results.user_id > users.id\n"
	if buf.String() != want {
		t.Fatalf("got\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestInspect(t *testing.T) {
	fake := executortest.New()
	ctx := context.Background()
	for _, stmt := range []string{
		"CREATE TABLE careers (id SERIAL PRIMARY KEY, title TEXT)",
		"CREATE TABLE migrations (id SERIAL PRIMARY KEY, name TEXT)",
		"CREATE TABLE quiz_results (id UUID PRIMARY KEY, career_id INTEGER)",
	} {
		if err := fake.Exec(ctx, stmt); err != nil {
			t.Fatal(err)
		}
	}
	fake.OnQuery("table_constraints", func(string, []any) (*executor.Result, error) {
		return &executor.Result{
			Columns: []string{"constraint_type", "table_name", "column_name", "ref_table", "ref_column"},
			Rows: [][]any{
				{"PRIMARY KEY", "careers", "id", "careers", "id"},
				{"PRIMARY KEY", "migrations", "id", "migrations", "id"},
				{"FOREIGN KEY", "quiz_results", "career_id", "careers", "id"},
			},
		}, nil
	})

	s, err := New(fake).Inspect(ctx, Options{ExcludeTables: []string{"migrations"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Tables) != 2 || s.Tables[0].Name != "careers" || s.Tables[1].Name != "quiz_results" {
		t.Fatalf("unexpected tables %+v", s.Tables)
	}
	if !s.Tables[0].Columns[0].PK {
		t.Fatal("careers.id should be the primary key")
	}
	if len(s.Refs) != 1 || s.Refs[0].RefTable != "careers" {
		t.Fatalf("unexpected refs %+v", s.Refs)
	}

	var buf bytes.Buffer
	if err := New(fake).Generate(ctx, &buf, Options{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Table migrations {") {
		t.Fatal("migrations should be included without exclusions")
	}
}

func TestIdent(t *testing.T) {
	tests := map[string]string{
		"careers":           "careers",
		"character varying": `"character varying"`,
		"timestamp(3)":      `"timestamp(3)"`,
	}
	for in, want := range tests {
		if got := ident(in); got != want {
			t.Errorf("ident(%q) = %q, want %q", in, got, want)
		}
	}
}
