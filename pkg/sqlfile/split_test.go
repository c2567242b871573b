package sqlfile

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "simple statements",
			input: "CREATE TABLE a (id int);\nCREATE TABLE b (id int);",
			want:  []string{"CREATE TABLE a (id int)", "CREATE TABLE b (id int)"},
		},
		{
			name:  "trailing statement without semicolon",
			input: "SELECT 1;\nSELECT 2",
			want:  []string{"SELECT 1", "SELECT 2"},
		},
		{
			name:  "semicolon inside string literal",
			input: "INSERT INTO t (v) VALUES ('a;b');INSERT INTO t (v) VALUES ('it''s; ok');",
			want: []string{
				"INSERT INTO t (v) VALUES ('a;b')",
				"INSERT INTO t (v) VALUES ('it''s; ok')",
			},
		},
		{
			name:  "semicolon inside escape string",
			input: `INSERT INTO t VALUES (E'it\'s; fine'); SELECT 1;`,
			want:  []string{`INSERT INTO t VALUES (E'it\'s; fine')`, "SELECT 1"},
		},
		{
			name:  "trailing e of an identifier is not an escape prefix",
			input: "SELECT name'x' FROM t; SELECT 'a\\'; SELECT 2;",
			want:  []string{"SELECT name'x' FROM t", "SELECT 'a\\'", "SELECT 2"},
		},
		{
			name:  "semicolon inside quoted identifier",
			input: `SELECT "odd;name" FROM t;`,
			want:  []string{`SELECT "odd;name" FROM t`},
		},
		{
			name: "dollar quoted function body",
			input: `CREATE FUNCTION touch() RETURNS trigger AS $$
BEGIN
  NEW.updated_at = NOW();
  RETURN NEW;
END;
$$ LANGUAGE plpgsql;
SELECT 1;`,
			want: []string{
				"CREATE FUNCTION touch() RETURNS trigger AS $$\nBEGIN\n  NEW.updated_at = NOW();\n  RETURN NEW;\nEND;\n$$ LANGUAGE plpgsql",
				"SELECT 1",
			},
		},
		{
			name:  "tagged dollar quote",
			input: "DO $body$ BEGIN PERFORM 1; END $body$;",
			want:  []string{"DO $body$ BEGIN PERFORM 1; END $body$"},
		},
		{
			name:  "positional parameter is not a delimiter",
			input: "SELECT $1; SELECT $2;",
			want:  []string{"SELECT $1", "SELECT $2"},
		},
		{
			name:  "comment only fragments are dropped",
			input: "-- header; with semicolon\n\n;\n-- nothing here\n;SELECT 1;",
			want:  []string{"SELECT 1"},
		},
		{
			name:  "leading comment is stripped",
			input: "-- Careers\nCREATE TABLE careers (id int);",
			want:  []string{"CREATE TABLE careers (id int)"},
		},
		{
			name:  "block comments nest",
			input: "/* outer /* inner; */ still; */ SELECT 1;",
			want:  []string{"SELECT 1"},
		},
		{
			name:  "comment inside statement is kept",
			input: "SELECT 1 -- one; two\n;",
			want:  []string{"SELECT 1 -- one; two"},
		},
		{
			name:  "empty input",
			input: "   \n\t",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Split() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}
