// Package schema holds the SQL shipped with compass and the metadata the
// database manager needs to apply it.
package schema

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed sql/*.sql
var embedded embed.FS

// Shipped SQL file names
const (
	SchemaFile            = "schema.sql"
	DynamicSchemaFile     = "dynamic_schema.sql"
	SampleDataFile        = "sample_data.sql"
	DynamicSampleDataFile = "dynamic_sample_data.sql"
)

// SchemaFiles are applied in order by the schema phase
var SchemaFiles = []string{SchemaFile, DynamicSchemaFile}

// RequiredTables must exist for the database to be considered set up
var RequiredTables = []string{
	"careers",
	"colleges",
	"quiz_questions",
	"testimonials",
	"quiz_results",
	"contact_messages",
	"site_content",
	"faqs",
}

// SeedSet is a data file applied only while its representative table is empty
type SeedSet struct {
	File  string
	Table string
}

var SeedSets = []SeedSet{
	{File: SampleDataFile, Table: "careers"},
	{File: DynamicSampleDataFile, Table: "site_content"},
}

// FS returns the SQL files to apply. A non-empty dir overrides the embedded
// copies entirely.
func FS(dir string) (fs.FS, error) {
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return nil, &fs.PathError{Op: "open", Path: dir, Err: fs.ErrInvalid}
		}
		return os.DirFS(dir), nil
	}
	return fs.Sub(embedded, "sql")
}
