// Package seed loads sample data into empty tables
package seed

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/wajiddaudtamboli/careercompass/pkg/executor"
	"github.com/wajiddaudtamboli/careercompass/pkg/schema"
	"github.com/wajiddaudtamboli/careercompass/pkg/sqlfile"
)

// Result is the outcome of one seed set
type Result struct {
	File       string
	Table      string
	Applied    bool  // false when the table already held rows
	Statements int   // statements executed
	Rows       int64 // rows in Table afterwards
	Err        error
}

// Seeder handles seed data operations
type Seeder struct {
	exec executor.Executor
	fsys fs.FS
	sets []schema.SeedSet
}

// New creates a new Seeder applying sets from fsys
func New(exec executor.Executor, fsys fs.FS, sets []schema.SeedSet) *Seeder {
	return &Seeder{exec: exec, fsys: fsys, sets: sets}
}

// Run applies every seed set whose table is empty. Existing data is never
// touched, so running it again is a no-op. A failing set does not stop the
// others; all failures are returned joined.
func (s *Seeder) Run(ctx context.Context) ([]Result, error) {
	results := make([]Result, 0, len(s.sets))
	var errs []error
	for _, set := range s.sets {
		res := s.apply(ctx, set)
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

func (s *Seeder) apply(ctx context.Context, set schema.SeedSet) Result {
	res := Result{File: set.File, Table: set.Table}

	rows, err := executor.Count(ctx, s.exec, set.Table)
	if err != nil {
		res.Err = fmt.Errorf("seed %s: counting %s: %w", set.File, set.Table, err)
		return res
	}
	if rows > 0 {
		res.Rows = rows
		return res
	}

	n, err := sqlfile.ApplyFS(ctx, s.exec, s.fsys, set.File)
	if err != nil {
		res.Err = fmt.Errorf("seed %s: %w", set.File, err)
		return res
	}
	res.Applied = true
	res.Statements = n

	if res.Rows, err = executor.Count(ctx, s.exec, set.Table); err != nil {
		res.Err = fmt.Errorf("seed %s: counting %s: %w", set.File, set.Table, err)
	}
	return res
}
