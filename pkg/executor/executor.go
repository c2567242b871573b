package executor

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
)

// Executor abstracts statement execution for testing
type Executor interface {
	// Exec runs a single statement outside of any explicit transaction
	Exec(ctx context.Context, query string, args ...any) error

	// Query runs a query and buffers every returned row
	Query(ctx context.Context, query string, args ...any) (*Result, error)

	// ExecBatch runs statements in order inside one transaction.
	// On failure the transaction is rolled back and a *BatchError is returned.
	ExecBatch(ctx context.Context, stmts []string) error

	// Ping verifies the connection is alive
	Ping(ctx context.Context) error
}

// BatchError reports which statement of a batch failed
type BatchError struct {
	Index     int // 1-based
	Statement string
	Err       error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("statement %d failed: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// SQLExecutor implements Executor on top of database/sql
type SQLExecutor struct {
	db      *sql.DB
	verbose bool
	stderr  io.Writer
}

// Option configures an SQLExecutor
type Option func(*SQLExecutor)

// WithVerbose enables echoing every statement before it runs
func WithVerbose(verbose bool) Option {
	return func(e *SQLExecutor) {
		e.verbose = verbose
	}
}

// WithStderr sets the writer used for verbose echo
func WithStderr(w io.Writer) Option {
	return func(e *SQLExecutor) {
		e.stderr = w
	}
}

// New creates a new SQLExecutor over an open database handle
func New(db *sql.DB, opts ...Option) *SQLExecutor {
	e := &SQLExecutor{
		db:     db,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *SQLExecutor) echo(query string) {
	if e.verbose {
		fmt.Fprintf(e.stderr, "sql> %s\n", strings.TrimSpace(query))
	}
}

func (e *SQLExecutor) Exec(ctx context.Context, query string, args ...any) error {
	e.echo(query)
	_, err := e.db.ExecContext(ctx, query, args...)
	return err
}

func (e *SQLExecutor) Query(ctx context.Context, query string, args ...any) (*Result, error) {
	e.echo(query)

	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanAll(rows)
}

func (e *SQLExecutor) ExecBatch(ctx context.Context, stmts []string) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for i, stmt := range stmts {
		e.echo(stmt)
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return &BatchError{Index: i + 1, Statement: stmt, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	committed = true
	return nil
}

func (e *SQLExecutor) Ping(ctx context.Context) error {
	return e.db.PingContext(ctx)
}

func scanAll(rows *sql.Rows) (*Result, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	res := &Result{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		res.Rows = append(res.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}
