package sqlfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/wajiddaudtamboli/careercompass/pkg/executor"
)

// StatementError reports the statement of a file that failed to apply
type StatementError struct {
	File      string
	Index     int // 1-based position of the statement in the file
	Statement string
	Err       error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("%s: statement %d: %v", e.File, e.Index, e.Err)
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

// Apply executes every statement of content inside a single transaction and
// returns how many statements ran. Nothing is committed if any statement fails.
func Apply(ctx context.Context, exec executor.Executor, name, content string) (int, error) {
	stmts := Split(content)
	if len(stmts) == 0 {
		return 0, nil
	}

	if err := exec.ExecBatch(ctx, stmts); err != nil {
		var batchErr *executor.BatchError
		if errors.As(err, &batchErr) {
			return 0, &StatementError{
				File:      name,
				Index:     batchErr.Index,
				Statement: batchErr.Statement,
				Err:       batchErr.Err,
			}
		}
		return 0, fmt.Errorf("%s: %w", name, err)
	}

	return len(stmts), nil
}

// ApplyFile reads a SQL file from disk and applies it
func ApplyFile(ctx context.Context, exec executor.Executor, path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	return Apply(ctx, exec, filepath.Base(path), string(content))
}

// ApplyFS reads a SQL file from fsys and applies it
func ApplyFS(ctx context.Context, exec executor.Executor, fsys fs.FS, name string) (int, error) {
	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", name, err)
	}
	return Apply(ctx, exec, name, string(content))
}
