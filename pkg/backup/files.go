package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	filePrefix = "compass-backup-"
	fileSuffix = ".sql"
)

// FileName returns the backup file name for a backup taken at t
func FileName(t time.Time) string {
	return filePrefix + t.UTC().Format("20060102T150405Z") + fileSuffix
}

// Create opens a new backup file in dir, creating dir if needed
func Create(dir string, t time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating backup directory: %w", err)
	}
	return os.OpenFile(filepath.Join(dir, FileName(t)), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
}

// List returns the backup files of dir, newest first
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	// the timestamp format sorts lexically
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return files, nil
}

// Prune deletes all but the newest keep backups in dir and returns the
// removed paths. keep <= 0 keeps everything.
func Prune(dir string, keep int) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}
	files, err := List(dir)
	if err != nil {
		return nil, err
	}
	if len(files) <= keep {
		return nil, nil
	}

	var removed []string
	for _, f := range files[keep:] {
		if err := os.Remove(f); err != nil {
			return removed, fmt.Errorf("removing %s: %w", f, err)
		}
		removed = append(removed, f)
	}
	return removed, nil
}
