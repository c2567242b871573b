// Package check validates a migrations directory and its ledger
package check

import (
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/wajiddaudtamboli/careercompass/pkg/migrate"
)

var fileName = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)

// Problem is one finding against a migration
type Problem struct {
	File    string
	Message string
}

func (p Problem) String() string {
	return p.File + ": " + p.Message
}

// Report collects the findings of a check
type Report struct {
	Files    int
	Problems []Problem
}

// OK reports whether the check found nothing
func (r *Report) OK() bool {
	return len(r.Problems) == 0
}

// Err returns the findings as a single error, or nil
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	var msg strings.Builder
	fmt.Fprintf(&msg, "%d migration problem(s):\n", len(r.Problems))
	for _, p := range r.Problems {
		fmt.Fprintf(&msg, "  %s\n", p)
	}
	msg.WriteString("\nTo fix, rename with:\n  $ mv <file> $(date -u +%Y%m%d%H%M%S)_<name>.sql\n")
	return fmt.Errorf("%s", msg.String())
}

func (r *Report) add(file, format string, args ...any) {
	r.Problems = append(r.Problems, Problem{File: file, Message: fmt.Sprintf(format, args...)})
}

// Dir validates file names in fsys: every .sql file must be named
// <UTC timestamp>_<lower_snake_name>.sql, timestamps must be real, not in the
// future, and unique.
func Dir(fsys fs.FS, now time.Time) (*Report, error) {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("listing migrations: %w", err)
	}
	sort.Strings(names)

	r := &Report{Files: len(names)}
	versions := make(map[string]string, len(names))
	for _, name := range names {
		base := path.Base(name)
		m := fileName.FindStringSubmatch(base)
		if m == nil {
			r.add(base, "name must match <YYYYMMDDHHMMSS>_<name>.sql")
			continue
		}

		ts, err := time.Parse("20060102150405", m[1])
		if err != nil {
			r.add(base, "timestamp %s is not a valid date", m[1])
			continue
		}
		if ts.After(now.UTC()) {
			r.add(base, "timestamp %s is in the future", m[1])
		}

		if other, ok := versions[m[1]]; ok {
			r.add(base, "duplicate version %s (also used by %s)", m[1], other)
			continue
		}
		versions[m[1]] = base
	}
	return r, nil
}

// Ledger adds findings that need the applied ledger: edited files, applied
// files that were deleted, and pending files that sort before the newest
// applied migration and would therefore run out of order.
func Ledger(r *Report, statuses []migrate.Status) {
	latest := ""
	for _, st := range statuses {
		if st.Applied && st.Name > latest {
			latest = st.Name
		}
	}

	for _, st := range statuses {
		switch {
		case st.Missing:
			r.add(st.Name, "applied but the file no longer exists")
		case st.Drift:
			r.add(st.Name, "file changed after it was applied")
		case !st.Applied && st.Name < latest:
			r.add(st.Name, "pending but older than applied migration %s", latest)
		}
	}
}
