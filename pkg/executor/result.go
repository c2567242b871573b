package executor

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/lib/pq"
)

// Result holds a fully buffered query result
type Result struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Value returns the raw value at row i, column col
func (r *Result) Value(i, col int) any {
	if r == nil || i >= len(r.Rows) || col >= len(r.Rows[i]) {
		return nil
	}
	return r.Rows[i][col]
}

// String returns the value at row i, column col rendered as text.
// NULL renders as the empty string.
func (r *Result) String(i, col int) string {
	return AsString(r.Value(i, col))
}

// Int64 returns the value at row i, column col as an integer
func (r *Result) Int64(i, col int) (int64, error) {
	return AsInt64(r.Value(i, col))
}

// Bool reports whether the value at row i, column col is a true boolean
func (r *Result) Bool(i, col int) bool {
	switch t := r.Value(i, col).(type) {
	case bool:
		return t
	case []byte:
		b, _ := strconv.ParseBool(string(t))
		return b
	case string:
		b, _ := strconv.ParseBool(t)
		return b
	}
	return false
}

// Column returns every value of the given column rendered as text
func (r *Result) Column(col int) []string {
	out := make([]string, 0, r.Len())
	for i := 0; i < r.Len(); i++ {
		out = append(out, r.String(i, col))
	}
	return out
}

// AsString renders a driver value as text
func AsString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// AsInt64 converts a driver value to an integer
func AsInt64(v any) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case float64:
		return int64(t), nil
	case []byte:
		return strconv.ParseInt(string(t), 10, 64)
	case string:
		return strconv.ParseInt(t, 10, 64)
	case nil:
		return 0, fmt.Errorf("unexpected NULL")
	default:
		return 0, fmt.Errorf("unexpected value type %T", v)
	}
}

// Count returns the number of rows in table
func Count(ctx context.Context, e Executor, table string) (int64, error) {
	res, err := e.Query(ctx, "SELECT COUNT(*) FROM "+pq.QuoteIdentifier(table))
	if err != nil {
		return 0, err
	}
	if res.Len() == 0 {
		return 0, fmt.Errorf("counting %s: no rows", table)
	}
	return res.Int64(0, 0)
}
