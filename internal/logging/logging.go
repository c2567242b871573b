// Package logging writes coloured console output and an append-only log file.
//
// Every message goes to both sinks. File lines have the form
//
//	[2024-01-02T03:04:05.000Z] [INFO] message
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level is a message severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelSuccess
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelSuccess:
		return "SUCCESS"
	case LevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

var consoleStyle = map[Level]struct {
	prefix string
	color  *color.Color
}{
	LevelDebug:   {"·", color.New(color.FgHiBlack)},
	LevelInfo:    {"ℹ", color.New(color.FgCyan)},
	LevelSuccess: {"✓", color.New(color.FgGreen)},
	LevelWarn:    {"⚠", color.New(color.FgYellow)},
	LevelError:   {"✗", color.New(color.FgRed, color.Bold)},
}

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

// Logger writes to the console and, optionally, to a log file. It is safe
// for concurrent use.
type Logger struct {
	mu      sync.Mutex
	console io.Writer
	file    io.WriteCloser
	min     Level
	now     func() time.Time
	closed  bool
}

// Option configures a Logger
type Option func(*Logger)

// WithConsole sets the console writer (default os.Stderr)
func WithConsole(w io.Writer) Option {
	return func(l *Logger) {
		l.console = w
	}
}

// WithLevel sets the minimum level written
func WithLevel(min Level) Option {
	return func(l *Logger) {
		l.min = min
	}
}

// WithClock sets the clock used for timestamps
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		l.now = now
	}
}

// New creates a Logger appending to path. An empty path disables the file.
func New(path string, opts ...Option) (*Logger, error) {
	l := &Logger{
		console: os.Stderr,
		min:     LevelInfo,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		l.file = f
	}
	return l, nil
}

// Discard returns a Logger that writes nowhere
func Discard() *Logger {
	return &Logger{console: io.Discard, min: LevelError + 1, now: time.Now}
}

// FormatLine renders one log file line
func FormatLine(t time.Time, level Level, msg string) string {
	return fmt.Sprintf("[%s] [%s] %s\n", t.UTC().Format(timeFormat), level, msg)
}

func (l *Logger) log(level Level, format string, args ...any) {
	if level < l.min {
		return
	}
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")

	l.mu.Lock()
	defer l.mu.Unlock()

	style := consoleStyle[level]
	style.color.Fprintf(l.console, "%s %s\n", style.prefix, msg)

	if l.file != nil && !l.closed {
		// the file is best effort; console output already happened
		_, _ = io.WriteString(l.file, FormatLine(l.now(), level, msg))
	}
}

func (l *Logger) Debug(format string, args ...any)   { l.log(LevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...any)    { l.log(LevelInfo, format, args...) }
func (l *Logger) Success(format string, args ...any) { l.log(LevelSuccess, format, args...) }
func (l *Logger) Warn(format string, args ...any)    { l.log(LevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...any)   { l.log(LevelError, format, args...) }

// Printf logs at info level, for libraries that take a Printf-style logger
func (l *Logger) Printf(format string, args ...any) { l.log(LevelInfo, format, args...) }

// Close closes the log file. It is safe to call more than once.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || l.file == nil {
		l.closed = true
		return nil
	}
	l.closed = true
	return l.file.Close()
}
