package db

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/wajiddaudtamboli/careercompass/pkg/executor"
)

const connectTimeout = 10 * time.Second

// Handle owns one database connection pool for the lifetime of a command
type Handle struct {
	Config *DBConfig

	db   *sql.DB
	exec *executor.SQLExecutor

	mu     sync.Mutex
	closed bool
}

// Connect opens and verifies a connection to rawURL
func Connect(ctx context.Context, rawURL string, opts ...executor.Option) (*Handle, error) {
	if !Configured(rawURL) {
		return nil, &ConnError{Kind: KindUnconfigured, Err: errors.New("DATABASE_URL is empty or a placeholder")}
	}
	cfg, err := ParseDatabaseURL(rawURL)
	if err != nil {
		return nil, &ConnError{Kind: KindUnconfigured, Err: err}
	}

	sqlDB, err := sql.Open("postgres", rawURL)
	if err != nil {
		return nil, &ConnError{Kind: KindUnconfigured, Err: err}
	}
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, classify(err)
	}

	return &Handle{
		Config: cfg,
		db:     sqlDB,
		exec:   executor.New(sqlDB, opts...),
	}, nil
}

// Executor returns the statement executor bound to this handle
func (h *Handle) Executor() executor.Executor {
	return h.exec
}

// DB exposes the underlying pool for libraries that need a *sql.DB
func (h *Handle) DB() *sql.DB {
	return h.db
}

// Close releases the connection. It is safe to call more than once and on a
// nil handle.
func (h *Handle) Close() error {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || h.db == nil {
		h.closed = true
		return nil
	}
	h.closed = true
	return h.db.Close()
}
