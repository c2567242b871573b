package db

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/wajiddaudtamboli/careercompass/pkg/executor"
)

// CreateDatabase creates name through an admin connection. It reports false
// when the database already exists.
func CreateDatabase(ctx context.Context, admin executor.Executor, name string) (bool, error) {
	res, err := admin.Query(ctx, "SELECT 1 FROM pg_database WHERE datname = $1", name)
	if err != nil {
		return false, fmt.Errorf("checking database existence: %w", err)
	}
	if res.Len() > 0 {
		return false, nil
	}

	if err := admin.Exec(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(name)); err != nil {
		return false, fmt.Errorf("creating database: %w", err)
	}
	return true, nil
}

// DropDatabase drops name through an admin connection, terminating any
// sessions still attached to it
func DropDatabase(ctx context.Context, admin executor.Executor, name string) error {
	query := fmt.Sprintf("DROP DATABASE IF EXISTS %s WITH (FORCE)", pq.QuoteIdentifier(name))
	if err := admin.Exec(ctx, query); err != nil {
		return fmt.Errorf("dropping database: %w", err)
	}
	return nil
}
