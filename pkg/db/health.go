package db

import (
	"context"
	"errors"
	"time"

	"github.com/wajiddaudtamboli/careercompass/pkg/executor"
)

// HealthTimeout bounds a HealthCheck
const HealthTimeout = 5 * time.Second

// Health statuses
const (
	StatusConnected = "connected"
	StatusMock      = "mock"
	StatusError     = "error"
)

// ConnectionTest is the outcome of a round trip to the server
type ConnectionTest struct {
	OK         bool
	ServerTime time.Time
	Version    string
	Err        error
}

// Health summarises whether the configured database can be used
type Health struct {
	Status         string `json:"status"`
	ResponseTimeMs int64  `json:"response_time_ms,omitempty"`
	Version        string `json:"version,omitempty"`
	Error          string `json:"error,omitempty"`
}

// TestConnection issues a trivial query. It never panics; failures are
// reported in the result.
func TestConnection(ctx context.Context, exec executor.Executor) (res ConnectionTest) {
	if exec == nil {
		return ConnectionTest{Err: errors.New("no connection")}
	}
	defer func() {
		if r := recover(); r != nil {
			res = ConnectionTest{Err: errors.New("connection test panicked")}
		}
	}()

	out, err := exec.Query(ctx, "SELECT NOW(), version()")
	if err != nil {
		return ConnectionTest{Err: err}
	}
	if out.Len() == 0 {
		return ConnectionTest{Err: errors.New("connection test returned no rows")}
	}

	res = ConnectionTest{OK: true, Version: out.String(0, 1)}
	if t, ok := out.Value(0, 0).(time.Time); ok {
		res.ServerTime = t
	}
	return res
}

// HealthCheck connects to rawURL and runs TestConnection, folding every
// failure into the returned status. An unconfigured URL reports mock mode.
func HealthCheck(ctx context.Context, rawURL string) Health {
	if !Configured(rawURL) {
		return Health{Status: StatusMock}
	}

	ctx, cancel := context.WithTimeout(ctx, HealthTimeout)
	defer cancel()

	start := time.Now()
	h, err := Connect(ctx, rawURL)
	if err != nil {
		return Health{Status: StatusError, Error: err.Error(), ResponseTimeMs: time.Since(start).Milliseconds()}
	}
	defer h.Close()

	return Probe(ctx, h.Executor(), start)
}

// Probe reports the health of an already open connection
func Probe(ctx context.Context, exec executor.Executor, start time.Time) Health {
	test := TestConnection(ctx, exec)
	elapsed := time.Since(start).Milliseconds()
	if !test.OK {
		return Health{Status: StatusError, Error: test.Err.Error(), ResponseTimeMs: elapsed}
	}
	return Health{Status: StatusConnected, Version: test.Version, ResponseTimeMs: elapsed}
}
