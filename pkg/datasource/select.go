package datasource

import (
	"context"

	"github.com/wajiddaudtamboli/careercompass/pkg/db"
)

// Logger receives the reason a mock data source was chosen
type Logger interface {
	Warn(format string, args ...any)
	Info(format string, args ...any)
}

// Options decides which data source to use
type Options struct {
	DatabaseURL string
	MockMode    bool
}

// Select picks the data source once at startup. Mock mode is used when
// forced, when the URL is missing or a placeholder, and when the database
// cannot be reached. It always returns a usable DataSource.
func Select(ctx context.Context, opts Options, log Logger) DataSource {
	switch {
	case opts.MockMode:
		log.Info("MOCK_MODE is set, serving mock data")
		return NewMock(nil)
	case !db.Configured(opts.DatabaseURL):
		log.Warn("DATABASE_URL is not configured, serving mock data")
		return NewMock(nil)
	}

	h, err := db.Connect(ctx, opts.DatabaseURL)
	if err != nil {
		log.Warn("Database unavailable (%s), serving mock data: %v", db.KindOf(err), err)
		return NewMock(nil)
	}

	pg, err := NewPostgres(h.DB(), h)
	if err != nil {
		_ = h.Close()
		log.Warn("Database unavailable, serving mock data: %v", err)
		return NewMock(nil)
	}
	log.Info("Serving data from %s", h.Config.Redacted())
	return pg
}
