// Package datasource serves career compass records from Postgres or from the
// built-in mock data, behind one interface chosen at startup.
package datasource

import (
	"context"

	"github.com/wajiddaudtamboli/careercompass/pkg/model"
)

// Mode names a DataSource implementation
type Mode string

const (
	ModePostgres Mode = "postgres"
	ModeMock     Mode = "mock"
)

// DataSource is the read and write surface used by the HTTP API.
// List methods only ever return active records.
type DataSource interface {
	Mode() Mode
	Careers(ctx context.Context, f model.CareerFilter) ([]model.Career, error)
	Colleges(ctx context.Context, f model.CollegeFilter) ([]model.College, error)
	QuizQuestions(ctx context.Context) ([]model.QuizQuestion, error)
	Testimonials(ctx context.Context) ([]model.Testimonial, error)
	SaveQuizResult(ctx context.Context, userID string, answers, recommendations any) (model.QuizResult, error)
	AddContactMessage(ctx context.Context, msg model.ContactMessage) (model.ContactMessage, error)
	Ping(ctx context.Context) error
	Close() error
}
