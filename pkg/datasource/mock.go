package datasource

import (
	"context"

	"github.com/wajiddaudtamboli/careercompass/pkg/mockdata"
	"github.com/wajiddaudtamboli/careercompass/pkg/model"
)

var _ DataSource = (*Mock)(nil)

// Mock serves the built-in records. Writes are accepted and discarded.
type Mock struct {
	store *mockdata.Store
}

// NewMock wraps store, or the default mock records when store is nil
func NewMock(store *mockdata.Store) *Mock {
	if store == nil {
		store = mockdata.New()
	}
	return &Mock{store: store}
}

func (m *Mock) Mode() Mode { return ModeMock }

func (m *Mock) Careers(_ context.Context, f model.CareerFilter) ([]model.Career, error) {
	return m.store.Careers(f), nil
}

func (m *Mock) Colleges(_ context.Context, f model.CollegeFilter) ([]model.College, error) {
	return m.store.Colleges(f), nil
}

func (m *Mock) QuizQuestions(context.Context) ([]model.QuizQuestion, error) {
	return m.store.QuizQuestions(), nil
}

func (m *Mock) Testimonials(context.Context) ([]model.Testimonial, error) {
	return m.store.Testimonials(), nil
}

func (m *Mock) SaveQuizResult(_ context.Context, userID string, answers, recommendations any) (model.QuizResult, error) {
	saved, err := m.store.SaveQuizResult(userID, answers, recommendations)
	return saved.Record, err
}

func (m *Mock) AddContactMessage(_ context.Context, msg model.ContactMessage) (model.ContactMessage, error) {
	return m.store.AddContactMessage(msg).Record, nil
}

func (m *Mock) Ping(context.Context) error { return nil }

func (m *Mock) Close() error { return nil }
