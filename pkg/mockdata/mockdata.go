// Package mockdata is the static data set served when no database is
// configured.
//
// Writes are not persisted: SaveQuizResult and AddContactMessage return a
// fabricated record with a generated id so callers can carry on, and the
// record is forgotten immediately.
package mockdata

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wajiddaudtamboli/careercompass/pkg/model"
)

// Store holds the mock records. The zero value is not usable; use New.
type Store struct {
	careers      []model.Career
	colleges     []model.College
	questions    []model.QuizQuestion
	testimonials []model.Testimonial
	now          func() time.Time
}

// New returns a Store with the built-in records
func New() *Store {
	return &Store{
		careers:      careers(),
		colleges:     colleges(),
		questions:    quizQuestions(),
		testimonials: testimonials(),
		now:          time.Now,
	}
}

// WithClock returns a copy of s that uses now for generated records
func (s *Store) WithClock(now func() time.Time) *Store {
	c := *s
	c.now = now
	return &c
}

func contains(field, filter string) bool {
	return filter == "" || strings.Contains(strings.ToLower(field), strings.ToLower(filter))
}

// Careers returns the active careers matching every non-empty filter field,
// in their original order. Search matches title or description.
func (s *Store) Careers(f model.CareerFilter) []model.Career {
	out := []model.Career{}
	for _, c := range s.careers {
		if !c.Active {
			continue
		}
		if !contains(c.Category, f.Category) ||
			!contains(c.Location, f.Location) ||
			!contains(c.EducationLevel, f.EducationLevel) {
			continue
		}
		if f.Search != "" && !contains(c.Title, f.Search) && !contains(c.Description, f.Search) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Colleges returns the active colleges matching every non-empty filter
// field, in their original order. Search matches name or location.
func (s *Store) Colleges(f model.CollegeFilter) []model.College {
	out := []model.College{}
	for _, c := range s.colleges {
		if !c.Active {
			continue
		}
		if !contains(c.Location, f.Location) || !contains(c.CollegeType, f.CollegeType) {
			continue
		}
		if f.Search != "" && !contains(c.Name, f.Search) && !contains(c.Location, f.Search) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// QuizQuestions returns every active question
func (s *Store) QuizQuestions() []model.QuizQuestion {
	out := []model.QuizQuestion{}
	for _, q := range s.questions {
		if q.Active {
			out = append(out, q)
		}
	}
	return out
}

// Testimonials returns every active testimonial
func (s *Store) Testimonials() []model.Testimonial {
	out := []model.Testimonial{}
	for _, t := range s.testimonials {
		if t.Active {
			out = append(out, t)
		}
	}
	return out
}

// ID returns a mock identifier of the form mock-<prefix>-<epoch ms>
func ID(prefix string, t time.Time) string {
	return fmt.Sprintf("mock-%s-%d", prefix, t.UnixMilli())
}

// Saved is the answer to a mock write
type Saved[T any] struct {
	Success bool `json:"success"`
	Record  T    `json:"data"`
}

// SaveQuizResult fabricates a stored quiz result. Nothing is persisted.
func (s *Store) SaveQuizResult(userID string, answers, recommendations any) (Saved[model.QuizResult], error) {
	a, err := json.Marshal(answers)
	if err != nil {
		return Saved[model.QuizResult]{}, fmt.Errorf("encoding answers: %w", err)
	}
	r, err := json.Marshal(recommendations)
	if err != nil {
		return Saved[model.QuizResult]{}, fmt.Errorf("encoding recommendations: %w", err)
	}

	now := s.now().UTC()
	return Saved[model.QuizResult]{
		Success: true,
		Record: model.QuizResult{
			ID:              ID("quiz", now),
			UserID:          userID,
			Answers:         a,
			Recommendations: r,
			CreatedAt:       now,
		},
	}, nil
}

// AddContactMessage fabricates a stored contact message. Nothing is persisted.
func (s *Store) AddContactMessage(msg model.ContactMessage) Saved[model.ContactMessage] {
	now := s.now().UTC()
	msg.ID = ID("contact", now)
	msg.Status = "new"
	msg.CreatedAt = now
	return Saved[model.ContactMessage]{Success: true, Record: msg}
}
