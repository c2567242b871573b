package mockdata

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/wajiddaudtamboli/careercompass/pkg/model"
)

func TestCareersDefault(t *testing.T) {
	got := New().Careers(model.CareerFilter{})
	if len(got) != 2 {
		t.Fatalf("expected 2 active careers, got %d", len(got))
	}
	if got[0].Title != "Software Engineer" || got[1].Title != "Medical Doctor" {
		t.Fatalf("unexpected careers %q, %q", got[0].Title, got[1].Title)
	}
}

func TestRecordsAreValid(t *testing.T) {
	s := New()
	for _, c := range s.careers {
		if err := c.Validate(); err != nil {
			t.Error(err)
		}
	}
	for _, tm := range s.testimonials {
		if tm.Rating < 1 || tm.Rating > 5 {
			t.Errorf("%s: rating %d out of range", tm.Name, tm.Rating)
		}
	}
}

var filterValues = []string{"", "tech", "TECHNOLOGY", "health", "srinagar", "JAMMU", "remote", "mbbs", "bachelor", "engineer", "doctor", "telegraph", "nowhere", "e"}

func TestCareerFiltersProperty(t *testing.T) {
	s := New()
	for _, category := range filterValues {
		for _, location := range filterValues {
			for _, search := range filterValues {
				f := model.CareerFilter{Category: category, Location: location, Search: search}
				prev := -1
				for _, c := range s.Careers(f) {
					if !c.Active {
						t.Fatalf("%+v returned inactive career %s", f, c.Title)
					}
					if !contains(c.Category, category) || !contains(c.Location, location) {
						t.Fatalf("%+v returned non-matching career %s", f, c.Title)
					}
					if search != "" && !contains(c.Title, search) && !contains(c.Description, search) {
						t.Fatalf("%+v returned career %s not matching search", f, c.Title)
					}
					if c.ID <= prev {
						t.Fatalf("%+v: order not preserved", f)
					}
					prev = c.ID
				}
			}
		}
	}
}

func TestCollegeFiltersProperty(t *testing.T) {
	s := New()
	for _, location := range filterValues {
		for _, kind := range []string{"", "engineering", "MEDICAL", "university"} {
			for _, search := range filterValues {
				f := model.CollegeFilter{Location: location, CollegeType: kind, Search: search}
				for _, c := range s.Colleges(f) {
					if !c.Active {
						t.Fatalf("%+v returned inactive college %s", f, c.Name)
					}
					if !contains(c.Location, location) || !contains(c.CollegeType, kind) {
						t.Fatalf("%+v returned non-matching college %s", f, c.Name)
					}
					if search != "" && !contains(c.Name, search) && !contains(c.Location, search) {
						t.Fatalf("%+v returned college %s not matching search", f, c.Name)
					}
				}
			}
		}
	}
}

func TestFiltersAreCaseInsensitive(t *testing.T) {
	s := New()
	lower := s.Careers(model.CareerFilter{Category: "healthcare"})
	upper := s.Careers(model.CareerFilter{Category: "HEALTHCARE"})
	if len(lower) != 1 || len(upper) != 1 || lower[0].Title != "Medical Doctor" {
		t.Fatalf("unexpected results %v / %v", lower, upper)
	}
	if got := s.Careers(model.CareerFilter{Search: "telegraph"}); len(got) != 0 {
		t.Fatal("inactive career matched a search")
	}
	if got := s.Colleges(model.CollegeFilter{CollegeType: "engineering"}); len(got) != 1 {
		t.Fatalf("expected only the active engineering college, got %d", len(got))
	}
}

func TestListsReturnOnlyActive(t *testing.T) {
	s := New()
	s.questions = append(s.questions, model.QuizQuestion{ID: 99, Question: "retired"})
	s.testimonials = append(s.testimonials, model.Testimonial{ID: 99, Name: "retired"})

	for _, q := range s.QuizQuestions() {
		if !q.Active {
			t.Fatalf("inactive question %d returned", q.ID)
		}
	}
	for _, tm := range s.Testimonials() {
		if !tm.Active {
			t.Fatalf("inactive testimonial %d returned", tm.ID)
		}
	}
	if len(s.QuizQuestions()) != 3 || len(s.Testimonials()) != 2 {
		t.Fatal("unexpected list sizes")
	}
}

func TestMockWrites(t *testing.T) {
	at := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	s := New().WithClock(func() time.Time { return at })

	saved, err := s.SaveQuizResult("student-1", map[string]string{"1": "Mathematics and Physics"}, []string{"Software Engineer"})
	if err != nil {
		t.Fatal(err)
	}
	if !saved.Success || saved.Record.ID != "mock-quiz-1706781600000" {
		t.Fatalf("unexpected quiz result %+v", saved)
	}
	if saved.Record.UserID != "student-1" || !strings.Contains(string(saved.Record.Answers), "Mathematics") {
		t.Fatalf("unexpected quiz result %+v", saved.Record)
	}

	if _, err := s.SaveQuizResult("x", func() {}, nil); err == nil {
		t.Fatal("expected an encoding error")
	}

	msg := s.AddContactMessage(model.ContactMessage{Name: "Zoya", Email: "zoya@example.com", Message: "Hello"})
	if !msg.Success || msg.Record.ID != "mock-contact-1706781600000" || msg.Record.Status != "new" {
		t.Fatalf("unexpected contact message %+v", msg)
	}

	// nothing is persisted
	raw, _ := json.Marshal(New().Careers(model.CareerFilter{}))
	if strings.Contains(string(raw), "Zoya") {
		t.Fatal("mock writes must not leak into reads")
	}
}
