package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/wajiddaudtamboli/careercompass/internal/metrics"
	"github.com/wajiddaudtamboli/careercompass/pkg/assistant"
	"github.com/wajiddaudtamboli/careercompass/pkg/datasource"
	"github.com/wajiddaudtamboli/careercompass/pkg/db"
	"github.com/wajiddaudtamboli/careercompass/pkg/model"
)

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// readyz reports ready in mock mode too, since mock data is always servable
func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if s.ds == nil {
		http.Error(w, "data source not configured", http.StatusServiceUnavailable)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.ds.Ping(ctx); err != nil {
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

type healthReport struct {
	Mode      datasource.Mode `json:"mode"`
	Database  db.Health       `json:"database"`
	Assistant string          `json:"assistant"`
	Time      time.Time       `json:"timestamp"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	report := healthReport{
		Mode:      s.ds.Mode(),
		Assistant: s.ai.Backend(),
		Time:      time.Now().UTC(),
	}

	if report.Mode == datasource.ModeMock {
		report.Database = db.Health{Status: db.StatusMock}
		writeData(w, http.StatusOK, report)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), db.HealthTimeout)
	defer cancel()
	start := time.Now()
	if err := s.ds.Ping(ctx); err != nil {
		report.Database = db.Health{Status: db.StatusError, Error: err.Error(), ResponseTimeMs: time.Since(start).Milliseconds()}
		writeJSON(w, http.StatusServiceUnavailable, envelope{Success: false, Data: report, Error: "database unavailable"})
		return
	}
	report.Database = db.Health{Status: db.StatusConnected, ResponseTimeMs: time.Since(start).Milliseconds()}
	writeData(w, http.StatusOK, report)
}

func (s *Server) listCareers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	careers, err := s.ds.Careers(r.Context(), model.CareerFilter{
		Category:       q.Get("category"),
		Location:       q.Get("location"),
		EducationLevel: q.Get("education_level"),
		Search:         q.Get("search"),
	})
	if err != nil {
		s.internalError(w, "listing careers", err)
		return
	}
	writeList(w, careers)
}

func (s *Server) listColleges(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	colleges, err := s.ds.Colleges(r.Context(), model.CollegeFilter{
		Location:    q.Get("location"),
		CollegeType: q.Get("type"),
		Search:      q.Get("search"),
	})
	if err != nil {
		s.internalError(w, "listing colleges", err)
		return
	}
	writeList(w, colleges)
}

func (s *Server) listQuizQuestions(w http.ResponseWriter, r *http.Request) {
	qs, err := s.ds.QuizQuestions(r.Context())
	if err != nil {
		s.internalError(w, "listing quiz questions", err)
		return
	}
	writeList(w, qs)
}

func (s *Server) listTestimonials(w http.ResponseWriter, r *http.Request) {
	ts, err := s.ds.Testimonials(r.Context())
	if err != nil {
		s.internalError(w, "listing testimonials", err)
		return
	}
	writeList(w, ts)
}

type quizResultRequest struct {
	UserID          string          `json:"user_id" validate:"max=255"`
	Answers         json.RawMessage `json:"answers" validate:"required"`
	Recommendations json.RawMessage `json:"recommendations"`
}

func (s *Server) saveQuizResult(w http.ResponseWriter, r *http.Request) {
	var req quizResultRequest
	if !s.decode(w, r, &req) {
		return
	}
	var recs any
	if len(req.Recommendations) > 0 {
		recs = req.Recommendations
	}
	res, err := s.ds.SaveQuizResult(r.Context(), req.UserID, req.Answers, recs)
	if err != nil {
		s.internalError(w, "saving quiz result", err)
		return
	}
	writeData(w, http.StatusCreated, res)
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"max=255"`
	Message string `json:"message" validate:"required,max=5000"`
}

func (s *Server) addContactMessage(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !s.decode(w, r, &req) {
		return
	}
	msg := model.ContactMessage{Name: req.Name, Email: req.Email, Subject: req.Subject, Message: req.Message}
	if err := s.validate.Struct(msg); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	saved, err := s.ds.AddContactMessage(r.Context(), msg)
	if err != nil {
		s.internalError(w, "saving contact message", err)
		return
	}
	writeData(w, http.StatusCreated, saved)
}

type chatRequest struct {
	Message string              `json:"message" validate:"required,max=2000"`
	History []assistant.Message `json:"history" validate:"max=20,dive"`
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !s.decode(w, r, &req) {
		return
	}
	reply, err := s.ai.Chat(r.Context(), req.Message, req.History)
	s.countAssistant("chat", err)
	if err != nil {
		s.upstreamError(w, "chat", err)
		return
	}
	writeData(w, http.StatusOK, reply)
}

type generateQuizRequest struct {
	Topic string `json:"topic" validate:"max=200"`
	Count int    `json:"count" validate:"gte=0,lte=10"`
}

func (s *Server) generateQuiz(w http.ResponseWriter, r *http.Request) {
	var req generateQuizRequest
	if !s.decode(w, r, &req) {
		return
	}
	qs, err := s.ai.GenerateQuiz(r.Context(), req.Topic, req.Count)
	s.countAssistant("generate_quiz", err)
	if err != nil {
		s.upstreamError(w, "quiz generation", err)
		return
	}
	writeList(w, qs)
}

type translateRequest struct {
	Text   string `json:"text" validate:"required,max=5000"`
	Target string `json:"target" validate:"max=50"`
}

func (s *Server) translate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if !s.decode(w, r, &req) {
		return
	}
	out, err := s.ai.Translate(r.Context(), req.Text, req.Target)
	s.countAssistant("translate", err)
	if err != nil {
		s.upstreamError(w, "translation", err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"text": out})
}

func (s *Server) countAssistant(op string, err error) {
	metrics.AssistantRequests.WithLabelValues(op, s.ai.Backend(), metrics.Result(err == nil)).Inc()
}

func (s *Server) internalError(w http.ResponseWriter, action string, err error) {
	s.log.Error("%s: %v", action, err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func (s *Server) upstreamError(w http.ResponseWriter, action string, err error) {
	s.log.Warn("%s failed: %v", action, err)
	writeError(w, http.StatusBadGateway, action+" is unavailable right now")
}
