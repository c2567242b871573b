// Package server exposes the career compass data over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wajiddaudtamboli/careercompass/pkg/assistant"
	"github.com/wajiddaudtamboli/careercompass/pkg/datasource"
)

// Logger is the subset of logging.Logger the server writes to
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

const (
	readyTimeout    = 2 * time.Second
	shutdownTimeout = 10 * time.Second
	maxBodyBytes    = 1 << 20
)

type Server struct {
	ds       datasource.DataSource
	ai       *assistant.Assistant
	log      Logger
	validate *validator.Validate
	router   *mux.Router
}

func New(ds datasource.DataSource, ai *assistant.Assistant, log Logger) *Server {
	if ai == nil {
		ai = assistant.New(nil, nil)
	}
	s := &Server{
		ds:       ds,
		ai:       ai,
		log:      log,
		validate: validator.New(),
		router:   mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(requestID, s.logRequests, instrument)

	r.HandleFunc("/healthz", s.healthz).Methods("GET")
	r.HandleFunc("/readyz", s.readyz).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.health).Methods("GET")
	api.HandleFunc("/careers", s.listCareers).Methods("GET")
	api.HandleFunc("/colleges", s.listColleges).Methods("GET")
	api.HandleFunc("/quiz/questions", s.listQuizQuestions).Methods("GET")
	api.HandleFunc("/testimonials", s.listTestimonials).Methods("GET")
	api.HandleFunc("/quiz/results", s.saveQuizResult).Methods("POST")
	api.HandleFunc("/contact", s.addContactMessage).Methods("POST")
	api.HandleFunc("/chat", s.chat).Methods("POST")
	api.HandleFunc("/quiz/generate", s.generateQuiz).Methods("POST")
	api.HandleFunc("/translate", s.translate).Methods("POST")

	// subrouters do not inherit these
	for _, router := range []*mux.Router{r, api} {
		router.NotFoundHandler = http.HandlerFunc(notFound)
		router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "route not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Server listening on %s (%s data, %s assistant)", addr, s.ds.Mode(), s.ai.Backend())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listening on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("Shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
