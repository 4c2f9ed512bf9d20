// Package server exposes teach-back sessions over a JSON HTTP API. Each
// learner, named by the X-Learner header, gets one long-lived controller.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/abhisek/teachback/internal/app"
	"github.com/abhisek/teachback/internal/config"
	"github.com/abhisek/teachback/internal/logger"
	"github.com/abhisek/teachback/internal/session"
)

// LearnerHeader names the learner a request acts for. Without it the
// configured learner is used.
const LearnerHeader = "X-Learner"

// Server routes API requests to per-learner controllers.
type Server struct {
	app     *app.App
	cfg     config.ServerConfig
	metrics *Metrics
	log     *logger.Logger

	mu       sync.Mutex
	sessions map[string]*session.Controller
}

// New creates a Server. metrics may be nil; pass the same Metrics as the
// app's observer to get session counters.
func New(a *app.App, cfg config.ServerConfig, metrics *Metrics, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		app:      a,
		cfg:      cfg,
		metrics:  metrics,
		log:      log,
		sessions: make(map[string]*session.Controller),
	}
}

// Handler returns the routed, CORS-wrapped API.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	if s.metrics != nil {
		api.Use(s.metrics.instrument)
	}
	api.Use(s.logRequests)

	api.HandleFunc("/health", s.health).Methods(http.MethodGet)

	// Topics
	api.HandleFunc("/topics", s.listTopics).Methods(http.MethodGet)
	api.HandleFunc("/topics/{id}/star", s.starTopic).Methods(http.MethodPut)
	api.HandleFunc("/topics/{id}/star", s.unstarTopic).Methods(http.MethodDelete)

	// Session
	api.HandleFunc("/session", s.getSession).Methods(http.MethodGet)
	api.HandleFunc("/session/topic", s.selectTopic).Methods(http.MethodPost)
	api.HandleFunc("/session/next", s.step((*session.Controller).Next)).Methods(http.MethodPost)
	api.HandleFunc("/session/back", s.step((*session.Controller).Back)).Methods(http.MethodPost)
	api.HandleFunc("/session/retry", s.step((*session.Controller).Retry)).Methods(http.MethodPost)
	api.HandleFunc("/session/new", s.step((*session.Controller).NewTopic)).Methods(http.MethodPost)
	api.HandleFunc("/session/regen", s.step((*session.Controller).RegenerateLesson)).Methods(http.MethodPost)
	api.HandleFunc("/session/refresh", s.step((*session.Controller).Refresh)).Methods(http.MethodPost)
	api.HandleFunc("/session/skip", s.step((*session.Controller).Skip)).Methods(http.MethodPost)
	api.HandleFunc("/session/teach", s.teach).Methods(http.MethodPost)
	api.HandleFunc("/session/answer", s.answer).Methods(http.MethodPost)
	api.HandleFunc("/session/hint", s.hint).Methods(http.MethodGet)

	// History
	api.HandleFunc("/history", s.listHistory).Methods(http.MethodGet)
	api.HandleFunc("/history", s.clearHistory).Methods(http.MethodDelete)
	api.HandleFunc("/history/{id}", s.getHistory).Methods(http.MethodGet)
	api.HandleFunc("/history/{id}", s.deleteHistory).Methods(http.MethodDelete)

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", LearnerHeader},
	})
	return c.Handler(r)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully and
// closes every controller.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
	defer s.Close()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close stops every learner's controller.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, ctrl := range s.sessions {
		ctrl.Close()
		delete(s.sessions, name)
	}
}

// controller returns the learner's controller, restoring saved progress
// the first time the learner is seen.
func (s *Server) controller(r *http.Request) *session.Controller {
	learner := s.app.Learner(r.Header.Get(LearnerHeader))

	s.mu.Lock()
	defer s.mu.Unlock()
	if ctrl, ok := s.sessions[learner]; ok {
		return ctrl
	}
	ctrl := s.app.Controller(learner)
	ctrl.Restore(r.Context())
	s.sessions[learner] = ctrl
	s.log.Debug("learner session opened", "learner", learner)
	return ctrl
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
