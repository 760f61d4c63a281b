// Package api exposes the trainer over HTTP: rule presets, single forced
// rounds, and bulk simulations.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/blackjacklab/blackjack-trainer-go/internal/store"
)

// Server handles HTTP requests.
type Server struct {
	db  store.DB // optional, nil disables persistence
	log *logrus.Logger
}

// NewServer creates an API server. db may be nil.
func NewServer(db store.DB, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	return &Server{db: db, log: logger}
}

// Routes sets up the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Heartbeat("/health"))
	r.Use(s.requestLogger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/rules", s.handleRules)
		r.Post("/round", s.handleRound)
		r.Post("/simulate", s.handleSimulate)
		if s.db != nil {
			r.Get("/sessions/{id}", s.handleGetSession)
			r.Get("/sessions/{id}/rounds", s.handleGetRounds)
		}
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Info("request completed")
	})
}
