package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/couchcryptid/covid-stats-dashboard/internal/acquisition"
	"github.com/couchcryptid/covid-stats-dashboard/internal/state"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Controller receives the user's selection events.
type Controller interface {
	sharedobs.ReadinessChecker
	ChangeScope(ctx context.Context, key string) acquisition.Result
	ChangeMetric(metric string) acquisition.Result
}

// StateReader exposes the read side of the selection state.
type StateReader interface {
	Snapshot() state.Selection
	Subscribe() (<-chan state.Change, func())
}

// Server exposes health, readiness and metrics endpoints plus the dashboard API.
type Server struct {
	httpServer *http.Server
	router     chi.Router
	ctrl       Controller
	state      StateReader
	logger     *slog.Logger

	// done is closed by Shutdown so long-lived streams return and let
	// connections drain.
	done      chan struct{}
	closeOnce sync.Once
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(addr string, ctrl Controller, st StateReader, logger *slog.Logger) *Server {
	r := chi.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router: r,
		ctrl:   ctrl,
		state:  st,
		logger: logger,
		done:   make(chan struct{}),
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(ctrl))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/map", s.handleMap)
		r.Get("/chart", s.handleChart)
		r.Get("/events", s.handleEvents)
		r.Post("/scope", s.handleScope)
		r.Post("/metric", s.handleMetric)
	})

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closeOnce.Do(func() { close(s.done) })
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the router, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func writeError(w http.ResponseWriter, status int, message string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": message})
}
