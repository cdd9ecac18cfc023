package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"weather-dashboard/config"
	"weather-dashboard/dashboard"
	"weather-dashboard/logger"
	"weather-dashboard/metrics"
)

// Server represents the API server
type Server struct {
	dashboard *dashboard.Dashboard
	board     *dashboard.Board
	metrics   *metrics.Collector
	log       *zap.SugaredLogger
	router    *mux.Router
	server    *http.Server
}

// NewServer creates a new API server over the dashboard and the board it writes to
func NewServer(dash *dashboard.Dashboard, board *dashboard.Board, collector *metrics.Collector, log *zap.SugaredLogger, cfg config.ServerConfig) *Server {
	s := &Server{
		dashboard: dash,
		board:     board,
		metrics:   collector,
		log:       logger.OrNop(log),
		router:    mux.NewRouter(),
	}
	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.router.Use(requestIDMiddleware, s.loggingMiddleware, s.metricsMiddleware)

	s.router.HandleFunc("/", s.handlePage).Methods(http.MethodGet)
	s.router.HandleFunc("/api/health", s.handleHealthCheck).Methods(http.MethodGet)
	s.router.HandleFunc("/api/dashboard", s.handleDashboard).Methods(http.MethodGet)
	s.router.HandleFunc("/api/weather/{city}", s.handleGetWeather).Methods(http.MethodGet)
	s.router.HandleFunc("/api/location", s.handleLocation).Methods(http.MethodPost)
	s.router.HandleFunc("/api/units/toggle", s.handleToggleUnit).Methods(http.MethodPost)
	s.router.HandleFunc("/api/favorites", s.handleGetFavorites).Methods(http.MethodGet)
	s.router.HandleFunc("/api/favorites", s.handleAddCurrentFavorite).Methods(http.MethodPost)
	s.router.HandleFunc("/api/favorites/{city}/toggle", s.handleToggleFavorite).Methods(http.MethodPost)
	s.router.HandleFunc("/api/recents", s.handleGetRecents).Methods(http.MethodGet)

	if s.metrics != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
}

// Handler returns the routed handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.log.Infow("Starting API server", "address", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Infow("Shutting down API server")
	return s.server.Shutdown(ctx)
}
