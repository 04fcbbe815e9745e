// Package api serves the chart payloads over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/bayes-bet/internal/metrics"
	"github.com/yourusername/bayes-bet/internal/models"
	"github.com/yourusername/bayes-bet/internal/service"
)

// Charts builds the chart payloads served by the API.
type Charts interface {
	Games(ctx context.Context, date string) (*service.GamesPayload, error)
	GameOutcome(ctx context.Context, version string, gamePk int64, date string) (*service.GameOutcomePayload, error)
	GoalDistribution(ctx context.Context, gamePk int64, date string) (*service.GoalDistributionPayload, error)
	Teams(ctx context.Context, date string) (*service.TeamsPayload, error)
	ModelPerformance(ctx context.Context, start, end string, window int) (*service.PerformancePayload, error)
	SocialCard(ctx context.Context, date string) (*service.SocialCard, error)
	Readiness(ctx context.Context, now time.Time) (models.Readiness, error)
}

// Config holds the HTTP server settings.
type Config struct {
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
	MetricsEnabled bool
	MetricsPath    string
}

// Server is the chart API server.
type Server struct {
	charts Charts
	hub    *Hub
	cfg    Config
	logger *logrus.Logger
	server *http.Server
	now    func() time.Time
}

// NewServer creates the API server. hub may be nil to disable the score
// websocket.
func NewServer(charts Charts, hub *Hub, cfg Config, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if cfg.Port == 0 {
		cfg.Port = 8000
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	return &Server{
		charts: charts,
		hub:    hub,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Router returns the API routes wrapped in the middleware chain.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, s.loggingMiddleware, metricsMiddleware, corsMiddleware(s.cfg.AllowedOrigins))

	v := r.PathPrefix("/api/{version:v1|v2}").Subrouter()
	withDate(v, "/games", s.handleGames)
	withDate(v, "/gameoutcome/{gamePk}", s.handleGameOutcome)
	withDate(v, "/goaldist/{gamePk}", s.handleGoalDistribution)
	withDate(v, "/teams", s.handleTeams)
	withDate(v, "/socialpreds", s.handleSocialCard)
	v.HandleFunc("/performance", s.handlePerformance).Methods(http.MethodGet)

	r.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)
	if s.hub != nil {
		r.HandleFunc("/ws/scores", s.hub.ServeWS).Methods(http.MethodGet)
	}
	if s.cfg.MetricsEnabled {
		r.Handle(s.cfg.MetricsPath, metrics.Handler()).Methods(http.MethodGet)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}

// withDate registers path both bare and with a trailing date segment.
func withDate(r *mux.Router, path string, h http.HandlerFunc) {
	r.HandleFunc(path, h).Methods(http.MethodGet)
	r.HandleFunc(path+"/{date}", h).Methods(http.MethodGet)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("port", s.cfg.Port).Info("Chart API server starting")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Chart API server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if s.hub != nil {
		s.hub.Close()
	}
	return s.server.Shutdown(shutdownCtx)
}
