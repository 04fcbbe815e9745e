// Package app wires the chart service components from configuration.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/bayes-bet/internal/api"
	"github.com/yourusername/bayes-bet/internal/cache"
	"github.com/yourusername/bayes-bet/internal/config"
	"github.com/yourusername/bayes-bet/internal/database"
	"github.com/yourusername/bayes-bet/internal/datasource"
	"github.com/yourusername/bayes-bet/internal/health"
	"github.com/yourusername/bayes-bet/internal/metrics"
	"github.com/yourusername/bayes-bet/internal/repository"
	"github.com/yourusername/bayes-bet/internal/scheduler"
	"github.com/yourusername/bayes-bet/internal/service"
	"github.com/yourusername/bayes-bet/internal/social"
	"github.com/yourusername/bayes-bet/internal/teams"
)

// Options selects optional wiring.
type Options struct {
	// InMemory keeps prediction runs in process memory instead of Postgres.
	InMemory bool
	Version  string
	Commit   string
}

// App holds the wired components.
type App struct {
	Config *config.Config
	Logger *logrus.Logger
	DB     *database.DB
	Repos  *repository.Repositories
	Cache  *cache.ChartCache
	Source *datasource.BackendSource
	Hub    *api.Hub
	Charts *service.ChartService
	Sync   *service.SyncService

	opts Options
}

// New connects the store and builds the services.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	a := &App{Config: cfg, Logger: logger, opts: opts}

	if opts.InMemory {
		logger.Warn("Using in-memory prediction store; runs are lost on restart")
		a.Repos = repository.NewMemoryRepositories()
	} else {
		db, err := database.Initialize(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		repos, err := repository.NewRepositories(db)
		if err != nil {
			db.Close()
			return nil, err
		}
		a.DB, a.Repos = db, repos
		logger.Info("Database connection established")
	}

	a.Cache = cache.NewChartCache(cfg.CacheTTL(), cfg.Cache.MaxSize)
	a.Source = datasource.NewPredictionSource(cfg, logger)
	a.Hub = api.NewHub(cfg.Server.AllowedOrigins, logger)

	a.Charts = service.NewChartService(a.Repos.PredictionRun, teams.Default(), a.Cache, service.ChartOptions{
		League:              cfg.Backend.League,
		PredictionDayOffset: cfg.PredictionDayOffset(),
		RollingWindow:       cfg.Charts.RollingWindow,
		MergeShootout:       cfg.Charts.MergeShootout,
	}, logger)
	a.Sync = service.NewSyncService(a.Source, a.Repos.PredictionRun, a.Cache, a.Hub,
		cfg.Backend.League, cfg.PredictionDayOffset(), logger)

	return a, nil
}

// NewPublisher builds the social card publisher. Readiness is polled over
// HTTP when a readiness URL is configured, otherwise read from the store.
func (a *App) NewPublisher() (*social.Publisher, error) {
	cfg := a.Config.Social
	poster, err := social.NewTelegramPoster(cfg.TelegramToken, cfg.ChatID, "", &http.Client{Timeout: 30 * time.Second})
	if err != nil {
		return nil, err
	}

	var readiness social.ReadinessChecker = a.Charts
	if cfg.ReadinessURL != "" {
		client := datasource.NewRateLimitedHTTPClient(datasource.ClientConfigFromBackend(a.Config.Backend), a.Logger)
		readiness = social.NewHTTPReadiness(client, cfg.ReadinessURL)
	}

	return social.NewPublisher(readiness, social.NewChromeScreenshotter(a.Config.ScreenshotTimeout(), ""), poster, social.Options{
		PageURL:  cfg.PageURL,
		Selector: cfg.Selector,
		SiteURL:  cfg.SiteURL,
	}, a.Logger), nil
}

// NewScheduler registers the sync job and, when publisher is not nil, the
// social post job.
func (a *App) NewScheduler(publisher scheduler.Publisher) (*scheduler.Scheduler, error) {
	s := scheduler.NewScheduler(a.Logger)
	if err := s.ScheduleSync(a.Config.Scheduler.SyncCron, a.Sync); err != nil {
		return nil, err
	}
	if publisher != nil && a.Config.Scheduler.SocialCron != "" {
		if err := s.SchedulePublish(a.Config.Scheduler.SocialCron, publisher); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Serve runs the health server, the scheduler when enabled and the chart
// API until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	healthServer := health.NewServer(health.Config{
		ServiceName: a.Config.App.Name,
		Version:     a.opts.Version,
		Commit:      a.opts.Commit,
		Port:        a.Config.Health.Port,
		GRPCPort:    a.Config.Health.GRPCPort,
		Logger:      a.Logger,
		DB:          a.pinger(),
		Backend:     a.Source.Client(),
	})
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}

	if a.Config.Scheduler.Enabled {
		var publisher scheduler.Publisher
		if a.Config.Social.Enabled {
			p, err := a.NewPublisher()
			if err != nil {
				return fmt.Errorf("failed to create social publisher: %w", err)
			}
			publisher = p
		}
		sched, err := a.NewScheduler(publisher)
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		if err := sched.Start(); err != nil {
			return err
		}
		defer func() {
			if err := sched.Stop(); err != nil {
				a.Logger.WithError(err).Warn("Scheduler stop failed")
			}
		}()
	}

	server := api.NewServer(a.Charts, a.Hub, api.Config{
		Port:           a.Config.Server.Port,
		ReadTimeout:    time.Duration(a.Config.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:   time.Duration(a.Config.Server.WriteTimeoutSeconds) * time.Second,
		AllowedOrigins: a.Config.Server.AllowedOrigins,
		MetricsEnabled: a.Config.Metrics.Enabled,
		MetricsPath:    a.Config.Metrics.Path,
	}, a.Logger)

	healthServer.SetReady(true)
	return server.Run(ctx)
}

func (a *App) pinger() health.DatabasePinger {
	if a.DB == nil {
		return nil
	}
	return a.DB
}

// Close releases the database pool and idle backend connections.
func (a *App) Close() {
	if a.Source != nil {
		_ = a.Source.Client().Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
