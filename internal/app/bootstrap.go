package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/bayes-bet/internal/config"
	"github.com/yourusername/bayes-bet/internal/logger"
)

// Bootstrap loads, overlays secrets on and validates the configuration,
// then builds the logger it asks for.
func Bootstrap(ctx context.Context, configPath string) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := config.LoadSecretsFromAWS(ctx, cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	if err := config.Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := config.ValidateEnvironment(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	log.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"league":      cfg.Backend.League,
	}).Info("Configuration loaded")
	return cfg, log, nil
}
