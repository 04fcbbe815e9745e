package datasource

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/bayes-bet/internal/config"
)

// ClientConfigFromBackend maps the backend section onto HTTP client settings
func ClientConfigFromBackend(cfg config.BackendConfig) HTTPClientConfig {
	clientCfg := DefaultHTTPClientConfig()
	clientCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	clientCfg.MaxRetries = cfg.MaxRetries
	if cfg.RateLimit > 0 {
		clientCfg.RateLimit = cfg.RateLimit
	}
	if cfg.CircuitBreakerMax > 0 {
		clientCfg.CircuitBreakerMax = cfg.CircuitBreakerMax
	}
	return clientCfg
}

// NewPredictionSource builds the backend prediction source from configuration
func NewPredictionSource(cfg *config.Config, logger *logrus.Logger) *BackendSource {
	client := NewRateLimitedHTTPClient(ClientConfigFromBackend(cfg.Backend), logger)
	return NewBackendSource(cfg.Backend.URL, client, logger)
}
