// Package config provides configuration management for the BayesBet chart service.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Backend   BackendConfig   `mapstructure:"backend" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache" validate:"required"`
	Charts    ChartsConfig    `mapstructure:"charts"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Health    HealthConfig    `mapstructure:"health"`
	Social    SocialConfig    `mapstructure:"social"`
	Secrets   SecretsConfig   `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// BackendConfig describes the model backend that publishes prediction runs
type BackendConfig struct {
	URL               string  `mapstructure:"url" validate:"required,url"`
	League            string  `mapstructure:"league" validate:"required,league"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries        int     `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RateLimit         float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	CircuitBreakerMax int     `mapstructure:"circuit_breaker_max" validate:"required,gt=0"`
}

// ServerConfig represents the chart API listener
type ServerConfig struct {
	Port                int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds  int      `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds int      `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	AllowedOrigins      []string `mapstructure:"allowed_origins"`
}

// CacheConfig controls the chart payload cache
type CacheConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds" validate:"required,gt=0"`
	MaxSize    int `mapstructure:"max_size" validate:"required,gt=0"`
}

// ChartsConfig tunes the chart payloads
type ChartsConfig struct {
	RollingWindow int `mapstructure:"rolling_window" validate:"gte=0"`
	// PredictionDayOffsetHours shifts "today" back so late games still
	// belong to the previous prediction date.
	PredictionDayOffsetHours int  `mapstructure:"prediction_day_offset_hours" validate:"gte=0,lte=23"`
	MergeShootout            bool `mapstructure:"merge_shootout"`
}

// SchedulerConfig represents scheduled sync and social jobs
type SchedulerConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	SyncCron   string `mapstructure:"sync_cron" validate:"omitempty,cron"`
	SocialCron string `mapstructure:"social_cron" validate:"omitempty,cron"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// HealthConfig represents the health check listener
type HealthConfig struct {
	Port     string `mapstructure:"port"`
	GRPCPort string `mapstructure:"grpc_port"`
}

// SocialConfig represents the daily prediction card publisher. An empty
// ReadinessURL checks the local store instead of polling the chart API.
// SiteURL is linked from the post caption.
type SocialConfig struct {
	Enabled                  bool   `mapstructure:"enabled"`
	PageURL                  string `mapstructure:"page_url" validate:"omitempty,url"`
	Selector                 string `mapstructure:"selector"`
	ReadinessURL             string `mapstructure:"readiness_url" validate:"omitempty,url"`
	SiteURL                  string `mapstructure:"site_url" validate:"omitempty,url"`
	TelegramToken            string `mapstructure:"telegram_token"`
	ChatID                   int64  `mapstructure:"chat_id"`
	ScreenshotTimeoutSeconds int    `mapstructure:"screenshot_timeout_seconds" validate:"gte=0"`
}

// SecretsConfig points at an AWS Secrets Manager secret
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region"`
	SecretName string `mapstructure:"secret_name"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// ServerAddress returns the listen address of the chart API
func (c *Config) ServerAddress() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// CacheTTL returns the chart cache TTL
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// PredictionDayOffset returns the offset applied when picking today's run
func (c *Config) PredictionDayOffset() time.Duration {
	return time.Duration(c.Charts.PredictionDayOffsetHours) * time.Hour
}

// ScreenshotTimeout returns the social card screenshot timeout
func (c *Config) ScreenshotTimeout() time.Duration {
	if c.Social.ScreenshotTimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.Social.ScreenshotTimeoutSeconds) * time.Second
}
