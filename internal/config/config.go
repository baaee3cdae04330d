// Package config provides configuration management for the Pitwall service.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache" validate:"required"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Refresher RefresherConfig `mapstructure:"refresher"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the HTTP/WebSocket server configuration
type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	HealthPort      int    `mapstructure:"health_port" validate:"required,min=1,max=65535"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
}

// DatabaseConfig represents the relational store connection descriptor
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// CacheConfig represents the cache descriptor and per-resource TTL overrides.
// TTL values are seconds; zero means "use the default for that resource".
type CacheConfig struct {
	// Tier selects the cache topology: "memory" for a single in-process
	// tier, "tiered" for hot + shared tiers.
	Tier               string `mapstructure:"tier" validate:"required,oneof=memory tiered"`
	ScheduleTTLSeconds int    `mapstructure:"schedule_ttl_seconds" validate:"gte=0"`
	SessionTTLSeconds  int    `mapstructure:"session_ttl_seconds" validate:"gte=0"`
	LiveTTLSeconds     int    `mapstructure:"live_ttl_seconds" validate:"gte=0"`
	DriversTTLSeconds  int    `mapstructure:"drivers_ttl_seconds" validate:"gte=0"`
}

// AssistantConfig represents the external text-completion collaborator used
// by the chat feature.
type AssistantConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	URL            string  `mapstructure:"url" validate:"required_if=Enabled true,omitempty,url"`
	APIKey         string  `mapstructure:"api_key"`
	Model          string  `mapstructure:"model"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"gte=0"`
}

// RefresherConfig represents the background cache refresher jobs.
type RefresherConfig struct {
	Enabled                bool   `mapstructure:"enabled"`
	ScheduleCron           string `mapstructure:"schedule_cron"`
	LivePollSeconds        int    `mapstructure:"live_poll_seconds" validate:"gte=0"`
	// LiveSessionKey optionally pins one "{year}:{round}:{kind}" session
	// whose snapshot stays warm even with no subscribers.
	LiveSessionKey         string `mapstructure:"live_session_key" validate:"omitempty,sessionkey"`
	GracefulTimeoutSeconds int    `mapstructure:"graceful_timeout_seconds" validate:"gte=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// Default TTLs per resource kind.
const (
	DefaultScheduleTTL = time.Hour
	DefaultSessionTTL  = 30 * time.Minute
	DefaultLiveTTL     = 5 * time.Second
	DefaultDriversTTL  = 10 * time.Minute
)

// ScheduleTTL returns the schedule TTL, falling back to the default.
func (c *CacheConfig) ScheduleTTL() time.Duration {
	return ttlOrDefault(c.ScheduleTTLSeconds, DefaultScheduleTTL)
}

// SessionTTL returns the full-session aggregate TTL, falling back to the default.
func (c *CacheConfig) SessionTTL() time.Duration {
	return ttlOrDefault(c.SessionTTLSeconds, DefaultSessionTTL)
}

// LiveTTL returns the live snapshot TTL, falling back to the default.
func (c *CacheConfig) LiveTTL() time.Duration {
	return ttlOrDefault(c.LiveTTLSeconds, DefaultLiveTTL)
}

// DriversTTL returns the competitor list TTL, falling back to the default.
func (c *CacheConfig) DriversTTL() time.Duration {
	return ttlOrDefault(c.DriversTTLSeconds, DefaultDriversTTL)
}

func ttlOrDefault(seconds int, def time.Duration) time.Duration {
	if seconds <= 0 {
		return def
	}
	return time.Duration(seconds) * time.Second
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
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

// AssistantTimeout returns the per-call timeout for the completion service.
func (c *AssistantConfig) AssistantTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
