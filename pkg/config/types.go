package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment  string           `mapstructure:"environment"`
	Server       ServerConfig     `mapstructure:"server"`
	Apify        ApifyConfig      `mapstructure:"apify"`
	Limits       LimitsConfig     `mapstructure:"limits"`
	Normalizer   NormalizerConfig `mapstructure:"normalizer"`
	RateLimiting RateLimitConfig  `mapstructure:"rate_limiting"`
	Security     SecurityConfig   `mapstructure:"security"`
	Logging      LoggingConfig    `mapstructure:"logging"`
	Monitoring   MonitoringConfig `mapstructure:"monitoring"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

// ApifyConfig contains scraping vendor settings
type ApifyConfig struct {
	Token         string        `mapstructure:"token"`
	BaseURL       string        `mapstructure:"base_url"`
	ActorID       string        `mapstructure:"actor_id"`
	Mode          string        `mapstructure:"mode"` // "sync" or "async"
	WaitSeconds   int           `mapstructure:"wait_seconds"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	PollTimeout   time.Duration `mapstructure:"poll_timeout"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RateLimit     int           `mapstructure:"rate_limit"` // requests per second
	UserAgent     string        `mapstructure:"user_agent"`
	LocationQuery string        `mapstructure:"location_query"`
	Language      string        `mapstructure:"language"`
}

// LimitsConfig bounds what a single search may ask the vendor for
type LimitsConfig struct {
	MinResults     int `mapstructure:"min_results"`
	MaxResults     int `mapstructure:"max_results"`
	DefaultResults int `mapstructure:"default_results"`
	MinReviews     int `mapstructure:"min_reviews"`
	MaxReviews     int `mapstructure:"max_reviews"`
	DefaultReviews int `mapstructure:"default_reviews"`
	MaxAgeDays     int `mapstructure:"max_age_days"`
}

// NormalizerConfig contains field alias overrides keyed by semantic attribute
type NormalizerConfig struct {
	Aliases map[string][]string `mapstructure:"aliases"`
}

// RateLimitConfig contains inbound rate limiting settings
type RateLimitConfig struct {
	Enabled   bool `mapstructure:"enabled"`
	RunRPS    int  `mapstructure:"run_rps"`
	RunBurst  int  `mapstructure:"run_burst"`
	PollRPS   int  `mapstructure:"poll_rps"`
	PollBurst int  `mapstructure:"poll_burst"`
}

// SecurityConfig contains security settings
type SecurityConfig struct {
	EnableCORS      bool     `mapstructure:"enable_cors"`
	CORSOrigins     []string `mapstructure:"cors_origins"`
	EnableRequestID bool     `mapstructure:"enable_request_id"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// MonitoringConfig contains monitoring settings
type MonitoringConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	MetricsPath string `mapstructure:"metrics_path"`
	HealthPath  string `mapstructure:"health_path"`
}
