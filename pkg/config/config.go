package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

const (
	ModeSync  = "sync"
	ModeAsync = "async"
)

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		setDefaults()

		// Environment overrides, e.g. RESEARCH_APIFY_TOKEN
		viper.SetEnvPrefix("RESEARCH")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		configPath := filepath.Clean("./config/settings.yaml")
		viper.SetConfigFile(configPath)

		if err := viper.ReadInConfig(); err != nil {
			// A missing file is fine; defaults and env vars apply
			if !os.IsNotExist(err) {
				initErr = fmt.Errorf("error reading config file %s: %w", configPath, err)
				return
			}
		}

		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	mode := viper.GetString("apify.mode")
	if mode != ModeSync && mode != ModeAsync {
		return fmt.Errorf("invalid apify.mode %q: must be %q or %q", mode, ModeSync, ModeAsync)
	}

	// The token is checked again per request so that a misconfigured process
	// still answers with a structured configuration error.
	if viper.GetString("apify.token") == "" {
		env := viper.GetString("environment")
		if env == "production" || env == "prod" {
			return fmt.Errorf("apify.token is required in production")
		}
		fmt.Fprintln(os.Stderr, "Warning: apify.token is not set; scrape requests will fail")
	}

	// Auto-correct inverted limits
	if viper.GetInt("limits.max_results") < viper.GetInt("limits.min_results") {
		viper.Set("limits.max_results", viper.GetInt("limits.min_results"))
	}
	if viper.GetInt("limits.max_reviews") < viper.GetInt("limits.min_reviews") {
		viper.Set("limits.max_reviews", viper.GetInt("limits.min_reviews"))
	}

	if viper.GetDuration("apify.poll_interval") <= 0 {
		viper.Set("apify.poll_interval", 2*time.Second)
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Apify.Mode != ModeSync && c.Apify.Mode != ModeAsync {
		return fmt.Errorf("invalid apify mode %q", c.Apify.Mode)
	}

	if c.Limits.MinResults < 1 {
		c.Limits.MinResults = 1
	}
	if c.Limits.MaxResults < c.Limits.MinResults {
		c.Limits.MaxResults = c.Limits.MinResults
	}
	if c.Limits.MinReviews < 0 {
		c.Limits.MinReviews = 0
	}
	if c.Limits.MaxReviews < c.Limits.MinReviews {
		c.Limits.MaxReviews = c.Limits.MinReviews
	}

	if c.Apify.PollInterval <= 0 {
		c.Apify.PollInterval = 2 * time.Second
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	// Synchronous runs hold the connection for up to the poll budget
	viper.SetDefault("server.write_timeout", 3*time.Minute)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)
	viper.SetDefault("server.max_body_bytes", 1048576)

	// Apify defaults
	viper.SetDefault("apify.token", "")
	viper.SetDefault("apify.base_url", "https://api.apify.com/v2")
	viper.SetDefault("apify.actor_id", "compass/crawler-google-places")
	viper.SetDefault("apify.mode", ModeAsync)
	viper.SetDefault("apify.wait_seconds", 30)
	viper.SetDefault("apify.poll_interval", 2*time.Second)
	viper.SetDefault("apify.poll_timeout", 2*time.Minute)
	viper.SetDefault("apify.timeout", 90*time.Second)
	viper.SetDefault("apify.rate_limit", 5)
	viper.SetDefault("apify.user_agent", "ResearchAPI/1.0")
	viper.SetDefault("apify.location_query", "Ireland")
	viper.SetDefault("apify.language", "en")

	// Limits defaults
	viper.SetDefault("limits.min_results", 1)
	viper.SetDefault("limits.max_results", 25)
	viper.SetDefault("limits.default_results", 8)
	viper.SetDefault("limits.min_reviews", 0)
	viper.SetDefault("limits.max_reviews", 50)
	viper.SetDefault("limits.default_reviews", 20)
	viper.SetDefault("limits.max_age_days", 3650)

	// Rate limiting defaults
	viper.SetDefault("rate_limiting.enabled", true)
	viper.SetDefault("rate_limiting.run_rps", 1)
	viper.SetDefault("rate_limiting.run_burst", 5)
	viper.SetDefault("rate_limiting.poll_rps", 5)
	viper.SetDefault("rate_limiting.poll_burst", 10)

	// Security defaults
	viper.SetDefault("security.enable_cors", true)
	viper.SetDefault("security.cors_origins", []string{"*"})
	viper.SetDefault("security.enable_request_id", true)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")

	// Monitoring defaults
	viper.SetDefault("monitoring.enabled", true)
	viper.SetDefault("monitoring.metrics_path", "/metrics")
	viper.SetDefault("monitoring.health_path", "/health")
}
