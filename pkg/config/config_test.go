package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetConfig clears viper and the Init guard so each case starts clean
func resetConfig(t *testing.T) {
	t.Helper()
	viper.Reset()
	once = sync.Once{}
	initErr = nil
	t.Cleanup(func() {
		viper.Reset()
		once = sync.Once{}
		initErr = nil
	})
}

// inTempDir runs the test from an empty directory, optionally with a settings file
func inTempDir(t *testing.T, settings string) {
	t.Helper()
	dir := t.TempDir()
	if settings != "" {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "settings.yaml"), []byte(settings), 0o644))
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func loaded(t *testing.T) *Config {
	t.Helper()
	cfg, err := GetConfig()
	require.NoError(t, err)
	return cfg
}

func TestInit(t *testing.T) {
	tests := []struct {
		name     string
		settings string
		env      map[string]string
		wantErr  bool
		check    func(t *testing.T)
	}{
		{
			name: "missing config file uses defaults",
			check: func(t *testing.T) {
				cfg := loaded(t)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, ModeAsync, cfg.Apify.Mode)
				assert.Equal(t, 2*time.Minute, cfg.Apify.PollTimeout)
				assert.Equal(t, 25, cfg.Limits.MaxResults)
			},
		},
		{
			name: "load from settings.yaml",
			settings: `
server:
  port: 9000
apify:
  mode: sync
  location_query: "Dublin"
`,
			check: func(t *testing.T) {
				cfg := loaded(t)
				assert.Equal(t, 9000, cfg.Server.Port)
				assert.Equal(t, ModeSync, cfg.Apify.Mode)
				assert.Equal(t, "Dublin", cfg.Apify.LocationQuery)
			},
		},
		{
			name: "environment variable override",
			settings: `
server:
  port: 9000
`,
			env: map[string]string{
				"RESEARCH_SERVER_PORT": "9090",
				"RESEARCH_APIFY_TOKEN": "secret-token",
			},
			check: func(t *testing.T) {
				cfg := loaded(t)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, "secret-token", cfg.Apify.Token)
			},
		},
		{
			name: "invalid mode is rejected",
			settings: `
apify:
  mode: eventually
`,
			wantErr: true,
		},
		{
			name:    "production requires a token",
			env:     map[string]string{"RESEARCH_ENVIRONMENT": "production"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetConfig(t)
			inTempDir(t, tt.settings)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			err := Init()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t)
			}
		})
	}
}

func TestGetConfigUnmarshalsAliases(t *testing.T) {
	resetConfig(t)
	inTempDir(t, `
normalizer:
  aliases:
    title: ["businessName", "title"]
`)
	require.NoError(t, Init())

	cfg, err := GetConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"businessName", "title"}, cfg.Normalizer.Aliases["title"])
	assert.Equal(t, "https://api.apify.com/v2", cfg.Apify.BaseURL)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		check   func(t *testing.T, c *Config)
	}{
		{
			name: "valid config",
			config: &Config{
				Server: ServerConfig{Port: 8080},
				Apify:  ApifyConfig{Mode: ModeAsync, PollInterval: time.Second},
				Limits: LimitsConfig{MinResults: 1, MaxResults: 25, MaxReviews: 50},
			},
		},
		{
			name: "invalid port",
			config: &Config{
				Server: ServerConfig{Port: 0},
				Apify:  ApifyConfig{Mode: ModeAsync},
			},
			wantErr: true,
		},
		{
			name: "invalid mode",
			config: &Config{
				Server: ServerConfig{Port: 8080},
				Apify:  ApifyConfig{Mode: "later"},
			},
			wantErr: true,
		},
		{
			name: "inverted limits are corrected",
			config: &Config{
				Server: ServerConfig{Port: 8080},
				Apify:  ApifyConfig{Mode: ModeSync},
				Limits: LimitsConfig{MinResults: 5, MaxResults: 2, MinReviews: -3, MaxReviews: -1},
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 5, c.Limits.MaxResults)
				assert.Equal(t, 0, c.Limits.MinReviews)
				assert.Equal(t, 0, c.Limits.MaxReviews)
				assert.Equal(t, 2*time.Second, c.Apify.PollInterval)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, tt.config)
			}
		})
	}
}
