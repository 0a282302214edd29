package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/wasper/research-api/api"
	"github.com/wasper/research-api/api/types"
	"github.com/wasper/research-api/internal/models"
	"github.com/wasper/research-api/internal/services/apify"
	"github.com/wasper/research-api/internal/services/normalizer"
	"github.com/wasper/research-api/internal/services/runs"
	"github.com/wasper/research-api/pkg/config"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Research API server",
	Long: `Start the Research API server with the configured settings.

The Apify token is read from apify.token in config/settings.yaml or
from the RESEARCH_APIFY_TOKEN environment variable.

Example:
  research-api serve
  research-api serve --port 9090
  research-api serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, log.Logger)
}

// serve runs the HTTP server until ctx is done, then shuts it down gracefully
func serve(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	server, err := buildServer(cfg, logger)
	if err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	logger.Info().
		Str("addr", server.Addr()).
		Str("mode", cfg.Apify.Mode).
		Bool("token_configured", cfg.Apify.Token != "").
		Msg("Research API server started")

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("Shutting down server")
	case runErr = <-serverErr:
		logger.Error().Err(runErr).Msg("Server stopped unexpectedly")
	}

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}

	logger.Info().Msg("Server gracefully stopped")
	return runErr
}

// buildServer wires the vendor client, run service and HTTP server
func buildServer(cfg *config.Config, logger zerolog.Logger) (*api.Server, error) {
	aliases, err := normalizer.DefaultAliases().WithOverrides(cfg.Normalizer.Aliases)
	if err != nil {
		return nil, fmt.Errorf("invalid normalizer.aliases: %w", err)
	}

	client := apify.NewClient(apify.Config{
		Token:     cfg.Apify.Token,
		BaseURL:   cfg.Apify.BaseURL,
		UserAgent: cfg.Apify.UserAgent,
		Timeout:   cfg.Apify.Timeout,
		RateLimit: cfg.Apify.RateLimit,
	})

	service := runs.NewService(client, runs.Config{
		Mode:          cfg.Apify.Mode,
		ActorID:       cfg.Apify.ActorID,
		WaitSeconds:   cfg.Apify.WaitSeconds,
		PollInterval:  cfg.Apify.PollInterval,
		PollTimeout:   cfg.Apify.PollTimeout,
		LocationQuery: cfg.Apify.LocationQuery,
		Language:      cfg.Apify.Language,
		Limits:        cfg.Limits,
	}, runs.WithNormalizer(normalizer.New(normalizer.WithAliases(aliases))))

	server := api.NewServer(cfg, logger)
	server.SetDependencies(&types.Dependencies{
		RunService: service,
		Config:     cfg,
		Sources:    models.KnownSources,
		Build: types.BuildInfo{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildTime,
		},
	})

	if err := server.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize server: %w", err)
	}

	return server, nil
}
