package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/wasper/research-api/pkg/config"
)

func testServeConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 18089, ShutdownTimeout: time.Second},
		Apify: config.ApifyConfig{
			Token: "token",
			Mode:  config.ModeAsync,
		},
		Monitoring: config.MonitoringConfig{Enabled: true},
	}
}

func TestServeCommandHelp(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"serve", "--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Start the Research API server") {
		t.Errorf("Expected help output, got %q", buf.String())
	}
}

func TestServeCommandInvalidPort(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"serve", "--port", "invalid"})

	if err := cmd.Execute(); err == nil {
		t.Error("Expected an error for a non-numeric port")
	}
}

func TestServeCommandFlags(t *testing.T) {
	cmd := NewRootCmd()
	serveCmd, _, err := cmd.Find([]string{"serve"})
	if err != nil {
		t.Fatalf("Failed to find serve command: %v", err)
	}

	for _, name := range []string{"port", "host"} {
		if serveCmd.Flags().Lookup(name) == nil {
			t.Errorf("Expected %s flag to be registered", name)
		}
	}
}

func TestBuildServer(t *testing.T) {
	server, err := buildServer(testServeConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("buildServer() error = %v", err)
	}

	w := httptest.NewRecorder()
	server.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sources", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 from sources, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	server.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version", nil))
	if !strings.Contains(w.Body.String(), `"version":"`+Version+`"`) {
		t.Errorf("Expected build version in body, got %s", w.Body.String())
	}

	if err := server.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestBuildServerRejectsUnknownAlias(t *testing.T) {
	cfg := testServeConfig()
	cfg.Normalizer.Aliases = map[string][]string{"colour": {"color"}}

	if _, err := buildServer(cfg, zerolog.Nop()); err == nil {
		t.Error("Expected an error for an unknown alias attribute")
	}
}

func TestServeStopsWhenContextIsDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, testServeConfig(), zerolog.Nop())
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve() did not return after cancellation")
	}
}
