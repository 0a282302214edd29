package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasper/research-api/api/types"
	"github.com/wasper/research-api/internal/services/runs"
	"github.com/wasper/research-api/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8080},
		Apify:  config.ApifyConfig{Token: "token"},
		RateLimiting: config.RateLimitConfig{
			Enabled: true, RunRPS: 1, RunBurst: 1, PollRPS: 10, PollBurst: 10,
		},
		Security: config.SecurityConfig{
			EnableCORS: true, CORSOrigins: []string{"*"}, EnableRequestID: true,
		},
		Monitoring: config.MonitoringConfig{Enabled: true, MetricsPath: "/metrics", HealthPath: "/health"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	server := NewServer(cfg, zerolog.New(io.Discard))
	server.SetDependencies(&types.Dependencies{
		RunService: runs.NewService(nil, runs.Config{}),
	})
	require.NoError(t, server.Initialize())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	})
	return server
}

func TestServerRoutes(t *testing.T) {
	server := newTestServer(t, testConfig())

	tests := []struct {
		name         string
		method       string
		path         string
		expectedCode int
		contains     string
	}{
		{"health", http.MethodGet, "/health", http.StatusOK, `"apify_token":"configured"`},
		{"version", http.MethodGet, "/", http.StatusOK, `"name":"Research API"`},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK, "go_goroutines"},
		{"docs redirect", http.MethodGet, "/docs", http.StatusMovedPermanently, ""},
		{"sources", http.MethodGet, "/api/v1/sources", http.StatusOK, `"default":"google-maps"`},
		{"start without query", http.MethodGet, "/api/v1/run", http.StatusBadRequest, `"code":"INVALID_REQUEST"`},
		{"unknown route", http.MethodGet, "/api/v1/nope", http.StatusNotFound, `"code":"NOT_FOUND"`},
		{"wrong method", http.MethodDelete, "/api/v1/sources", http.StatusMethodNotAllowed, `"code":"INVALID_REQUEST"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.RemoteAddr = "10.0.0.1:1234"
			server.Engine().ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
			assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		})
	}
}

func TestServerErrorsAreJSON(t *testing.T) {
	server := newTestServer(t, testConfig())

	for _, path := range []string{"/missing", "/api/v1/run/%20", "/api/v1/results"} {
		w := httptest.NewRecorder()
		server.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		assert.GreaterOrEqual(t, w.Code, http.StatusBadRequest, path)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json", path)

		var body types.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), path)
		assert.NotEmpty(t, body.Error, path)
		assert.NotEmpty(t, body.Code, path)
	}
}

func TestServerStartRateLimitIsScoped(t *testing.T) {
	server := newTestServer(t, testConfig())

	hit := func(path string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "10.0.0.2:1234"
		server.Engine().ServeHTTP(w, req)
		return w.Code
	}

	// Empty queries are rejected after the limiter has counted them
	assert.Equal(t, http.StatusBadRequest, hit("/api/v1/run"))
	assert.Equal(t, http.StatusTooManyRequests, hit("/api/v1/run"))
	assert.NotEqual(t, http.StatusTooManyRequests, hit("/api/v1/results"))
}

func TestServerOptionalSurfaces(t *testing.T) {
	cfg := testConfig()
	cfg.Monitoring.Enabled = false
	cfg.RateLimiting.Enabled = false
	cfg.Security.EnableRequestID = false
	server := newTestServer(t, cfg)

	w := httptest.NewRecorder()
	server.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Header().Get(RequestIDHeader))

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		server.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/run", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestNewServerAddress(t *testing.T) {
	server := NewServer(testConfig(), zerolog.Nop())
	assert.Equal(t, "127.0.0.1:8080", server.Addr())
}
