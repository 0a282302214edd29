package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/wasper/research-api/api/health"
	"github.com/wasper/research-api/api/run"
	"github.com/wasper/research-api/api/sources"
	"github.com/wasper/research-api/api/types"
	"github.com/wasper/research-api/api/version"
	_ "github.com/wasper/research-api/docs/swagger"
	"github.com/wasper/research-api/internal/metrics"
	"github.com/wasper/research-api/pkg/config"
	apperrors "github.com/wasper/research-api/pkg/errors"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	if deps == nil {
		deps = &types.Dependencies{}
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{}
	}

	// Public routes, no rate limiting
	healthPath := cfg.Monitoring.HealthPath
	if healthPath == "" {
		healthPath = "/health"
	}
	health.RegisterRoutes(engine, deps, healthPath)
	version.RegisterRoutes(engine, deps)

	if cfg.Monitoring.Enabled {
		metricsPath := cfg.Monitoring.MetricsPath
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		engine.GET(metricsPath, gin.WrapH(metrics.Handler()))
	}

	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.NoRoute(NotFoundHandler())
	engine.NoMethod(MethodNotAllowedHandler())

	v1 := engine.Group("/api/v1")

	// Starting a run costs vendor credits, polling is cheap
	var startLimit, pollLimit gin.HandlerFunc
	if cfg.RateLimiting.Enabled {
		startLimit = PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, "run",
			cfg.RateLimiting.RunRPS, cfg.RateLimiting.RunBurst)
		pollLimit = PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, "poll",
			cfg.RateLimiting.PollRPS, cfg.RateLimiting.PollBurst)
	}
	run.RegisterRoutes(v1, deps, startLimit, pollLimit)
	sources.RegisterRoutes(v1, deps)

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		types.SendNotFound(c, "the requested endpoint was not found")
	}
}

// MethodNotAllowedHandler handles 405 errors
func MethodNotAllowedHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		err := apperrors.New(apperrors.ErrCodeInvalidRequest, "method not allowed").
			WithDetail("method", c.Request.Method).
			WithDetail("path", c.Request.URL.Path)
		err.HTTPCode = http.StatusMethodNotAllowed
		types.SendError(c, err)
	}
}
