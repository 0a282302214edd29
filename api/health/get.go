package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wasper/research-api/api/types"
)

// Get handles health check requests
// @Summary      Health check
// @Description  Reports liveness and whether the scraping vendor is configured
// @Tags         system
// @Produce      json
// @Success      200  {object}  types.HealthResponse
// @Router       /health [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := types.HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks: map[string]string{
				"apify_token": tokenStatus(deps),
				"run_service": serviceStatus(deps),
			},
		}
		if deps != nil {
			response.Version = deps.Build.Version
		}

		// A missing token degrades scrape endpoints but the process is alive
		if response.Checks["apify_token"] != "configured" || response.Checks["run_service"] != "ready" {
			response.Status = "degraded"
		}

		c.JSON(http.StatusOK, response)
	}
}

func tokenStatus(deps *types.Dependencies) string {
	if deps == nil || deps.Config == nil || deps.Config.Apify.Token == "" {
		return "missing"
	}
	return "configured"
}

func serviceStatus(deps *types.Dependencies) string {
	if deps == nil || deps.RunService == nil {
		return "not configured"
	}
	return "ready"
}
