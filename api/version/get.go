package version

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wasper/research-api/api/types"
)

const (
	serviceName        = "Research API"
	serviceDescription = "Starts Google Maps scrape runs and returns normalized result rows"
)

// Get handles version requests
// @Summary      Service version
// @Description  Returns build information for the running service
// @Tags         system
// @Produce      json
// @Success      200  {object}  types.VersionResponse
// @Router       / [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := types.VersionResponse{
			Name:        serviceName,
			Version:     "dev",
			Description: serviceDescription,
			Status:      "running",
		}
		if deps != nil {
			if deps.Build.Version != "" {
				response.Version = deps.Build.Version
			}
			response.GitCommit = deps.Build.GitCommit
			response.BuildDate = deps.Build.BuildDate
		}

		c.JSON(http.StatusOK, response)
	}
}
