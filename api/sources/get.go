package sources

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wasper/research-api/api/types"
	"github.com/wasper/research-api/internal/models"
)

// Get lists the sources the console can search
// @Summary      List sources
// @Description  Lists every selectable source and whether it is wired to a scraping actor
// @Tags         sources
// @Produce      json
// @Success      200 {object} types.SourcesResponse
// @Router       /api/v1/sources [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		list := models.KnownSources
		if deps != nil && len(deps.Sources) > 0 {
			list = deps.Sources
		}

		c.JSON(http.StatusOK, types.SourcesResponse{
			Sources: list,
			Default: models.SourceGoogleMaps,
		})
	}
}
