package sources

import (
	"github.com/gin-gonic/gin"

	"github.com/wasper/research-api/api/types"
)

// RegisterRoutes registers source listing routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.GET("/sources", Get(deps))
}
