package health

import (
	"github.com/gin-gonic/gin"

	"github.com/wasper/research-api/api/types"
)

// RegisterRoutes registers health check routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, path string) {
	engine.GET(path, Get(deps))
}
