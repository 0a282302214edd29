package run

import (
	"github.com/gin-gonic/gin"

	"github.com/wasper/research-api/api/types"
)

// RegisterRoutes registers run routes. Start and poll endpoints take separate
// middleware so they can be rate limited independently; either may be nil.
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, startMiddleware, pollMiddleware gin.HandlerFunc) {
	router.GET("/run", with(byRunID(startMiddleware, pollMiddleware), Get(deps))...)
	router.POST("/run", with(startMiddleware, Post(deps))...)
	router.GET("/run/:runId", with(pollMiddleware, GetByID(deps))...)
	router.GET("/results", with(pollMiddleware, GetResults(deps))...)
}

func with(middleware, handler gin.HandlerFunc) []gin.HandlerFunc {
	if middleware == nil {
		return []gin.HandlerFunc{handler}
	}
	return []gin.HandlerFunc{middleware, handler}
}

// byRunID applies the poll middleware to requests that carry a runId and the
// start middleware to the rest.
func byRunID(startMiddleware, pollMiddleware gin.HandlerFunc) gin.HandlerFunc {
	if startMiddleware == nil && pollMiddleware == nil {
		return nil
	}
	return func(c *gin.Context) {
		middleware := startMiddleware
		if runIDFromQuery(c) != "" {
			middleware = pollMiddleware
		}
		if middleware == nil {
			c.Next()
			return
		}
		middleware(c)
	}
}
