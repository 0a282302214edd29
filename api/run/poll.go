package run

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wasper/research-api/api/types"
	"github.com/wasper/research-api/internal/models"
	apperrors "github.com/wasper/research-api/pkg/errors"
)

// GetByID checks a run once and returns its rows when it has finished
// @Summary      Poll a scrape run
// @Description  Performs one status check. Finished runs return normalized rows; others return the current status.
// @Tags         runs
// @Produce      json
// @Param        runId            path  string true  "Run id returned by the start call"
// @Param        maxSubItemCount  query int    false "Reviews per record (alias: maxReviews)"
// @Param        minRating        query number false "Drop reviews rated below this value"
// @Param        maxAgeDays       query int    false "Drop reviews older than this many days (alias: days)"
// @Success      200 {object} types.RunResponse "Current run state, with rows once SUCCEEDED"
// @Failure      400 {object} types.ErrorResponse "Invalid parameters"
// @Failure      404 {object} types.ErrorResponse "Unknown run"
// @Failure      502 {object} types.ErrorResponse "Scraping service unavailable or run failed"
// @Failure      504 {object} types.ErrorResponse "Poll budget exhausted"
// @Router       /api/v1/run/{runId} [get]
func GetByID(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		poll(c, deps, c.Param("runId"))
	}
}

// GetResults is the query-string form of GetByID
// @Summary      Poll a scrape run
// @Description  Same as GET /api/v1/run/{runId} with the run id as a query parameter
// @Tags         runs
// @Produce      json
// @Param        runId            query string true  "Run id returned by the start call"
// @Param        maxSubItemCount  query int    false "Reviews per record (alias: maxReviews)"
// @Param        minRating        query number false "Drop reviews rated below this value"
// @Param        maxAgeDays       query int    false "Drop reviews older than this many days (alias: days)"
// @Success      200 {object} types.RunResponse "Current run state, with rows once SUCCEEDED"
// @Failure      400 {object} types.ErrorResponse "Invalid parameters"
// @Failure      404 {object} types.ErrorResponse "Unknown run"
// @Failure      502 {object} types.ErrorResponse "Scraping service unavailable or run failed"
// @Failure      504 {object} types.ErrorResponse "Poll budget exhausted"
// @Router       /api/v1/results [get]
func GetResults(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		poll(c, deps, c.Query("runId"))
	}
}

func poll(c *gin.Context, deps *types.Dependencies, runID string) {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		types.SendBadRequest(c, "runId", "is required")
		return
	}
	if deps == nil || deps.RunService == nil {
		types.SendError(c, apperrors.ConfigurationError("apify", "run service is not initialized"))
		return
	}

	filters, err := types.FiltersFromQuery(c)
	if err != nil {
		types.SendError(c, err)
		return
	}
	opts := deps.RunService.ResolveOptions(filters.ToSearchRequest())

	result, err := deps.RunService.PollRun(c.Request.Context(), models.RunHandle{RunID: runID}, opts)
	if err != nil {
		types.SendError(c, err)
		return
	}

	if result.Handle.Status == models.RunStatusSucceeded {
		c.JSON(http.StatusOK, types.NewRowsResponse(result.Handle.RunID, result.Rows))
		return
	}
	c.JSON(http.StatusOK, types.NewHandleResponse(result.Handle))
}
