package run

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wasper/research-api/api/types"
	apperrors "github.com/wasper/research-api/pkg/errors"
)

// Get starts a scrape run from query parameters. A runId parameter turns the
// call into a poll of that run, which is how the console re-polls.
// @Summary      Start or poll a scrape run
// @Description  Starts a Google Maps scrape. In sync mode the normalized rows are returned; in async mode a run handle to poll. With runId set, checks that run once instead of starting a new one.
// @Tags         runs
// @Produce      json
// @Param        query            query string  false "Search text (alias: q), required unless runId is set"
// @Param        runId            query string  false "Poll this run instead of starting one"
// @Param        source           query string  false "Source id, defaults to google-maps"
// @Param        maxResultCount   query int     false "Top-level records to scrape (alias: maxPlaces)"
// @Param        maxSubItemCount  query int     false "Reviews per record (alias: maxReviews)"
// @Param        minRating        query number  false "Drop reviews rated below this value"
// @Param        maxAgeDays       query int     false "Drop reviews older than this many days (alias: days)"
// @Success      200 {object} types.RunResponse "Finished run with rows"
// @Success      202 {object} types.RunResponse "Run started, poll for results"
// @Failure      400 {object} types.ErrorResponse "Invalid parameters"
// @Failure      500 {object} types.ErrorResponse "Missing configuration"
// @Failure      502 {object} types.ErrorResponse "Scraping service unavailable or run failed"
// @Failure      504 {object} types.ErrorResponse "Run did not finish in time"
// @Router       /api/v1/run [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if runID := runIDFromQuery(c); runID != "" {
			poll(c, deps, runID)
			return
		}

		req, err := types.RunRequestFromQuery(c)
		if err != nil {
			types.SendError(c, err)
			return
		}
		start(c, deps, req)
	}
}

// Post starts a scrape run from a JSON body
// @Summary      Start a scrape run
// @Description  Same as GET /api/v1/run with the parameters in a JSON body
// @Tags         runs
// @Accept       json
// @Produce      json
// @Param        request body types.RunRequest true "Run parameters"
// @Success      200 {object} types.RunResponse "Finished run with rows"
// @Success      202 {object} types.RunResponse "Run started, poll for results"
// @Failure      400 {object} types.ErrorResponse "Invalid parameters"
// @Failure      500 {object} types.ErrorResponse "Missing configuration"
// @Failure      502 {object} types.ErrorResponse "Scraping service unavailable or run failed"
// @Failure      504 {object} types.ErrorResponse "Run did not finish in time"
// @Router       /api/v1/run [post]
func Post(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.RunRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}
		start(c, deps, req)
	}
}

func start(c *gin.Context, deps *types.Dependencies, req types.RunRequest) {
	if deps == nil || deps.RunService == nil {
		types.SendError(c, apperrors.ConfigurationError("apify", "run service is not initialized"))
		return
	}

	result, err := deps.RunService.StartRun(c.Request.Context(), req.ToSearchRequest())
	if err != nil {
		types.SendError(c, err)
		return
	}

	if result.Handle != nil {
		c.JSON(http.StatusAccepted, types.NewHandleResponse(*result.Handle))
		return
	}
	c.JSON(http.StatusOK, types.NewRowsResponse("", result.Rows))
}

func runIDFromQuery(c *gin.Context) string {
	return strings.TrimSpace(c.Query("runId"))
}
