package types

import (
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wasper/research-api/internal/models"
	apperrors "github.com/wasper/research-api/pkg/errors"
)

// RunRequest represents a scrape request, either as a JSON body or as query parameters
type RunRequest struct {
	Query           string   `json:"query" example:"Acme Co"`
	Q               string   `json:"q,omitempty"` // alias for query
	Source          string   `json:"source,omitempty" example:"google-maps"`
	MaxResultCount  int      `json:"maxResultCount,omitempty" example:"8"`
	MaxSubItemCount *int     `json:"maxSubItemCount,omitempty" example:"20"`
	MinRating       *float64 `json:"minRating,omitempty" example:"3"`
	MaxAgeDays      *int     `json:"maxAgeDays,omitempty" example:"30"`
}

// ToSearchRequest converts the wire request into the domain request
func (r RunRequest) ToSearchRequest() models.SearchRequest {
	query := r.Query
	if strings.TrimSpace(query) == "" {
		query = r.Q
	}
	return models.SearchRequest{
		Query:           query,
		Source:          r.Source,
		MaxResultCount:  r.MaxResultCount,
		MaxSubItemCount: r.MaxSubItemCount,
		MinRating:       r.MinRating,
		MaxAgeDays:      r.MaxAgeDays,
	}
}

// RunRequestFromQuery reads a RunRequest from query parameters.
// Both the long names and the short console names are accepted.
func RunRequestFromQuery(c *gin.Context) (RunRequest, error) {
	_, query := FirstQuery(c, "query", "q")
	req := RunRequest{
		Query:  query,
		Source: c.Query("source"),
	}

	results, err := QueryInt(c, "maxResultCount", "maxPlaces")
	if err != nil {
		return req, err
	}
	if results != nil {
		req.MaxResultCount = *results
	}

	filters, err := FiltersFromQuery(c)
	if err != nil {
		return req, err
	}
	req.MaxSubItemCount = filters.MaxSubItemCount
	req.MinRating = filters.MinRating
	req.MaxAgeDays = filters.MaxAgeDays

	return req, nil
}

// FiltersFromQuery reads the sub-item cap and filters used when results are collected
func FiltersFromQuery(c *gin.Context) (RunRequest, error) {
	var req RunRequest

	reviews, err := QueryInt(c, "maxSubItemCount", "maxReviews")
	if err != nil {
		return req, err
	}
	req.MaxSubItemCount = reviews

	if req.MinRating, err = QueryFloat(c, "minRating"); err != nil {
		return req, err
	}
	if req.MaxAgeDays, err = QueryInt(c, "maxAgeDays", "days"); err != nil {
		return req, err
	}
	return req, nil
}

// FirstQuery returns the first non-empty query parameter among alternative names
func FirstQuery(c *gin.Context, names ...string) (string, string) {
	for _, name := range names {
		if value := strings.TrimSpace(c.Query(name)); value != "" {
			return name, value
		}
	}
	return "", ""
}

// QueryInt parses an optional integer query parameter
func QueryInt(c *gin.Context, names ...string) (*int, error) {
	name, raw := FirstQuery(c, names...)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperrors.InvalidRequest(name, "must be an integer")
	}
	return &v, nil
}

// QueryFloat parses an optional finite number query parameter
func QueryFloat(c *gin.Context, names ...string) (*float64, error) {
	name, raw := FirstQuery(c, names...)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, apperrors.InvalidRequest(name, "must be a number")
	}
	return &v, nil
}
