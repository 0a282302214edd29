package types

import (
	"time"

	"github.com/wasper/research-api/internal/models"
)

// RunResponse is returned by the start and poll endpoints. Items is always
// present and stays empty until the run has succeeded.
type RunResponse struct {
	Status    models.RunStatus   `json:"status" example:"SUCCEEDED"`
	RunID     string             `json:"runId,omitempty" example:"HG7ML7M8z78YcAPEB"`
	DatasetID string             `json:"datasetId,omitempty"`
	StartedAt *time.Time         `json:"startedAt,omitempty"`
	Items     []models.ResultRow `json:"items"`
	Count     int                `json:"count"`
}

// NewRowsResponse builds a finished response
func NewRowsResponse(runID string, rows []models.ResultRow) RunResponse {
	if rows == nil {
		rows = []models.ResultRow{}
	}
	return RunResponse{
		Status: models.RunStatusSucceeded,
		RunID:  runID,
		Items:  rows,
		Count:  len(rows),
	}
}

// NewHandleResponse builds a response for a run that is still in progress
func NewHandleResponse(handle models.RunHandle) RunResponse {
	resp := RunResponse{
		Status:    handle.Status,
		RunID:     handle.RunID,
		DatasetID: handle.DatasetID,
		Items:     []models.ResultRow{},
	}
	if !handle.StartedAt.IsZero() {
		started := handle.StartedAt.UTC()
		resp.StartedAt = &started
	}
	return resp
}

// SourcesResponse lists the selectable sources
type SourcesResponse struct {
	Sources []models.SourceInfo `json:"sources"`
	Default string              `json:"default" example:"google-maps"`
}

// ErrorResponse is the body of every error. Code is one of the pkg/errors codes.
type ErrorResponse struct {
	Error   string                 `json:"error" example:"invalid query: must not be empty"`
	Code    string                 `json:"code" example:"INVALID_REQUEST"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthResponse for health check endpoint
type HealthResponse struct {
	Status    string            `json:"status" example:"ok"`
	Timestamp string            `json:"timestamp"`
	Version   string            `json:"version,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// VersionResponse describes the running service
type VersionResponse struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	GitCommit   string `json:"gitCommit,omitempty"`
	BuildDate   string `json:"buildDate,omitempty"`
	Description string `json:"description"`
	Status      string `json:"status"`
}
