package runs

import (
	"context"
	"encoding/json"

	"github.com/wasper/research-api/internal/models"
	"github.com/wasper/research-api/internal/services/apify"
)

// Upstream defines the scraping vendor operations the service needs
type Upstream interface {
	StartRun(ctx context.Context, actorID string, input any, waitSeconds int) (*apify.Run, error)
	GetRun(ctx context.Context, runID string) (*apify.Run, error)
	GetDatasetItems(ctx context.Context, datasetID string) ([]json.RawMessage, error)
}

// RowNormalizer converts raw dataset items into result rows
type RowNormalizer interface {
	Normalize(records []json.RawMessage, opts models.NormalizeOptions) []models.ResultRow
}

// RunService defines the business operations behind the run endpoints
type RunService interface {
	StartRun(ctx context.Context, req models.SearchRequest) (*StartResult, error)
	PollRun(ctx context.Context, handle models.RunHandle, opts models.NormalizeOptions) (*PollResult, error)
	AwaitRun(ctx context.Context, handle models.RunHandle, opts models.NormalizeOptions) ([]models.ResultRow, error)
	ResolveOptions(req models.SearchRequest) models.NormalizeOptions
}
