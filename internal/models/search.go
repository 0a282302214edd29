package models

import (
	"encoding/json"
	"time"
)

// SourceGoogleMaps is the only source wired to a scraping actor
const SourceGoogleMaps = "google-maps"

// SearchRequest is one user-issued query. It is built per submission and never stored.
type SearchRequest struct {
	Query           string
	Source          string
	MaxResultCount  int
	MaxSubItemCount *int // nil = default, 0 = no sub-records
	MinRating       *float64
	MaxAgeDays      *int
}

// NormalizeOptions returns the normalizer settings implied by the request
func (r SearchRequest) NormalizeOptions() NormalizeOptions {
	opts := NormalizeOptions{
		MinRating: r.MinRating,
	}
	if r.MaxSubItemCount != nil {
		opts.MaxSubItemCount = *r.MaxSubItemCount
	}
	if r.MaxAgeDays != nil {
		opts.MaxAgeDays = *r.MaxAgeDays
	}
	return opts
}

// NormalizeOptions controls how sub-records are capped and filtered
type NormalizeOptions struct {
	MaxSubItemCount int
	MinRating       *float64
	MaxAgeDays      int // 0 = unbounded
}

// RunStatus is the locally observed state of a vendor run
type RunStatus string

const (
	RunStatusPending   RunStatus = "PENDING"
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusSucceeded RunStatus = "SUCCEEDED"
	RunStatusFailed    RunStatus = "FAILED"
	RunStatusTimedOut  RunStatus = "TIMED_OUT"
)

// IsTerminal reports whether no further status transitions are expected
func (s RunStatus) IsTerminal() bool {
	switch s {
	case RunStatusSucceeded, RunStatusFailed, RunStatusTimedOut:
		return true
	}
	return false
}

// RunHandle identifies an asynchronous vendor run
type RunHandle struct {
	RunID     string    `json:"runId"`
	Status    RunStatus `json:"status"`
	DatasetID string    `json:"datasetId,omitempty"`
	StartedAt time.Time `json:"startedAt,omitempty"`
}

// RawRecord is one vendor-shaped record, read once during normalization
type RawRecord = json.RawMessage

// RowKind classifies a normalized row
type RowKind string

const (
	RowKindBusiness RowKind = "business"
	RowKindReview   RowKind = "review"
	RowKindOther    RowKind = "other"
)

// ResultRow is the fixed output shape rendered by the console
type ResultRow struct {
	Title   string   `json:"title"`
	Kind    RowKind  `json:"kind"`
	Source  string   `json:"source"`
	Snippet string   `json:"snippet"`
	URL     string   `json:"url"`
	Rating  *float64 `json:"rating"`
	Date    *string  `json:"date"`
}

// SourceInfo describes a selectable search source
type SourceInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Wired bool   `json:"wired"`
}

// KnownSources lists every source the console offers, in display order
var KnownSources = []SourceInfo{
	{ID: SourceGoogleMaps, Name: "Google Maps", Wired: true},
	{ID: "reddit", Name: "Reddit"},
	{ID: "trustpilot", Name: "Trustpilot"},
	{ID: "quora", Name: "Quora"},
	{ID: "google-trends", Name: "Google Trends"},
}
