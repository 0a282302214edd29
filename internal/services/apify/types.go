package apify

import "time"

// Vendor run statuses as reported by the actor-runs API
const (
	StatusReady     = "READY"
	StatusRunning   = "RUNNING"
	StatusSucceeded = "SUCCEEDED"
	StatusFailed    = "FAILED"
	StatusTimingOut = "TIMING-OUT"
	StatusTimedOut  = "TIMED-OUT"
	StatusAborting  = "ABORTING"
	StatusAborted   = "ABORTED"
)

// Run is the subset of an actor run object this service reads
type Run struct {
	ID               string    `json:"id"`
	ActID            string    `json:"actId"`
	Status           string    `json:"status"`
	StatusMessage    string    `json:"statusMessage"`
	DefaultDatasetID string    `json:"defaultDatasetId"`
	StartedAt        time.Time `json:"startedAt"`
}

// runEnvelope wraps every run object returned by the API
type runEnvelope struct {
	Data  *Run      `json:"data"`
	Error *apiError `json:"error"`
}

// apiError is the vendor's error body: {"error": {"type": ..., "message": ...}}
type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error *apiError `json:"error"`
}

// GooglePlacesInput is the input payload for the Google Maps places actor
type GooglePlacesInput struct {
	SearchStringsArray        []string `json:"searchStringsArray"`
	LocationQuery             string   `json:"locationQuery,omitempty"`
	MaxCrawledPlacesPerSearch int      `json:"maxCrawledPlacesPerSearch"`
	MaxReviews                int      `json:"maxReviews"`
	Language                  string   `json:"language,omitempty"`
	ReviewsSort               string   `json:"reviewsSort,omitempty"`
	ReviewsStartDate          string   `json:"reviewsStartDate,omitempty"`
	ScrapeReviewsPersonalData bool     `json:"scrapeReviewsPersonalData"`
}
