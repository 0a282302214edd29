package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"invalid request", InvalidRequest("query", "must not be empty"), http.StatusBadRequest},
		{"configuration", ConfigurationError("apify.token", "missing"), http.StatusInternalServerError},
		{"upstream unavailable", UpstreamUnavailable("run status", fmt.Errorf("boom")), http.StatusBadGateway},
		{"run failed", UpstreamRunFailed("abc", "FAILED", "actor crashed"), http.StatusBadGateway},
		{"timed out", RunTimedOut("abc", "2m0s"), http.StatusGatewayTimeout},
		{"rate limit", New(ErrCodeAPIRateLimit, "slow down"), http.StatusTooManyRequests},
		{"internal", New(ErrCodeInternal, "oops"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.GetHTTPCode())
			assert.Equal(t, tt.want, GetHTTPCode(tt.err))
		})
	}
}

func TestWrappedErrorsResolveCode(t *testing.T) {
	inner := UpstreamUnavailable("dataset items", fmt.Errorf("connection refused"))
	wrapped := fmt.Errorf("polling run: %w", inner)

	assert.True(t, Is(wrapped, ErrCodeUpstreamUnavailable))
	assert.False(t, Is(wrapped, ErrCodeRunTimedOut))
	assert.Equal(t, ErrCodeUpstreamUnavailable, GetCode(wrapped))
	assert.Equal(t, http.StatusBadGateway, GetHTTPCode(wrapped))

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.ErrorContains(t, appErr, "connection refused")

	assert.Equal(t, ErrCodeInternal, GetCode(fmt.Errorf("plain")))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPCode(fmt.Errorf("plain")))
}

func TestUpstreamRunFailedCarriesVendorMessage(t *testing.T) {
	err := UpstreamRunFailed("run-1", "ABORTED", "Actor was aborted by user")
	assert.Equal(t, "scrape run ABORTED: Actor was aborted by user", err.Message)
	assert.Equal(t, "run-1", err.Details["runId"])

	bare := UpstreamRunFailed("run-2", "FAILED", "")
	assert.Equal(t, "scrape run FAILED", bare.Message)
}
