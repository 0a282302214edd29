package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(RowsEmittedTotal.WithLabelValues("review"))
	RowsEmittedTotal.WithLabelValues("review").Add(3)
	assert.Equal(t, before+3, testutil.ToFloat64(RowsEmittedTotal.WithLabelValues("review")))

	beforePolls := testutil.ToFloat64(RunPollsTotal.WithLabelValues("RUNNING"))
	RunPollsTotal.WithLabelValues("RUNNING").Inc()
	assert.Equal(t, beforePolls+1, testutil.ToFloat64(RunPollsTotal.WithLabelValues("RUNNING")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	ObserveUpstream("run_status", "200", 150*time.Millisecond)
	RunsStartedTotal.WithLabelValues("async").Inc()

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "research_upstream_request_duration_seconds")
	assert.Contains(t, string(body), `research_runs_started_total{mode="async"}`)
}
