package runs

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wasper/research-api/internal/metrics"
	"github.com/wasper/research-api/internal/models"
	"github.com/wasper/research-api/internal/services/apify"
	"github.com/wasper/research-api/internal/services/normalizer"
	"github.com/wasper/research-api/pkg/config"
	apperrors "github.com/wasper/research-api/pkg/errors"
)

const (
	DefaultActorID      = "compass/crawler-google-places"
	DefaultPollInterval = 2 * time.Second
	DefaultPollTimeout  = 2 * time.Minute
	DefaultWaitSeconds  = 30

	reviewsSortNewest = "newest"
)

// Config holds the per-deployment run settings
type Config struct {
	Mode          string
	ActorID       string
	WaitSeconds   int
	PollInterval  time.Duration
	PollTimeout   time.Duration
	LocationQuery string
	Language      string
	Limits        config.LimitsConfig
}

// StartResult is either rows (synchronous run or stub source) or a handle to poll
type StartResult struct {
	Rows   []models.ResultRow
	Handle *models.RunHandle
}

// Status reports SUCCEEDED for row results and the handle state otherwise
func (r *StartResult) Status() models.RunStatus {
	if r.Handle == nil {
		return models.RunStatusSucceeded
	}
	return r.Handle.Status
}

// PollResult is the outcome of one status check. Rows is set only once the run succeeded.
type PollResult struct {
	Handle models.RunHandle
	Rows   []models.ResultRow
}

// Service starts vendor runs, resolves their status and normalizes their output
type Service struct {
	upstream   Upstream
	normalizer RowNormalizer
	cfg        Config
	now        func() time.Time
}

// ServiceOption is a functional option for configuring the service
type ServiceOption func(*Service)

// WithNormalizer replaces the default Google Maps normalizer
func WithNormalizer(n RowNormalizer) ServiceOption {
	return func(s *Service) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// WithClock sets the time source for poll budgets and review date windows
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a run service. The upstream client carries the vendor credentials.
func NewService(upstream Upstream, cfg Config, opts ...ServiceOption) *Service {
	if cfg.Mode == "" {
		cfg.Mode = config.ModeAsync
	}
	if cfg.ActorID == "" {
		cfg.ActorID = DefaultActorID
	}
	if cfg.WaitSeconds <= 0 {
		cfg.WaitSeconds = DefaultWaitSeconds
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = DefaultPollTimeout
	}
	if cfg.Limits.MaxResults <= 0 {
		cfg.Limits = config.LimitsConfig{
			MinResults:     1,
			MaxResults:     25,
			DefaultResults: 8,
			MinReviews:     0,
			MaxReviews:     50,
			DefaultReviews: 20,
			MaxAgeDays:     3650,
		}
	}

	s := &Service{
		upstream: upstream,
		cfg:      cfg,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.normalizer == nil {
		s.normalizer = normalizer.New(normalizer.WithClock(s.now))
	}

	return s
}

// StartRun validates and clamps the request, then issues exactly one start call.
// In sync mode it also awaits the run and returns rows.
func (s *Service) StartRun(ctx context.Context, req models.SearchRequest) (*StartResult, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, s.fail(apperrors.InvalidRequest("query", "must not be empty"))
	}
	req.Query = query

	source := strings.ToLower(strings.TrimSpace(req.Source))
	if source == "" {
		source = models.SourceGoogleMaps
	}
	if source != models.SourceGoogleMaps {
		return &StartResult{Rows: notWiredRows(source)}, nil
	}

	req = s.clamp(req)
	opts := req.NormalizeOptions()

	wait := 0
	if s.cfg.Mode == config.ModeSync {
		wait = s.cfg.WaitSeconds
	}

	log := zerolog.Ctx(ctx)
	run, err := s.upstream.StartRun(ctx, s.cfg.ActorID, s.actorInput(req), wait)
	if err != nil {
		return nil, s.fail(err)
	}
	metrics.RunsStartedTotal.WithLabelValues(s.cfg.Mode).Inc()

	log.Info().
		Str("run_id", run.ID).
		Str("vendor_status", run.Status).
		Str("mode", s.cfg.Mode).
		Int("max_results", req.MaxResultCount).
		Int("max_reviews", opts.MaxSubItemCount).
		Msg("Scrape run started")

	handle := models.RunHandle{RunID: run.ID}
	rows, err := s.observe(ctx, &handle, run, opts)
	if err != nil {
		return nil, s.fail(err)
	}

	if s.cfg.Mode != config.ModeSync {
		// An accepted start is reported as RUNNING even while the vendor queues it
		handle.Status = advance(handle.Status, models.RunStatusRunning)
		return &StartResult{Handle: &handle}, nil
	}
	if handle.Status == models.RunStatusSucceeded {
		return &StartResult{Rows: rows}, nil
	}

	rows, err = s.AwaitRun(ctx, handle, opts)
	if err != nil {
		return nil, err
	}
	return &StartResult{Rows: rows}, nil
}

// PollRun performs one status check. The poll budget is measured from the
// vendor-reported start time since callers drive the loop.
func (s *Service) PollRun(ctx context.Context, handle models.RunHandle, opts models.NormalizeOptions) (*PollResult, error) {
	if strings.TrimSpace(handle.RunID) == "" {
		return nil, s.fail(apperrors.InvalidRequest("runId", "must not be empty"))
	}

	rows, err := s.tick(ctx, &handle, opts)
	if err != nil {
		return nil, s.fail(err)
	}

	if !handle.Status.IsTerminal() && !handle.StartedAt.IsZero() {
		if elapsed := s.now().Sub(handle.StartedAt); elapsed > s.cfg.PollTimeout {
			handle.Status = advance(handle.Status, models.RunStatusTimedOut)
			return nil, s.fail(apperrors.RunTimedOut(handle.RunID, s.cfg.PollTimeout.String()).
				WithDetail("elapsed", elapsed.Round(time.Second).String()))
		}
	}

	return &PollResult{Handle: handle, Rows: rows}, nil
}

// AwaitRun polls until the run succeeds, fails or exhausts the poll budget
func (s *Service) AwaitRun(ctx context.Context, handle models.RunHandle, opts models.NormalizeOptions) ([]models.ResultRow, error) {
	if strings.TrimSpace(handle.RunID) == "" {
		return nil, s.fail(apperrors.InvalidRequest("runId", "must not be empty"))
	}

	awaitCtx, cancel := context.WithTimeout(ctx, s.cfg.PollTimeout)
	defer cancel()

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	log := zerolog.Ctx(ctx)
	for {
		rows, err := s.tick(awaitCtx, &handle, opts)
		if err != nil {
			if budgetExpired(ctx, awaitCtx) {
				return nil, s.timedOut(&handle)
			}
			return nil, s.fail(err)
		}
		if handle.Status == models.RunStatusSucceeded {
			return rows, nil
		}

		log.Debug().
			Str("run_id", handle.RunID).
			Str("status", string(handle.Status)).
			Msg("Run not finished, waiting")

		select {
		case <-awaitCtx.Done():
			if budgetExpired(ctx, awaitCtx) {
				return nil, s.timedOut(&handle)
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// ResolveOptions clamps the filter and cap settings of a request
func (s *Service) ResolveOptions(req models.SearchRequest) models.NormalizeOptions {
	return s.clamp(req).NormalizeOptions()
}

func (s *Service) tick(ctx context.Context, handle *models.RunHandle, opts models.NormalizeOptions) ([]models.ResultRow, error) {
	run, err := s.upstream.GetRun(ctx, handle.RunID)
	if err != nil {
		return nil, err
	}
	return s.observe(ctx, handle, run, opts)
}

// observe applies a vendor run snapshot to the handle and acts on terminal states
func (s *Service) observe(ctx context.Context, handle *models.RunHandle, run *apify.Run, opts models.NormalizeOptions) ([]models.ResultRow, error) {
	observed, err := mapVendorStatus(run.Status)
	if err != nil {
		return nil, err
	}

	if run.DefaultDatasetID != "" {
		handle.DatasetID = run.DefaultDatasetID
	}
	if !run.StartedAt.IsZero() {
		handle.StartedAt = run.StartedAt
	}
	handle.Status = advance(handle.Status, observed)
	metrics.RunPollsTotal.WithLabelValues(string(handle.Status)).Inc()

	switch handle.Status {
	case models.RunStatusSucceeded:
		return s.collect(ctx, handle, opts)
	case models.RunStatusFailed:
		return nil, apperrors.UpstreamRunFailed(run.ID, run.Status, run.StatusMessage)
	}
	return nil, nil
}

// collect fetches the dataset of a succeeded run and normalizes it
func (s *Service) collect(ctx context.Context, handle *models.RunHandle, opts models.NormalizeOptions) ([]models.ResultRow, error) {
	if handle.DatasetID == "" {
		return nil, apperrors.UpstreamUnavailable("dataset items", errors.New("dataset id missing")).
			WithDetail("runId", handle.RunID)
	}

	items, err := s.upstream.GetDatasetItems(ctx, handle.DatasetID)
	if err != nil {
		return nil, err
	}

	rows := s.normalizer.Normalize(items, opts)
	for _, row := range rows {
		metrics.RowsEmittedTotal.WithLabelValues(string(row.Kind)).Inc()
	}

	zerolog.Ctx(ctx).Info().
		Str("run_id", handle.RunID).
		Int("records", len(items)).
		Int("rows", len(rows)).
		Msg("Run results normalized")

	return rows, nil
}

func (s *Service) clamp(req models.SearchRequest) models.SearchRequest {
	lim := s.cfg.Limits

	req.MaxResultCount = clampInt(withDefault(req.MaxResultCount, lim.DefaultResults), lim.MinResults, lim.MaxResults)
	reviews := lim.DefaultReviews
	if req.MaxSubItemCount != nil {
		reviews = *req.MaxSubItemCount
	}
	reviews = clampInt(reviews, lim.MinReviews, lim.MaxReviews)
	req.MaxSubItemCount = &reviews

	if req.MinRating != nil {
		v := math.Min(math.Max(*req.MinRating, 0), 5)
		req.MinRating = &v
	}
	if req.MaxAgeDays != nil {
		v := *req.MaxAgeDays
		if v < 0 {
			v = 0
		}
		if lim.MaxAgeDays > 0 && v > lim.MaxAgeDays {
			v = lim.MaxAgeDays
		}
		req.MaxAgeDays = &v
	}
	return req
}

func (s *Service) actorInput(req models.SearchRequest) apify.GooglePlacesInput {
	input := apify.GooglePlacesInput{
		SearchStringsArray:        []string{req.Query},
		LocationQuery:             s.cfg.LocationQuery,
		MaxCrawledPlacesPerSearch: req.MaxResultCount,
		MaxReviews:                req.NormalizeOptions().MaxSubItemCount,
		Language:                  s.cfg.Language,
		ReviewsSort:               reviewsSortNewest,
		ScrapeReviewsPersonalData: true,
	}
	if req.MaxAgeDays != nil && *req.MaxAgeDays > 0 {
		input.ReviewsStartDate = s.now().UTC().AddDate(0, 0, -*req.MaxAgeDays).Format("2006-01-02")
	}
	return input
}

func (s *Service) timedOut(handle *models.RunHandle) error {
	handle.Status = advance(handle.Status, models.RunStatusTimedOut)
	return s.fail(apperrors.RunTimedOut(handle.RunID, s.cfg.PollTimeout.String()))
}

func (s *Service) fail(err error) error {
	metrics.RunFailuresTotal.WithLabelValues(string(apperrors.GetCode(err))).Inc()
	return err
}

// budgetExpired reports whether the poll deadline fired while the caller was still waiting
func budgetExpired(parent, await context.Context) bool {
	return parent.Err() == nil && errors.Is(await.Err(), context.DeadlineExceeded)
}

func notWiredRows(source string) []models.ResultRow {
	return []models.ResultRow{{
		Title:   fmt.Sprintf("Source %q not wired yet", source),
		Kind:    models.RowKindOther,
		Source:  source,
		Snippet: "This source is not connected to a scraping actor yet. Only google-maps returns live results.",
	}}
}

func withDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if hi >= lo && v > hi {
		return hi
	}
	return v
}
