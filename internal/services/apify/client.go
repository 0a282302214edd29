package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/wasper/research-api/internal/metrics"
	apperrors "github.com/wasper/research-api/pkg/errors"
)

const (
	DefaultBaseURL   = "https://api.apify.com/v2"
	DefaultUserAgent = "ResearchAPI/1.0"

	// maxBodyPreview bounds how much of an unexpected body ends up in an error
	maxBodyPreview = 200
)

// Config holds configuration for the Apify client
type Config struct {
	Token     string
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	RateLimit int // requests per second, 0 disables limiting
}

// Client handles communication with the Apify REST API
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	token       string
	userAgent   string
}

// NewClient creates a new Apify API client. The token is fixed for the
// client's lifetime and is never read from the environment here.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 90 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit)
	}

	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		rateLimiter: limiter,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		token:       cfg.Token,
		userAgent:   cfg.UserAgent,
	}
}

// StartRun starts an actor run. With waitSeconds > 0 the vendor holds the
// response until the run finishes or the wait elapses, whichever is first.
func (c *Client) StartRun(ctx context.Context, actorID string, input any, waitSeconds int) (*Run, error) {
	if actorID == "" {
		return nil, apperrors.ConfigurationError("apify.actor_id", "actor id is empty")
	}

	params := url.Values{}
	if waitSeconds > 0 {
		params.Set("waitForFinish", strconv.Itoa(waitSeconds))
	}
	endpoint := fmt.Sprintf("acts/%s/runs", url.PathEscape(actorPath(actorID)))
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	body, err := c.do(ctx, "start_run", http.MethodPost, endpoint, input)
	if err != nil {
		return nil, err
	}
	return decodeRun("start run", body)
}

// GetRun fetches the current state of a run
func (c *Client) GetRun(ctx context.Context, runID string) (*Run, error) {
	if runID == "" {
		return nil, apperrors.InvalidRequest("runId", "must not be empty")
	}

	body, err := c.do(ctx, "run_status", http.MethodGet, "actor-runs/"+url.PathEscape(runID), nil)
	if err != nil {
		return nil, err
	}
	return decodeRun("run status", body)
}

// GetDatasetItems fetches all items of a dataset. The payload must be a JSON array.
func (c *Client) GetDatasetItems(ctx context.Context, datasetID string) ([]json.RawMessage, error) {
	if datasetID == "" {
		return nil, apperrors.UpstreamUnavailable("dataset items", errors.New("dataset id missing"))
	}

	params := url.Values{}
	params.Set("clean", "true")
	params.Set("format", "json")
	endpoint := fmt.Sprintf("datasets/%s/items?%s", url.PathEscape(datasetID), params.Encode())

	body, err := c.do(ctx, "dataset_items", http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, apperrors.UpstreamUnavailable("dataset items",
			fmt.Errorf("expected a JSON array, got %q", preview(trimmed)))
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, apperrors.UpstreamUnavailable("dataset items", fmt.Errorf("decoding response: %w", err))
	}
	return items, nil
}

// do executes one authenticated request and returns the body of a 2xx response
func (c *Client) do(ctx context.Context, name, method, endpoint string, payload any) ([]byte, error) {
	if c.token == "" {
		return nil, apperrors.ConfigurationError("apify.token", "scraping service token is not configured")
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// The limiter refuses waits that would outlast the deadline
		return nil, apperrors.UpstreamUnavailable(strings.ReplaceAll(name, "_", " "), err)
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	fullURL := fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := zerolog.Ctx(ctx)
	started := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream(name, "error", time.Since(started))
		return nil, apperrors.UpstreamUnavailable(strings.ReplaceAll(name, "_", " "), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	metrics.ObserveUpstream(name, strconv.Itoa(resp.StatusCode), time.Since(started))
	if err != nil {
		return nil, apperrors.UpstreamUnavailable(strings.ReplaceAll(name, "_", " "), fmt.Errorf("reading response: %w", err))
	}

	log.Debug().
		Str("endpoint", name).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(started)).
		Msg("Apify request finished")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(name, resp.StatusCode, body)
	}
	return body, nil
}

// statusError converts a non-2xx vendor response into the service taxonomy
func statusError(name string, status int, body []byte) error {
	msg := vendorMessage(body)
	if msg == "" {
		msg = fmt.Sprintf("request failed (%d)", status)
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.ConfigurationError("apify.token", "rejected by scraping service: "+msg).
			WithDetail("status", status)
	case http.StatusNotFound:
		return apperrors.New(apperrors.ErrCodeNotFound, msg).
			WithDetail("operation", strings.ReplaceAll(name, "_", " "))
	default:
		return apperrors.UpstreamUnavailable(strings.ReplaceAll(name, "_", " "), errors.New(msg)).
			WithDetail("status", status)
	}
}

// vendorMessage extracts error.message from a vendor error body, or a short preview of non-JSON text
func vendorMessage(body []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Error != nil && env.Error.Message != "" {
			return env.Error.Message
		}
		return ""
	}
	return preview(bytes.TrimSpace(body))
}

func decodeRun(operation string, body []byte) (*Run, error) {
	var env runEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, apperrors.UpstreamUnavailable(operation,
			fmt.Errorf("unexpected non-JSON response: %q", preview(bytes.TrimSpace(body))))
	}
	if env.Data == nil {
		return nil, apperrors.UpstreamUnavailable(operation, errors.New("response has no run data"))
	}
	if env.Data.ID == "" {
		return nil, apperrors.UpstreamUnavailable(operation, errors.New("run id missing"))
	}
	if env.Data.Status == "" {
		return nil, apperrors.UpstreamUnavailable(operation, errors.New("run status missing"))
	}
	return env.Data, nil
}

// actorPath converts "user/actor" to the "user~actor" form used in API paths
func actorPath(actorID string) string {
	return strings.ReplaceAll(actorID, "/", "~")
}

func preview(b []byte) string {
	if len(b) > maxBodyPreview {
		return string(b[:maxBodyPreview]) + "..."
	}
	return string(b)
}
