// Package monday is a small client for the Monday.com GraphQL API: one
// Execute method with pacing, retries and error mapping, plus the typed
// queries and mutations boardframe needs.
package monday

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultURL is the GraphQL endpoint
	DefaultURL = "https://api.monday.com/v2"

	// DefaultAPIVersion is sent in the API-Version header
	DefaultAPIVersion = "2024-10"

	DefaultTimeout           = 60 * time.Second
	DefaultMaxRetries        = 3
	DefaultRequestsPerSecond = 5.0

	maxBackoff      = 60 * time.Second
	maxResponseSize = 10 * 1024 * 1024
)

// Version is the boardframe version reported in the User-Agent header.
// Overridden at build time with -ldflags.
var Version = "dev"

var resetInRegexp = regexp.MustCompile(`reset in (\d+) second`)

// Client issues authenticated GraphQL requests. It is safe for concurrent use.
type Client struct {
	token       string
	url         string
	apiVersion  string
	userAgent   string
	maxRetries  int
	baseBackoff time.Duration
	timeout     time.Duration
	httpClient  *http.Client
	limiter     *rate.Limiter
	logger      *slog.Logger
	metrics     *Metrics
}

// Option configures a Client
type Option func(*Client)

// WithURL overrides the API endpoint
func WithURL(url string) Option {
	return func(c *Client) { c.url = url }
}

// WithAPIVersion sets the API-Version header
func WithAPIVersion(v string) Option {
	return func(c *Client) { c.apiVersion = v }
}

// WithUserAgent appends a product token to the boardframe User-Agent
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = c.userAgent + " " + ua
		}
	}
}

// WithHTTPClient replaces the HTTP client, including its timeout. A nil
// client keeps the default.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout. It applies to a copy of the HTTP
// client, so a client passed to WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithMaxRetries sets how many times a retryable failure is retried
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithBackoff sets the first retry delay; later delays double
func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.baseBackoff = d }
}

// WithRequestsPerSecond paces requests with a token bucket. Zero or less disables pacing.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), int(math.Max(1, rps)))
	}
}

// WithLogger sets the logger used for request and retry logs
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for the given token
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	c := &Client{
		token:       token,
		url:         DefaultURL,
		apiVersion:  DefaultAPIVersion,
		userAgent:   "boardframe/" + Version,
		maxRetries:  DefaultMaxRetries,
		baseBackoff: time.Second,
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		limiter:     rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), int(DefaultRequestsPerSecond)),
		logger:      slog.Default(),
		metrics:     NewMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	if c.maxRetries < 0 {
		c.maxRetries = 0
	}
	return c, nil
}

// Metrics returns the client's counters
func (c *Client) Metrics() *Metrics {
	return c.metrics
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

type response struct {
	Data         json.RawMessage `json:"data"`
	Errors       []gqlError      `json:"errors"`
	ErrorCode    string          `json:"error_code"`
	ErrorMessage string          `json:"error_message"`
}

// Execute runs a query or mutation and decodes its data into out (which may be nil).
// Retryable failures are retried with exponential backoff until MaxRetries is reached.
func (c *Client) Execute(ctx context.Context, query string, vars map[string]any, out any) error {
	payload, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoff(attempt, lastErr)
			c.metrics.IncRetries()
			c.logger.Warn("retrying monday request", "attempt", attempt, "delay", delay, "error", lastErr)
			if err := sleep(ctx, delay); err != nil {
				return err
			}
		}

		data, err := c.do(ctx, payload)
		if err == nil {
			c.recordComplexity(data)
			if out == nil || len(data) == 0 {
				return nil
			}
			if err := json.Unmarshal(data, out); err != nil {
				return fmt.Errorf("failed to parse response data: %w", err)
			}
			return nil
		}

		lastErr = err
		if ctx.Err() != nil {
			c.metrics.IncFailures()
			return ctx.Err()
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Retryable() {
			c.metrics.IncFailures()
			return err
		}
	}

	c.metrics.IncFailures()
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// do performs one HTTP round trip and returns the raw data member
func (c *Client) do(ctx context.Context, payload []byte) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("API-Version", c.apiVersion)
	req.Header.Set("User-Agent", c.userAgent)

	c.metrics.IncRequests()
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	c.logger.Debug("monday request", "status", resp.StatusCode, "duration", time.Since(start), "bytes", len(body))

	var parsed response
	parseErr := json.Unmarshal(body, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
		if parseErr == nil {
			fillGraphQLError(apiErr, &parsed)
		}
		return nil, apiErr
	}
	if parseErr != nil {
		return nil, fmt.Errorf("failed to parse response: %w", parseErr)
	}
	if len(parsed.Errors) > 0 || parsed.ErrorCode != "" || parsed.ErrorMessage != "" {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		fillGraphQLError(apiErr, &parsed)
		return nil, apiErr
	}
	return parsed.Data, nil
}

func fillGraphQLError(e *APIError, r *response) {
	e.Code = r.ErrorCode
	if r.ErrorMessage != "" {
		e.Messages = append(e.Messages, r.ErrorMessage)
	}
	for _, ge := range r.Errors {
		if e.Code == "" {
			e.Code = ge.Extensions.Code
		}
		e.Messages = append(e.Messages, ge.Message)
		if m := resetInRegexp.FindStringSubmatch(ge.Message); m != nil && e.RetryAfter == 0 {
			if secs, err := strconv.Atoi(m[1]); err == nil {
				e.RetryAfter = time.Duration(secs) * time.Second
			}
		}
	}
}

func (c *Client) recordComplexity(data json.RawMessage) {
	var v struct {
		Complexity *struct {
			Query int64 `json:"query"`
		} `json:"complexity"`
	}
	if len(data) > 0 && json.Unmarshal(data, &v) == nil && v.Complexity != nil {
		c.metrics.AddComplexity(v.Complexity.Query)
	}
}

// backoff returns the delay before the given retry attempt (1-based)
func (c *Client) backoff(attempt int, lastErr error) time.Duration {
	var apiErr *APIError
	if errors.As(lastErr, &apiErr) && apiErr.RetryAfter > 0 {
		return min(apiErr.RetryAfter, maxBackoff)
	}
	delay := c.baseBackoff
	for i := 1; i < attempt && delay > 0 && delay < maxBackoff; i++ {
		delay *= 2
	}
	return min(delay, maxBackoff)
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
