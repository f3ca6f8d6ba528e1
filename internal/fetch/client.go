// Package fetch implements the retrying HTTP client all providers share.
// Rate-limit responses (429, and Blockchair's custom 430) wait on an
// exponential schedule honoring Retry-After; other failures wait linearly.
// Exhausting the attempt budget yields ErrNoData, never a panic or a raw
// transport error: callers treat "no data" as a first-class outcome.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/satstream/chainsync/internal/clock"
)

// ErrNoData reports that every attempt failed and no payload was obtained.
var ErrNoData = errors.New("no data after exhausting retries")

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const defaultAttemptTimeout = 45 * time.Second

const (
	outcomeSuccess     = "success"
	outcomeRateLimited = "rate_limited"
	outcomeHTTPError   = "http_error"
	outcomeDecodeError = "decode_error"
	outcomeNetwork     = "network_error"
)

type (
	// Metrics records the outcome of every attempt.
	Metrics interface {
		ObserveAttempt(method, outcome string, started time.Time)
	}
)

// Client performs JSON requests with retry, backoff and rate-limit handling.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	backoff    Backoff
	timeout    time.Duration
	sleep      clock.SleepFunc
	metrics    Metrics
	logger     *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBackoff replaces the default retry policy.
func WithBackoff(b Backoff) Option {
	return func(c *Client) { c.backoff = b }
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithHeaders replaces the default request headers.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) { c.headers = headers }
}

// WithSleep injects the sleep used between attempts.
func WithSleep(sleep clock.SleepFunc) Option {
	return func(c *Client) { c.sleep = sleep }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMetrics attaches an attempt-level metrics recorder.
func WithMetrics(m Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient builds a Client with the default browser-like headers and policy.
func NewClient(logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		headers:    map[string]string{"User-Agent": defaultUserAgent},
		backoff:    DefaultBackoff(),
		timeout:    defaultAttemptTimeout,
		sleep:      clock.SleepWithContext,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON fetches url and decodes the JSON payload into out, retrying per the
// backoff policy. Returns ErrNoData once the attempt budget is exhausted.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	return c.doJSON(ctx, http.MethodGet, url, nil, out)
}

// PostJSON posts payload as JSON to url and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request payload: %w", err)
	}
	return c.doJSON(ctx, http.MethodPost, url, body, out)
}

func (c *Client) doJSON(ctx context.Context, method, url string, body []byte, out any) error {
	for attempt := 0; attempt < c.backoff.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		started := time.Now()
		outcome, retryAfter, err := c.attempt(ctx, method, url, body, out)
		c.observe(method, outcome, started)

		switch outcome {
		case outcomeSuccess:
			return nil

		case outcomeRateLimited:
			delay := c.backoff.RateLimitDelay(attempt, retryAfter)
			c.logger.Warn("rate limited by upstream",
				zap.String("url", url),
				zap.Int("attempt", attempt+1),
				zap.Int("max_attempts", c.backoff.MaxAttempts),
				zap.Duration("wait", delay),
			)
			if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
				return sleepErr
			}

		default:
			c.logger.Warn("fetch attempt failed",
				zap.String("url", url),
				zap.String("class", outcome),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			if attempt < c.backoff.MaxAttempts-1 {
				if sleepErr := c.sleep(ctx, c.backoff.FailureDelay(attempt)); sleepErr != nil {
					return sleepErr
				}
			}
		}
	}

	return fmt.Errorf("%s %s: %w", method, url, ErrNoData)
}

// attempt performs one request and classifies the result. The Retry-After
// header value is returned only for rate-limited outcomes.
func (c *Client) attempt(ctx context.Context, method, url string, body []byte, out any) (string, string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(attemptCtx, method, url, reader)
	if err != nil {
		return outcomeNetwork, "", fmt.Errorf("build request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return outcomeNetwork, "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// 430 is Blockchair's non-standard rate-limit status.
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == 430 {
		return outcomeRateLimited, resp.Header.Get("Retry-After"), nil
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return outcomeHTTPError, "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return outcomeNetwork, "", fmt.Errorf("read response body: %w", err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return outcomeDecodeError, "", fmt.Errorf("decode response body: %w", err)
	}
	return outcomeSuccess, "", nil
}

func (c *Client) observe(method, outcome string, started time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.ObserveAttempt(method, outcome, started)
}
