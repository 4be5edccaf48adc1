package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"curator/internal/config"
	"curator/internal/logging"
)

// maxBodyBytes caps how much of a response is read. Product pages and
// sitemaps are far smaller; anything larger is not worth parsing.
const maxBodyBytes = 8 << 20

// Client is a polite HTTP client for source sites: one request at a time,
// a fixed delay between requests, and retries with exponential backoff on
// transient failures.
type Client struct {
	httpClient *http.Client
	userAgent  string
	delay      time.Duration
	maxRetries int
	backoff    time.Duration
	logger     *slog.Logger

	mu          sync.Mutex
	lastRequest time.Time
}

// NewClient creates a client from crawler configuration.
func NewClient(cfg config.Crawler, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		userAgent:  cfg.UserAgent,
		delay:      time.Duration(cfg.RequestDelayMS) * time.Millisecond,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.RetryBackoffMS) * time.Millisecond,
		logger:     logging.NewComponentLogger(logger, "crawler"),
	}
}

// Get fetches a URL and returns the response body. Transient failures
// (network errors, 429, 5xx) are retried up to the configured limit;
// other non-200 statuses fail immediately.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	backoff := c.backoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying request",
				logging.String("url", url),
				logging.Int("attempt", attempt))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}

		if err := c.throttle(ctx); err != nil {
			return nil, err
		}

		body, retryable, err := c.fetch(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}

	return nil, fmt.Errorf("fetch %s: %w", url, lastErr)
}

func (c *Client) fetch(ctx context.Context, url string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, true, fmt.Errorf("read body: %w", err)
		}
		return data, false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("status %d", resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}
}

// throttle enforces the configured delay between consecutive requests.
func (c *Client) throttle(ctx context.Context) error {
	if c.delay <= 0 {
		return nil
	}
	c.mu.Lock()
	wait := c.delay - time.Since(c.lastRequest)
	c.lastRequest = time.Now().Add(wait)
	c.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
