package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/outfitplanner/backend/internal/domain"
	"github.com/outfitplanner/backend/internal/logging"
)

// maxBodyBytes caps how much of a search page is read
const maxBodyBytes = 8 << 20

// PageFetcher returns the HTML of a storefront page
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// ClientOptions configures the storefront HTTP transport
type ClientOptions struct {
	UserAgent      string
	RequestTimeout time.Duration
	MaxAttempts    int
	PerHostRate    float64 // requests per second per storefront host, <= 0 disables limiting
}

// Client fetches storefront pages over plain HTTP with retries and per-host rate limiting
type Client struct {
	httpClient  *http.Client
	userAgent   string
	maxAttempts int
	perHostRate rate.Limit
	backoff     func(attempt int) time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewClient creates a new storefront HTTP client
func NewClient(opts ClientOptions) *Client {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 3
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}

	limit := rate.Inf
	if opts.PerHostRate > 0 {
		limit = rate.Limit(opts.PerHostRate)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: opts.RequestTimeout,
		},
		userAgent:   opts.UserAgent,
		maxAttempts: opts.MaxAttempts,
		perHostRate: limit,
		backoff:     exponentialBackoff,
		limiters:    make(map[string]*rate.Limiter),
	}
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

func (c *Client) limiterFor(host string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	limiter, ok := c.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(c.perHostRate, 2)
		c.limiters[host] = limiter
	}
	return limiter
}

// Fetch downloads pageURL, retrying transient failures with exponential backoff.
// Client errors other than 429 are returned immediately.
func (c *Client) Fetch(ctx context.Context, pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid url %q: %v", domain.ErrSourceFailure, pageURL, err)
	}
	limiter := c.limiterFor(u.Host)

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter error: %w", err)
		}

		body, status, err := c.doRequest(ctx, pageURL)
		switch {
		case err != nil:
			lastErr = err
		case status == http.StatusOK:
			return body, nil
		case status >= 400 && status < 500 && status != http.StatusTooManyRequests:
			return "", fmt.Errorf("%w: status %d", domain.ErrSourceFailure, status)
		default:
			lastErr = fmt.Errorf("%w: status %d", domain.ErrSourceFailure, status)
		}

		logging.Debug().Str("url", pageURL).Int("attempt", attempt).Err(lastErr).Msg("[SCRAPER] fetch attempt failed")

		if attempt == c.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.backoff(attempt)):
		}
	}

	return "", lastErr
}

// doRequest executes one GET with browser-like headers
func (c *Client) doRequest(ctx context.Context, pageURL string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", domain.ErrSourceFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("%w: read body: %v", domain.ErrSourceFailure, err)
	}
	return string(body), resp.StatusCode, nil
}
