package api

import (
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/rgoodman/kalshi-scan/internal/auth"
)

// Client defaults. The rate ceiling is the venue's documented basic tier
// (10 req/s) minus two requests of headroom.
const (
	DefaultRequestTimeout = 15 * time.Second
	DefaultRateLimit      = 8
	DefaultMaxInFlight    = 10
)

// Client provides signed, rate-limited access to the Kalshi REST API.
type Client struct {
	baseURL    string
	signer     auth.Signer
	httpClient *http.Client
	logger     *slog.Logger

	timeout     time.Duration
	retry       RetryPolicy
	rateLimit   int
	maxInFlight int64

	limiter  *SlidingWindowLimiter
	inflight *semaphore.Weighted
}

// Option configures a Client.
type Option func(*Client)

// NewClient creates a signed REST API client.
func NewClient(baseURL string, signer auth.Signer, opts ...Option) *Client {
	c := &Client{
		baseURL:     baseURL,
		signer:      signer,
		httpClient:  &http.Client{},
		logger:      slog.Default(),
		timeout:     DefaultRequestTimeout,
		retry:       DefaultRetryPolicy(),
		rateLimit:   DefaultRateLimit,
		maxInFlight: DefaultMaxInFlight,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.limiter = NewSlidingWindowLimiter(c.rateLimit, time.Second)
	c.inflight = semaphore.NewWeighted(c.maxInFlight)

	return c
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRetryPolicy sets the retry schedule.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) {
		c.retry = p
	}
}

// WithRateLimit sets the requests-per-second ceiling.
func WithRateLimit(perSecond int) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.rateLimit = perSecond
		}
	}
}

// WithMaxInFlight caps simultaneous in-flight requests.
func WithMaxInFlight(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxInFlight = int64(n)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}
