// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the rate-limited, retrying HTTP client used by
// the bibliographic data provider.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// RetryBaseDelay controls the base duration for exponential backoff.
// Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

const (
	defaultMaxRetries        = 3
	defaultRequestsPerSecond = 5
	defaultTimeout           = 30 * time.Second
)

// Client wraps an http.Client with a token-bucket rate limit and retries on
// HTTP 429 and 5xx responses.
type Client struct {
	HTTP       *http.Client
	UserAgent  string
	MaxRetries int
	limiter    *rate.Limiter
}

// NewClient creates a Client allowing requestsPerSecond requests with a
// burst of one. Zero values select the defaults (5 rps, 3 retries, 30 s).
func NewClient(timeout time.Duration, userAgent string, requestsPerSecond float64, maxRetries int) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = defaultRequestsPerSecond
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &Client{
		HTTP:       &http.Client{Timeout: timeout},
		UserAgent:  userAgent,
		MaxRetries: maxRetries,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// Do sends req, waiting on the rate limiter before every attempt. Responses
// with status 429 or 5xx are retried with exponential backoff starting at
// RetryBaseDelay; a Retry-After header in seconds overrides the backoff.
// After exhausting retries the last response is returned so the caller can
// inspect it. A cancelled context during a wait returns ctx.Err().
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		resp, err := c.HTTP.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if !retryable(resp.StatusCode) || attempt >= c.MaxRetries {
			return resp, nil
		}

		backoff := retryAfter(resp.Header.Get("Retry-After"))
		if backoff <= 0 {
			backoff = time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
