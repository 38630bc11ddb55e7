// Package fetcher performs the actual HTTP GET for one admitted URL:
// concurrency-gated via pkg/limiter.Semaphore, per-host paced via
// pkg/limiter.RateLimiter, and retried via pkg/retry on transient failures.
package fetcher

import (
	"net/url"
	"time"
)

// FetchParam is everything Fetch needs to issue one request.
type FetchParam struct {
	URL       url.URL
	UserAgent string
	Timeout   time.Duration
}

// FetchResult is the raw, unprocessed response body plus the metadata the
// content filter and robots-delay bookkeeping need.
type FetchResult struct {
	FinalURL    url.URL
	StatusCode  int
	ContentType string
	Body        []byte
	FetchedAt   time.Time
	Duration    time.Duration
}
