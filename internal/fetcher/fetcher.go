package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rohmanhakim/vertexcrawl/pkg/failure"
	"github.com/rohmanhakim/vertexcrawl/pkg/limiter"
	"github.com/rohmanhakim/vertexcrawl/pkg/retry"
)

// Fetcher is the boundary the pipeline's fetch stage calls through; tests
// substitute a stub implementation instead of hitting the network.
type Fetcher interface {
	Fetch(ctx context.Context, param FetchParam) (FetchResult, failure.ClassifiedError)
}

const defaultMaxBodyBytes = 16 * 1024 * 1024

// HTTPFetcher is the production Fetcher: one global semaphore caps total
// outbound concurrency, one RateLimiter paces each host independently, and
// every request is retried per pkg/retry before giving up.
type HTTPFetcher struct {
	client       *http.Client
	semaphore    *limiter.Semaphore
	rateLimiter  limiter.RateLimiter
	retryParam   retry.RetryParam
	userAgents   []string
	maxBodyBytes int64

	rrCounter atomic.Uint64
}

func NewHTTPFetcher(client *http.Client, sem *limiter.Semaphore, rl limiter.RateLimiter, retryParam retry.RetryParam, userAgents []string) *HTTPFetcher {
	if len(userAgents) == 0 {
		userAgents = []string{"vertexcrawl/1.0"}
	}
	return &HTTPFetcher{
		client:       client,
		semaphore:    sem,
		rateLimiter:  rl,
		retryParam:   retryParam,
		userAgents:   userAgents,
		maxBodyBytes: defaultMaxBodyBytes,
	}
}

// nextUserAgent round-robins across the configured UA pool, spreading
// requests across distinct agent strings rather than hammering every host
// with the same one.
func (f *HTTPFetcher) nextUserAgent() string {
	idx := f.rrCounter.Add(1) - 1
	return f.userAgents[int(idx)%len(f.userAgents)]
}

func (f *HTTPFetcher) Fetch(ctx context.Context, param FetchParam) (FetchResult, failure.ClassifiedError) {
	if err := f.semaphore.Acquire(ctx); err != nil {
		return FetchResult{}, &FetchError{URL: param.URL.String(), Cause: CauseContextCancel, Err: err}
	}
	defer f.semaphore.Release()

	host := param.URL.Hostname()
	if delay := f.rateLimiter.ResolveDelay(host); delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return FetchResult{}, &FetchError{URL: param.URL.String(), Cause: CauseContextCancel, Err: ctx.Err()}
		}
	}

	result := retry.Retry(f.retryParam, func() (FetchResult, failure.ClassifiedError) {
		res, err := f.fetchOnce(ctx, param)
		f.rateLimiter.MarkLastFetchAsNow(host)
		if err != nil {
			if err.Cause == CauseServerStatus || err.Cause == CauseTimeout {
				f.rateLimiter.Backoff(host)
			}
			return FetchResult{}, failure.ClassifiedError(err)
		}
		f.rateLimiter.ResetBackoff(host)
		return res, nil
	})
	if result.Err != nil {
		return FetchResult{}, result.Err
	}
	return result.Value, nil
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, param FetchParam) (FetchResult, *FetchError) {
	timeout := param.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ua := param.UserAgent
	if ua == "" {
		ua = f.nextUserAgent()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, param.URL.String(), nil)
	if err != nil {
		return FetchResult{}, &FetchError{URL: param.URL.String(), Cause: CauseConnection, Err: err}
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Encoding", "gzip")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return FetchResult{}, &FetchError{URL: param.URL.String(), Cause: CauseTimeout, Err: err}
		}
		return FetchResult{}, &FetchError{URL: param.URL.String(), Cause: CauseConnection, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return FetchResult{}, &FetchError{URL: param.URL.String(), Cause: CauseServerStatus, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if resp.StatusCode >= 400 {
		return FetchResult{}, &FetchError{URL: param.URL.String(), Cause: CauseClientStatus, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes+1))
	if err != nil {
		return FetchResult{}, &FetchError{URL: param.URL.String(), Cause: CauseConnection, Err: err}
	}
	if int64(len(body)) > f.maxBodyBytes {
		return FetchResult{}, &FetchError{URL: param.URL.String(), Cause: CauseBodyTooLarge, Err: fmt.Errorf("body exceeds %d bytes", f.maxBodyBytes)}
	}

	finalURL := param.URL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = *resp.Request.URL
	}

	return FetchResult{
		FinalURL:    finalURL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		FetchedAt:   start,
		Duration:    time.Since(start),
	}, nil
}
