package robots

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rohmanhakim/vertexcrawl/pkg/failure"
	"github.com/rohmanhakim/vertexcrawl/pkg/retry"
)

const maxRobotsBodyBytes = 500 * 1024

// cacheEntry pins a host's parsed robots.txt so a long-running crawl fetches
// it once instead of once per URL.
type cacheEntry struct {
	rules     ruleSet
	fetchedAt time.Time
}

// Fetcher retrieves, caches and evaluates robots.txt per host. A fetch
// failure that survives retries fails OPEN: the host is treated as if it
// published no robots.txt at all, since a single unreachable robots.txt
// must never stall an otherwise-healthy crawl.
type Fetcher struct {
	client    *http.Client
	userAgent string
	retry     retry.RetryParam

	mu    sync.Mutex
	cache map[string]cacheEntry
	ttl   time.Duration
}

func NewFetcher(client *http.Client, userAgent string, retryParam retry.RetryParam, ttl time.Duration) *Fetcher {
	return &Fetcher{
		client:    client,
		userAgent: userAgent,
		retry:     retryParam,
		cache:     make(map[string]cacheEntry),
		ttl:       ttl,
	}
}

// Allowed reports whether u may be fetched and the crawl-delay its host's
// robots.txt requests, if any.
func (f *Fetcher) Allowed(ctx context.Context, u url.URL) (Decision, time.Duration, error) {
	rules, err := f.rulesFor(ctx, u)
	if err != nil {
		// Fail open: treat as allow-all with no crawl-delay.
		return DecisionAllow, 0, nil
	}
	return rules.Evaluate(u.Path), rules.crawlDelay, nil
}

func (f *Fetcher) rulesFor(ctx context.Context, u url.URL) (ruleSet, error) {
	host := u.Hostname()

	f.mu.Lock()
	if entry, ok := f.cache[host]; ok && time.Since(entry.fetchedAt) < f.ttl {
		f.mu.Unlock()
		return entry.rules, nil
	}
	f.mu.Unlock()

	result := retry.Retry(f.retry, func() (ruleSet, failure.ClassifiedError) {
		rules, err := f.fetchOnce(ctx, u)
		if err != nil {
			return ruleSet{}, failure.ClassifiedError(err)
		}
		return rules, nil
	})
	if result.Err != nil {
		return ruleSet{}, result.Err
	}

	f.mu.Lock()
	f.cache[host] = cacheEntry{rules: result.Value, fetchedAt: time.Now()}
	f.mu.Unlock()
	return result.Value, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, u url.URL) (ruleSet, *FetchError) {
	robotsURL := url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/robots.txt"}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL.String(), nil)
	if err != nil {
		return ruleSet{}, &FetchError{Host: u.Host, Cause: ErrCauseNetwork, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return ruleSet{}, &FetchError{Host: u.Host, Cause: ErrCauseNetwork, Err: err}
	}
	defer resp.Body.Close()

	// 4xx other than 429 means "no robots.txt" per the de facto standard:
	// allow everything, no crawl-delay.
	if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
		return ruleSet{fetchedAt: time.Now()}, nil
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return ruleSet{}, &FetchError{Host: u.Host, Cause: ErrCauseServerStatus, Err: errStatus(resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBodyBytes+1))
	if err != nil {
		return ruleSet{}, &FetchError{Host: u.Host, Cause: ErrCauseNetwork, Err: err}
	}
	if len(body) > maxRobotsBodyBytes {
		return ruleSet{}, &FetchError{Host: u.Host, Cause: ErrCauseBodyTooLarge, Err: errBodyTooLarge}
	}
	return ParseRobotsTxt(string(body), f.userAgent), nil
}

var errBodyTooLarge = errors.New("robots.txt exceeds 500KiB cap")

func errStatus(code int) error {
	return fmt.Errorf("unexpected status %d", code)
}
