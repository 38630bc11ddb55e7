// Package limiter implements per-host crawl politeness plus a concurrency
// semaphore for the fetcher's global outbound cap.
package limiter

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// RateLimiter bookkeeps each host's last-fetch timestamp and computes the
// delay the fetcher must wait before issuing the next request to that host,
// folding in robots.txt Crawl-delay and 429/5xx backoff.
type RateLimiter interface {
	SetBaseDelay(d time.Duration)
	SetJitter(d time.Duration)
	SetRandomSeed(seed int64)
	SetCrawlDelay(host string, delay time.Duration)
	Backoff(host string)
	ResetBackoff(host string)
	MarkLastFetchAsNow(host string)
	ResolveDelay(host string) time.Duration
}

type hostTiming struct {
	lastFetch    time.Time
	crawlDelay   time.Duration
	backoffCount int
	backoffDelay time.Duration
}

type ConcurrentRateLimiter struct {
	mu          sync.Mutex
	baseDelay   time.Duration
	jitter      time.Duration
	rng         *rand.Rand
	hostTimings map[string]hostTiming
}

func NewConcurrentRateLimiter() *ConcurrentRateLimiter {
	return &ConcurrentRateLimiter{
		hostTimings: make(map[string]hostTiming),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *ConcurrentRateLimiter) SetBaseDelay(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.baseDelay = d
}

func (r *ConcurrentRateLimiter) SetJitter(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jitter = d
}

func (r *ConcurrentRateLimiter) SetRandomSeed(seed int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rng = rand.New(rand.NewSource(seed))
}

func (r *ConcurrentRateLimiter) SetCrawlDelay(host string, delay time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.hostTimings[host]
	t.crawlDelay = delay
	r.hostTimings[host] = t
}

func (r *ConcurrentRateLimiter) Backoff(host string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.hostTimings[host]
	t.backoffCount++
	t.backoffDelay = r.exponentialBackoffDelayLocked(t.backoffCount)
	r.hostTimings[host] = t
}

func (r *ConcurrentRateLimiter) ResetBackoff(host string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.hostTimings[host]
	t.backoffCount = 0
	t.backoffDelay = 0
	r.hostTimings[host] = t
}

func (r *ConcurrentRateLimiter) MarkLastFetchAsNow(host string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.hostTimings[host]
	t.lastFetch = time.Now()
	r.hostTimings[host] = t
}

// exponentialBackoffDelayLocked computes initial*multiplier^(count-1) capped
// at 30s, plus configured jitter. Caller must hold r.mu.
func (r *ConcurrentRateLimiter) exponentialBackoffDelayLocked(count int) time.Duration {
	const (
		initial    = time.Second
		multiplier = 2.0
		max        = 30 * time.Second
	)
	delay := float64(initial) * math.Pow(multiplier, float64(count-1))
	if delay > float64(max) {
		delay = float64(max)
	}
	if r.jitter > 0 {
		delay += float64(r.rng.Int63n(int64(r.jitter) + 1))
	}
	return time.Duration(delay)
}

// ResolveDelay returns how long the caller must wait before the next
// request to host: max(baseDelay, robots crawl-delay, active backoff),
// reduced by time already elapsed since the last fetch to that host.
func (r *ConcurrentRateLimiter) ResolveDelay(host string) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.hostTimings[host]
	want := r.baseDelay
	if t.crawlDelay > want {
		want = t.crawlDelay
	}
	if t.backoffDelay > want {
		want = t.backoffDelay
	}
	if r.jitter > 0 && t.backoffDelay == 0 {
		want += time.Duration(r.rng.Int63n(int64(r.jitter) + 1))
	}

	if t.lastFetch.IsZero() {
		return 0
	}
	elapsed := time.Since(t.lastFetch)
	if elapsed >= want {
		return 0
	}
	return want - elapsed
}

// Semaphore bounds global outbound HTTP concurrency independent of host
// politeness and independent of pipeline inbox depth.
type Semaphore struct {
	sem *semaphore.Weighted
}

func NewSemaphore(maxConcurrent int) *Semaphore {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Semaphore{sem: semaphore.NewWeighted(int64(maxConcurrent))}
}

func (s *Semaphore) Acquire(ctx context.Context) error {
	return s.sem.Acquire(ctx, 1)
}

func (s *Semaphore) Release() {
	s.sem.Release(1)
}
