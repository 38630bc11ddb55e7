// Package timeutil provides the backoff and sleep primitives used by the
// retry loop that the fetcher and robots fetcher share. The rate limiter
// computes its own per-host backoff.
package timeutil

import (
	"math"
	"math/rand"
	"time"
)

// BackoffParam parameterizes exponential backoff with a cap.
type BackoffParam struct {
	Initial    time.Duration
	Multiplier float64
	Max        time.Duration
}

func NewBackoffParam(initial time.Duration, multiplier float64, max time.Duration) BackoffParam {
	return BackoffParam{Initial: initial, Multiplier: multiplier, Max: max}
}

// ExponentialBackoffDelay computes delay(attempt) = initial * multiplier^(attempt-1),
// capped at Max, plus up to `jitter` of uniform random noise.
func ExponentialBackoffDelay(attempt int, jitter time.Duration, rng rand.Rand, param BackoffParam) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	exponent := float64(attempt - 1)
	delay := float64(param.Initial) * math.Pow(param.Multiplier, exponent)
	if param.Max > 0 && delay > float64(param.Max) {
		delay = float64(param.Max)
	}
	if jitter > 0 {
		delay += float64(rng.Int63n(int64(jitter) + 1))
	}
	return time.Duration(delay)
}

// RetryDelay computes retryDelay * 2^attempt. pkg/retry does not call it;
// its backoff comes from ExponentialBackoffDelay, which yields
// RetryDelay(initial, attempt-1) when Multiplier is 2 and no cap applies.
func RetryDelay(base time.Duration, attempt int) time.Duration {
	return time.Duration(float64(base) * math.Pow(2, float64(attempt)))
}

// Sleeper abstracts time.Sleep so pipeline tests never actually sleep.
type Sleeper interface {
	Sleep(d time.Duration)
}

type RealSleeper struct{}

func NewRealSleeper() RealSleeper { return RealSleeper{} }

func (RealSleeper) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	time.Sleep(d)
}
