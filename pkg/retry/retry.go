// Package retry implements the generic retry-with-backoff loop shared by
// the fetcher and the robots fetcher.
package retry

import (
	"math/rand"
	"time"

	"github.com/rohmanhakim/vertexcrawl/pkg/failure"
	"github.com/rohmanhakim/vertexcrawl/pkg/timeutil"
)

type RetryParam struct {
	BaseDelay    time.Duration
	Jitter       time.Duration
	RandomSeed   int64
	MaxAttempts  int
	BackoffParam timeutil.BackoffParam
	Sleeper      timeutil.Sleeper
}

func NewRetryParam(baseDelay, jitter time.Duration, randomSeed int64, maxAttempts int, backoff timeutil.BackoffParam) RetryParam {
	return RetryParam{
		BaseDelay:    baseDelay,
		Jitter:       jitter,
		RandomSeed:   randomSeed,
		MaxAttempts:  maxAttempts,
		BackoffParam: backoff,
		Sleeper:      timeutil.NewRealSleeper(),
	}
}

type Result[T any] struct {
	Value    T
	Err      failure.ClassifiedError
	Attempts int
}

type retryExhaustedError struct {
	attempts int
	last     failure.ClassifiedError
}

func (e *retryExhaustedError) Error() string {
	return "retry: exhausted " + itoa(e.attempts) + " attempts"
}

func (e *retryExhaustedError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}

type retryableChecker interface {
	IsRetryable() bool
}

func isRetryable(err failure.ClassifiedError) bool {
	if r, ok := err.(retryableChecker); ok {
		return r.IsRetryable()
	}
	return err.Severity() == failure.SeverityRecoverable
}

// Retry runs fn up to MaxAttempts times, sleeping an exponential+jittered
// backoff between non-terminal, retryable failures. Only transient errors
// (fn returning a ClassifiedError whose IsRetryable()/Severity() marks it
// recoverable) are retried; permanent errors return immediately.
func Retry[T any](param RetryParam, fn func() (T, failure.ClassifiedError)) Result[T] {
	var zero T
	if param.MaxAttempts < 1 {
		param.MaxAttempts = 1
	}
	sleeper := param.Sleeper
	if sleeper == nil {
		sleeper = timeutil.NewRealSleeper()
	}
	rng := rand.New(rand.NewSource(param.RandomSeed))

	var lastErr failure.ClassifiedError
	for attempt := 1; attempt <= param.MaxAttempts; attempt++ {
		value, err := fn()
		if err == nil {
			return Result[T]{Value: value, Attempts: attempt}
		}
		lastErr = err
		if !isRetryable(err) {
			return Result[T]{Value: zero, Err: err, Attempts: attempt}
		}
		if attempt == param.MaxAttempts {
			break
		}
		delay := timeutil.ExponentialBackoffDelay(attempt, param.Jitter, *rng, param.BackoffParam)
		sleeper.Sleep(delay)
	}
	return Result[T]{
		Value:    zero,
		Err:      &retryExhaustedError{attempts: param.MaxAttempts, last: lastErr},
		Attempts: param.MaxAttempts,
	}
}
