package retry

import (
	"testing"
	"time"

	"github.com/rohmanhakim/vertexcrawl/pkg/failure"
	"github.com/rohmanhakim/vertexcrawl/pkg/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testErr struct {
	severity failure.Severity
}

func (e testErr) Error() string { return "test error" }
func (e testErr) Severity() failure.Severity { return e.severity }

func TestRetrySucceedsWithoutRetrying(t *testing.T) {
	param := NewRetryParam(0, 0, 1, 3, timeutil.NewBackoffParam(time.Millisecond, 2, time.Millisecond*5))
	result := Retry(param, func() (int, failure.ClassifiedError) {
		return 42, nil
	})
	require.Nil(t, result.Err)
	assert.Equal(t, 42, result.Value)
	assert.Equal(t, 1, result.Attempts)
}

func TestRetryStopsImmediatelyOnFatalError(t *testing.T) {
	calls := 0
	param := NewRetryParam(0, 0, 1, 3, timeutil.NewBackoffParam(time.Millisecond, 2, time.Millisecond*5))
	result := Retry(param, func() (int, failure.ClassifiedError) {
		calls++
		return 0, testErr{severity: failure.SeverityFatal}
	})
	require.NotNil(t, result.Err)
	assert.Equal(t, 1, calls)
}

func TestRetryExhaustsAttemptsOnRecoverableError(t *testing.T) {
	calls := 0
	param := NewRetryParam(0, 0, 1, 3, timeutil.NewBackoffParam(time.Millisecond, 2, time.Millisecond*5))
	result := Retry(param, func() (int, failure.ClassifiedError) {
		calls++
		return 0, testErr{severity: failure.SeverityRecoverable}
	})
	require.NotNil(t, result.Err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, result.Attempts)
}

type fakeSleeper struct {
	delays []time.Duration
}

func (f *fakeSleeper) Sleep(d time.Duration) { f.delays = append(f.delays, d) }

func TestRetryUsesInjectedSleeperInsteadOfRealSleep(t *testing.T) {
	sleeper := &fakeSleeper{}
	param := NewRetryParam(0, 0, 1, 3, timeutil.NewBackoffParam(time.Hour, 2, time.Hour*10))
	param.Sleeper = sleeper

	calls := 0
	result := Retry(param, func() (int, failure.ClassifiedError) {
		calls++
		return 0, testErr{severity: failure.SeverityRecoverable}
	})
	require.NotNil(t, result.Err)
	assert.Equal(t, 3, calls)
	assert.Len(t, sleeper.delays, 2)
}
