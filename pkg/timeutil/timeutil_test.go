package timeutil

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExponentialBackoffDelayCapsAtMax(t *testing.T) {
	param := NewBackoffParam(time.Second, 2, 5*time.Second)
	rng := rand.New(rand.NewSource(1))
	delay := ExponentialBackoffDelay(10, 0, *rng, param)
	assert.Equal(t, 5*time.Second, delay)
}

func TestExponentialBackoffDelayGrows(t *testing.T) {
	param := NewBackoffParam(time.Second, 2, time.Minute)
	rng := rand.New(rand.NewSource(1))
	d1 := ExponentialBackoffDelay(1, 0, *rng, param)
	d2 := ExponentialBackoffDelay(2, 0, *rng, param)
	assert.Less(t, d1, d2)
}

func TestRetryDelayDoubles(t *testing.T) {
	base := time.Second
	assert.Equal(t, 2*time.Second, RetryDelay(base, 1))
	assert.Equal(t, 4*time.Second, RetryDelay(base, 2))
}
