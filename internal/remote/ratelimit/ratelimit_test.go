package ratelimit

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffGrowsLinearlyWithSlack(t *testing.T) {
	cfg := DefaultConfig()
	for attempt := 1; attempt <= 3; attempt++ {
		base := time.Duration(attempt) * cfg.RateLimitBackoff
		got := Backoff(attempt, cfg)
		assert.GreaterOrEqual(t, got, base)
		assert.LessOrEqual(t, got, base+base/4)
	}

	// Out-of-range attempts clamp to the first step.
	assert.GreaterOrEqual(t, Backoff(0, cfg), cfg.RateLimitBackoff)
	assert.GreaterOrEqual(t, Backoff(-3, cfg), cfg.RateLimitBackoff)
}

func TestJitterBounds(t *testing.T) {
	d := 2 * time.Second
	for i := 0; i < 50; i++ {
		got := Jitter(d)
		assert.GreaterOrEqual(t, got, d)
		assert.LessOrEqual(t, got, d+d/4)
	}
}

func TestRetryErrorMessage(t *testing.T) {
	cause := errors.New("connection reset")
	err := &RetryError{Endpoint: "/item_stocks/i1", Attempts: 4, LastStatus: 429, LastError: cause}

	assert.Contains(t, err.Error(), "/item_stocks/i1")
	assert.Contains(t, err.Error(), "failed after 4 attempts")
	assert.Contains(t, err.Error(), "HTTP 429")
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, cause, errors.Unwrap(err))

	bare := &RetryError{Endpoint: "/items", Attempts: 2}
	assert.NotContains(t, bare.Error(), "HTTP")
}
