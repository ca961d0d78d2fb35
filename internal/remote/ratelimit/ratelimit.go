// Package ratelimit holds the retry and backoff policy for calls against
// the remote catalog API.
package ratelimit

import (
	"math/rand"
	"strconv"
	"time"
)

// Config holds retry/backoff configuration for remote calls.
type Config struct {
	MaxRetries        int           `json:"maxRetries"`
	RateLimitBackoff  time.Duration `json:"rateLimitBackoff"`
	InterRequestDelay time.Duration `json:"interRequestDelay"`
	RateLimitedPause  time.Duration `json:"rateLimitedPause"`
	InterPageDelay    time.Duration `json:"interPageDelay"`
}

// DefaultConfig returns the retry policy tuned against the remote catalog's
// documented limits.
func DefaultConfig() Config {
	return Config{
		MaxRetries:        3,
		RateLimitBackoff:  2 * time.Second,
		InterRequestDelay: 200 * time.Millisecond,
		RateLimitedPause:  3 * time.Second,
		InterPageDelay:    100 * time.Millisecond,
	}
}

// RetryError is returned when all retry attempts against one endpoint are
// exhausted.
type RetryError struct {
	Endpoint   string
	Attempts   int
	LastStatus int
	LastError  error
}

func (e *RetryError) Error() string {
	msg := "request to " + e.Endpoint + " failed after " + strconv.Itoa(e.Attempts) + " attempts"
	if e.LastStatus != 0 {
		msg += " (HTTP " + strconv.Itoa(e.LastStatus) + ")"
	}
	if e.LastError != nil {
		msg += ": " + e.LastError.Error()
	}
	return msg
}

func (e *RetryError) Unwrap() error { return e.LastError }

// IsRateLimited reports whether a status code means the remote throttled us.
func IsRateLimited(status int) bool {
	return status == 429
}

// Backoff returns the wait before retry number attempt (1-based) of a
// rate-limited call. The remote's limiter resets on a short window, so a
// linearly increasing wait (2s, 4s, 6s) is enough; exponential growth just
// wastes the batch's time budget. Jitter is applied so concurrent workers
// do not retry in lockstep.
func Backoff(attempt int, cfg Config) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return Jitter(time.Duration(attempt) * cfg.RateLimitBackoff)
}

// Jitter adds 0-25% random slack to a delay to avoid lockstep retries.
func Jitter(d time.Duration) time.Duration {
	return d + time.Duration(rand.Int63n(int64(d)/4+1))
}
