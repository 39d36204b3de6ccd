package ratelimiter

import (
	"context"
	"time"
)

// Config defines the token bucket.
type Config struct {
	Capacity       int           `env:"LOGIN_RATE_CAPACITY" envDefault:"10"`  // burst size
	RefillRate     int           `env:"LOGIN_RATE_REFILL" envDefault:"10"`    // tokens added per interval
	RefillInterval time.Duration `env:"LOGIN_RATE_INTERVAL" envDefault:"15m"` // how often tokens are added
}

// Result is the outcome of one check.
type Result struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Allowed reports whether the request fit in the bucket.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter is how long to wait before the next token arrives, measured
// from now. It is zero for allowed requests.
func (r *Result) RetryAfter(now time.Time) time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(r.ResetAt.Sub(now), 0)
}

// Store keeps bucket state.
type Store interface {
	// ConsumeTokens removes tokens from the bucket at key and returns what is
	// left, which is negative when the request must be denied.
	ConsumeTokens(ctx context.Context, key string, tokens int, cfg Config) (remaining int, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}
