package apierr

import (
	"context"
	"fmt"
	"time"
)

// RetryConfig holds retry parameters for fixed-delay retry.
//
// The delay is deliberately fixed, not exponential: the translation backends
// are either free web endpoints that recover on their own schedule or APIs
// whose rate limits reset within seconds, so a constant pause is enough.
//
// Invalid values are normalized:
//   - MaxAttempts < 1 becomes 1 (single attempt)
//   - Delay < 0 becomes 0 (retry immediately)
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first one.
	MaxAttempts int

	// Delay is the fixed wait between attempts.
	Delay time.Duration

	// Notify, if non-nil, observes every failed attempt before the retry
	// decision is made. attempt is 1-based.
	Notify func(attempt int, err error)
}

// normalize ensures all RetryConfig fields have valid values.
func (c *RetryConfig) normalize() {
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 1
	}
	if c.Delay < 0 {
		c.Delay = 0
	}
}

// Retry executes fn up to cfg.MaxAttempts times with a fixed delay between
// attempts. It retries only if shouldRetry returns true for the error.
// Returns the result of the first successful attempt, or the last error
// wrapped with an attempt count once all attempts are spent.
//
// Context cancellation during the wait aborts immediately with ctx.Err().
// Invalid RetryConfig values are normalized (see RetryConfig documentation).
func Retry[T any](
	ctx context.Context,
	cfg RetryConfig,
	fn func() (T, error),
	shouldRetry func(error) bool,
) (T, error) {
	cfg.normalize()

	var zero T
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if attempt > 1 && cfg.Delay > 0 {
			timer := time.NewTimer(cfg.Delay)
			select {
			case <-ctx.Done():
				if !timer.Stop() {
					<-timer.C
				}
				return zero, ctx.Err()
			case <-timer.C:
			}
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err
		if cfg.Notify != nil {
			cfg.Notify(attempt, lastErr)
		}
		if !shouldRetry(lastErr) {
			return zero, lastErr
		}
	}

	return zero, fmt.Errorf("max attempts (%d) exceeded: %w", cfg.MaxAttempts, lastErr)
}
