package ai

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"
)

// RetryConfig holds retry configuration for model calls
type RetryConfig struct {
	MaxAttempts       int           // Total attempts including the first (default: 3)
	InitialBackoff    time.Duration // Delay after the first failure (default: 1s)
	BackoffMultiplier float64       // Backoff multiplier (default: 2.0)

	// Sleep blocks between attempts. nil uses a timer that also returns
	// early when ctx is done. Tests substitute a recorder.
	Sleep func(ctx context.Context, d time.Duration)
}

// DefaultRetryConfig returns the default retry configuration:
// three attempts, sleeping 1s then 2s between them.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    1 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// Backoff returns the delay slept after the given zero-based attempt fails.
func (c RetryConfig) Backoff(attempt int) time.Duration {
	return time.Duration(float64(c.InitialBackoff) * math.Pow(c.BackoffMultiplier, float64(attempt)))
}

// Retry runs fn until it succeeds or MaxAttempts is exhausted. Every error is
// retried: transport failures and malformed replies are treated alike.
// The returned error wraps the last failure.
func Retry(ctx context.Context, cfg RetryConfig, operation string, fn func(ctx context.Context, attempt int) error) error {
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		err := fn(ctx, attempt)
		if err == nil {
			if attempt > 0 {
				log.Printf("[AI] %s succeeded after %d retries", operation, attempt)
			}
			return nil
		}
		lastErr = err

		if attempt == attempts-1 {
			break
		}
		if ctx.Err() != nil {
			return fmt.Errorf("%s failed: context canceled: %w", operation, ctx.Err())
		}

		backoff := cfg.Backoff(attempt)
		log.Printf("[AI] %s attempt %d/%d failed, retrying in %v: %v",
			operation, attempt+1, attempts, backoff, err)
		sleep(ctx, backoff)
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, attempts, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
