package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordSleep returns a Sleep func that records requested delays without blocking.
func recordSleep(slept *[]time.Duration) func(context.Context, time.Duration) {
	return func(_ context.Context, d time.Duration) {
		*slept = append(*slept, d)
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Backoff(0))
	assert.Equal(t, 2*time.Second, cfg.Backoff(1))
	assert.Equal(t, 4*time.Second, cfg.Backoff(2))
}

func TestRetry(t *testing.T) {
	tests := []struct {
		name         string
		failures     int
		expectErr    bool
		expectCalls  int
		expectSleeps []time.Duration
	}{
		{
			name:         "succeeds first try",
			failures:     0,
			expectCalls:  1,
			expectSleeps: nil,
		},
		{
			name:         "succeeds on second attempt",
			failures:     1,
			expectCalls:  2,
			expectSleeps: []time.Duration{time.Second},
		},
		{
			name:         "succeeds on last attempt",
			failures:     2,
			expectCalls:  3,
			expectSleeps: []time.Duration{time.Second, 2 * time.Second},
		},
		{
			name:         "exhausts attempts",
			failures:     10,
			expectErr:    true,
			expectCalls:  3,
			expectSleeps: []time.Duration{time.Second, 2 * time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var slept []time.Duration
			cfg := DefaultRetryConfig()
			cfg.Sleep = recordSleep(&slept)

			calls := 0
			boom := errors.New("boom")
			err := Retry(context.Background(), cfg, "test op", func(ctx context.Context, attempt int) error {
				assert.Equal(t, calls, attempt)
				calls++
				if calls <= tt.failures {
					return boom
				}
				return nil
			})

			if tt.expectErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, boom)
				assert.Contains(t, err.Error(), "failed after 3 attempts")
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.expectCalls, calls)
			assert.Equal(t, tt.expectSleeps, slept)
		})
	}
}

func TestRetry_StopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := DefaultRetryConfig()
	var slept []time.Duration
	cfg.Sleep = recordSleep(&slept)

	calls := 0
	err := Retry(ctx, cfg, "canceled op", func(ctx context.Context, attempt int) error {
		calls++
		cancel()
		return errors.New("transient")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
	assert.Empty(t, slept)
}

func TestRetry_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryConfig{}, "once", func(ctx context.Context, attempt int) error {
		calls++
		return errors.New("nope")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestSleepContext_ReturnsEarlyOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	sleepContext(ctx, time.Hour)
	assert.Less(t, time.Since(start), time.Second)
}
