package base

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/divinity/genai/llm"
)

const (
	// DefaultMaxRetries is the number of retries after the first attempt.
	DefaultMaxRetries = 5
	// DefaultRetryDelay is the fixed wait between attempts.
	DefaultRetryDelay = 1100 * time.Millisecond
)

// RetryPolicy controls how a request is repeated when the upstream pushes back.
// The zero value performs a single attempt.
type RetryPolicy struct {
	// MaxRetries bounds retries after the first attempt; total attempts never exceed MaxRetries+1.
	MaxRetries int
	// Delay is the fixed backoff between attempts.
	Delay time.Duration
	// Retryable selects errors worth another attempt; nil means none.
	Retryable func(err error) bool
	// OnRetry, when set, is invoked before each wait with the 1-based retry number.
	OnRetry func(retry int, err error)
}

// DefaultRetryPolicy retries rate-limited calls 5 times, 1.1s apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: DefaultMaxRetries,
		Delay:      DefaultRetryDelay,
		Retryable:  llm.IsRateLimited,
	}
}

// Do runs fn until it succeeds, fails with a non-retryable error, or the retry
// budget is spent. Exhausting the budget on rate limits yields an error
// wrapping llm.ErrRateLimited.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	retries := 0
	for {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if p.Retryable == nil || !p.Retryable(err) {
			return err
		}
		if retries >= p.MaxRetries {
			if llm.IsRateLimited(err) {
				return fmt.Errorf("%w after %d retries: %v", llm.ErrRateLimited, retries, err)
			}
			return err
		}
		retries++
		if p.OnRetry != nil {
			p.OnRetry(retries, err)
		}
		if err := sleep(ctx, p.Delay); err != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
