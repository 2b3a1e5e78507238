package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/felipemaillo/finance-app/internal/storage"
)

// RetryPolicy bounds how often a write is retried after lock contention.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// DefaultRetryPolicy retries a conflicting write twice.
var DefaultRetryPolicy = RetryPolicy{
	Attempts:  3,
	BaseDelay: 20 * time.Millisecond,
	MaxDelay:  500 * time.Millisecond,
}

// backOff doubles the delay per attempt, randomized over [0, 2×delay].
func (p RetryPolicy) backOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.MaxInterval = p.MaxDelay
	b.Multiplier = 2
	b.RandomizationFactor = 1
	return b
}

// withRetry runs fn until it succeeds, fails with something other than a
// storage conflict, or the attempts run out.
func (l *Ledger) withRetry(ctx context.Context, op string, fn func() error) error {
	attempts := max(l.retry.Attempts, 1)

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := fn()
		if err != nil && !errors.Is(err, storage.ErrConflict) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(l.retry.backOff()),
		backoff.WithMaxTries(uint(attempts)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			l.logger.WarnContext(ctx, "Retrying after storage conflict", "op", op, "wait", wait, "error", err)
		}),
	)

	// The final attempt's error can come back still marked permanent.
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return permanent.Unwrap()
	}
	return err
}
