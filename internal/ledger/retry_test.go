package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/felipemaillo/finance-app/internal/storage"
	"github.com/felipemaillo/finance-app/pkg/logging"
)

func TestWithRetry(t *testing.T) {
	ctx := context.Background()
	l := New(nil,
		WithLogger(logging.Discard()),
		WithRetryPolicy(RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}),
	)
	conflict := fmt.Errorf("begin: %w", storage.ErrConflict)

	t.Run("recovers from conflicts", func(t *testing.T) {
		calls := 0
		err := l.withRetry(ctx, "test", func() error {
			calls++
			if calls < 3 {
				return conflict
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after the last attempt", func(t *testing.T) {
		calls := 0
		err := l.withRetry(ctx, "test", func() error {
			calls++
			return conflict
		})
		assert.ErrorIs(t, err, storage.ErrConflict)
		assert.Equal(t, 3, calls)
	})

	t.Run("other errors are returned at once", func(t *testing.T) {
		calls := 0
		notFound := notFoundError("transaction")
		err := l.withRetry(ctx, "test", func() error {
			calls++
			return notFound
		})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, 1, calls)

		var ledgerErr *Error
		assert.True(t, errors.As(err, &ledgerErr))
	})

	t.Run("stops when the context ends", func(t *testing.T) {
		slow := New(nil,
			WithLogger(logging.Discard()),
			WithRetryPolicy(RetryPolicy{Attempts: 5, BaseDelay: time.Second, MaxDelay: time.Second}),
		)
		cancelled, cancel := context.WithCancel(ctx)

		calls := 0
		err := slow.withRetry(cancelled, "test", func() error {
			calls++
			cancel()
			return conflict
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
