// Package ledger implements the household ledger core: expanding entries
// into recurring occurrences, propagating edits across a group, aggregating
// month balances and gating family membership. Every operation takes the
// acting auth.Identity explicitly and is scoped to that identity's family.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/felipemaillo/finance-app/internal/cache"
	"github.com/felipemaillo/finance-app/internal/events"
	"github.com/felipemaillo/finance-app/internal/models"
	"github.com/felipemaillo/finance-app/internal/storage"
)

// Ledger coordinates storage, caching and event publishing for the core
// operations.
type Ledger struct {
	store       storage.Store
	summaries   cache.Cache[*models.MonthSummary]
	publisher   events.Publisher
	logger      *slog.Logger
	validate    *validator.Validate
	loads       singleflight.Group
	generations generations
	retry       RetryPolicy
	now         func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithSummaryCache caches month summaries. Writes invalidate a family's
// entries.
func WithSummaryCache(c cache.Cache[*models.MonthSummary]) Option {
	return func(l *Ledger) { l.summaries = c }
}

// WithPublisher publishes change events after each committed write.
func WithPublisher(p events.Publisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithRetryPolicy overrides DefaultRetryPolicy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(l *Ledger) { l.retry = p }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New creates a Ledger backed by store.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:     store,
		summaries: cache.Nop[*models.MonthSummary]{},
		publisher: events.Nop{},
		logger:    slog.Default(),
		validate:  newValidator(),
		retry:     DefaultRetryPolicy,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// fail converts a storage error into a ledger error. Errors that are already
// ledger errors pass through. Unexpected failures are logged with their
// detail and returned with a generic message.
func (l *Ledger) fail(ctx context.Context, op string, err error) error {
	var ledgerErr *Error
	switch {
	case errors.As(err, &ledgerErr):
		return err
	case errors.Is(err, storage.ErrConflict):
		return &Error{Code: CodeConflict, Message: "the ledger is busy, try again", Err: err}
	case errors.Is(err, storage.ErrNotFound):
		return &Error{Code: CodeNotFound, Message: "not found", Err: err}
	case errors.Is(err, storage.ErrDuplicate):
		return &Error{Code: CodeValidation, Message: "already exists", Err: err}
	case errors.Is(err, storage.ErrReference):
		return &Error{Code: CodeValidation, Message: "references missing or in-use data", Err: err}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}

	l.logger.ErrorContext(ctx, "Ledger storage failure", "op", op, "error", err)
	return &Error{Code: CodeStorage, Message: "storage failure", Err: err}
}

// publish reports a committed change. Failures are logged, never returned:
// the write has already happened.
func (l *Ledger) publish(ctx context.Context, event events.Event) {
	event.OccurredAt = l.now().UTC()
	if err := l.publisher.Publish(ctx, event); err != nil {
		l.logger.WarnContext(ctx, "Failed to publish ledger event", "type", event.Type, "error", err)
	}
}
