package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/felipemaillo/finance-app/internal/auth"
	"github.com/felipemaillo/finance-app/internal/calculator"
	"github.com/felipemaillo/finance-app/internal/models"
)

// SummaryQuery selects one month of a family's ledger. FamilyID defaults to
// the acting identity's family.
type SummaryQuery struct {
	FamilyID   string        `json:"family_id" validate:"required"`
	Month      int           `json:"month" validate:"gte=1,lte=12"`
	Year       int           `json:"year" validate:"gte=1900,lte=9999"`
	CategoryID string        `json:"category_id"`
	Nature     models.Nature `json:"nature" validate:"omitempty,oneof=all installments standalone"`
}

func summaryPrefix(familyID string) string {
	return "summary:" + familyID + ":"
}

func (q SummaryQuery) cacheKey() string {
	nature := q.Nature
	if nature == "" {
		nature = models.NatureAll
	}
	return fmt.Sprintf("%s%04d-%02d:%s:%s", summaryPrefix(q.FamilyID), q.Year, q.Month, q.CategoryID, nature)
}

// MonthBounds returns the first and last calendar day of a month.
func MonthBounds(month, year int) (time.Time, time.Time) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// Summarize aggregates a family's month into per-currency totals. Identical
// queries return identical results until the family's ledger changes.
func (l *Ledger) Summarize(ctx context.Context, id auth.Identity, q SummaryQuery) (*models.MonthSummary, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if q.FamilyID == "" {
		q.FamilyID = id.FamilyID
	}
	if err := l.validateStruct(q); err != nil {
		return nil, err
	}
	if !id.InFamily(q.FamilyID) {
		return nil, forbiddenError("cannot read another family's ledger")
	}

	key := q.cacheKey()
	cached, ok, err := l.summaries.Get(ctx, key)
	if err != nil {
		l.logger.WarnContext(ctx, "Summary cache read failed", "key", key, "error", err)
	}
	if ok {
		return cached, nil
	}

	// The flight key carries the generation so a load that started before a
	// write is never joined by a caller that arrives after it.
	gen := l.generations.current(q.FamilyID)
	flight := fmt.Sprintf("%s@%d", key, gen)
	ch := l.loads.DoChan(flight, func() (any, error) {
		// Joined callers share this load, so it must outlive the first caller.
		loadCtx := context.WithoutCancel(ctx)

		from, to := MonthBounds(q.Month, q.Year)
		txs, err := l.store.ListTransactions(loadCtx, q.FamilyID, from, to)
		if err != nil {
			return nil, err
		}

		summary := calculator.SummarizeMonth(q.FamilyID, q.Month, q.Year, txs, calculator.Filter{
			CategoryID: q.CategoryID,
			Nature:     q.Nature,
		})

		stored, err := l.generations.storeIfCurrent(q.FamilyID, gen, func() error {
			return l.summaries.Set(loadCtx, key, summary)
		})
		if err != nil {
			l.logger.WarnContext(loadCtx, "Summary cache write failed", "key", key, "error", err)
		}
		if !stored {
			l.logger.DebugContext(loadCtx, "Summary not cached, family changed during load", "key", key)
		}
		return summary, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, l.fail(ctx, "summarize", res.Err)
		}
		return res.Val.(*models.MonthSummary), nil
	}
}

// ListTransactions returns a family's month of transactions, newest first,
// with currency and category embedded.
func (l *Ledger) ListTransactions(ctx context.Context, id auth.Identity, familyID string, month, year int) ([]*models.Transaction, error) {
	summary, err := l.Summarize(ctx, id, SummaryQuery{FamilyID: familyID, Month: month, Year: year})
	if err != nil {
		return nil, err
	}
	return summary.Transactions, nil
}

// invalidate drops every cached summary of the family. Bumping the
// generation first keeps loads that read the store before the write from
// caching their result afterwards.
func (l *Ledger) invalidate(ctx context.Context, familyID string) {
	l.generations.bump(familyID)
	if err := l.summaries.DeletePrefix(ctx, summaryPrefix(familyID)); err != nil {
		l.logger.WarnContext(ctx, "Summary cache invalidation failed", "family_id", familyID, "error", err)
	}
}

// generations counts writes per family within this process. A summary may
// be cached only if no write happened between its store read and the cache
// write.
type generations struct {
	mu     sync.Mutex
	all    uint64
	counts map[string]uint64
}

// current only grows: both terms are monotonic.
func (g *generations) current(familyID string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.all + g.counts[familyID]
}

func (g *generations) bump(familyID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.counts == nil {
		g.counts = make(map[string]uint64)
	}
	g.counts[familyID]++
}

func (g *generations) bumpAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.all++
}

// storeIfCurrent runs store while holding the lock, only when the family is
// still at gen. It reports whether store ran.
func (g *generations) storeIfCurrent(familyID string, gen uint64, store func() error) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.all+g.counts[familyID] != gen {
		return false, nil
	}
	return true, store()
}
