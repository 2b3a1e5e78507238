package calculator

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/felipemaillo/finance-app/internal/models"
)

// Filter narrows the transactions that enter a month summary.
type Filter struct {
	// CategoryID keeps only transactions with this category. Empty keeps all.
	CategoryID string

	// Nature keeps grouped or standalone transactions. Empty means all.
	Nature models.Nature
}

// InGroup reports whether a transaction belongs to a recurrence batch.
// Rows written before group ids existed are recognised by their "(i/N)"
// description marker.
func InGroup(t *models.Transaction) bool {
	if t.GroupID != "" {
		return true
	}
	_, _, ok := ParseInstallmentMarker(t.Description)
	return ok
}

// FilterTransactions applies f and returns the matching transactions in
// their original order.
func FilterTransactions(txs []*models.Transaction, f Filter) []*models.Transaction {
	out := make([]*models.Transaction, 0, len(txs))
	for _, t := range txs {
		if f.CategoryID != "" && t.CategoryID != f.CategoryID {
			continue
		}
		switch f.Nature {
		case models.NatureInstallments:
			if !InGroup(t) {
				continue
			}
		case models.NatureStandalone:
			if InGroup(t) {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// SortTransactions orders by occurrence date descending, then description,
// then ID, so equal inputs always render identically.
func SortTransactions(txs []*models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		a, b := txs[i], txs[j]
		if !a.OccurrenceDate.Equal(b.OccurrenceDate) {
			return a.OccurrenceDate.After(b.OccurrenceDate)
		}
		if a.Description != b.Description {
			return a.Description < b.Description
		}
		return a.ID < b.ID
	})
}

// Summarize folds transactions into per-currency totals.
//
// For each currency:
//   - income is every INCOME amount, settled or not
//   - settled and pending expenses are split by IsSettled
//   - balance = income - settled expense
//   - projected = balance - pending expense
//
// Currencies are never combined. The result is sorted by currency code.
func Summarize(txs []*models.Transaction) []models.CurrencySummary {
	byCurrency := make(map[string]*models.CurrencySummary)

	for _, t := range txs {
		s, ok := byCurrency[t.CurrencyID]
		if !ok {
			s = &models.CurrencySummary{
				CurrencyID:     t.CurrencyID,
				Code:           t.CurrencyID,
				Income:         decimal.Zero,
				SettledExpense: decimal.Zero,
				PendingExpense: decimal.Zero,
			}
			if t.Currency != nil {
				s.Code = t.Currency.Code
				s.Symbol = t.Currency.Symbol
			}
			byCurrency[t.CurrencyID] = s
		}

		switch t.Kind {
		case models.KindIncome:
			s.Income = s.Income.Add(t.Amount)
		case models.KindExpense:
			if t.IsSettled {
				s.SettledExpense = s.SettledExpense.Add(t.Amount)
			} else {
				s.PendingExpense = s.PendingExpense.Add(t.Amount)
			}
		}
	}

	summaries := make([]models.CurrencySummary, 0, len(byCurrency))
	for _, s := range byCurrency {
		s.Balance = s.Income.Sub(s.SettledExpense)
		s.Projected = s.Balance.Sub(s.PendingExpense)
		summaries = append(summaries, *s)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if c := strings.Compare(summaries[i].Code, summaries[j].Code); c != 0 {
			return c < 0
		}
		return summaries[i].CurrencyID < summaries[j].CurrencyID
	})

	return summaries
}

// SummarizeMonth filters, sorts and folds one month of a family's
// transactions. txs is not modified.
func SummarizeMonth(familyID string, month, year int, txs []*models.Transaction, f Filter) *models.MonthSummary {
	filtered := FilterTransactions(txs, f)
	SortTransactions(filtered)

	return &models.MonthSummary{
		FamilyID:     familyID,
		Month:        month,
		Year:         year,
		Currencies:   Summarize(filtered),
		Transactions: filtered,
	}
}
