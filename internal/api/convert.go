package api

import (
	"github.com/felipemaillo/finance-app/internal/models"
)

func FromCurrency(c *models.Currency) *Currency {
	if c == nil {
		return nil
	}
	return &Currency{ID: c.ID, Code: c.Code, Symbol: c.Symbol}
}

func FromCategory(c *models.Category) *Category {
	if c == nil {
		return nil
	}
	return &Category{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

func FromTransaction(t *models.Transaction) *Transaction {
	return &Transaction{
		ID:            t.ID,
		Description:   t.Description,
		Amount:        t.Amount.StringFixed(2),
		Kind:          string(t.Kind),
		Date:          t.OccurrenceDate.Format(models.DateLayout),
		IsSettled:     t.IsSettled,
		FamilyID:      t.FamilyID,
		UserID:        t.UserID,
		CurrencyID:    t.CurrencyID,
		CategoryID:    t.CategoryID,
		GroupID:       t.GroupID,
		Recurrence:    string(t.Recurrence),
		GroupPosition: t.GroupPosition,
		GroupSize:     t.GroupSize,
		Currency:      FromCurrency(t.Currency),
		Category:      FromCategory(t.Category),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func FromTransactions(txs []*models.Transaction) []*Transaction {
	out := make([]*Transaction, len(txs))
	for i, t := range txs {
		out[i] = FromTransaction(t)
	}
	return out
}

func FromSummary(s *models.MonthSummary) *SummaryResponse {
	currencies := make([]CurrencySummary, len(s.Currencies))
	for i, c := range s.Currencies {
		currencies[i] = CurrencySummary{
			CurrencyID:     c.CurrencyID,
			Code:           c.Code,
			Symbol:         c.Symbol,
			Income:         c.Income.StringFixed(2),
			SettledExpense: c.SettledExpense.StringFixed(2),
			PendingExpense: c.PendingExpense.StringFixed(2),
			Balance:        c.Balance.StringFixed(2),
			Projected:      c.Projected.StringFixed(2),
		}
	}
	return &SummaryResponse{
		FamilyID:     s.FamilyID,
		Month:        s.Month,
		Year:         s.Year,
		Currencies:   currencies,
		Transactions: FromTransactions(s.Transactions),
	}
}

// FromFamily never exposes the secret hash.
func FromFamily(f *models.Family) *Family {
	return &Family{
		ID:        f.ID,
		Name:      f.Name,
		IsOpen:    f.IsOpen(),
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// FromUser never exposes the secret hash.
func FromUser(u *models.User) *User {
	return &User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		FamilyID:     u.FamilyID,
		IsPrivileged: u.IsPrivileged,
		CreatedAt:    u.CreatedAt,
	}
}
