package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the storage and wire format for occurrence dates.
const DateLayout = "2006-01-02"

// Kind is the direction of money for a transaction.
type Kind string

const (
	KindIncome  Kind = "INCOME"
	KindExpense Kind = "EXPENSE"
)

// Transaction is a single dated ledger entry.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// Description is free text. Installment rows end with "(i/N)".
	Description string

	// Amount is always positive; Kind carries the sign.
	Amount decimal.Decimal

	Kind Kind

	// OccurrenceDate is a calendar date at midnight UTC.
	OccurrenceDate time.Time

	// IsSettled marks an expense as paid. Unsettled expenses count as pending.
	IsSettled bool

	FamilyID   string
	UserID     string
	CurrencyID string

	// CategoryID is empty when the transaction has no category.
	CategoryID string

	// GroupID links the occurrences produced by one recurring or installment
	// request. Empty for standalone transactions.
	GroupID string

	// Recurrence is the mode the group was created with.
	Recurrence RecurrenceMode

	// GroupPosition is the 1-based position inside the group and GroupSize
	// the number of occurrences the group was created with. Both are zero for
	// standalone transactions.
	GroupPosition int
	GroupSize     int

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64

	// Currency and Category are populated on reads.
	Currency *Currency
	Category *Category
}

// IsGrouped reports whether the transaction belongs to a recurrence group.
func (t *Transaction) IsGrouped() bool {
	return t.GroupID != ""
}

// IsInstallment reports whether the transaction is one installment of a
// multi-part purchase.
func (t *Transaction) IsInstallment() bool {
	return t.IsGrouped() && t.Recurrence == RecurrenceInstallments && t.GroupSize > 1
}

// Date truncates t to a calendar date at midnight UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a "2006-01-02" date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
