package models

import "github.com/shopspring/decimal"

// CurrencySummary holds the month totals for a single currency.
type CurrencySummary struct {
	CurrencyID string
	Code       string
	Symbol     string

	// Income is the sum of INCOME amounts, settled or not.
	Income decimal.Decimal

	// SettledExpense is the sum of settled EXPENSE amounts.
	SettledExpense decimal.Decimal

	// PendingExpense is the sum of unsettled EXPENSE amounts.
	PendingExpense decimal.Decimal

	// Balance = Income - SettledExpense.
	Balance decimal.Decimal

	// Projected = Income - SettledExpense - PendingExpense.
	Projected decimal.Decimal
}

// MonthSummary is the aggregated view of one family's month.
type MonthSummary struct {
	FamilyID string
	Month    int
	Year     int

	// Currencies is sorted by currency code.
	Currencies []CurrencySummary

	// Transactions is sorted by date descending, then description, then ID.
	Transactions []*Transaction
}
