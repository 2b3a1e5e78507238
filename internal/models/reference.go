package models

// Currency is immutable reference data. Amounts in different currencies are
// never combined.
type Currency struct {
	ID     string
	Code   string
	Symbol string
}

// Category is an optional label attached to transactions.
type Category struct {
	ID        string
	Name      string
	CreatedAt int64
}
