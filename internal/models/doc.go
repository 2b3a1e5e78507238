// Package models defines the core domain models for the household ledger.
//
// # Models
//
//   - Family: a household sharing one ledger, gated by a shared secret
//   - User: a member of exactly one family, optionally privileged
//   - Currency, Category: reference data attached to transactions
//   - Transaction: a single dated income or expense entry
//   - MonthSummary: per-currency totals for one family and month
//
// Transactions created by one recurring or installment request share a
// GroupID and carry their position inside that group. The "(i/N)" suffix in
// installment descriptions is a display concern; GroupPosition and GroupSize
// are the source of truth.
//
// Relationships are expressed with ID strings instead of pointers, except
// for the Currency and Category a Transaction embeds on reads.
package models
