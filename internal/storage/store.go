// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/felipemaillo/finance-app/internal/models"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when the database is locked by a concurrent
	// writer for longer than the busy timeout.
	ErrConflict = errors.New("storage conflict")

	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("duplicate value")

	// ErrReference is returned when a foreign key constraint is violated,
	// either because a referenced row is missing or because the row is still
	// referenced.
	ErrReference = errors.New("invalid reference")
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the ledger layer.
type Store interface {
	FamilyStore
	UserStore
	ReferenceStore
	TransactionStore

	// WithinTx runs fn against a Store bound to a single write transaction.
	// The transaction commits if fn returns nil and rolls back otherwise.
	// Nested calls reuse the outer transaction.
	WithinTx(ctx context.Context, fn func(Store) error) error

	// Ping reports whether the backing database is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// FamilyStore persists families.
type FamilyStore interface {
	CreateFamily(ctx context.Context, family *models.Family) error
	GetFamily(ctx context.Context, id string) (*models.Family, error)
	ListFamilies(ctx context.Context) ([]*models.Family, error)
	UpdateFamily(ctx context.Context, family *models.Family) error
}

// UserStore persists users.
type UserStore interface {
	// CreateUser returns ErrDuplicate when the email is already registered.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CountUsers(ctx context.Context) (int, error)
	SetUserPrivileged(ctx context.Context, id string, privileged bool) error
}

// ReferenceStore persists currencies and categories.
type ReferenceStore interface {
	ListCurrencies(ctx context.Context) ([]*models.Currency, error)
	GetCurrency(ctx context.Context, id string) (*models.Currency, error)

	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	// DeleteCategory returns ErrReference while transactions still use it.
	DeleteCategory(ctx context.Context, id string) error
}

// TransactionStore persists ledger transactions.
type TransactionStore interface {
	// CreateTransactions inserts all rows or none.
	CreateTransactions(ctx context.Context, txs []*models.Transaction) error

	// GetTransaction returns the row with its currency and category.
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)

	UpdateTransaction(ctx context.Context, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error

	// ListTransactions returns a family's transactions with occurrence dates
	// in [from, to], both inclusive.
	ListTransactions(ctx context.Context, familyID string, from, to time.Time) ([]*models.Transaction, error)

	// ListGroup returns a family's group members dated on or after from,
	// ordered by group position.
	ListGroup(ctx context.Context, familyID, groupID string, from time.Time) ([]*models.Transaction, error)
}
