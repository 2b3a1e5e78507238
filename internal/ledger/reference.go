package ledger

import (
	"context"
	"errors"
	"strings"

	"github.com/felipemaillo/finance-app/internal/auth"
	"github.com/felipemaillo/finance-app/internal/events"
	"github.com/felipemaillo/finance-app/internal/models"
	"github.com/felipemaillo/finance-app/internal/storage"
)

// ListCurrencies returns the available currencies.
func (l *Ledger) ListCurrencies(ctx context.Context) ([]*models.Currency, error) {
	currencies, err := l.store.ListCurrencies(ctx)
	if err != nil {
		return nil, l.fail(ctx, "list currencies", err)
	}
	return currencies, nil
}

// ListCategories returns every category ordered by name.
func (l *Ledger) ListCategories(ctx context.Context, id auth.Identity) ([]*models.Category, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	categories, err := l.store.ListCategories(ctx)
	if err != nil {
		return nil, l.fail(ctx, "list categories", err)
	}
	return categories, nil
}

// CreateCategory adds a category. Names are unique.
func (l *Ledger) CreateCategory(ctx context.Context, id auth.Identity, name string) (*models.Category, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	name, err := categoryName(name)
	if err != nil {
		return nil, err
	}

	category := &models.Category{Name: name}
	if err := l.store.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, validationError("name", "category already exists")
		}
		return nil, l.fail(ctx, "create category", err)
	}

	l.publish(ctx, events.Event{Type: events.CategoryChanged, CategoryID: category.ID, UserID: id.UserID})
	return category, nil
}

// RenameCategory changes a category's name. Cached summaries of every family
// are dropped since categories are shared.
func (l *Ledger) RenameCategory(ctx context.Context, id auth.Identity, categoryID, name string) (*models.Category, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	name, err := categoryName(name)
	if err != nil {
		return nil, err
	}

	category := &models.Category{ID: categoryID, Name: name}
	if err := l.store.UpdateCategory(ctx, category); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, notFoundError("category")
		case errors.Is(err, storage.ErrDuplicate):
			return nil, validationError("name", "category already exists")
		}
		return nil, l.fail(ctx, "rename category", err)
	}

	l.invalidateAll(ctx)
	l.publish(ctx, events.Event{Type: events.CategoryChanged, CategoryID: category.ID, UserID: id.UserID})
	return category, nil
}

// DeleteCategory removes an unused category.
func (l *Ledger) DeleteCategory(ctx context.Context, id auth.Identity, categoryID string) error {
	if err := requireIdentity(id); err != nil {
		return err
	}

	if err := l.store.DeleteCategory(ctx, categoryID); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return notFoundError("category")
		case errors.Is(err, storage.ErrReference):
			return validationError("id", "category is used by transactions")
		}
		return l.fail(ctx, "delete category", err)
	}

	l.publish(ctx, events.Event{Type: events.CategoryChanged, CategoryID: categoryID, UserID: id.UserID})
	return nil
}

func categoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", validationError("name", "is required")
	}
	if len(name) > 100 {
		return "", validationError("name", "must be at most 100")
	}
	return name, nil
}

func lookupCurrency(ctx context.Context, st storage.Store, id string) (*models.Currency, error) {
	currency, err := st.GetCurrency(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFoundError("currency")
	}
	return currency, err
}

// lookupCategory returns nil for an empty id.
func lookupCategory(ctx context.Context, st storage.Store, id string) (*models.Category, error) {
	if id == "" {
		return nil, nil
	}
	category, err := st.GetCategory(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFoundError("category")
	}
	return category, err
}

func (l *Ledger) invalidateAll(ctx context.Context) {
	l.generations.bumpAll()
	if err := l.summaries.DeletePrefix(ctx, "summary:"); err != nil {
		l.logger.WarnContext(ctx, "Summary cache invalidation failed", "error", err)
	}
}
