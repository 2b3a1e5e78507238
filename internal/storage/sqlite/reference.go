package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felipemaillo/finance-app/internal/models"
)

// ListCurrencies returns every currency ordered by code.
func (s *SQLiteStore) ListCurrencies(ctx context.Context) ([]*models.Currency, error) {
	rows, err := s.q.QueryContext(ctx, "SELECT id, code, symbol FROM currencies ORDER BY code")
	if err != nil {
		return nil, wrap("list currencies", err)
	}
	defer rows.Close()

	var currencies []*models.Currency
	for rows.Next() {
		c := &models.Currency{}
		if err := rows.Scan(&c.ID, &c.Code, &c.Symbol); err != nil {
			return nil, fmt.Errorf("failed to scan currency: %w", err)
		}
		currencies = append(currencies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate currencies: %w", err)
	}

	return currencies, nil
}

// GetCurrency retrieves a currency by ID.
func (s *SQLiteStore) GetCurrency(ctx context.Context, id string) (*models.Currency, error) {
	c := &models.Currency{}
	err := s.q.QueryRowContext(ctx,
		"SELECT id, code, symbol FROM currencies WHERE id = ?", id,
	).Scan(&c.ID, &c.Code, &c.Symbol)
	if err != nil {
		return nil, wrap("get currency", err)
	}
	return c, nil
}

// CreateCategory inserts a category. Names are unique.
func (s *SQLiteStore) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if category.CreatedAt == 0 {
		category.CreatedAt = time.Now().Unix()
	}

	_, err := s.q.ExecContext(ctx,
		"INSERT INTO categories (id, name, created_at) VALUES (?, ?, ?)",
		category.ID, category.Name, category.CreatedAt,
	)
	if err != nil {
		return wrap("insert category", err)
	}
	return nil
}

// GetCategory retrieves a category by ID.
func (s *SQLiteStore) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	c := &models.Category{}
	err := s.q.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM categories WHERE id = ?", id,
	).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, wrap("get category", err)
	}
	return c, nil
}

// ListCategories returns every category ordered by name.
func (s *SQLiteStore) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := s.q.QueryContext(ctx, "SELECT id, name, created_at FROM categories ORDER BY name")
	if err != nil {
		return nil, wrap("list categories", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}

// UpdateCategory renames a category.
func (s *SQLiteStore) UpdateCategory(ctx context.Context, category *models.Category) error {
	result, err := s.q.ExecContext(ctx,
		"UPDATE categories SET name = ? WHERE id = ?", category.Name, category.ID,
	)
	if err != nil {
		return wrap("update category", err)
	}
	return expectAffected(result, "category", category.ID)
}

// DeleteCategory removes a category that no transaction references.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, id string) error {
	result, err := s.q.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return wrap("delete category", err)
	}
	return expectAffected(result, "category", id)
}
