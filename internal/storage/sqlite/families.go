package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felipemaillo/finance-app/internal/models"
)

// CreateFamily inserts a new family, generating its ID and timestamps.
func (s *SQLiteStore) CreateFamily(ctx context.Context, family *models.Family) error {
	if family.ID == "" {
		family.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if family.CreatedAt == 0 {
		family.CreatedAt = now
	}
	family.UpdatedAt = family.CreatedAt

	_, err := s.q.ExecContext(ctx,
		"INSERT INTO families (id, name, secret_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		family.ID, family.Name, family.SecretHash, family.CreatedAt, family.UpdatedAt,
	)
	if err != nil {
		return wrap("insert family", err)
	}

	return nil
}

// GetFamily retrieves a family by ID.
func (s *SQLiteStore) GetFamily(ctx context.Context, id string) (*models.Family, error) {
	family := &models.Family{}
	err := s.q.QueryRowContext(ctx,
		"SELECT id, name, secret_hash, created_at, updated_at FROM families WHERE id = ?",
		id,
	).Scan(&family.ID, &family.Name, &family.SecretHash, &family.CreatedAt, &family.UpdatedAt)
	if err != nil {
		return nil, wrap("get family", err)
	}

	return family, nil
}

// ListFamilies retrieves all families ordered by name.
func (s *SQLiteStore) ListFamilies(ctx context.Context) ([]*models.Family, error) {
	rows, err := s.q.QueryContext(ctx,
		"SELECT id, name, secret_hash, created_at, updated_at FROM families ORDER BY name, id",
	)
	if err != nil {
		return nil, wrap("list families", err)
	}
	defer rows.Close()

	var families []*models.Family
	for rows.Next() {
		family := &models.Family{}
		if err := rows.Scan(&family.ID, &family.Name, &family.SecretHash, &family.CreatedAt, &family.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan family: %w", err)
		}
		families = append(families, family)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate families: %w", err)
	}

	return families, nil
}

// UpdateFamily updates the name and shared secret hash of an existing family.
func (s *SQLiteStore) UpdateFamily(ctx context.Context, family *models.Family) error {
	family.UpdatedAt = time.Now().Unix()

	result, err := s.q.ExecContext(ctx,
		"UPDATE families SET name = ?, secret_hash = ?, updated_at = ? WHERE id = ?",
		family.Name, family.SecretHash, family.UpdatedAt, family.ID,
	)
	if err != nil {
		return wrap("update family", err)
	}

	return expectAffected(result, "family", family.ID)
}
