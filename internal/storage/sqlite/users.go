package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felipemaillo/finance-app/internal/models"
	"github.com/felipemaillo/finance-app/internal/storage"
)

const userColumns = "id, name, email, secret_hash, family_id, is_privileged, created_at"

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.q.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.SecretHash,
		user.FamilyID,
		boolToInt(user.IsPrivileged),
		user.CreatedAt,
	)
	if err != nil {
		return wrap("create user", err)
	}

	return nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = ?
	`

	user, err := scanUser(s.q.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, wrap("get user by email", err)
	}

	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = ?
	`

	user, err := scanUser(s.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, wrap("get user by ID", err)
	}

	return user, nil
}

// CountUsers returns the number of registered users.
func (s *SQLiteStore) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := s.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, wrap("count users", err)
	}
	return count, nil
}

// SetUserPrivileged grants or revokes family administration rights.
func (s *SQLiteStore) SetUserPrivileged(ctx context.Context, id string, privileged bool) error {
	result, err := s.q.ExecContext(ctx,
		"UPDATE users SET is_privileged = ? WHERE id = ?",
		boolToInt(privileged), id,
	)
	if err != nil {
		return wrap("update user privilege", err)
	}

	return expectAffected(result, "user", id)
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.SecretHash,
		&user.FamilyID,
		&user.IsPrivileged,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// expectAffected turns an update or delete that matched nothing into
// storage.ErrNotFound.
func expectAffected(result sql.Result, entity, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, storage.ErrNotFound)
	}
	return nil
}
