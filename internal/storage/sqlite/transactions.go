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

const selectTransactions = `
	SELECT t.id, t.description, t.amount, t.kind, t.occurrence_date, t.is_settled,
	       t.family_id, t.user_id, t.currency_id, t.category_id, t.group_id,
	       t.recurrence, t.group_position, t.group_size, t.created_at, t.updated_at,
	       c.code, c.symbol, cat.name, cat.created_at
	FROM transactions t
	JOIN currencies c ON c.id = t.currency_id
	LEFT JOIN categories cat ON cat.id = t.category_id
`

// CreateTransactions inserts a batch of transactions atomically.
func (s *SQLiteStore) CreateTransactions(ctx context.Context, txs []*models.Transaction) error {
	return s.WithinTx(ctx, func(st storage.Store) error {
		return st.(*SQLiteStore).insertTransactions(ctx, txs)
	})
}

func (s *SQLiteStore) insertTransactions(ctx context.Context, txs []*models.Transaction) error {
	now := time.Now().Unix()
	for _, t := range txs {
		if t.ID == "" {
			t.ID = uuid.New().String()
		}
		if t.CreatedAt == 0 {
			t.CreatedAt = now
		}
		t.UpdatedAt = t.CreatedAt
		if t.Recurrence == "" {
			t.Recurrence = models.RecurrenceNone
		}

		_, err := s.q.ExecContext(ctx, `
			INSERT INTO transactions (
				id, description, amount, kind, occurrence_date, is_settled,
				family_id, user_id, currency_id, category_id, group_id,
				recurrence, group_position, group_size, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Description, t.Amount.String(), string(t.Kind),
			t.OccurrenceDate.Format(models.DateLayout), boolToInt(t.IsSettled),
			t.FamilyID, t.UserID, t.CurrencyID, nullString(t.CategoryID), nullString(t.GroupID),
			string(t.Recurrence), nullInt(t.GroupPosition), nullInt(t.GroupSize),
			t.CreatedAt, t.UpdatedAt,
		)
		if err != nil {
			return wrap("insert transaction", err)
		}
	}
	return nil
}

// GetTransaction retrieves a transaction by ID with its currency and category.
func (s *SQLiteStore) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	rows, err := s.q.QueryContext(ctx, selectTransactions+" WHERE t.id = ?", id)
	if err != nil {
		return nil, wrap("get transaction", err)
	}
	txs, err := scanTransactions(rows)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, fmt.Errorf("transaction %s: %w", id, storage.ErrNotFound)
	}
	return txs[0], nil
}

// UpdateTransaction overwrites every mutable column of an existing transaction.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	t.UpdatedAt = time.Now().Unix()

	result, err := s.q.ExecContext(ctx, `
		UPDATE transactions
		SET description = ?, amount = ?, kind = ?, occurrence_date = ?, is_settled = ?,
		    currency_id = ?, category_id = ?, updated_at = ?
		WHERE id = ?`,
		t.Description, t.Amount.String(), string(t.Kind),
		t.OccurrenceDate.Format(models.DateLayout), boolToInt(t.IsSettled),
		t.CurrencyID, nullString(t.CategoryID), t.UpdatedAt,
		t.ID,
	)
	if err != nil {
		return wrap("update transaction", err)
	}

	return expectAffected(result, "transaction", t.ID)
}

// DeleteTransaction removes a single transaction. Group siblings are kept.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, id string) error {
	result, err := s.q.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return wrap("delete transaction", err)
	}
	return expectAffected(result, "transaction", id)
}

// ListTransactions returns a family's transactions dated within [from, to].
func (s *SQLiteStore) ListTransactions(ctx context.Context, familyID string, from, to time.Time) ([]*models.Transaction, error) {
	rows, err := s.q.QueryContext(ctx,
		selectTransactions+`
		WHERE t.family_id = ? AND t.occurrence_date >= ? AND t.occurrence_date <= ?
		ORDER BY t.occurrence_date DESC, t.description, t.id`,
		familyID, from.Format(models.DateLayout), to.Format(models.DateLayout),
	)
	if err != nil {
		return nil, wrap("list transactions", err)
	}
	return scanTransactions(rows)
}

// ListGroup returns the family's group members dated on or after from.
func (s *SQLiteStore) ListGroup(ctx context.Context, familyID, groupID string, from time.Time) ([]*models.Transaction, error) {
	rows, err := s.q.QueryContext(ctx,
		selectTransactions+`
		WHERE t.family_id = ? AND t.group_id = ? AND t.occurrence_date >= ?
		ORDER BY t.group_position, t.occurrence_date, t.id`,
		familyID, groupID, from.Format(models.DateLayout),
	)
	if err != nil {
		return nil, wrap("list group", err)
	}
	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]*models.Transaction, error) {
	defer rows.Close()

	var txs []*models.Transaction
	for rows.Next() {
		var (
			t            models.Transaction
			kind, date   string
			recurrence   string
			categoryID   sql.NullString
			groupID      sql.NullString
			position     sql.NullInt64
			size         sql.NullInt64
			currency     models.Currency
			categoryName sql.NullString
			categoryAt   sql.NullInt64
		)

		if err := rows.Scan(
			&t.ID, &t.Description, &t.Amount, &kind, &date, &t.IsSettled,
			&t.FamilyID, &t.UserID, &t.CurrencyID, &categoryID, &groupID,
			&recurrence, &position, &size, &t.CreatedAt, &t.UpdatedAt,
			&currency.Code, &currency.Symbol, &categoryName, &categoryAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		occurred, err := models.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse occurrence date %q: %w", date, err)
		}

		t.Kind = models.Kind(kind)
		t.OccurrenceDate = occurred
		t.Recurrence = models.RecurrenceMode(recurrence)
		t.CategoryID = categoryID.String
		t.GroupID = groupID.String
		t.GroupPosition = int(position.Int64)
		t.GroupSize = int(size.Int64)

		currency.ID = t.CurrencyID
		t.Currency = &currency
		if categoryID.Valid {
			t.Category = &models.Category{ID: categoryID.String, Name: categoryName.String, CreatedAt: categoryAt.Int64}
		}

		txs = append(txs, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txs, nil
}
