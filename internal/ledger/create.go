package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/felipemaillo/finance-app/internal/auth"
	"github.com/felipemaillo/finance-app/internal/calculator"
	"github.com/felipemaillo/finance-app/internal/events"
	"github.com/felipemaillo/finance-app/internal/models"
	"github.com/felipemaillo/finance-app/internal/storage"
)

// CreateTransactionInput is one submitted ledger entry. FamilyID and UserID
// default to the acting identity when empty.
type CreateTransactionInput struct {
	Description  string                `json:"description" validate:"required,max=255"`
	Amount       decimal.Decimal       `json:"amount" validate:"positive_decimal"`
	Kind         models.Kind           `json:"kind" validate:"required,oneof=INCOME EXPENSE"`
	Date         time.Time             `json:"date" validate:"required"`
	CurrencyID   string                `json:"currency_id" validate:"required"`
	CategoryID   string                `json:"category_id"`
	IsSettled    bool                  `json:"is_settled"`
	FamilyID     string                `json:"family_id" validate:"required"`
	UserID       string                `json:"user_id" validate:"required"`
	Recurrence   models.RecurrenceMode `json:"recurrence" validate:"omitempty,oneof=none fixed installments"`
	Installments int                   `json:"installments" validate:"gte=0,lte=72"`
}

// CreateTransaction expands the entry into its occurrences and stores them
// in one transaction. The returned rows are ordered by group position.
func (l *Ledger) CreateTransaction(ctx context.Context, id auth.Identity, in CreateTransactionInput) ([]*models.Transaction, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if in.FamilyID == "" {
		in.FamilyID = id.FamilyID
	}
	if in.UserID == "" {
		in.UserID = id.UserID
	}
	if in.Recurrence == "" {
		in.Recurrence = models.RecurrenceNone
	}

	if err := l.validateStruct(in); err != nil {
		return nil, err
	}
	if err := checkAmount(in.Amount); err != nil {
		return nil, err
	}
	if !id.InFamily(in.FamilyID) {
		return nil, forbiddenError("cannot record transactions for another family")
	}

	plan, err := calculator.PlanOccurrences(in.Description, in.Date, in.IsSettled, in.Recurrence, in.Installments)
	if err != nil {
		return nil, validationError("installments", err.Error())
	}

	var created []*models.Transaction
	err = l.withRetry(ctx, "create transaction", func() error {
		return l.store.WithinTx(ctx, func(tx storage.Store) error {
			if err := checkMember(ctx, tx, in.UserID, in.FamilyID); err != nil {
				return err
			}
			currency, err := lookupCurrency(ctx, tx, in.CurrencyID)
			if err != nil {
				return err
			}
			category, err := lookupCategory(ctx, tx, in.CategoryID)
			if err != nil {
				return err
			}

			rows := expand(in, plan, currency, category)
			if err := tx.CreateTransactions(ctx, rows); err != nil {
				return err
			}
			created = rows
			return nil
		})
	})
	if err != nil {
		return nil, l.fail(ctx, "create transaction", err)
	}

	l.invalidate(ctx, in.FamilyID)
	l.publish(ctx, events.Event{
		Type:           events.TransactionsCreated,
		FamilyID:       in.FamilyID,
		UserID:         id.UserID,
		TransactionIDs: transactionIDs(created),
		GroupID:        created[0].GroupID,
	})

	l.logger.InfoContext(ctx, "Transactions created",
		"family_id", in.FamilyID,
		"count", len(created),
		"recurrence", in.Recurrence,
		"group_id", created[0].GroupID,
	)

	return created, nil
}

// expand turns planned occurrences into rows. A plan with more than one
// occurrence gets a fresh group id and structured positions.
func expand(in CreateTransactionInput, plan []calculator.Occurrence, currency *models.Currency, category *models.Category) []*models.Transaction {
	grouped := len(plan) > 1

	var groupID string
	recurrence := models.RecurrenceNone
	if grouped {
		groupID = uuid.New().String()
		recurrence = in.Recurrence
	}

	rows := make([]*models.Transaction, len(plan))
	for i, occ := range plan {
		row := &models.Transaction{
			Description:    occ.Description,
			Amount:         in.Amount,
			Kind:           in.Kind,
			OccurrenceDate: occ.Date,
			IsSettled:      occ.IsSettled,
			FamilyID:       in.FamilyID,
			UserID:         in.UserID,
			CurrencyID:     currency.ID,
			CategoryID:     in.CategoryID,
			GroupID:        groupID,
			Recurrence:     recurrence,
			Currency:       currency,
			Category:       category,
		}
		if grouped {
			row.GroupPosition = occ.Position
			row.GroupSize = len(plan)
		}
		rows[i] = row
	}
	return rows
}

// checkMember verifies the recorded user exists inside the family.
func checkMember(ctx context.Context, st storage.Store, userID, familyID string) error {
	user, err := st.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return notFoundError("user")
	}
	if err != nil {
		return err
	}
	if user.FamilyID != familyID {
		return notFoundError("user")
	}
	return nil
}

func transactionIDs(txs []*models.Transaction) []string {
	ids := make([]string, len(txs))
	for i, t := range txs {
		ids[i] = t.ID
	}
	return ids
}

func requireIdentity(id auth.Identity) error {
	if id.UserID == "" {
		return authError("authentication required")
	}
	return nil
}
