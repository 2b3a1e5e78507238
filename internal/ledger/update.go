package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/felipemaillo/finance-app/internal/auth"
	"github.com/felipemaillo/finance-app/internal/calculator"
	"github.com/felipemaillo/finance-app/internal/events"
	"github.com/felipemaillo/finance-app/internal/models"
	"github.com/felipemaillo/finance-app/internal/storage"
)

// UpdateTransactionInput carries a partial edit. Nil fields are left as is.
// An empty CategoryID clears the category.
type UpdateTransactionInput struct {
	ID          string           `json:"id" validate:"required"`
	Description *string          `json:"description" validate:"omitempty,min=1,max=255"`
	Amount      *decimal.Decimal `json:"amount"`
	Kind        *models.Kind     `json:"kind" validate:"omitempty,oneof=INCOME EXPENSE"`
	Date        *time.Time       `json:"date"`
	CategoryID  *string          `json:"category_id"`
	CurrencyID  *string          `json:"currency_id" validate:"omitempty,min=1"`
	IsSettled   *bool            `json:"is_settled"`

	// PropagateForward applies description, amount, category and currency
	// to every later occurrence of the same group.
	PropagateForward bool `json:"propagate_forward"`
}

// groupChanges are the fields that fan out to later group members.
type groupChanges struct {
	description *string
	amount      *decimal.Decimal
	currency    *models.Currency
	setCategory bool
	category    *models.Category
}

func (c groupChanges) apply(t *models.Transaction) {
	if c.description != nil {
		desc := *c.description
		if t.IsInstallment() {
			desc = calculator.WithInstallmentMarker(desc, t.GroupPosition, t.GroupSize)
		}
		t.Description = desc
	}
	if c.amount != nil {
		t.Amount = *c.amount
	}
	if c.currency != nil {
		t.CurrencyID = c.currency.ID
		t.Currency = c.currency
	}
	if c.setCategory {
		t.Category = c.category
		t.CategoryID = ""
		if c.category != nil {
			t.CategoryID = c.category.ID
		}
	}
}

// UpdateTransaction edits one transaction and, with PropagateForward, every
// member of its group dated on or after the target's original date. Earlier
// members are never touched. The whole edit runs in one storage transaction
// so concurrent propagations on a group serialize.
//
// The result starts with the target, followed by the updated siblings in
// group order.
func (l *Ledger) UpdateTransaction(ctx context.Context, id auth.Identity, in UpdateTransactionInput) ([]*models.Transaction, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if err := l.validateStruct(in); err != nil {
		return nil, err
	}
	if in.Amount != nil {
		if err := checkAmount(*in.Amount); err != nil {
			return nil, err
		}
	}
	if in.Date != nil && in.Date.IsZero() {
		return nil, validationError("date", "is required")
	}

	var updated []*models.Transaction
	err := l.withRetry(ctx, "update transaction", func() error {
		updated = nil
		return l.store.WithinTx(ctx, func(tx storage.Store) error {
			target, err := l.loadScoped(ctx, tx, id, in.ID)
			if err != nil {
				return err
			}

			if in.CurrencyID != nil && *in.CurrencyID != target.CurrencyID && target.IsGrouped() && !in.PropagateForward {
				return validationError("currency_id", "changing the currency of a grouped transaction requires propagate_forward")
			}

			changes := groupChanges{
				description: in.Description,
				amount:      in.Amount,
			}
			if in.CurrencyID != nil {
				if changes.currency, err = lookupCurrency(ctx, tx, *in.CurrencyID); err != nil {
					return err
				}
			}
			if in.CategoryID != nil {
				changes.setCategory = true
				if changes.category, err = lookupCategory(ctx, tx, *in.CategoryID); err != nil {
					return err
				}
			}

			originalDate := target.OccurrenceDate

			changes.apply(target)
			if in.Kind != nil {
				target.Kind = *in.Kind
			}
			if in.Date != nil {
				target.OccurrenceDate = models.Date(*in.Date)
			}
			if in.IsSettled != nil {
				target.IsSettled = *in.IsSettled
			}
			if err := tx.UpdateTransaction(ctx, target); err != nil {
				return err
			}
			updated = append(updated, target)

			if !target.IsGrouped() || !in.PropagateForward {
				return nil
			}

			siblings, err := tx.ListGroup(ctx, target.FamilyID, target.GroupID, originalDate)
			if err != nil {
				return err
			}
			for _, sibling := range siblings {
				if sibling.ID == target.ID {
					continue
				}
				changes.apply(sibling)
				if err := tx.UpdateTransaction(ctx, sibling); err != nil {
					return err
				}
				updated = append(updated, sibling)
			}
			return nil
		})
	})
	if err != nil {
		return nil, l.fail(ctx, "update transaction", err)
	}

	target := updated[0]
	l.invalidate(ctx, target.FamilyID)
	l.publish(ctx, events.Event{
		Type:           events.TransactionsUpdated,
		FamilyID:       target.FamilyID,
		UserID:         id.UserID,
		TransactionIDs: transactionIDs(updated),
		GroupID:        target.GroupID,
	})

	l.logger.InfoContext(ctx, "Transaction updated",
		"transaction_id", target.ID,
		"propagate_forward", in.PropagateForward,
		"rows", len(updated),
	)

	return updated, nil
}

// DeleteTransaction removes a single occurrence. Other members of its group
// are kept.
func (l *Ledger) DeleteTransaction(ctx context.Context, id auth.Identity, transactionID string) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	if transactionID == "" {
		return validationError("id", "is required")
	}

	var deleted *models.Transaction
	err := l.withRetry(ctx, "delete transaction", func() error {
		return l.store.WithinTx(ctx, func(tx storage.Store) error {
			target, err := l.loadScoped(ctx, tx, id, transactionID)
			if err != nil {
				return err
			}
			if err := tx.DeleteTransaction(ctx, target.ID); err != nil {
				return err
			}
			deleted = target
			return nil
		})
	})
	if err != nil {
		return l.fail(ctx, "delete transaction", err)
	}

	l.invalidate(ctx, deleted.FamilyID)
	l.publish(ctx, events.Event{
		Type:           events.TransactionDeleted,
		FamilyID:       deleted.FamilyID,
		UserID:         id.UserID,
		TransactionIDs: []string{deleted.ID},
		GroupID:        deleted.GroupID,
	})

	l.logger.InfoContext(ctx, "Transaction deleted", "transaction_id", deleted.ID, "group_id", deleted.GroupID)
	return nil
}

// loadScoped loads a transaction the identity may act on. Rows of other
// families are reported as missing.
func (l *Ledger) loadScoped(ctx context.Context, st storage.Store, id auth.Identity, transactionID string) (*models.Transaction, error) {
	t, err := st.GetTransaction(ctx, transactionID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFoundError("transaction")
	}
	if err != nil {
		return nil, err
	}
	if !id.InFamily(t.FamilyID) {
		l.logger.WarnContext(ctx, "Cross-family transaction access", "user_id", id.UserID, "transaction_id", transactionID)
		return nil, notFoundError("transaction")
	}
	return t, nil
}
