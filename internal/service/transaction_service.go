package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/felipemaillo/finance-app/internal/api"
	"github.com/felipemaillo/finance-app/internal/ledger"
	"github.com/felipemaillo/finance-app/internal/middleware"
	"github.com/felipemaillo/finance-app/internal/models"
)

// TransactionService implements api.TransactionServiceHandler.
type TransactionService struct {
	ledger *ledger.Ledger
	logger *slog.Logger
}

// NewTransactionService creates a new TransactionService backed by the ledger.
func NewTransactionService(l *ledger.Ledger, logger *slog.Logger) *TransactionService {
	return &TransactionService{ledger: l, logger: logger}
}

// Create records an entry, expanding recurrences and installments.
func (s *TransactionService) Create(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.TransactionsResponse], error) {
	msg := req.Msg
	s.logger.DebugContext(ctx, "Create transaction request received",
		"kind", msg.Kind,
		"recurrence", msg.Recurrence,
		"installments", msg.Installments,
	)

	amount, err := parseAmount("amount", msg.Amount)
	if err != nil {
		return nil, err
	}
	date, err := parseDate("date", msg.Date)
	if err != nil {
		return nil, err
	}

	created, err := s.ledger.CreateTransaction(ctx, middleware.IdentityFrom(ctx), ledger.CreateTransactionInput{
		Description:  msg.Description,
		Amount:       amount,
		Kind:         models.Kind(msg.Kind),
		Date:         date,
		CurrencyID:   msg.CurrencyID,
		CategoryID:   msg.CategoryID,
		IsSettled:    msg.IsSettled,
		FamilyID:     msg.FamilyID,
		UserID:       msg.UserID,
		Recurrence:   models.RecurrenceMode(msg.Recurrence),
		Installments: msg.Installments,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.TransactionsResponse{
		Transactions: api.FromTransactions(created),
	}), nil
}

// Update edits a transaction and optionally its later group members.
func (s *TransactionService) Update(ctx context.Context, req *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.TransactionsResponse], error) {
	msg := req.Msg
	s.logger.DebugContext(ctx, "Update transaction request received",
		"transaction_id", msg.ID,
		"propagate_forward", msg.PropagateForward,
	)

	in := ledger.UpdateTransactionInput{
		ID:               msg.ID,
		Description:      msg.Description,
		CategoryID:       msg.CategoryID,
		CurrencyID:       msg.CurrencyID,
		IsSettled:        msg.IsSettled,
		PropagateForward: msg.PropagateForward,
	}
	if msg.Amount != nil {
		amount, err := parseAmount("amount", *msg.Amount)
		if err != nil {
			return nil, err
		}
		in.Amount = &amount
	}
	if msg.Kind != nil {
		kind := models.Kind(*msg.Kind)
		in.Kind = &kind
	}
	if msg.Date != nil {
		date, err := parseDate("date", *msg.Date)
		if err != nil {
			return nil, err
		}
		in.Date = &date
	}

	updated, err := s.ledger.UpdateTransaction(ctx, middleware.IdentityFrom(ctx), in)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.TransactionsResponse{
		Transactions: api.FromTransactions(updated),
	}), nil
}

// Delete removes one occurrence.
func (s *TransactionService) Delete(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[emptypb.Empty], error) {
	if err := s.ledger.DeleteTransaction(ctx, middleware.IdentityFrom(ctx), req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// List returns one month of the family's transactions.
func (s *TransactionService) List(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.TransactionsResponse], error) {
	msg := req.Msg
	txs, err := s.ledger.ListTransactions(ctx, middleware.IdentityFrom(ctx), msg.FamilyID, msg.Month, msg.Year)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.TransactionsResponse{
		Transactions: api.FromTransactions(txs),
	}), nil
}

// Summary returns per-currency totals and the filtered month listing.
func (s *TransactionService) Summary(ctx context.Context, req *connect.Request[api.SummaryRequest]) (*connect.Response[api.SummaryResponse], error) {
	msg := req.Msg
	summary, err := s.ledger.Summarize(ctx, middleware.IdentityFrom(ctx), ledger.SummaryQuery{
		FamilyID:   msg.FamilyID,
		Month:      msg.Month,
		Year:       msg.Year,
		CategoryID: msg.CategoryID,
		Nature:     models.Nature(msg.Nature),
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(api.FromSummary(summary)), nil
}
