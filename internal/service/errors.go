package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/felipemaillo/finance-app/internal/ledger"
	"github.com/felipemaillo/finance-app/internal/models"
)

// toConnectError maps a ledger error onto a Connect code. Storage failures
// carry a generic message; their cause was logged by the ledger.
func toConnectError(err error) *connect.Error {
	switch {
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}

	var ledgerErr *ledger.Error
	if !errors.As(err, &ledgerErr) {
		return connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}

	switch ledgerErr.Code {
	case ledger.CodeValidation:
		return connect.NewError(connect.CodeInvalidArgument, ledgerErr)
	case ledger.CodeNotFound:
		return connect.NewError(connect.CodeNotFound, ledgerErr)
	case ledger.CodeAuth:
		return connect.NewError(connect.CodeUnauthenticated, ledgerErr)
	case ledger.CodeForbidden:
		return connect.NewError(connect.CodePermissionDenied, ledgerErr)
	case ledger.CodeConflict:
		return connect.NewError(connect.CodeAborted, ledgerErr)
	default:
		return connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}
}

func invalidArgument(field, format string, args ...any) *connect.Error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%s: %s", field, fmt.Sprintf(format, args...)))
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, invalidArgument(field, "must be a decimal number")
	}
	return amount, nil
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, invalidArgument(field, "is required")
	}
	date, err := models.ParseDate(value)
	if err != nil {
		return time.Time{}, invalidArgument(field, "must be a date in YYYY-MM-DD format")
	}
	return date, nil
}
