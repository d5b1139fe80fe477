package balanceerrors

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"go-leavehub/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"invalid year",
		http.StatusBadRequest,
	)
	ErrBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave balance not found",
		http.StatusNotFound,
	)
)

// InsufficientBalance makes the submit outcome carry the numbers the caller
// needs to present: what was left vs what was asked.
func InsufficientBalance(available, requested decimal.Decimal) *apperror.AppError {
	return apperror.New(
		apperror.CodeInsufficientBalance,
		fmt.Sprintf("insufficient leave balance: available %s, requested %s", available.String(), requested.String()),
		http.StatusConflict,
	)
}

// LedgerInvariant flags a commit/release that would drive pending negative.
// This never comes from user input; it means two finalizations slipped past
// the row lock and must page someone.
func LedgerInvariant(op string, pending, requested decimal.Decimal) *apperror.AppError {
	return apperror.New(
		apperror.CodeLedgerInvariant,
		fmt.Sprintf("ledger invariant violation on %s: pending %s, requested %s", op, pending.String(), requested.String()),
		http.StatusInternalServerError,
	)
}
