package leaverequesterrors

import (
	"fmt"
	"net/http"

	"go-leavehub/internal/domain"
	"go-leavehub/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found in this company",
		http.StatusNotFound,
	)
	ErrEmployeeInactive = apperror.New(
		apperror.CodeInvalidState,
		"employee is not active",
		http.StatusBadRequest,
	)
	ErrUnknownLeaveType = apperror.New(
		apperror.CodeNotFound,
		"leave type not found",
		http.StatusNotFound,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrAlreadyFinalized = apperror.New(
		apperror.CodeInvalidState,
		"leave request is already finalized",
		http.StatusConflict,
	)
	ErrSubmitForbidden = apperror.New(
		apperror.CodeForbidden,
		"only the employee or an admin may submit this request",
		http.StatusForbidden,
	)
)

// StageAuthorityViolation names the stage the request is waiting at and the
// role that tried to act, so the 403 is self-explanatory.
func StageAuthorityViolation(requiredStage domain.Stage, actorRole domain.Role) *apperror.AppError {
	return apperror.New(
		apperror.CodeForbidden,
		fmt.Sprintf("role %s may not review at the %s stage", actorRole, requiredStage),
		http.StatusForbidden,
	)
}
