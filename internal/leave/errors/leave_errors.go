package leaveerrors

import (
	"net/http"

	"leavedesk/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave application not found",
		http.StatusNotFound,
	)
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"leave type does not exist",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
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
	ErrInvalidTotalDays = apperror.New(
		apperror.CodeInvalidInput,
		"total_days must be greater than zero",
		http.StatusBadRequest,
	)
	ErrMissingActor = apperror.New(
		apperror.CodeInvalidInput,
		"actor id is required",
		http.StatusBadRequest,
	)
	ErrIllegalTransition = apperror.New(
		apperror.CodeInvalidState,
		"illegal transition for current application status",
		http.StatusBadRequest,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rejection_reason is required",
		http.StatusBadRequest,
	)
	ErrConflictingUpdate = apperror.New(
		apperror.CodeConflict,
		"the application was modified by another approver, please reload",
		http.StatusConflict,
	)
)
