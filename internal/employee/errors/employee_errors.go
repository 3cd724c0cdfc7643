package employeeerrors

import (
	"net/http"

	"leavedesk/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrSupervisorNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"supervisor does not reference an existing employee",
		http.StatusBadRequest,
	)
	ErrSelfSupervision = apperror.New(
		apperror.CodeInvalidInput,
		"an employee cannot be their own supervisor",
		http.StatusBadRequest,
	)
	ErrDuplicateCode = apperror.New(
		apperror.CodeConflict,
		"employee code already in use",
		http.StatusConflict,
	)
)
