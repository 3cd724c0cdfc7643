package errors

import (
	"net/http"

	"leavedesk/internal/shared/apperror"
)

var (
	ErrAssetNotFound = apperror.New(
		apperror.CodeNotFound,
		"asset not found",
		http.StatusNotFound,
	)

	ErrDuplicateTag = apperror.New(
		apperror.CodeConflict,
		"asset tag already exists",
		http.StatusConflict,
	)

	ErrAssigneeNotFound = apperror.New(
		apperror.CodeNotFound,
		"assigned employee not found",
		http.StatusNotFound,
	)

	ErrAlreadyAssigned = apperror.New(
		apperror.CodeConflict,
		"asset is already assigned",
		http.StatusConflict,
	)

	ErrNotAssigned = apperror.New(
		apperror.CodeInvalidState,
		"asset is not assigned",
		http.StatusUnprocessableEntity,
	)
)
