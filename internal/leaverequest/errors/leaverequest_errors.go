package leaverequesterrors

import (
	"net/http"

	"mohr/internal/shared/apperror"
)

var (
	ErrLeaveRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"you already have a leave request for overlapping dates",
		http.StatusConflict,
	)
	ErrConcurrentRequest = apperror.New(
		apperror.CodeConflict,
		"a concurrent leave request was detected, please retry",
		http.StatusConflict,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid status, must be one of: pending, approved, rejected",
		http.StatusBadRequest,
	)
	ErrNotPending = apperror.New(
		apperror.CodeInvalidState,
		"only pending leave requests can be deleted",
		http.StatusBadRequest,
	)
	ErrCreateForOthers = apperror.New(
		apperror.CodeForbidden,
		"you can only create leave requests for yourself",
		http.StatusForbidden,
	)
	ErrDeleteForOthers = apperror.New(
		apperror.CodeForbidden,
		"you can only delete your own leave requests",
		http.StatusForbidden,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found or inactive",
		http.StatusNotFound,
	)
)
