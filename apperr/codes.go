package apperr

import "net/http"

var (
	ErrUnauthorized = New(
		"UNAUTHORIZED",
		"Missing or invalid credentials",
		http.StatusUnauthorized,
	)

	ErrNotFound = New(
		"NOT_FOUND",
		"Resource not found",
		http.StatusNotFound,
	)

	ErrInvalidLocation = New(
		"INVALID_LOCATION",
		"You are too far from the place",
		http.StatusBadRequest,
	)

	ErrConflict = New(
		"CONFLICT",
		"Resource already exists",
		http.StatusConflict,
	)

	ErrBadRequest = New(
		"BAD_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrForbidden = New(
		"FORBIDDEN",
		"Access denied",
		http.StatusForbidden,
	)

	ErrInternal = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
