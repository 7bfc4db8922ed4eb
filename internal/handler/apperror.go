package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken     = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken     = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrInvalidAmount         = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be a positive value with at most 2 decimal places"}
	ErrInsufficientFunds     = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS", "Insufficient funds"}
	ErrAccountNotFound       = &AppError{http.StatusUnprocessableEntity, "ACCOUNT_NOT_FOUND", "Account not found"}
	ErrAccountInactive       = &AppError{http.StatusUnprocessableEntity, "ACCOUNT_INACTIVE", "Account is not active"}
	ErrSameAccount           = &AppError{http.StatusUnprocessableEntity, "SAME_ACCOUNT", "Source and destination must differ"}
	ErrBillerNotFound        = &AppError{http.StatusUnprocessableEntity, "BILLER_NOT_FOUND", "Biller not found"}
	ErrLinkedAccountNotFound = &AppError{http.StatusUnprocessableEntity, "LINKED_ACCOUNT_NOT_FOUND", "Linked external account not found"}
	ErrStorageConflict       = &AppError{http.StatusConflict, "STORAGE_CONFLICT", "Operation conflicted with another in-flight request, please retry"}

	ErrMissingIdempotencyKey = &AppError{http.StatusBadRequest, "MISSING_IDEMPOTENCY_KEY", "Idempotency-Key header is required"}
	ErrIdempotencyConflict   = &AppError{http.StatusConflict, "IDEMPOTENCY_CONFLICT", "Idempotency key already used with a different request"}
	ErrRequestInProgress     = &AppError{http.StatusConflict, "REQUEST_IN_PROGRESS", "A request with this idempotency key is still being processed"}
)
