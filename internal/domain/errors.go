package domain

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrAccountNotFound       = errors.New("account not found")
	ErrAccountInactive       = errors.New("account is not active")
	ErrSameAccount           = errors.New("source and destination are the same account")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrInvalidAmount         = errors.New("amount must be a positive value with at most 2 decimal places")
	ErrBillerNotFound        = errors.New("biller not found")
	ErrLinkedAccountNotFound = errors.New("linked external account not found")
	ErrDuplicateReference    = errors.New("reference code already in use")
	ErrReferenceGeneration   = errors.New("could not generate a unique reference code")
	ErrStorageConflict       = errors.New("storage conflict, operation may be retried")
	ErrStorageUnavailable    = errors.New("storage unavailable")
)
