package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/pcbank/banking-api/internal/domain"
)

// Postgres error codes the transfer path cares about.
const (
	pqUniqueViolation     = "23505"
	pqCheckViolation      = "23514"
	pqSerializationFail   = "40001"
	pqDeadlockDetected    = "40P01"
	pqLockNotAvailable    = "55P03"
	pqConnectionClass     = "08"
	pqInsufficientResRoot = "53"
)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqUniqueViolation
	}
	return false
}

func isCheckViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqCheckViolation
	}
	return false
}

// ClassifyError maps driver-level failures onto the domain error
// taxonomy: lock timeouts, deadlocks and serialization failures become
// ErrStorageConflict (retryable), connectivity failures become
// ErrStorageUnavailable. The driver error stays wrapped underneath so
// logs keep the code and message. Anything else passes through
// unchanged.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqSerializationFail, pqDeadlockDetected, pqLockNotAvailable:
			return fmt.Errorf("%w: %v", domain.ErrStorageConflict, err)
		}
		if class := string(pqErr.Code.Class()); class == pqConnectionClass || class == pqInsufficientResRoot {
			return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
		}
	}

	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	return err
}
