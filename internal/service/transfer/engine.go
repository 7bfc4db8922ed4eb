package transfer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pcbank/banking-api/internal/domain"
	"github.com/pcbank/banking-api/internal/repository"
)

// movement is one signed balance change. The same delta is applied to
// both balance and available_balance; the two never diverge here.
type movement struct {
	accountID int64
	delta     int64
}

// settle runs the transactional body shared by all four operations.
// rec arrives without ID, ReferenceCode, or CreatedAt; settle fills
// them in. Any failure rolls back every effect.
func (s *Service) settle(ctx context.Context, movements []movement, rec *domain.TransferRecord) (*Result, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("settle: begin tx: %w", repository.ClassifyError(err))
	}
	defer tx.Rollback()

	// Bounded lock wait is the store's job; a timeout surfaces as a
	// retryable storage conflict, never an indefinite hang.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeoutMS)); err != nil {
		return nil, fmt.Errorf("settle: set lock_timeout: %w", repository.ClassifyError(err))
	}

	locked, err := s.lockAccountsInOrder(ctx, tx, movements)
	if err != nil {
		return nil, fmt.Errorf("settle: %w", err)
	}

	for _, m := range movements {
		acct := locked[m.accountID]
		if !acct.IsActive() {
			return nil, fmt.Errorf("settle: account %d: %w", acct.ID, domain.ErrAccountInactive)
		}
		if m.delta < 0 && acct.AvailableBalance+m.delta < 0 {
			return nil, fmt.Errorf("settle: account %d: %w", acct.ID, domain.ErrInsufficientFunds)
		}
	}

	updated := make(map[int64]*domain.Account, len(movements))
	for _, m := range movements {
		acct, err := s.accounts.ApplyDelta(ctx, tx, m.accountID, m.delta, m.delta)
		if err != nil {
			return nil, fmt.Errorf("settle: %w", err)
		}
		updated[m.accountID] = acct
	}

	rec.ID = uuid.New()
	rec.CreatedAt = time.Now().UTC()

	if err := s.recordWithReference(ctx, tx, rec); err != nil {
		return nil, fmt.Errorf("settle: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("settle: commit: %w", repository.ClassifyError(err))
	}

	res := &Result{ReferenceCode: rec.ReferenceCode, Record: rec}
	if rec.SourceAccountID != nil {
		res.Source = updated[*rec.SourceAccountID]
	}
	if rec.DestAccountID != nil {
		res.Dest = updated[*rec.DestAccountID]
	}
	return res, nil
}

// recordWithReference appends the ledger row, regenerating the
// reference code on collision. The pre-check is an optimization; the
// unique constraint on reference_code is the real guarantee, so an
// insert-time duplicate also just consumes an attempt.
func (s *Service) recordWithReference(ctx context.Context, tx *sql.Tx, rec *domain.TransferRecord) error {
	for range maxReferenceAttempts {
		code, err := newReferenceCode(referencePrefix)
		if err != nil {
			return fmt.Errorf("recordWithReference: %w", err)
		}

		exists, err := s.records.ReferenceExists(ctx, tx, code)
		if err != nil {
			return fmt.Errorf("recordWithReference: %w", err)
		}
		if exists {
			continue
		}

		// A savepoint keeps the enclosing transaction usable if the
		// insert still hits the unique constraint.
		if _, err := tx.ExecContext(ctx, "SAVEPOINT ledger_insert"); err != nil {
			return fmt.Errorf("recordWithReference: savepoint: %w", err)
		}

		rec.ReferenceCode = code
		err = s.records.Create(ctx, tx, rec)
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrDuplicateReference) {
			if _, err := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT ledger_insert"); err != nil {
				return fmt.Errorf("recordWithReference: rollback savepoint: %w", err)
			}
			continue
		}
		return fmt.Errorf("recordWithReference: %w", err)
	}
	return fmt.Errorf("recordWithReference: %w", domain.ErrReferenceGeneration)
}

// lockAccountsInOrder acquires row locks in ascending account id
// regardless of which side is source or destination, so two opposite
// direction transfers over the same pair can never deadlock each other.
func (s *Service) lockAccountsInOrder(ctx context.Context, tx *sql.Tx, movements []movement) (map[int64]*domain.Account, error) {
	ids := make([]int64, 0, len(movements))
	for _, m := range movements {
		ids = append(ids, m.accountID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	locked := make(map[int64]*domain.Account, len(ids))
	for _, id := range ids {
		if _, ok := locked[id]; ok {
			continue
		}
		acct, err := s.accounts.GetForUpdate(ctx, tx, id)
		if err != nil {
			return nil, fmt.Errorf("lockAccountsInOrder: %w", err)
		}
		locked[id] = acct
	}
	return locked, nil
}
