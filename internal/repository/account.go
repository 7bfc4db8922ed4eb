package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pcbank/banking-api/internal/domain"
)

const accountColumns = `id, user_id, account_number, balance, available_balance,
	version, status, created_at`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", ClassifyError(err))
	}
	return a, nil
}

func (r *AccountRepository) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_number = $1`, accountNumber,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByNumber: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("GetByNumber: %w", ClassifyError(err))
	}
	return a, nil
}

func (r *AccountRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 ORDER BY created_at`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByUserID: %w", ClassifyError(err))
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("GetByUserID: scan: %w", err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetByUserID: rows: %w", err)
	}
	return accounts, nil
}

// GetForUpdate reads the account row and acquires an exclusive row
// lock held until the enclosing transaction commits or rolls back.
// Every account taking part in a transfer must be locked through here
// before any balance is read for decision-making.
func (r *AccountRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Account, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", ClassifyError(err))
	}
	return a, nil
}

// ApplyDelta adds signed deltas to both balance columns. Callers must
// hold the row lock from GetForUpdate in the same transaction. The
// available_balance >= 0 check constraint is the last line of defense
// against overdraw; a violation surfaces as ErrInsufficientFunds.
func (r *AccountRepository) ApplyDelta(ctx context.Context, tx *sql.Tx, id int64, balanceDelta, availableDelta int64) (*domain.Account, error) {
	row := tx.QueryRowContext(ctx,
		`UPDATE accounts
		SET balance = balance + $1, available_balance = available_balance + $2, version = version + 1
		WHERE id = $3 AND status = 'active'
		RETURNING `+accountColumns,
		balanceDelta, availableDelta, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("ApplyDelta: %w", domain.ErrAccountInactive)
		}
		if isCheckViolation(err) {
			return nil, fmt.Errorf("ApplyDelta: %w", domain.ErrInsufficientFunds)
		}
		return nil, fmt.Errorf("ApplyDelta: %w", ClassifyError(err))
	}
	return a, nil
}

func scanAccount(s scanner) (*domain.Account, error) {
	var a domain.Account
	err := s.Scan(
		&a.ID, &a.UserID, &a.AccountNumber,
		&a.Balance, &a.AvailableBalance,
		&a.Version, &a.Status, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
