package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/pcbank/banking-api/internal/domain"
)

const transferColumns = `id, kind, source_account_id, dest_account_id, biller_id,
	subscriber_number, subscriber_name, linked_account_id, amount, notes,
	reference_code, created_at`

// TransferRecordRepository is the append-only ledger. Rows are inserted
// inside the same transaction as the balance mutation and never updated
// or deleted afterwards.
type TransferRecordRepository struct {
	db *sql.DB
}

func NewTransferRecordRepository(db *sql.DB) *TransferRecordRepository {
	return &TransferRecordRepository{db: db}
}

// Create appends one ledger row. ErrDuplicateReference is returned on a
// unique violation of the reference_code column so the caller can
// regenerate; the constraint, not the pre-check, is what guarantees
// reference uniqueness.
func (r *TransferRecordRepository) Create(ctx context.Context, tx *sql.Tx, rec *domain.TransferRecord) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO transfer_records (
			id, kind, source_account_id, dest_account_id, biller_id,
			subscriber_number, subscriber_name, linked_account_id, amount, notes,
			reference_code, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		rec.ID, rec.Kind, rec.SourceAccountID, rec.DestAccountID, rec.BillerID,
		rec.SubscriberNumber, rec.SubscriberName, rec.LinkedAccountID, rec.Amount, rec.Notes,
		rec.ReferenceCode, rec.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("Create: %w", domain.ErrDuplicateReference)
		}
		return fmt.Errorf("Create: %w", ClassifyError(err))
	}
	return nil
}

// ReferenceExists is a best-effort pre-check run inside the transfer
// transaction; the unique constraint remains authoritative.
func (r *TransferRecordRepository) ReferenceExists(ctx context.Context, tx *sql.Tx, code string) (bool, error) {
	var exists bool
	err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM transfer_records WHERE reference_code = $1)`, code,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ReferenceExists: %w", ClassifyError(err))
	}
	return exists, nil
}

func (r *TransferRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TransferRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transferColumns+` FROM transfer_records WHERE id = $1`, id,
	)
	rec, err := scanTransferRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", ClassifyError(err))
	}
	return rec, nil
}

func (r *TransferRecordRepository) GetByReference(ctx context.Context, code string) (*domain.TransferRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transferColumns+` FROM transfer_records WHERE reference_code = $1`, code,
	)
	rec, err := scanTransferRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByReference: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByReference: %w", ClassifyError(err))
	}
	return rec, nil
}

// ListByAccountIDs returns every record in which one of the given
// accounts appears as source or destination, newest first, joined with
// the display attributes the history feed projects from. Plain reads,
// no locks.
func (r *TransferRecordRepository) ListByAccountIDs(ctx context.Context, accountIDs []int64) ([]domain.TransferRecordDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.kind, t.source_account_id, t.dest_account_id, t.biller_id,
			t.subscriber_number, t.subscriber_name, t.linked_account_id, t.amount, t.notes,
			t.reference_code, t.created_at,
			src.account_number, dst.account_number,
			b.name, l.bank_name, l.account_number_masked
		FROM transfer_records t
		LEFT JOIN accounts src ON src.id = t.source_account_id
		LEFT JOIN accounts dst ON dst.id = t.dest_account_id
		LEFT JOIN billers b ON b.id = t.biller_id
		LEFT JOIN linked_external_accounts l ON l.id = t.linked_account_id
		WHERE t.source_account_id = ANY($1) OR t.dest_account_id = ANY($1)
		ORDER BY t.created_at DESC, t.id`,
		pq.Array(accountIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("ListByAccountIDs: %w", ClassifyError(err))
	}
	defer rows.Close()

	var details []domain.TransferRecordDetail
	for rows.Next() {
		var d domain.TransferRecordDetail
		err := rows.Scan(
			&d.ID, &d.Kind, &d.SourceAccountID, &d.DestAccountID, &d.BillerID,
			&d.SubscriberNumber, &d.SubscriberName, &d.LinkedAccountID, &d.Amount, &d.Notes,
			&d.ReferenceCode, &d.CreatedAt,
			&d.SourceAccountNumber, &d.DestAccountNumber,
			&d.BillerName, &d.LinkedBankName, &d.LinkedAccountMasked,
		)
		if err != nil {
			return nil, fmt.Errorf("ListByAccountIDs: scan: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByAccountIDs: rows: %w", err)
	}
	return details, nil
}

func scanTransferRecord(s scanner) (*domain.TransferRecord, error) {
	var rec domain.TransferRecord
	err := s.Scan(
		&rec.ID, &rec.Kind, &rec.SourceAccountID, &rec.DestAccountID, &rec.BillerID,
		&rec.SubscriberNumber, &rec.SubscriberName, &rec.LinkedAccountID, &rec.Amount, &rec.Notes,
		&rec.ReferenceCode, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
