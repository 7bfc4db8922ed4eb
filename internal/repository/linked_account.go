package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pcbank/banking-api/internal/domain"
)

type LinkedAccountRepository struct {
	db *sql.DB
}

func NewLinkedAccountRepository(db *sql.DB) *LinkedAccountRepository {
	return &LinkedAccountRepository{db: db}
}

func (r *LinkedAccountRepository) GetByID(ctx context.Context, id int64) (*domain.LinkedExternalAccount, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, bank_name, account_number_masked, status, created_at
		FROM linked_external_accounts WHERE id = $1`, id,
	)

	var l domain.LinkedExternalAccount
	err := row.Scan(&l.ID, &l.UserID, &l.BankName, &l.AccountNumberMasked, &l.Status, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrLinkedAccountNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", ClassifyError(err))
	}
	return &l, nil
}
