package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pcbank/banking-api/internal/domain"
)

type BillerRepository struct {
	db *sql.DB
}

func NewBillerRepository(db *sql.DB) *BillerRepository {
	return &BillerRepository{db: db}
}

func (r *BillerRepository) GetByID(ctx context.Context, id int64) (*domain.Biller, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, category FROM billers WHERE id = $1`, id,
	)

	var b domain.Biller
	if err := row.Scan(&b.ID, &b.Name, &b.Category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrBillerNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", ClassifyError(err))
	}
	return &b, nil
}
