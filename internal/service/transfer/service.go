// Package transfer is the money movement engine. Each public operation
// runs as one atomic storage transaction: lock participants in
// deterministic order, re-check status, check funds, apply balance
// deltas, record the ledger row with its reference code, commit.
package transfer

import (
	"context"
	"database/sql"

	"github.com/pcbank/banking-api/internal/config"
	"github.com/pcbank/banking-api/internal/domain"
)

type accountRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Account, error)
	ApplyDelta(ctx context.Context, tx *sql.Tx, id int64, balanceDelta, availableDelta int64) (*domain.Account, error)
}

type recordRepo interface {
	Create(ctx context.Context, tx *sql.Tx, rec *domain.TransferRecord) error
	ReferenceExists(ctx context.Context, tx *sql.Tx, code string) (bool, error)
}

type billerRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Biller, error)
}

type linkedAccountRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.LinkedExternalAccount, error)
}

type Service struct {
	accounts      accountRepo
	records       recordRepo
	billers       billerRepo
	linked        linkedAccountRepo
	db            *sql.DB
	lockTimeoutMS int
}

func NewService(
	accounts accountRepo,
	records recordRepo,
	billers billerRepo,
	linked linkedAccountRepo,
	db *sql.DB,
	cfg *config.Config,
) *Service {
	return &Service{
		accounts:      accounts,
		records:       records,
		billers:       billers,
		linked:        linked,
		db:            db,
		lockTimeoutMS: cfg.DBLockTimeoutMS,
	}
}

// Result reports a committed operation: the receipt reference plus the
// post-commit state of the internal accounts involved. Source is nil
// for deposits, Dest is nil for bill payments.
type Result struct {
	ReferenceCode string
	Record        *domain.TransferRecord
	Source        *domain.Account
	Dest          *domain.Account
}
