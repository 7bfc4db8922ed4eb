package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pcbank/banking-api/internal/domain"
)

type accountReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Account, error)
}

type AccountService struct {
	accounts accountReader
}

func NewAccountService(accounts accountReader) *AccountService {
	return &AccountService{accounts: accounts}
}

// GetBalance is the read-only probe the client uses before submitting
// a transfer. It is advisory only; the engine re-checks funds under
// lock at commit time regardless of what this returned.
func (s *AccountService) GetBalance(ctx context.Context, userID uuid.UUID, accountID int64) (*domain.Account, error) {
	acct, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("GetBalance: %w", err)
	}
	if acct.UserID != userID {
		return nil, fmt.Errorf("GetBalance: %w", domain.ErrAccountNotFound)
	}
	return acct, nil
}

func (s *AccountService) GetUserAccounts(ctx context.Context, userID uuid.UUID) ([]domain.Account, error) {
	accounts, err := s.accounts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("GetUserAccounts: %w", err)
	}
	return accounts, nil
}
