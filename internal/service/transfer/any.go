package transfer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pcbank/banking-api/internal/domain"
	"github.com/pcbank/banking-api/internal/logging"
)

// AnyTransferRequest moves funds to any account within the bank, not
// necessarily owned by the sender.
type AnyTransferRequest struct {
	UserID            uuid.UUID
	FromAccountID     int64
	FromAccountNumber string
	ToAccountID       int64
	ToAccountNumber   string
	Amount            int64
	Notes             *string
}

func (s *Service) ExecuteAnyTransfer(ctx context.Context, req AnyTransferRequest) (*Result, error) {
	log := logging.FromContext(ctx)

	if req.Amount <= 0 {
		return nil, fmt.Errorf("ExecuteAnyTransfer: %w", domain.ErrInvalidAmount)
	}

	source, dest, err := s.resolveAnyAccounts(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("ExecuteAnyTransfer: %w", err)
	}

	if source.ID == dest.ID {
		return nil, fmt.Errorf("ExecuteAnyTransfer: %w", domain.ErrSameAccount)
	}

	rec := &domain.TransferRecord{
		Kind:            domain.TransferKindAny,
		SourceAccountID: &source.ID,
		DestAccountID:   &dest.ID,
		Amount:          req.Amount,
		Notes:           req.Notes,
	}

	res, err := s.settle(ctx, []movement{
		{accountID: source.ID, delta: -req.Amount},
		{accountID: dest.ID, delta: req.Amount},
	}, rec)
	if err != nil {
		return nil, fmt.Errorf("ExecuteAnyTransfer: %w", err)
	}

	log.Info("any-account transfer completed",
		"reference", res.ReferenceCode,
		"source_account", source.ID,
		"dest_account", dest.ID,
		"amount", req.Amount,
	)

	return res, nil
}

func (s *Service) resolveAnyAccounts(ctx context.Context, req AnyTransferRequest) (*domain.Account, *domain.Account, error) {
	source, err := s.accounts.GetByID(ctx, req.FromAccountID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolveAnyAccounts: %w", err)
	}
	if source.UserID != req.UserID || source.AccountNumber != req.FromAccountNumber {
		return nil, nil, fmt.Errorf("resolveAnyAccounts: source mismatch: %w", domain.ErrAccountNotFound)
	}

	dest, err := s.accounts.GetByID(ctx, req.ToAccountID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolveAnyAccounts: %w", err)
	}
	if dest.AccountNumber != req.ToAccountNumber {
		return nil, nil, fmt.Errorf("resolveAnyAccounts: destination mismatch: %w", domain.ErrAccountNotFound)
	}

	return source, dest, nil
}
