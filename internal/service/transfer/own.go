package transfer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pcbank/banking-api/internal/domain"
	"github.com/pcbank/banking-api/internal/logging"
)

// OwnTransferRequest moves funds between two accounts owned by the
// same user. The caller supplies both the source id and number; the
// pair must agree, which catches stale client state before any money
// moves.
type OwnTransferRequest struct {
	UserID            uuid.UUID
	FromAccountID     int64
	FromAccountNumber string
	ToAccountNumber   string
	Amount            int64
	Notes             *string
}

func (s *Service) ExecuteOwnTransfer(ctx context.Context, req OwnTransferRequest) (*Result, error) {
	log := logging.FromContext(ctx)

	if req.Amount <= 0 {
		return nil, fmt.Errorf("ExecuteOwnTransfer: %w", domain.ErrInvalidAmount)
	}

	source, dest, err := s.resolveOwnAccounts(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("ExecuteOwnTransfer: %w", err)
	}

	if source.ID == dest.ID {
		return nil, fmt.Errorf("ExecuteOwnTransfer: %w", domain.ErrSameAccount)
	}

	rec := &domain.TransferRecord{
		Kind:            domain.TransferKindOwn,
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
		return nil, fmt.Errorf("ExecuteOwnTransfer: %w", err)
	}

	log.Info("own transfer completed",
		"reference", res.ReferenceCode,
		"source_account", source.ID,
		"dest_account", dest.ID,
		"amount", req.Amount,
	)

	return res, nil
}

func (s *Service) resolveOwnAccounts(ctx context.Context, req OwnTransferRequest) (*domain.Account, *domain.Account, error) {
	source, err := s.accounts.GetByID(ctx, req.FromAccountID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolveOwnAccounts: %w", err)
	}
	if source.UserID != req.UserID || source.AccountNumber != req.FromAccountNumber {
		return nil, nil, fmt.Errorf("resolveOwnAccounts: source mismatch: %w", domain.ErrAccountNotFound)
	}

	dest, err := s.accounts.GetByNumber(ctx, req.ToAccountNumber)
	if err != nil {
		return nil, nil, fmt.Errorf("resolveOwnAccounts: %w", err)
	}
	if dest.UserID != req.UserID {
		return nil, nil, fmt.Errorf("resolveOwnAccounts: destination not owned by caller: %w", domain.ErrAccountNotFound)
	}

	return source, dest, nil
}
