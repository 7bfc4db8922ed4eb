package transfer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pcbank/banking-api/internal/domain"
	"github.com/pcbank/banking-api/internal/logging"
)

// ExternalDepositRequest credits an internal account from a linked
// other-bank account. The external side is recorded for history but
// never debited by this engine.
type ExternalDepositRequest struct {
	UserID            uuid.UUID
	LinkedAccountID   int64
	InternalAccountID int64
	Amount            int64
}

func (s *Service) ExecuteExternalDeposit(ctx context.Context, req ExternalDepositRequest) (*Result, error) {
	log := logging.FromContext(ctx)

	if req.Amount <= 0 {
		return nil, fmt.Errorf("ExecuteExternalDeposit: %w", domain.ErrInvalidAmount)
	}

	linked, err := s.linked.GetByID(ctx, req.LinkedAccountID)
	if err != nil {
		return nil, fmt.Errorf("ExecuteExternalDeposit: %w", err)
	}
	if linked.UserID != req.UserID || linked.Status != domain.LinkedAccountStatusActive {
		return nil, fmt.Errorf("ExecuteExternalDeposit: %w", domain.ErrLinkedAccountNotFound)
	}

	dest, err := s.accounts.GetByID(ctx, req.InternalAccountID)
	if err != nil {
		return nil, fmt.Errorf("ExecuteExternalDeposit: %w", err)
	}
	if dest.UserID != req.UserID {
		return nil, fmt.Errorf("ExecuteExternalDeposit: destination not owned by caller: %w", domain.ErrAccountNotFound)
	}

	rec := &domain.TransferRecord{
		Kind:            domain.TransferKindDeposit,
		DestAccountID:   &dest.ID,
		LinkedAccountID: &linked.ID,
		Amount:          req.Amount,
	}

	res, err := s.settle(ctx, []movement{
		{accountID: dest.ID, delta: req.Amount},
	}, rec)
	if err != nil {
		return nil, fmt.Errorf("ExecuteExternalDeposit: %w", err)
	}

	log.Info("external deposit completed",
		"reference", res.ReferenceCode,
		"dest_account", dest.ID,
		"linked_account", linked.ID,
		"amount", req.Amount,
	)

	return res, nil
}
