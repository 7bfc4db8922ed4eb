package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pcbank/banking-api/internal/domain"
)

type ledgerReader interface {
	ListByAccountIDs(ctx context.Context, accountIDs []int64) ([]domain.TransferRecordDetail, error)
}

type historyAccounts interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Account, error)
}

// HistoryService assembles the unified transaction feed. It is a pure
// reader: no locks are taken and an in-flight transfer is simply not
// visible until it commits.
type HistoryService struct {
	accounts historyAccounts
	records  ledgerReader
}

func NewHistoryService(accounts historyAccounts, records ledgerReader) *HistoryService {
	return &HistoryService{accounts: accounts, records: records}
}

// ListForUser returns every committed record touching one of the
// user's accounts, newest first, projected into the single shape all
// four kinds share.
func (s *HistoryService) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.UnifiedTransaction, error) {
	accounts, err := s.accounts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ListForUser: %w", err)
	}
	if len(accounts) == 0 {
		return nil, nil
	}

	owned := make(map[int64]bool, len(accounts))
	ids := make([]int64, 0, len(accounts))
	for _, a := range accounts {
		owned[a.ID] = true
		ids = append(ids, a.ID)
	}

	details, err := s.records.ListByAccountIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("ListForUser: %w", err)
	}

	feed := make([]domain.UnifiedTransaction, 0, len(details))
	for i := range details {
		feed = append(feed, projectTransaction(&details[i], owned))
	}
	return feed, nil
}

// projectTransaction computes direction against the caller's account
// set (source side wins when the caller owns both, as in an own
// transfer) and picks the counterparty display attributes per kind.
func projectTransaction(d *domain.TransferRecordDetail, owned map[int64]bool) domain.UnifiedTransaction {
	tx := domain.UnifiedTransaction{
		ID:            d.ID,
		Kind:          d.Kind,
		Amount:        d.Amount,
		Notes:         d.Notes,
		ReferenceCode: d.ReferenceCode,
		CreatedAt:     d.CreatedAt,
	}

	if d.SourceAccountID != nil && owned[*d.SourceAccountID] {
		tx.Direction = domain.DirectionDebit
	} else {
		tx.Direction = domain.DirectionCredit
	}

	switch d.Kind {
	case domain.TransferKindOwn:
		tx.CounterpartyLabel = "Own account"
		if tx.Direction == domain.DirectionDebit && d.DestAccountNumber != nil {
			tx.CounterpartyMasked = maskAccountNumber(*d.DestAccountNumber)
		} else if d.SourceAccountNumber != nil {
			tx.CounterpartyMasked = maskAccountNumber(*d.SourceAccountNumber)
		}
	case domain.TransferKindAny:
		if tx.Direction == domain.DirectionDebit {
			tx.CounterpartyLabel = "Transfer to account"
			if d.DestAccountNumber != nil {
				tx.CounterpartyMasked = maskAccountNumber(*d.DestAccountNumber)
			}
		} else {
			tx.CounterpartyLabel = "Transfer from account"
			if d.SourceAccountNumber != nil {
				tx.CounterpartyMasked = maskAccountNumber(*d.SourceAccountNumber)
			}
		}
	case domain.TransferKindBill:
		if d.BillerName != nil {
			tx.CounterpartyLabel = *d.BillerName
		} else {
			tx.CounterpartyLabel = "Bill payment"
		}
		if d.SubscriberNumber != nil {
			tx.CounterpartyMasked = maskAccountNumber(*d.SubscriberNumber)
		}
	case domain.TransferKindDeposit:
		if d.LinkedBankName != nil {
			tx.CounterpartyLabel = *d.LinkedBankName
		} else {
			tx.CounterpartyLabel = "External deposit"
		}
		if d.LinkedAccountMasked != nil {
			tx.CounterpartyMasked = *d.LinkedAccountMasked
		}
	}

	return tx
}

// maskAccountNumber keeps the last four digits.
func maskAccountNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	return "****" + number[len(number)-4:]
}
