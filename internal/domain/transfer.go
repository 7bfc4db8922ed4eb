package domain

import (
	"time"

	"github.com/google/uuid"
)

type TransferKind string

const (
	TransferKindOwn     TransferKind = "own_transfer"
	TransferKindAny     TransferKind = "any_transfer"
	TransferKindBill    TransferKind = "bill_payment"
	TransferKindDeposit TransferKind = "external_deposit"
)

// TransferRecord is the immutable ledger row written in the same
// transaction as the balance mutation. It is never updated or deleted;
// account balances are an eagerly maintained projection of these rows.
type TransferRecord struct {
	ID               uuid.UUID
	Kind             TransferKind
	SourceAccountID  *int64
	DestAccountID    *int64
	BillerID         *int64
	SubscriberNumber *string
	SubscriberName   *string
	LinkedAccountID  *int64
	Amount           int64
	Notes            *string
	ReferenceCode    string
	CreatedAt        time.Time
}

type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// UnifiedTransaction is the single shape all four record kinds project
// into for the history feed.
type UnifiedTransaction struct {
	ID                 uuid.UUID
	Kind               TransferKind
	Direction          Direction
	CounterpartyLabel  string
	CounterpartyMasked string
	Amount             int64
	Notes              *string
	ReferenceCode      string
	CreatedAt          time.Time
}

// TransferRecordDetail is a TransferRecord enriched with the display
// attributes the history feed needs, resolved by the ledger query.
type TransferRecordDetail struct {
	TransferRecord
	SourceAccountNumber *string
	DestAccountNumber   *string
	BillerName          *string
	LinkedBankName      *string
	LinkedAccountMasked *string
}
