package domain

import (
	"time"

	"github.com/google/uuid"
)

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
	AccountStatusClosed   AccountStatus = "closed"
)

// Account holds the ledger balance and the spendable (available)
// balance, both in minor units. The two are kept equal by every
// operation in this system; holds are not modeled.
type Account struct {
	ID               int64
	UserID           uuid.UUID
	AccountNumber    string
	Balance          int64
	AvailableBalance int64
	Version          int64
	Status           AccountStatus
	CreatedAt        time.Time
}

func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// Biller is a catalog entry for bill payments. Catalog management is
// out of scope; the core only resolves and references it.
type Biller struct {
	ID       int64
	Name     string
	Category string
}

type LinkedAccountStatus string

const (
	LinkedAccountStatusActive  LinkedAccountStatus = "active"
	LinkedAccountStatusRemoved LinkedAccountStatus = "removed"
)

// LinkedExternalAccount is an other-bank account a user has linked as
// a deposit source. It is never debited by this system.
type LinkedExternalAccount struct {
	ID                  int64
	UserID              uuid.UUID
	BankName            string
	AccountNumberMasked string
	Status              LinkedAccountStatus
	CreatedAt           time.Time
}
