package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a journal entry by the operation that produced it.
type TransactionType string

const (
	Deposit     TransactionType = "DEPOSIT"
	Withdraw    TransactionType = "WITHDRAW"
	TransferIn  TransactionType = "TRANSFER_IN"
	TransferOut TransactionType = "TRANSFER_OUT"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case Deposit, Withdraw, TransferIn, TransferOut:
		return true
	}
	return false
}

// Transaction is one immutable row of the journal. Rows are created exclusively as a
// side effect of a successful balance mutation and are never updated or deleted.
type Transaction struct {
	TransactionID string          `json:"transactionID"` // Primary Key (UUID)
	AccountID     string          `json:"accountID"`     // FK -> Account.AccountID
	Amount        decimal.Decimal `json:"amount"`        // Always positive
	Type          TransactionType `json:"type"`
	CreatedAt     time.Time       `json:"createdAt"` // Server clock at creation
}
