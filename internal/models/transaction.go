package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType mirrors domain.TransactionType for DB storage.
type TransactionType string

const (
	Deposit     TransactionType = "DEPOSIT"
	Withdraw    TransactionType = "WITHDRAW"
	TransferIn  TransactionType = "TRANSFER_IN"
	TransferOut TransactionType = "TRANSFER_OUT"
)

// Transaction is the DB representation of a journal row (transactions table).
// The table is append-only; there are no update columns.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	AccountID     string          `db:"account_id"`
	Amount        decimal.Decimal `db:"amount"` // numeric(19,2), CHECK (amount > 0)
	Type          TransactionType `db:"type"`
	CreatedAt     time.Time       `db:"created_at"`
}
