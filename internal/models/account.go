package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType mirrors domain.AccountType for DB storage.
type AccountType string

const (
	Checking AccountType = "CHECKING"
	Savings  AccountType = "SAVINGS"
)

// Account is the DB representation of a bank account (accounts table).
type Account struct {
	AccountID     string          `db:"account_id"`
	Owner         string          `db:"owner"`
	Number        string          `db:"number"` // Unique
	CurrencyCode  string          `db:"currency_code"`
	Balance       decimal.Decimal `db:"balance"` // numeric(19,2), CHECK (balance >= 0)
	Status        string          `db:"status"`
	AccountType   AccountType     `db:"account_type"`
	InterestRate  decimal.Decimal `db:"interest_rate"`
	CreatedAt     time.Time       `db:"created_at"`
	LastUpdatedAt time.Time       `db:"last_updated_at"`
}
