package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType enumerates the kinds of accounts the bank offers.
type AccountType string

const (
	Checking AccountType = "CHECKING"
	Savings  AccountType = "SAVINGS"
)

// AccountStatus is an administrative flag on an account. The ledger core does not
// consult it when mutating balances; it is changed through the update path only.
type AccountStatus string

const (
	StatusActive  AccountStatus = "ACTIVE"
	StatusBlocked AccountStatus = "BLOCKED"
)

// Account represents a bank account within the core domain.
// Balance carries a fixed scale of 2 and is never negative after an operation commits.
type Account struct {
	AccountID     string          `json:"accountID"`    // Primary Key (UUID)
	Owner         string          `json:"owner"`        // Free-text owner name
	Number        string          `json:"number"`       // Unique external reference, e.g. ACC-1A2B3C4D
	CurrencyCode  string          `json:"currencyCode"` // ISO 4217 code
	Balance       decimal.Decimal `json:"balance"`
	Status        AccountStatus   `json:"status"`
	AccountType   AccountType     `json:"accountType"`
	InterestRate  decimal.Decimal `json:"interestRate"` // Informational only
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}
