package services

import (
	"context"
	"time"

	"github.com/minibank2/minibank_api/internal/core/domain"
	"github.com/minibank2/minibank_api/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc defines read operations for account data.
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves all accounts. An empty list is a valid result.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// GetAccountsByOwner retrieves accounts held by the given owner; none is ErrNotFound.
	GetAccountsByOwner(ctx context.Context, owner string) ([]domain.Account, error)

	// GetAccountWithHighestBalance retrieves the richest account.
	GetAccountWithHighestBalance(ctx context.Context) (*domain.Account, error)

	// GetAccountWithHighestBalanceIn retrieves the richest account in a currency.
	GetAccountWithHighestBalanceIn(ctx context.Context, currencyCode string) (*domain.Account, error)

	// GetTop3ByBalance retrieves the three richest accounts.
	GetTop3ByBalance(ctx context.Context) ([]domain.Account, error)

	// GetAccountsWithBalanceGreaterThan retrieves accounts above a balance threshold.
	GetAccountsWithBalanceGreaterThan(ctx context.Context, amount decimal.Decimal) ([]domain.Account, error)

	// GetAccountsCreatedAfter retrieves accounts created after the date.
	GetAccountsCreatedAfter(ctx context.Context, date time.Time) ([]domain.Account, error)

	// GetAccountsCreatedBefore retrieves accounts created before the date.
	GetAccountsCreatedBefore(ctx context.Context, date time.Time) ([]domain.Account, error)

	// GetOldestAccount retrieves the earliest-created account.
	GetOldestAccount(ctx context.Context) (*domain.Account, error)

	// CountAccountsWithCurrency counts accounts in a currency; 0 is a valid result.
	CountAccountsWithCurrency(ctx context.Context, currencyCode string) (int64, error)

	// GetFirstByStatusOrderedByBalance retrieves the richest account with a status.
	GetFirstByStatusOrderedByBalance(ctx context.Context, status domain.AccountStatus) (*domain.Account, error)
}

// AccountWriterSvc defines administrative write operations for account data.
type AccountWriterSvc interface {
	// CreateAccount opens a new account with balance zero and status ACTIVE.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)

	// UpdateAccount overwrites the administrative fields (owner, optionally status).
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)

	// DeleteAccount removes an account and returns its final snapshot.
	DeleteAccount(ctx context.Context, accountID string) (*domain.Account, error)
}

// LedgerSvc owns balance mutation. It is the only component permitted to change a
// balance, and every successful mutation leaves matching journal rows behind.
type LedgerSvc interface {
	// Deposit adds amount to the account balance and journals a DEPOSIT.
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error)

	// Withdraw subtracts amount from the account balance and journals a WITHDRAW.
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error)

	// Transfer atomically moves amount between two accounts, journaling both legs.
	Transfer(ctx context.Context, senderID, receiverID string, amount decimal.Decimal) error
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	LedgerSvc
}
