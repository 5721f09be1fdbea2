package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/minibank2/minibank_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves all accounts ordered by creation date.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// FindAccountsByOwner retrieves all accounts held by the given owner.
	FindAccountsByOwner(ctx context.Context, owner string) ([]domain.Account, error)

	// FindTopByBalance retrieves the account with the highest balance.
	FindTopByBalance(ctx context.Context) (*domain.Account, error)

	// FindTopByBalanceInCurrency retrieves the highest-balance account in a currency.
	FindTopByBalanceInCurrency(ctx context.Context, currencyCode string) (*domain.Account, error)

	// FindTopNByBalance retrieves the n accounts with the highest balances.
	FindTopNByBalance(ctx context.Context, n int) ([]domain.Account, error)

	// FindWithBalanceGreaterThan retrieves accounts whose balance strictly exceeds amount.
	FindWithBalanceGreaterThan(ctx context.Context, amount decimal.Decimal) ([]domain.Account, error)

	// FindCreatedAfter retrieves accounts created strictly after the given date.
	FindCreatedAfter(ctx context.Context, date time.Time) ([]domain.Account, error)

	// FindCreatedBefore retrieves accounts created strictly before the given date.
	FindCreatedBefore(ctx context.Context, date time.Time) ([]domain.Account, error)

	// FindOldest retrieves the earliest-created account.
	FindOldest(ctx context.Context) (*domain.Account, error)

	// CountByCurrency counts accounts denominated in the given currency.
	CountByCurrency(ctx context.Context, currencyCode string) (int64, error)

	// FindTopByStatusOrderByBalance retrieves the highest-balance account with a status.
	FindTopByStatusOrderByBalance(ctx context.Context, status domain.AccountStatus) (*domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount inserts a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates the mutable administrative fields (owner, status).
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account and its transaction history.
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountLocker defines row-locking operations used inside ledger transactions.
type AccountLocker interface {
	// FindAccountsByIDsForUpdate locks the given account rows FOR UPDATE, acquiring them
	// in ascending account_id order so concurrent transfers cannot deadlock.
	// Must be called within a transaction.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalancesInTx applies balance deltas to accounts within a transaction.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, now time.Time) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountLocker
}
