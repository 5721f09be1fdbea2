package repositories

import (
	"context"
	"time"

	"github.com/minibank2/minibank_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionWriter defines the append operations of the journal. Both methods perform
// the balance mutation and the journal append as one database transaction: the account
// rows are locked, the resulting balance is re-validated under lock, balances are
// updated and the journal rows inserted, then everything commits or nothing does.
type TransactionWriter interface {
	// SaveEntry appends a single journal row and applies balanceDelta to its account.
	// Returns apperrors.ErrInsufficientFunds if the delta would take the balance below zero.
	SaveEntry(ctx context.Context, txn domain.Transaction, balanceDelta decimal.Decimal) error

	// SaveTransferLegs appends the outbound and inbound legs of a transfer and moves the
	// amount between the two accounts atomically.
	SaveTransferLegs(ctx context.Context, out domain.Transaction, in domain.Transaction) error
}

// TransactionReader defines the query operations over one account's journal.
// All listings are ordered newest-first (created_at DESC, transaction_id DESC).
type TransactionReader interface {
	// ListByAccount retrieves an account's transactions. limit <= 0 means no limit.
	ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error)

	// ListByAccountAndType retrieves transactions matching the exact type.
	ListByAccountAndType(ctx context.Context, accountID string, txnType domain.TransactionType) ([]domain.Transaction, error)

	// ListByAccountBetween retrieves transactions with from <= created_at <= to.
	ListByAccountBetween(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error)

	// ListByAccountForDay retrieves transactions whose timestamp falls on day's calendar date.
	ListByAccountForDay(ctx context.Context, accountID string, day time.Time) ([]domain.Transaction, error)

	// ListByAccountAbove retrieves transactions with amount strictly greater than amount.
	ListByAccountAbove(ctx context.Context, accountID string, amount decimal.Decimal) ([]domain.Transaction, error)

	// FindMaxByType retrieves the largest-amount transaction of the given type, or
	// apperrors.ErrNotFound when none match.
	FindMaxByType(ctx context.Context, accountID string, txnType domain.TransactionType) (*domain.Transaction, error)

	// CountByAccount counts an account's transactions.
	CountByAccount(ctx context.Context, accountID string) (int64, error)
}

// TransactionRepositoryFacade combines all journal repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionWriter
	TransactionReader
}
