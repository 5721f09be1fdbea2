package services

import (
	"context"
	"time"

	"github.com/minibank2/minibank_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionRecorderSvc defines the journal append operations. Each is invoked by the
// ledger core as the side effect of a successful balance mutation and performs the
// mutation and the append as one atomic unit.
type TransactionRecorderSvc interface {
	// RecordDeposit journals a DEPOSIT and credits the account.
	RecordDeposit(ctx context.Context, accountID string, amount decimal.Decimal) error

	// RecordWithdraw journals a WITHDRAW and debits the account.
	RecordWithdraw(ctx context.Context, accountID string, amount decimal.Decimal) error

	// RecordTransfer journals a TRANSFER_OUT at the sender and a TRANSFER_IN at the
	// receiver while moving amount between the two balances.
	RecordTransfer(ctx context.Context, senderID, receiverID string, amount decimal.Decimal) error
}

// TransactionQuerySvc defines the query surface over one account's journal.
type TransactionQuerySvc interface {
	// ListForAccount returns all transactions, newest first; none is ErrNoTransactions.
	ListForAccount(ctx context.Context, accountID string) ([]domain.Transaction, error)

	// ListByType returns transactions of the exact type; none is ErrNoTransactions.
	ListByType(ctx context.Context, accountID string, txnType domain.TransactionType) ([]domain.Transaction, error)

	// ListBetween returns transactions inside the inclusive range. to before from is
	// ErrInvalidRange; a valid but empty range is ErrNoTransactions.
	ListBetween(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error)

	// SumForDay sums the amounts on the given calendar day; none is ErrNoTransactions.
	SumForDay(ctx context.Context, accountID string, day time.Time) (decimal.Decimal, error)

	// Count returns the total transaction count; 0 is a valid result.
	Count(ctx context.Context, accountID string) (int64, error)

	// LastN returns the limit most recent transactions, newest first. limit <= 0 yields
	// an empty slice with no error; an empty history is ErrNoTransactions.
	LastN(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error)

	// MaxByType returns the largest transaction of the type; none is ErrNoTransactions.
	MaxByType(ctx context.Context, accountID string, txnType domain.TransactionType) (*domain.Transaction, error)

	// Above returns transactions with amount strictly greater than the threshold;
	// none is ErrNoTransactions.
	Above(ctx context.Context, accountID string, amount decimal.Decimal) ([]domain.Transaction, error)
}

// TransactionSvcFacade combines the journal service interfaces.
type TransactionSvcFacade interface {
	TransactionRecorderSvc
	TransactionQuerySvc
}
