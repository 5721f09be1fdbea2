package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/minibank2/minibank_api/internal/apperrors"
	"github.com/minibank2/minibank_api/internal/core/domain"
	portsrepo "github.com/minibank2/minibank_api/internal/core/ports/repositories"
	portssvc "github.com/minibank2/minibank_api/internal/core/ports/services"
)

var (
	ErrNoTransactions = errors.New("no transactions found")
	ErrInvalidRange   = errors.New("'to' date cannot be before 'from' date")
)

// transactionService implements portssvc.TransactionSvcFacade: the append side invoked
// by the ledger core and the query surface over an account's history. The journal is
// append-only; nothing here updates or deletes a row.
type transactionService struct {
	BaseService
	txnRepo portsrepo.TransactionRepositoryFacade
}

// NewTransactionService creates a new transaction journal service.
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryFacade) portssvc.TransactionSvcFacade {
	return &transactionService{txnRepo: txnRepo}
}

// Ensure transactionService implements the TransactionSvcFacade interface
var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func newTransaction(accountID string, amount decimal.Decimal, txnType domain.TransactionType, now time.Time) domain.Transaction {
	return domain.Transaction{
		TransactionID: uuid.NewString(),
		AccountID:     accountID,
		Amount:        amount,
		Type:          txnType,
		CreatedAt:     now,
	}
}

// --- Recording ---

// RecordDeposit appends a DEPOSIT row and credits the account in one transaction.
func (s *transactionService) RecordDeposit(ctx context.Context, accountID string, amount decimal.Decimal) error {
	txn := newTransaction(accountID, amount, domain.Deposit, time.Now().UTC())
	return s.txnRepo.SaveEntry(ctx, txn, amount)
}

// RecordWithdraw appends a WITHDRAW row and debits the account in one transaction.
func (s *transactionService) RecordWithdraw(ctx context.Context, accountID string, amount decimal.Decimal) error {
	txn := newTransaction(accountID, amount, domain.Withdraw, time.Now().UTC())
	return s.txnRepo.SaveEntry(ctx, txn, amount.Neg())
}

// RecordTransfer appends both legs of a transfer and moves the amount between the two
// balances. Both legs carry the same timestamp.
func (s *transactionService) RecordTransfer(ctx context.Context, senderID, receiverID string, amount decimal.Decimal) error {
	now := time.Now().UTC()
	out := newTransaction(senderID, amount, domain.TransferOut, now)
	in := newTransaction(receiverID, amount, domain.TransferIn, now)

	if err := s.txnRepo.SaveTransferLegs(ctx, out, in); err != nil {
		s.LogError(ctx, err, "Failed to save transfer legs",
			slog.String("sender_id", senderID),
			slog.String("receiver_id", receiverID))
		return err
	}
	return nil
}

// --- Queries ---

// ListForAccount returns all of an account's transactions, newest first.
// An empty history is ErrNoTransactions.
func (s *transactionService) ListForAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	txns, err := s.txnRepo.ListByAccount(ctx, accountID, 0)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("account_id", accountID))
		return nil, err
	}
	if len(txns) == 0 {
		return nil, ErrNoTransactions
	}
	return txns, nil
}

// ListByType filters the history to one exact type; no match is ErrNoTransactions.
// An unknown type is apperrors.ErrValidation rather than an empty result.
func (s *transactionService) ListByType(ctx context.Context, accountID string, txnType domain.TransactionType) ([]domain.Transaction, error) {
	if !txnType.Valid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, txnType)
	}
	txns, err := s.txnRepo.ListByAccountAndType(ctx, accountID, txnType)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, ErrNoTransactions
	}
	return txns, nil
}

// ListBetween returns transactions inside the inclusive [from, to] range.
func (s *transactionService) ListBetween(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error) {
	if to.Before(from) {
		return nil, ErrInvalidRange
	}
	txns, err := s.txnRepo.ListByAccountBetween(ctx, accountID, from, to)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, ErrNoTransactions
	}
	return txns, nil
}

// SumForDay sums the amounts of the transactions on day's calendar date.
// A day with no transactions is ErrNoTransactions, so the sum is always over a
// non-empty set.
func (s *transactionService) SumForDay(ctx context.Context, accountID string, day time.Time) (decimal.Decimal, error) {
	txns, err := s.txnRepo.ListByAccountForDay(ctx, accountID, day)
	if err != nil {
		return decimal.Zero, err
	}
	if len(txns) == 0 {
		return decimal.Zero, ErrNoTransactions
	}

	sum := decimal.Zero
	for _, txn := range txns {
		sum = sum.Add(txn.Amount)
	}
	return sum, nil
}

// Count returns the total number of transactions; zero is a valid, non-error result.
func (s *transactionService) Count(ctx context.Context, accountID string) (int64, error) {
	return s.txnRepo.CountByAccount(ctx, accountID)
}

// LastN returns the limit most recent transactions, newest first. A non-positive limit
// yields an empty slice without error.
func (s *transactionService) LastN(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		return []domain.Transaction{}, nil
	}
	txns, err := s.txnRepo.ListByAccount(ctx, accountID, limit)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, ErrNoTransactions
	}
	return txns, nil
}

// MaxByType returns the largest-amount transaction of the given type. No match is
// ErrNoTransactions, consistent with the other query operations.
func (s *transactionService) MaxByType(ctx context.Context, accountID string, txnType domain.TransactionType) (*domain.Transaction, error) {
	if !txnType.Valid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, txnType)
	}
	txn, err := s.txnRepo.FindMaxByType(ctx, accountID, txnType)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrNoTransactions
		}
		return nil, err
	}
	return txn, nil
}

// Above returns transactions with amount strictly greater than the threshold.
func (s *transactionService) Above(ctx context.Context, accountID string, amount decimal.Decimal) ([]domain.Transaction, error) {
	txns, err := s.txnRepo.ListByAccountAbove(ctx, accountID, amount)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, ErrNoTransactions
	}
	return txns, nil
}
