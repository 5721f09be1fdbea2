package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/minibank2/minibank_api/internal/apperrors"
	"github.com/minibank2/minibank_api/internal/core/domain"
	portsrepo "github.com/minibank2/minibank_api/internal/core/ports/repositories"
	"github.com/minibank2/minibank_api/internal/models"
	"github.com/minibank2/minibank_api/internal/utils/mapping"
)

const txnColumns = `transaction_id, account_id, amount, type, created_at`

const insertTxnQuery = `
	INSERT INTO transactions (transaction_id, account_id, amount, type, created_at)
	VALUES ($1, $2, $3, $4, $5);
`

// newestFirst orders a listing by timestamp descending; ties on identical timestamps
// break on transaction_id so last-N truncation stays deterministic.
const newestFirst = ` ORDER BY created_at DESC, transaction_id DESC`

type PgxTransactionRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewTransactionRepository creates a new repository for the transaction journal.
// The account repository is used for row locking and balance updates inside the
// journal's database transactions.
func NewTransactionRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.AccountID,
		&m.Amount,
		&m.Type,
		&m.CreatedAt,
	)
	return m, err
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	defer rows.Close()
	txns := []domain.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, mapping.ToDomainTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txns, nil
}

func (r *PgxTransactionRepository) queryMany(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	return collectTransactions(rows)
}

// SaveEntry appends a single journal row and applies balanceDelta to its account inside
// one database transaction: lock the row, re-check the resulting balance, update it,
// insert the journal row, commit.
func (r *PgxTransactionRepository) SaveEntry(ctx context.Context, txn domain.Transaction, balanceDelta decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored once the transaction commits

	locked, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, []string{txn.AccountID})
	if err != nil {
		return err
	}
	account := locked[txn.AccountID]

	if account.Balance.Add(balanceDelta).IsNegative() {
		return apperrors.ErrInsufficientFunds
	}

	now := txn.CreatedAt
	changes := map[string]decimal.Decimal{txn.AccountID: balanceDelta}
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, changes, now); err != nil {
		return fmt.Errorf("failed to update balance for journal entry %s: %w", txn.TransactionID, err)
	}

	m := mapping.ToModelTransaction(txn)
	if _, err := tx.Exec(ctx, insertTxnQuery, m.TransactionID, m.AccountID, m.Amount, m.Type, m.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert journal entry %s: %w", m.TransactionID, err)
	}

	return r.Commit(ctx, tx)
}

// SaveTransferLegs appends the outbound and inbound legs of a transfer and moves the
// amount between the two accounts atomically. Both rows are locked up front (the lock
// query orders by account_id, preventing circular waits between opposing transfers),
// the sender's balance is re-validated under lock, then both balance updates and both
// journal inserts commit together or not at all.
func (r *PgxTransactionRepository) SaveTransferLegs(ctx context.Context, out domain.Transaction, in domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	locked, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, []string{out.AccountID, in.AccountID})
	if err != nil {
		return err
	}

	sender := locked[out.AccountID]
	if sender.Balance.LessThan(out.Amount) {
		return apperrors.ErrInsufficientFunds
	}

	now := out.CreatedAt
	changes := map[string]decimal.Decimal{
		out.AccountID: out.Amount.Neg(),
		in.AccountID:  in.Amount,
	}
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, changes, now); err != nil {
		return fmt.Errorf("failed to update balances for transfer: %w", err)
	}

	batch := &pgx.Batch{}
	for _, leg := range []domain.Transaction{out, in} {
		m := mapping.ToModelTransaction(leg)
		batch.Queue(insertTxnQuery, m.TransactionID, m.AccountID, m.Amount, m.Type, m.CreatedAt)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert transfer legs: %w", err)
	}

	return r.Commit(ctx, tx)
}

// ListByAccount retrieves an account's transactions newest first. limit <= 0 means all.
func (r *PgxTransactionRepository) ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error) {
	query := `SELECT ` + txnColumns + ` FROM transactions WHERE account_id = $1` + newestFirst
	if limit > 0 {
		return r.queryMany(ctx, query+` LIMIT $2;`, accountID, limit)
	}
	return r.queryMany(ctx, query+`;`, accountID)
}

// ListByAccountAndType retrieves transactions matching the exact type, newest first.
func (r *PgxTransactionRepository) ListByAccountAndType(ctx context.Context, accountID string, txnType domain.TransactionType) ([]domain.Transaction, error) {
	query := `SELECT ` + txnColumns + ` FROM transactions WHERE account_id = $1 AND type = $2` + newestFirst + `;`
	return r.queryMany(ctx, query, accountID, string(txnType))
}

// ListByAccountBetween retrieves transactions with from <= created_at <= to, newest first.
func (r *PgxTransactionRepository) ListByAccountBetween(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error) {
	query := `SELECT ` + txnColumns + ` FROM transactions WHERE account_id = $1 AND created_at >= $2 AND created_at <= $3` + newestFirst + `;`
	return r.queryMany(ctx, query, accountID, from, to)
}

// ListByAccountForDay retrieves the transactions on day's calendar date, newest first.
func (r *PgxTransactionRepository) ListByAccountForDay(ctx context.Context, accountID string, day time.Time) ([]domain.Transaction, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	query := `SELECT ` + txnColumns + ` FROM transactions WHERE account_id = $1 AND created_at >= $2 AND created_at < $3` + newestFirst + `;`
	return r.queryMany(ctx, query, accountID, dayStart, dayEnd)
}

// ListByAccountAbove retrieves transactions with amount strictly greater than amount.
func (r *PgxTransactionRepository) ListByAccountAbove(ctx context.Context, accountID string, amount decimal.Decimal) ([]domain.Transaction, error) {
	query := `SELECT ` + txnColumns + ` FROM transactions WHERE account_id = $1 AND amount > $2` + newestFirst + `;`
	return r.queryMany(ctx, query, accountID, amount)
}

// FindMaxByType retrieves the largest-amount transaction of the given type.
func (r *PgxTransactionRepository) FindMaxByType(ctx context.Context, accountID string, txnType domain.TransactionType) (*domain.Transaction, error) {
	query := `
		SELECT ` + txnColumns + `
		FROM transactions
		WHERE account_id = $1 AND type = $2
		ORDER BY amount DESC, created_at DESC, transaction_id DESC
		LIMIT 1;
	`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, accountID, string(txnType)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find max transaction by type: %w", err)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// CountByAccount counts an account's transactions.
func (r *PgxTransactionRepository) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	var count int64
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE account_id = $1;`, accountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions for account %s: %w", accountID, err)
	}
	return count, nil
}
