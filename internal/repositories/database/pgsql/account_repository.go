package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/minibank2/minibank_api/internal/apperrors"
	"github.com/minibank2/minibank_api/internal/core/domain"
	portsrepo "github.com/minibank2/minibank_api/internal/core/ports/repositories"
	"github.com/minibank2/minibank_api/internal/models"
	"github.com/minibank2/minibank_api/internal/utils/mapping"
)

const accountColumns = `account_id, owner, number, currency_code, balance, status, account_type, interest_rate, created_at, last_updated_at`

type PgxAccountRepository struct {
	BaseRepository
}

// NewAccountRepository creates a new repository for account data.
func NewAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Owner,
		&m.Number,
		&m.CurrencyCode,
		&m.Balance,
		&m.Status,
		&m.AccountType,
		&m.InterestRate,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

func collectAccounts(rows pgx.Rows) ([]domain.Account, error) {
	defer rows.Close()
	accounts := []domain.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, mapping.ToDomainAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// queryOne runs a single-account query and maps pgx.ErrNoRows to apperrors.ErrNotFound.
func (r *PgxAccountRepository) queryOne(ctx context.Context, query string, args ...any) (*domain.Account, error) {
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

func (r *PgxAccountRepository) queryMany(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	return collectAccounts(rows)
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.Owner,
		m.Number,
		m.CurrencyCode,
		m.Balance,
		m.Status,
		m.AccountType,
		m.InterestRate,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: account number %s already exists", apperrors.ErrDuplicate, m.Number)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	return r.queryOne(ctx, query, accountID)
}

// ListAccounts retrieves all accounts ordered by creation date, oldest first.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at, account_id;`
	return r.queryMany(ctx, query)
}

// FindAccountsByOwner retrieves all accounts held by the given owner.
func (r *PgxAccountRepository) FindAccountsByOwner(ctx context.Context, owner string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner = $1 ORDER BY created_at, account_id;`
	return r.queryMany(ctx, query, owner)
}

// FindTopByBalance retrieves the account with the highest balance.
func (r *PgxAccountRepository) FindTopByBalance(ctx context.Context) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY balance DESC LIMIT 1;`
	return r.queryOne(ctx, query)
}

// FindTopByBalanceInCurrency retrieves the highest-balance account in a currency.
func (r *PgxAccountRepository) FindTopByBalanceInCurrency(ctx context.Context, currencyCode string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE currency_code = $1 ORDER BY balance DESC LIMIT 1;`
	return r.queryOne(ctx, query, currencyCode)
}

// FindTopNByBalance retrieves the n accounts with the highest balances.
func (r *PgxAccountRepository) FindTopNByBalance(ctx context.Context, n int) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY balance DESC LIMIT $1;`
	return r.queryMany(ctx, query, n)
}

// FindWithBalanceGreaterThan retrieves accounts whose balance strictly exceeds amount.
func (r *PgxAccountRepository) FindWithBalanceGreaterThan(ctx context.Context, amount decimal.Decimal) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE balance > $1 ORDER BY balance DESC;`
	return r.queryMany(ctx, query, amount)
}

// FindCreatedAfter retrieves accounts created strictly after the given date.
func (r *PgxAccountRepository) FindCreatedAfter(ctx context.Context, date time.Time) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE created_at > $1 ORDER BY created_at, account_id;`
	return r.queryMany(ctx, query, date)
}

// FindCreatedBefore retrieves accounts created strictly before the given date.
func (r *PgxAccountRepository) FindCreatedBefore(ctx context.Context, date time.Time) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE created_at < $1 ORDER BY created_at, account_id;`
	return r.queryMany(ctx, query, date)
}

// FindOldest retrieves the earliest-created account.
func (r *PgxAccountRepository) FindOldest(ctx context.Context) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at, account_id LIMIT 1;`
	return r.queryOne(ctx, query)
}

// CountByCurrency counts accounts denominated in the given currency.
func (r *PgxAccountRepository) CountByCurrency(ctx context.Context, currencyCode string) (int64, error) {
	var count int64
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE currency_code = $1;`, currencyCode).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts for currency %s: %w", currencyCode, err)
	}
	return count, nil
}

// FindTopByStatusOrderByBalance retrieves the highest-balance account with a status.
func (r *PgxAccountRepository) FindTopByStatusOrderByBalance(ctx context.Context, status domain.AccountStatus) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE status = $1 ORDER BY balance DESC LIMIT 1;`
	return r.queryOne(ctx, query, string(status))
}

// UpdateAccount updates the administrative fields of an existing account.
// Balance is deliberately absent; balances move only through the ledger path.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		UPDATE accounts
		SET owner = $2, status = $3, last_updated_at = $4
		WHERE account_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, m.AccountID, m.Owner, m.Status, m.LastUpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to execute update account %s: %w", m.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteAccount removes an account; its transactions go with it via ON DELETE CASCADE.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1;`, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindAccountsByIDsForUpdate retrieves the given accounts and locks their rows for
// update. Rows are acquired in ascending account_id order so two transfers touching the
// same pair of accounts always lock in the same order. Must be called within a transaction.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs for update: %w", err)
	}

	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, err
	}

	accountsMap := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		accountsMap[acc.AccountID] = acc
	}

	if len(accountsMap) != len(accountIDs) {
		missing := []string{}
		for _, id := range accountIDs {
			if _, found := accountsMap[id]; !found {
				missing = append(missing, id)
			}
		}
		slog.WarnContext(ctx, "Some accounts requested for update lock were not found", "missing_accounts", missing)
		return nil, fmt.Errorf("%w: could not find or lock all requested accounts, missing: %v", apperrors.ErrNotFound, missing)
	}

	return accountsMap, nil
}

// UpdateAccountBalancesInTx applies balance deltas to accounts within a transaction.
// Callers must have locked the rows first.
func (r *PgxAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, now time.Time) error {
	if len(balanceChanges) == 0 {
		return nil
	}

	query := `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = $3
		WHERE account_id = $1;
	`

	batch := &pgx.Batch{}
	accountIDs := make([]string, 0, len(balanceChanges))
	for accountID, delta := range balanceChanges {
		if !delta.IsZero() {
			batch.Queue(query, accountID, delta, now)
			accountIDs = append(accountIDs, accountID)
		}
	}
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to update balance for account %s: %w", accountIDs[i], err)
			}
		} else if ct.RowsAffected() == 0 {
			if batchErr == nil {
				batchErr = fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, accountIDs[i])
			}
		}
	}

	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close balance update batch: %w", err)
	}
	return batchErr
}
