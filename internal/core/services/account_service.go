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
	"github.com/minibank2/minibank_api/internal/dto"
)

var (
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrSameAccountTransfer = errors.New("cannot transfer to the same account")
)

// savingsInterestRate is the informational rate assigned to SAVINGS accounts at creation.
var savingsInterestRate = decimal.RequireFromString("0.02")

// accountService implements portssvc.AccountSvcFacade. It owns the balance mutation
// state machine; every successful mutation goes through the transaction recorder so the
// journal reflects it.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	recorder    portssvc.TransactionRecorderSvc
	numberGen   NumberGenerator
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, recorder portssvc.TransactionRecorderSvc) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		recorder:    recorder,
	}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// getAccountOrErr fetches an account, propagating apperrors.ErrNotFound unchanged.
func (s *accountService) getAccountOrErr(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// --- Ledger core ---

// Deposit adds amount to the account balance and journals a DEPOSIT row. The balance
// update and the journal append commit as one unit.
func (s *accountService) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error) {
	// Round before validating so a sub-cent amount cannot sneak past as a zero-amount
	// journal row. Balances keep a fixed scale of 2.
	amount = amount.Round(2)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	account, err := s.getAccountOrErr(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if err := s.recorder.RecordDeposit(ctx, account.AccountID, amount); err != nil {
		s.LogError(ctx, err, "Failed to record deposit",
			slog.String("account_id", accountID),
			slog.String("amount", amount.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Deposit completed",
		slog.String("account_id", accountID),
		slog.String("amount", amount.String()))
	return s.getAccountOrErr(ctx, accountID)
}

// Withdraw subtracts amount from the account balance and journals a WITHDRAW row.
// The balance is checked before and re-checked under row lock by the repository.
func (s *accountService) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error) {
	amount = amount.Round(2)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	account, err := s.getAccountOrErr(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Balance.LessThan(amount) {
		return nil, apperrors.ErrInsufficientFunds
	}

	if err := s.recorder.RecordWithdraw(ctx, account.AccountID, amount); err != nil {
		s.LogError(ctx, err, "Failed to record withdrawal",
			slog.String("account_id", accountID),
			slog.String("amount", amount.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Withdrawal completed",
		slog.String("account_id", accountID),
		slog.String("amount", amount.String()))
	return s.getAccountOrErr(ctx, accountID)
}

// Transfer atomically moves amount from sender to receiver and journals both legs.
// The same-account check runs before any lookup.
func (s *accountService) Transfer(ctx context.Context, senderID, receiverID string, amount decimal.Decimal) error {
	if senderID == receiverID {
		return ErrSameAccountTransfer
	}
	amount = amount.Round(2)
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	sender, err := s.getAccountOrErr(ctx, senderID)
	if err != nil {
		return err
	}
	if _, err := s.getAccountOrErr(ctx, receiverID); err != nil {
		return err
	}
	if sender.Balance.LessThan(amount) {
		return apperrors.ErrInsufficientFunds
	}

	if err := s.recorder.RecordTransfer(ctx, senderID, receiverID, amount); err != nil {
		s.LogError(ctx, err, "Failed to record transfer",
			slog.String("sender_id", senderID),
			slog.String("receiver_id", receiverID),
			slog.String("amount", amount.String()))
		return err
	}

	s.LogInfo(ctx, "Transfer completed",
		slog.String("sender_id", senderID),
		slog.String("receiver_id", receiverID),
		slog.String("amount", amount.String()))
	return nil
}

// --- Administrative CRUD ---

// CreateAccount opens a new account with balance zero and status ACTIVE.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	now := time.Now().UTC()

	interestRate := decimal.Zero
	if req.AccountType == domain.Savings {
		interestRate = savingsInterestRate
	}

	account := domain.Account{
		AccountID:     uuid.NewString(),
		Owner:         req.Owner,
		Number:        s.numberGen.GenerateAccountNumber(),
		CurrencyCode:  req.CurrencyCode,
		Balance:       decimal.Zero.Round(2),
		Status:        domain.StatusActive,
		AccountType:   req.AccountType,
		InterestRate:  interestRate,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("account_id", account.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("number", account.Number))
	return &account, nil
}

// UpdateAccount overwrites the owner and, when provided, the administrative status.
// Balance, number, currency and type are immutable here; balances change only through
// the ledger operations.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	account, err := s.getAccountOrErr(ctx, accountID)
	if err != nil {
		return nil, err
	}

	account.Owner = req.Owner
	if req.Status != nil {
		account.Status = *req.Status
	}
	account.LastUpdatedAt = time.Now().UTC()

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated", slog.String("account_id", accountID))
	return account, nil
}

// DeleteAccount removes an account and returns its final snapshot.
func (s *accountService) DeleteAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.getAccountOrErr(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return account, nil
}

// --- Queries ---

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.getAccountOrErr(ctx, accountID)
}

func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// GetAccountsByOwner returns the accounts held by owner; no match is ErrNotFound.
func (s *accountService) GetAccountsByOwner(ctx context.Context, owner string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByOwner(ctx, owner)
	if err != nil {
		s.LogError(ctx, err, "Failed to find accounts by owner", slog.String("owner", owner))
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: no accounts for owner %s", apperrors.ErrNotFound, owner)
	}
	return accounts, nil
}

func (s *accountService) GetAccountWithHighestBalance(ctx context.Context) (*domain.Account, error) {
	return s.accountRepo.FindTopByBalance(ctx)
}

func (s *accountService) GetAccountWithHighestBalanceIn(ctx context.Context, currencyCode string) (*domain.Account, error) {
	return s.accountRepo.FindTopByBalanceInCurrency(ctx, currencyCode)
}

// GetTop3ByBalance returns the three richest accounts; an empty bank is ErrNotFound.
func (s *accountService) GetTop3ByBalance(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.FindTopNByBalance(ctx, 3)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: no accounts in database", apperrors.ErrNotFound)
	}
	return accounts, nil
}

func (s *accountService) GetAccountsWithBalanceGreaterThan(ctx context.Context, amount decimal.Decimal) ([]domain.Account, error) {
	accounts, err := s.accountRepo.FindWithBalanceGreaterThan(ctx, amount)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: no accounts with balance greater than %s", apperrors.ErrNotFound, amount.String())
	}
	return accounts, nil
}

func (s *accountService) GetAccountsCreatedAfter(ctx context.Context, date time.Time) ([]domain.Account, error) {
	accounts, err := s.accountRepo.FindCreatedAfter(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: no accounts created after %s", apperrors.ErrNotFound, date.Format(time.DateOnly))
	}
	return accounts, nil
}

func (s *accountService) GetAccountsCreatedBefore(ctx context.Context, date time.Time) ([]domain.Account, error) {
	accounts, err := s.accountRepo.FindCreatedBefore(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: no accounts created before %s", apperrors.ErrNotFound, date.Format(time.DateOnly))
	}
	return accounts, nil
}

func (s *accountService) GetOldestAccount(ctx context.Context) (*domain.Account, error) {
	return s.accountRepo.FindOldest(ctx)
}

// CountAccountsWithCurrency counts accounts in a currency; zero is a valid answer.
func (s *accountService) CountAccountsWithCurrency(ctx context.Context, currencyCode string) (int64, error) {
	return s.accountRepo.CountByCurrency(ctx, currencyCode)
}

func (s *accountService) GetFirstByStatusOrderedByBalance(ctx context.Context, status domain.AccountStatus) (*domain.Account, error) {
	return s.accountRepo.FindTopByStatusOrderByBalance(ctx, status)
}
