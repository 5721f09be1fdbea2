package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/minibank2/minibank_api/internal/core/domain"
	portsrepo "github.com/minibank2/minibank_api/internal/core/ports/repositories"
	portssvc "github.com/minibank2/minibank_api/internal/core/ports/services"
	"github.com/minibank2/minibank_api/internal/core/services"
)

// seedAccount mirrors one entry of the seed JSON file.
type seedAccount struct {
	Owner        string          `json:"owner"`
	CurrencyCode string          `json:"currencyCode"`
	AccountType  string          `json:"accountType"`
	Balance      decimal.Decimal `json:"balance"`
}

// Seeder loads initial accounts when the database is empty.
type Seeder struct {
	accountRepo portsrepo.AccountRepositoryFacade
	recorder    portssvc.TransactionRecorderSvc
	numberGen   services.NumberGenerator
	logger      *slog.Logger
}

// New creates a Seeder. Seeded starting balances go through the transaction recorder so
// the journal stays consistent with the balances from the very first row.
func New(accountRepo portsrepo.AccountRepositoryFacade, recorder portssvc.TransactionRecorderSvc, logger *slog.Logger) *Seeder {
	return &Seeder{
		accountRepo: accountRepo,
		recorder:    recorder,
		logger:      logger,
	}
}

// Run seeds accounts from the JSON file at path if the accounts table is empty.
// A missing file is not an error; the service simply starts with an empty bank.
func (s *Seeder) Run(ctx context.Context, path string) error {
	existing, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for existing accounts: %w", err)
	}
	if len(existing) > 0 {
		s.logger.Info("Accounts already present, skipping seed", slog.Int("count", len(existing)))
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("No seed file found, starting empty", slog.String("path", path))
			return nil
		}
		return fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	var seeds []seedAccount
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	now := time.Now().UTC()
	for _, entry := range seeds {
		account := domain.Account{
			AccountID:     uuid.NewString(),
			Owner:         entry.Owner,
			Number:        s.numberGen.GenerateAccountNumber(),
			CurrencyCode:  entry.CurrencyCode,
			Balance:       decimal.Zero,
			Status:        domain.StatusActive,
			AccountType:   domain.AccountType(entry.AccountType),
			InterestRate:  decimal.Zero,
			CreatedAt:     now,
			LastUpdatedAt: now,
		}
		if account.AccountType == domain.Savings {
			account.InterestRate = decimal.RequireFromString("0.02")
		}

		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			return fmt.Errorf("failed to seed account for %s: %w", entry.Owner, err)
		}
		if entry.Balance.IsPositive() {
			if err := s.recorder.RecordDeposit(ctx, account.AccountID, entry.Balance.Round(2)); err != nil {
				return fmt.Errorf("failed to seed balance for %s: %w", entry.Owner, err)
			}
		}
	}

	s.logger.Info("Seeded accounts", slog.Int("count", len(seeds)))
	return nil
}
