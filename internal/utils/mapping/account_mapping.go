package mapping

import (
	"github.com/minibank2/minibank_api/internal/core/domain"
	"github.com/minibank2/minibank_api/internal/models"
)

// ToModelAccount converts a domain.Account to its DB model.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:     d.AccountID,
		Owner:         d.Owner,
		Number:        d.Number,
		CurrencyCode:  d.CurrencyCode,
		Balance:       d.Balance,
		Status:        string(d.Status),
		AccountType:   models.AccountType(d.AccountType),
		InterestRate:  d.InterestRate,
		CreatedAt:     d.CreatedAt,
		LastUpdatedAt: d.LastUpdatedAt,
	}
}

// ToDomainAccount converts a DB model account to its domain representation.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:     m.AccountID,
		Owner:         m.Owner,
		Number:        m.Number,
		CurrencyCode:  m.CurrencyCode,
		Balance:       m.Balance,
		Status:        domain.AccountStatus(m.Status),
		AccountType:   domain.AccountType(m.AccountType),
		InterestRate:  m.InterestRate,
		CreatedAt:     m.CreatedAt,
		LastUpdatedAt: m.LastUpdatedAt,
	}
}

// ToDomainAccountSlice converts a slice of model accounts.
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
