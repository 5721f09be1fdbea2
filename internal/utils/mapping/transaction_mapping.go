package mapping

import (
	"github.com/minibank2/minibank_api/internal/core/domain"
	"github.com/minibank2/minibank_api/internal/models"
)

// ToModelTransaction converts a domain.Transaction to its DB model.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		AccountID:     d.AccountID,
		Amount:        d.Amount,
		Type:          models.TransactionType(d.Type),
		CreatedAt:     d.CreatedAt,
	}
}

// ToDomainTransaction converts a DB model transaction to its domain representation.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		AccountID:     m.AccountID,
		Amount:        m.Amount,
		Type:          domain.TransactionType(m.Type),
		CreatedAt:     m.CreatedAt,
	}
}

// ToDomainTransactionSlice converts a slice of model transactions.
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
