package dto

import (
	"time"

	"github.com/minibank2/minibank_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionResponse defines the data returned for a journal row.
type TransactionResponse struct {
	TransactionID string                 `json:"transactionID"`
	AccountID     string                 `json:"accountID"`
	Amount        decimal.Decimal        `json:"amount"`
	Type          domain.TransactionType `json:"type"`
	CreatedAt     time.Time              `json:"createdAt"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		AccountID:     txn.AccountID,
		Amount:        txn.Amount,
		Type:          txn.Type,
		CreatedAt:     txn.CreatedAt,
	}
}

// ToListTransactionResponse converts a slice of domain transactions to response DTOs.
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		res[i] = ToTransactionResponse(&txn)
	}
	return res
}

// ListBetweenParams defines query parameters for the date range listing.
type ListBetweenParams struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02T15:04:05"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02T15:04:05"`
}

// TypeParams defines query parameters for type-filtered listings.
type TypeParams struct {
	Type domain.TransactionType `form:"type" binding:"required,oneof=DEPOSIT WITHDRAW TRANSFER_IN TRANSFER_OUT"`
}

// LastNParams defines query parameters for the last-N listing. A missing or
// non-positive limit yields an empty listing rather than a binding error.
type LastNParams struct {
	Limit int `form:"limit"`
}

// SumForDayParams defines query parameters for the per-day sum.
type SumForDayParams struct {
	Date time.Time `form:"date" binding:"required" time_format:"2006-01-02"`
}

// AboveParams defines query parameters for the amount threshold listing.
type AboveParams struct {
	Amount decimal.Decimal `form:"amount" binding:"required"`
}

// SumResponse wraps the per-day amount sum.
type SumResponse struct {
	AccountID string          `json:"accountID"`
	Date      string          `json:"date"`
	Sum       decimal.Decimal `json:"sum"`
}

// CountResponse wraps the transaction count.
type CountResponse struct {
	AccountID string `json:"accountID"`
	Count     int64  `json:"count"`
}

// TransferResponse confirms a completed transfer.
type TransferResponse struct {
	Message string `json:"message"`
}
