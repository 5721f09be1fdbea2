package dto

import (
	"time"

	"github.com/minibank2/minibank_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to open a new account.
type CreateAccountRequest struct {
	Owner        string             `json:"owner" binding:"required"`
	CurrencyCode string             `json:"currencyCode" binding:"required,len=3"`
	AccountType  domain.AccountType `json:"accountType" binding:"required,oneof=CHECKING SAVINGS"`
}

// UpdateAccountRequest defines the administrative fields that may be overwritten.
// Status is optional; omitting it leaves the current status in place.
type UpdateAccountRequest struct {
	Owner  string                `json:"owner" binding:"required"`
	Status *domain.AccountStatus `json:"status" binding:"omitempty,oneof=ACTIVE BLOCKED"`
}

// AmountRequest carries the amount for deposit and withdraw calls.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

// TransferRequest defines a transfer between two accounts.
// The 0.01 minimum is the boundary policy; the core only requires a positive amount.
type TransferRequest struct {
	SenderID   string          `json:"senderID" binding:"required,uuid"`
	ReceiverID string          `json:"receiverID" binding:"required,uuid"`
	Amount     decimal.Decimal `json:"amount" binding:"required,gte=0.01"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string               `json:"accountID"`
	Owner         string               `json:"owner"`
	Number        string               `json:"number"`
	CurrencyCode  string               `json:"currencyCode"`
	Balance       decimal.Decimal      `json:"balance"`
	Status        domain.AccountStatus `json:"status"`
	AccountType   domain.AccountType   `json:"accountType"`
	InterestRate  decimal.Decimal      `json:"interestRate"`
	CreatedAt     time.Time            `json:"createdAt"`
	LastUpdatedAt time.Time            `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Owner:         acc.Owner,
		Number:        acc.Number,
		CurrencyCode:  acc.CurrencyCode,
		Balance:       acc.Balance,
		Status:        acc.Status,
		AccountType:   acc.AccountType,
		InterestRate:  acc.InterestRate,
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain accounts to response DTOs.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}
