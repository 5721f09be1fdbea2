package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/minibank2/minibank_api/internal/apperrors"
	"github.com/minibank2/minibank_api/internal/core/domain"
	portssvc "github.com/minibank2/minibank_api/internal/core/ports/services"
	"github.com/minibank2/minibank_api/internal/core/services"
	"github.com/minibank2/minibank_api/internal/dto"
	"github.com/minibank2/minibank_api/internal/middleware"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// RegisterAccountRoutes registers routes related to accounts.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		// Static segments before the :id wildcard so gin routes them correctly.
		accounts.GET("/owner/:owner", h.getAccountsByOwner)
		accounts.GET("/highest-balance", h.getHighestBalance)
		accounts.GET("/highest-balance/:currency", h.getHighestBalanceInCurrency)
		accounts.GET("/balance-top3", h.getTop3ByBalance)
		accounts.GET("/balance/greater-than/:amount", h.getWithBalanceGreaterThan)
		accounts.GET("/created-after/:date", h.getCreatedAfter)
		accounts.GET("/created-before/:date", h.getCreatedBefore)
		accounts.GET("/oldest", h.getOldest)
		accounts.GET("/with-currency/:currency", h.countByCurrency)
		accounts.GET("/with-status/:status", h.getFirstByStatus)
		accounts.POST("/transfer", h.transfer)
		accounts.GET("/:id", h.getAccount)
		accounts.PUT("/:id", h.updateAccount)
		accounts.DELETE("/:id", h.deleteAccount)
		accounts.POST("/:id/deposit", h.deposit)
		accounts.POST("/:id/withdraw", h.withdraw)
	}
}

// respondAccountErr translates service errors into HTTP responses shared by the
// account endpoints.
func respondAccountErr(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Account not found", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrSameAccountTransfer),
		errors.Is(err, apperrors.ErrInsufficientFunds),
		errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Rejected account operation", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate account data", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Account operation failed", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Opens a new account with balance zero and status ACTIVE
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	newAccount, err := h.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		respondAccountErr(c, logger, err, "create account")
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountResponse(newAccount))
}

// getAccount godoc
// @Summary Get an account by ID
// @Description Retrieves details for a specific account by its ID
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Router /accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondAccountErr(c, logger, err, "retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List all accounts
// @Description Retrieves all accounts; an empty bank responds 204
// @Tags accounts
// @Produce  json
// @Success 200 {array} dto.AccountResponse
// @Success 204 "No Content"
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accounts, err := h.accountService.ListAccounts(c.Request.Context())
	if err != nil {
		respondAccountErr(c, logger, err, "list accounts")
		return
	}
	if len(accounts) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// updateAccount godoc
// @Summary Update an account
// @Description Overwrites the owner and, optionally, the administrative status
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID to update"
// @Param   account body dto.UpdateAccountRequest true "Account details to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to update account"
// @Router /accounts/{id} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updatedAccount, err := h.accountService.UpdateAccount(c.Request.Context(), accountID, req)
	if err != nil {
		respondAccountErr(c, logger, err, "update account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(updatedAccount))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Removes an account and returns its final snapshot
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID to delete"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to delete account"
// @Router /accounts/{id} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	account, err := h.accountService.DeleteAccount(c.Request.Context(), accountID)
	if err != nil {
		respondAccountErr(c, logger, err, "delete account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deposit godoc
// @Summary Deposit into an account
// @Description Adds the amount to the balance and journals a DEPOSIT
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   request body dto.AmountRequest true "Amount to deposit"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to deposit"
// @Router /accounts/{id}/deposit [post]
func (h *accountHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Deposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	account, err := h.accountService.Deposit(c.Request.Context(), accountID, req.Amount)
	if err != nil {
		respondAccountErr(c, logger, err, "deposit")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// withdraw godoc
// @Summary Withdraw from an account
// @Description Subtracts the amount from the balance and journals a WITHDRAW
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   request body dto.AmountRequest true "Amount to withdraw"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid amount or insufficient funds"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to withdraw"
// @Router /accounts/{id}/withdraw [post]
func (h *accountHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Withdraw", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	account, err := h.accountService.Withdraw(c.Request.Context(), accountID, req.Amount)
	if err != nil {
		respondAccountErr(c, logger, err, "withdraw")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// transfer godoc
// @Summary Transfer between two accounts
// @Description Atomically moves the amount from sender to receiver, journaling both legs
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   request body dto.TransferRequest true "Transfer details"
// @Success 200 {object} dto.TransferResponse
// @Failure 400 {object} map[string]string "Invalid transfer"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to transfer"
// @Router /accounts/transfer [post]
func (h *accountHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.accountService.Transfer(c.Request.Context(), req.SenderID, req.ReceiverID, req.Amount); err != nil {
		respondAccountErr(c, logger, err, "transfer")
		return
	}

	c.JSON(http.StatusOK, dto.TransferResponse{Message: "transfer completed"})
}

// getAccountsByOwner godoc
// @Summary List accounts by owner
// @Tags accounts
// @Produce  json
// @Param   owner path string true "Owner name"
// @Success 200 {array} dto.AccountResponse
// @Failure 404 {object} map[string]string "No accounts for owner"
// @Router /accounts/owner/{owner} [get]
func (h *accountHandler) getAccountsByOwner(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	owner := c.Param("owner")

	accounts, err := h.accountService.GetAccountsByOwner(c.Request.Context(), owner)
	if err != nil {
		respondAccountErr(c, logger, err, "list accounts by owner")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// getHighestBalance godoc
// @Summary Get the account with the highest balance
// @Tags accounts
// @Produce  json
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "No accounts"
// @Router /accounts/highest-balance [get]
func (h *accountHandler) getHighestBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	account, err := h.accountService.GetAccountWithHighestBalance(c.Request.Context())
	if err != nil {
		respondAccountErr(c, logger, err, "find highest balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getHighestBalanceInCurrency godoc
// @Summary Get the account with the highest balance in a currency
// @Tags accounts
// @Produce  json
// @Param   currency path string true "Currency code"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "No accounts in currency"
// @Router /accounts/highest-balance/{currency} [get]
func (h *accountHandler) getHighestBalanceInCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	currency := c.Param("currency")

	account, err := h.accountService.GetAccountWithHighestBalanceIn(c.Request.Context(), currency)
	if err != nil {
		respondAccountErr(c, logger, err, "find highest balance in currency")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getTop3ByBalance godoc
// @Summary Get the three accounts with the highest balances
// @Tags accounts
// @Produce  json
// @Success 200 {array} dto.AccountResponse
// @Failure 404 {object} map[string]string "No accounts"
// @Router /accounts/balance-top3 [get]
func (h *accountHandler) getTop3ByBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accounts, err := h.accountService.GetTop3ByBalance(c.Request.Context())
	if err != nil {
		respondAccountErr(c, logger, err, "find top accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// getWithBalanceGreaterThan godoc
// @Summary List accounts with balance above a threshold
// @Tags accounts
// @Produce  json
// @Param   amount path string true "Balance threshold"
// @Success 200 {array} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 404 {object} map[string]string "No accounts above threshold"
// @Router /accounts/balance/greater-than/{amount} [get]
func (h *accountHandler) getWithBalanceGreaterThan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	amount, err := decimal.NewFromString(c.Param("amount"))
	if err != nil {
		logger.Warn("Invalid amount parameter", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount: " + c.Param("amount")})
		return
	}

	accounts, err := h.accountService.GetAccountsWithBalanceGreaterThan(c.Request.Context(), amount)
	if err != nil {
		respondAccountErr(c, logger, err, "list accounts by balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// getCreatedAfter godoc
// @Summary List accounts created after a date
// @Tags accounts
// @Produce  json
// @Param   date path string true "Date (YYYY-MM-DD)"
// @Success 200 {array} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 404 {object} map[string]string "No accounts after date"
// @Router /accounts/created-after/{date} [get]
func (h *accountHandler) getCreatedAfter(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	date, err := time.Parse(time.DateOnly, c.Param("date"))
	if err != nil {
		logger.Warn("Invalid date parameter", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date: " + c.Param("date")})
		return
	}

	accounts, err := h.accountService.GetAccountsCreatedAfter(c.Request.Context(), date)
	if err != nil {
		respondAccountErr(c, logger, err, "list accounts by creation date")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// getCreatedBefore godoc
// @Summary List accounts created before a date
// @Tags accounts
// @Produce  json
// @Param   date path string true "Date (YYYY-MM-DD)"
// @Success 200 {array} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 404 {object} map[string]string "No accounts before date"
// @Router /accounts/created-before/{date} [get]
func (h *accountHandler) getCreatedBefore(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	date, err := time.Parse(time.DateOnly, c.Param("date"))
	if err != nil {
		logger.Warn("Invalid date parameter", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date: " + c.Param("date")})
		return
	}

	accounts, err := h.accountService.GetAccountsCreatedBefore(c.Request.Context(), date)
	if err != nil {
		respondAccountErr(c, logger, err, "list accounts by creation date")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// getOldest godoc
// @Summary Get the earliest-created account
// @Tags accounts
// @Produce  json
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "No accounts"
// @Router /accounts/oldest [get]
func (h *accountHandler) getOldest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	account, err := h.accountService.GetOldestAccount(c.Request.Context())
	if err != nil {
		respondAccountErr(c, logger, err, "find oldest account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// countByCurrency godoc
// @Summary Count accounts held in a currency
// @Tags accounts
// @Produce  json
// @Param   currency path string true "Currency code"
// @Success 200 {object} map[string]interface{}
// @Router /accounts/with-currency/{currency} [get]
func (h *accountHandler) countByCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	currency := c.Param("currency")

	count, err := h.accountService.CountAccountsWithCurrency(c.Request.Context(), currency)
	if err != nil {
		respondAccountErr(c, logger, err, "count accounts by currency")
		return
	}

	c.JSON(http.StatusOK, gin.H{"currencyCode": currency, "count": count})
}

// getFirstByStatus godoc
// @Summary Get the richest account with a status
// @Tags accounts
// @Produce  json
// @Param   status path string true "Account status" Enums(ACTIVE, BLOCKED)
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 404 {object} map[string]string "No accounts with status"
// @Router /accounts/with-status/{status} [get]
func (h *accountHandler) getFirstByStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	status := domain.AccountStatus(c.Param("status"))
	if status != domain.StatusActive && status != domain.StatusBlocked {
		logger.Warn("Invalid status parameter", slog.String("status", c.Param("status")))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status: " + c.Param("status")})
		return
	}

	account, err := h.accountService.GetFirstByStatusOrderedByBalance(c.Request.Context(), status)
	if err != nil {
		respondAccountErr(c, logger, err, "find account by status")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}
