package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/minibank2/minibank_api/internal/apperrors"
	portssvc "github.com/minibank2/minibank_api/internal/core/ports/services"
	"github.com/minibank2/minibank_api/internal/core/services"
	"github.com/minibank2/minibank_api/internal/dto"
	"github.com/minibank2/minibank_api/internal/middleware"
)

// transactionHandler handles HTTP requests over an account's journal.
type transactionHandler struct {
	txnService portssvc.TransactionSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{
		txnService: ts,
	}
}

// RegisterTransactionRoutes registers routes related to the transaction journal.
func RegisterTransactionRoutes(rg *gin.RouterGroup, txnService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(txnService)

	transactions := rg.Group("/transactions")
	{
		transactions.GET("/:accountID", h.listTransactions)
		transactions.GET("/:accountID/between", h.listBetween)
		transactions.GET("/:accountID/type", h.listByType)
		transactions.GET("/:accountID/sum", h.sumForDay)
		transactions.GET("/:accountID/count", h.count)
		transactions.GET("/:accountID/last", h.lastN)
		transactions.GET("/:accountID/max", h.maxByType)
		transactions.GET("/:accountID/above", h.above)
	}
}

// respondTxnErr translates journal service errors into HTTP responses shared by the
// transaction endpoints.
func respondTxnErr(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, services.ErrNoTransactions):
		logger.Warn("No transactions matched", slog.String("action", action))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidRange):
		logger.Warn("Invalid date range", slog.String("action", action))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Invalid journal query input", slog.String("action", action))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Transaction query failed", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// listTransactions godoc
// @Summary List an account's transactions
// @Description Retrieves all of an account's transactions, newest first
// @Tags transactions
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {array} dto.TransactionResponse
// @Failure 404 {object} map[string]string "No transactions"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Router /transactions/{accountID} [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	txns, err := h.txnService.ListForAccount(c.Request.Context(), accountID)
	if err != nil {
		respondTxnErr(c, logger, err, "list transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
}

// listBetween godoc
// @Summary List transactions inside a date range
// @Description Retrieves transactions with from <= createdAt <= to, newest first
// @Tags transactions
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   from query string true "Range start (2006-01-02T15:04:05)"
// @Param   to query string true "Range end (2006-01-02T15:04:05)"
// @Success 200 {array} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid range"
// @Failure 404 {object} map[string]string "No transactions in range"
// @Router /transactions/{accountID}/between [get]
func (h *transactionHandler) listBetween(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var params dto.ListBetweenParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListBetween", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	txns, err := h.txnService.ListBetween(c.Request.Context(), accountID, params.From, params.To)
	if err != nil {
		respondTxnErr(c, logger, err, "list transactions by range")
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
}

// listByType godoc
// @Summary List transactions of one type
// @Tags transactions
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   type query string true "Transaction type" Enums(DEPOSIT, WITHDRAW, TRANSFER_IN, TRANSFER_OUT)
// @Success 200 {array} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid type"
// @Failure 404 {object} map[string]string "No transactions of type"
// @Router /transactions/{accountID}/type [get]
func (h *transactionHandler) listByType(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var params dto.TypeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListByType", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	txns, err := h.txnService.ListByType(c.Request.Context(), accountID, params.Type)
	if err != nil {
		respondTxnErr(c, logger, err, "list transactions by type")
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
}

// sumForDay godoc
// @Summary Sum the transaction amounts on one calendar day
// @Tags transactions
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   date query string true "Day (2006-01-02)"
// @Success 200 {object} dto.SumResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 404 {object} map[string]string "No transactions that day"
// @Router /transactions/{accountID}/sum [get]
func (h *transactionHandler) sumForDay(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var params dto.SumForDayParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for SumForDay", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	sum, err := h.txnService.SumForDay(c.Request.Context(), accountID, params.Date)
	if err != nil {
		respondTxnErr(c, logger, err, "sum transactions")
		return
	}

	c.JSON(http.StatusOK, dto.SumResponse{
		AccountID: accountID,
		Date:      params.Date.Format(time.DateOnly),
		Sum:       sum,
	})
}

// count godoc
// @Summary Count an account's transactions
// @Description Returns the total transaction count; zero is a valid answer
// @Tags transactions
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.CountResponse
// @Failure 500 {object} map[string]string "Failed to count transactions"
// @Router /transactions/{accountID}/count [get]
func (h *transactionHandler) count(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	count, err := h.txnService.Count(c.Request.Context(), accountID)
	if err != nil {
		respondTxnErr(c, logger, err, "count transactions")
		return
	}

	c.JSON(http.StatusOK, dto.CountResponse{AccountID: accountID, Count: count})
}

// lastN godoc
// @Summary List the most recent transactions
// @Description Returns the limit most recent transactions; limit <= 0 yields an empty list
// @Tags transactions
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   limit query int true "Number of transactions"
// @Success 200 {array} dto.TransactionResponse
// @Failure 404 {object} map[string]string "No transactions"
// @Router /transactions/{accountID}/last [get]
func (h *transactionHandler) lastN(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var params dto.LastNParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for LastN", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	txns, err := h.txnService.LastN(c.Request.Context(), accountID, params.Limit)
	if err != nil {
		respondTxnErr(c, logger, err, "list recent transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
}

// maxByType godoc
// @Summary Get the largest transaction of one type
// @Tags transactions
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   type query string true "Transaction type" Enums(DEPOSIT, WITHDRAW, TRANSFER_IN, TRANSFER_OUT)
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid type"
// @Failure 404 {object} map[string]string "No transactions of type"
// @Router /transactions/{accountID}/max [get]
func (h *transactionHandler) maxByType(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var params dto.TypeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for MaxByType", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	txn, err := h.txnService.MaxByType(c.Request.Context(), accountID, params.Type)
	if err != nil {
		respondTxnErr(c, logger, err, "find max transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// above godoc
// @Summary List transactions above an amount
// @Description Returns transactions with amount strictly greater than the threshold
// @Tags transactions
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   amount query string true "Amount threshold"
// @Success 200 {array} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 404 {object} map[string]string "No transactions above threshold"
// @Router /transactions/{accountID}/above [get]
func (h *transactionHandler) above(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var params dto.AboveParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for Above", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	txns, err := h.txnService.Above(c.Request.Context(), accountID, params.Amount)
	if err != nil {
		respondTxnErr(c, logger, err, "list transactions by amount")
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
}
