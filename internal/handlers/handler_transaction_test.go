package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/minibank2/minibank_api/internal/apperrors"
	"github.com/minibank2/minibank_api/internal/core/domain"
	portssvc "github.com/minibank2/minibank_api/internal/core/ports/services"
	"github.com/minibank2/minibank_api/internal/core/services"
	"github.com/minibank2/minibank_api/internal/dto"
	"github.com/minibank2/minibank_api/internal/handlers"
)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) RecordDeposit(ctx context.Context, accountID string, amount decimal.Decimal) error {
	args := m.Called(ctx, accountID, amount)
	return args.Error(0)
}
func (m *MockTransactionService) RecordWithdraw(ctx context.Context, accountID string, amount decimal.Decimal) error {
	args := m.Called(ctx, accountID, amount)
	return args.Error(0)
}
func (m *MockTransactionService) RecordTransfer(ctx context.Context, senderID, receiverID string, amount decimal.Decimal) error {
	args := m.Called(ctx, senderID, receiverID, amount)
	return args.Error(0)
}
func (m *MockTransactionService) ListForAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) ListByType(ctx context.Context, accountID string, txnType domain.TransactionType) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID, txnType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) ListBetween(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) SumForDay(ctx context.Context, accountID string, day time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, day)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockTransactionService) Count(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockTransactionService) LastN(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) MaxByType(ctx context.Context, accountID string, txnType domain.TransactionType) (*domain.Transaction, error) {
	args := m.Called(ctx, accountID, txnType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) Above(ctx context.Context, accountID string, amount decimal.Decimal) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Test Suite ---
type TransactionHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockTxnService *MockTransactionService
}

func (suite *TransactionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	dto.RegisterValidations()
	suite.router = gin.New()
	suite.mockTxnService = new(MockTransactionService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterTransactionRoutes(v1, suite.mockTxnService)
}

func (suite *TransactionHandlerTestSuite) performGet(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func testTxn(accountID string, amount string, txnType domain.TransactionType) domain.Transaction {
	return domain.Transaction{
		TransactionID: uuid.NewString(),
		AccountID:     accountID,
		Amount:        decimal.RequireFromString(amount),
		Type:          txnType,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
	}
}

// --- Test Cases ---

func (suite *TransactionHandlerTestSuite) TestListTransactions_Success() {
	accountID := uuid.NewString()
	txns := []domain.Transaction{
		testTxn(accountID, "50.00", domain.Deposit),
		testTxn(accountID, "20.00", domain.Withdraw),
	}

	suite.mockTxnService.On("ListForAccount", mock.Anything, accountID).Return(txns, nil).Once()

	w := suite.performGet("/api/v1/transactions/" + accountID)

	suite.Equal(http.StatusOK, w.Code)

	var resp []dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp, 2)
	suite.mockTxnService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestListTransactions_EmptyIsNotFound() {
	accountID := uuid.NewString()

	suite.mockTxnService.On("ListForAccount", mock.Anything, accountID).
		Return(nil, services.ErrNoTransactions).Once()

	w := suite.performGet("/api/v1/transactions/" + accountID)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestListBetween_Success() {
	accountID := uuid.NewString()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)
	txns := []domain.Transaction{testTxn(accountID, "10.00", domain.Deposit)}

	suite.mockTxnService.On("ListBetween", mock.Anything, accountID, from, to).Return(txns, nil).Once()

	w := suite.performGet("/api/v1/transactions/" + accountID + "/between?from=2026-03-01T00:00:00&to=2026-03-31T23:59:59")

	suite.Equal(http.StatusOK, w.Code)
	suite.mockTxnService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestListBetween_InvalidRange() {
	accountID := uuid.NewString()

	suite.mockTxnService.On("ListBetween", mock.Anything, accountID, mock.Anything, mock.Anything).
		Return(nil, services.ErrInvalidRange).Once()

	w := suite.performGet("/api/v1/transactions/" + accountID + "/between?from=2026-03-31T00:00:00&to=2026-03-01T00:00:00")

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestListBetween_MissingParams() {
	accountID := uuid.NewString()

	w := suite.performGet("/api/v1/transactions/" + accountID + "/between")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTxnService.AssertNotCalled(suite.T(), "ListBetween", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestListByType_InvalidTypeRejectedAtBinding() {
	accountID := uuid.NewString()

	w := suite.performGet("/api/v1/transactions/" + accountID + "/type?type=REFUND")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTxnService.AssertNotCalled(suite.T(), "ListByType", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestSumForDay_Success() {
	accountID := uuid.NewString()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	suite.mockTxnService.On("SumForDay", mock.Anything, accountID, day).
		Return(decimal.RequireFromString("42.50"), nil).Once()

	w := suite.performGet("/api/v1/transactions/" + accountID + "/sum?date=2026-03-10")

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.SumResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Sum.Equal(decimal.RequireFromString("42.50")))
	suite.Equal("2026-03-10", resp.Date)
}

func (suite *TransactionHandlerTestSuite) TestCount_Success() {
	accountID := uuid.NewString()

	suite.mockTxnService.On("Count", mock.Anything, accountID).Return(int64(7), nil).Once()

	w := suite.performGet("/api/v1/transactions/" + accountID + "/count")

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.CountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(7), resp.Count)
}

func (suite *TransactionHandlerTestSuite) TestLastN_Success() {
	accountID := uuid.NewString()
	txns := []domain.Transaction{testTxn(accountID, "5.00", domain.Deposit)}

	suite.mockTxnService.On("LastN", mock.Anything, accountID, 3).Return(txns, nil).Once()

	w := suite.performGet("/api/v1/transactions/" + accountID + "/last?limit=3")

	suite.Equal(http.StatusOK, w.Code)
	suite.mockTxnService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestLastN_MissingLimitYieldsEmptyList() {
	accountID := uuid.NewString()

	suite.mockTxnService.On("LastN", mock.Anything, accountID, 0).
		Return([]domain.Transaction{}, nil).Once()

	w := suite.performGet("/api/v1/transactions/" + accountID + "/last")

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`[]`, w.Body.String())
}

func (suite *TransactionHandlerTestSuite) TestMaxByType_Success() {
	accountID := uuid.NewString()
	txn := testTxn(accountID, "900.00", domain.Withdraw)

	suite.mockTxnService.On("MaxByType", mock.Anything, accountID, domain.Withdraw).Return(&txn, nil).Once()

	w := suite.performGet("/api/v1/transactions/" + accountID + "/max?type=WITHDRAW")

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Amount.Equal(decimal.RequireFromString("900.00")))
}

func (suite *TransactionHandlerTestSuite) TestMaxByType_ValidationErrorIsBadRequest() {
	accountID := uuid.NewString()

	suite.mockTxnService.On("MaxByType", mock.Anything, accountID, domain.Withdraw).
		Return(nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, "WITHDRAW")).Once()

	w := suite.performGet("/api/v1/transactions/" + accountID + "/max?type=WITHDRAW")

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestAbove_NoMatchIsNotFound() {
	accountID := uuid.NewString()

	suite.mockTxnService.On("Above", mock.Anything, accountID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.RequireFromString("100.00"))
	})).Return(nil, services.ErrNoTransactions).Once()

	w := suite.performGet("/api/v1/transactions/" + accountID + "/above?amount=100.00")

	suite.Equal(http.StatusNotFound, w.Code)
}

// --- Run Test Suite ---

func TestTransactionHandler(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}
