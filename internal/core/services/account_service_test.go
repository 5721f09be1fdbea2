package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/minibank2/minibank_api/internal/apperrors"
	"github.com/minibank2/minibank_api/internal/core/domain"
	portssvc "github.com/minibank2/minibank_api/internal/core/ports/services"
	"github.com/minibank2/minibank_api/internal/core/services"
	"github.com/minibank2/minibank_api/internal/dto"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByOwner(ctx context.Context, owner string) ([]domain.Account, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindTopByBalance(ctx context.Context) (*domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindTopByBalanceInCurrency(ctx context.Context, currencyCode string) (*domain.Account, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindTopNByBalance(ctx context.Context, n int) ([]domain.Account, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindWithBalanceGreaterThan(ctx context.Context, amount decimal.Decimal) ([]domain.Account, error) {
	args := m.Called(ctx, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindCreatedAfter(ctx context.Context, date time.Time) ([]domain.Account, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindCreatedBefore(ctx context.Context, date time.Time) ([]domain.Account, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindOldest(ctx context.Context) (*domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) CountByCurrency(ctx context.Context, currencyCode string) (int64, error) {
	args := m.Called(ctx, currencyCode)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) FindTopByStatusOrderByBalance(ctx context.Context, status domain.AccountStatus) (*domain.Account, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, now)
	return args.Error(0)
}

// MockTransactionRecorder is a mock type for the TransactionRecorderSvc interface
type MockTransactionRecorder struct {
	mock.Mock
}

func (m *MockTransactionRecorder) RecordDeposit(ctx context.Context, accountID string, amount decimal.Decimal) error {
	args := m.Called(ctx, accountID, amount)
	return args.Error(0)
}

func (m *MockTransactionRecorder) RecordWithdraw(ctx context.Context, accountID string, amount decimal.Decimal) error {
	args := m.Called(ctx, accountID, amount)
	return args.Error(0)
}

func (m *MockTransactionRecorder) RecordTransfer(ctx context.Context, senderID, receiverID string, amount decimal.Decimal) error {
	args := m.Called(ctx, senderID, receiverID, amount)
	return args.Error(0)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo     *MockAccountRepository
	mockRecorder *MockTransactionRecorder
	service      portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.mockRecorder = new(MockTransactionRecorder)
	suite.service = services.NewAccountService(suite.mockRepo, suite.mockRecorder)
}

func activeAccount(id string, balance string) *domain.Account {
	now := time.Now().UTC()
	return &domain.Account{
		AccountID:     id,
		Owner:         "Test Owner",
		Number:        "ACC-DEADBEEF",
		CurrencyCode:  "USD",
		Balance:       decimal.RequireFromString(balance),
		Status:        domain.StatusActive,
		AccountType:   domain.Checking,
		InterestRate:  decimal.Zero,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}
}

// --- Ledger operations ---

func (suite *AccountServiceTestSuite) TestDeposit_Success() {
	ctx := context.Background()
	testID := uuid.NewString()
	amount := decimal.RequireFromString("50.00")

	before := activeAccount(testID, "100.00")
	after := activeAccount(testID, "150.00")

	suite.mockRepo.On("FindAccountByID", ctx, testID).Return(before, nil).Once()
	suite.mockRecorder.On("RecordDeposit", ctx, testID, amount).Return(nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, testID).Return(after, nil).Once()

	account, err := suite.service.Deposit(ctx, testID, amount)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.True(account.Balance.Equal(decimal.RequireFromString("150.00")))

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockRecorder.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeposit_RoundsToTwoDecimals() {
	ctx := context.Background()
	testID := uuid.NewString()

	before := activeAccount(testID, "0.00")
	rounded := decimal.RequireFromString("10.56")

	suite.mockRepo.On("FindAccountByID", ctx, testID).Return(before, nil).Twice()
	suite.mockRecorder.On("RecordDeposit", ctx, testID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(rounded)
	})).Return(nil).Once()

	_, err := suite.service.Deposit(ctx, testID, decimal.RequireFromString("10.555"))

	suite.Require().NoError(err)
	suite.mockRecorder.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeposit_SubCentRoundsToZeroAndIsRejected() {
	ctx := context.Background()

	// 0.004 is positive but rounds to 0.00; it must never reach the journal.
	account, err := suite.service.Deposit(ctx, uuid.NewString(), decimal.RequireFromString("0.004"))

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, services.ErrInvalidAmount)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindAccountByID", mock.Anything, mock.Anything)
	suite.mockRecorder.AssertNotCalled(suite.T(), "RecordDeposit", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestWithdraw_SubCentRoundsToZeroAndIsRejected() {
	ctx := context.Background()

	account, err := suite.service.Withdraw(ctx, uuid.NewString(), decimal.RequireFromString("0.004"))

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, services.ErrInvalidAmount)
	suite.mockRecorder.AssertNotCalled(suite.T(), "RecordWithdraw", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestTransfer_SubCentRoundsToZeroAndIsRejected() {
	ctx := context.Background()

	err := suite.service.Transfer(ctx, uuid.NewString(), uuid.NewString(), decimal.RequireFromString("0.004"))

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidAmount)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindAccountByID", mock.Anything, mock.Anything)
	suite.mockRecorder.AssertNotCalled(suite.T(), "RecordTransfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeposit_InvalidAmount() {
	ctx := context.Background()

	for _, raw := range []string{"0", "-5.00"} {
		account, err := suite.service.Deposit(ctx, uuid.NewString(), decimal.RequireFromString(raw))

		suite.Require().Error(err)
		suite.Nil(account)
		suite.ErrorIs(err, services.ErrInvalidAmount)
	}

	suite.mockRepo.AssertNotCalled(suite.T(), "FindAccountByID", mock.Anything, mock.Anything)
	suite.mockRecorder.AssertNotCalled(suite.T(), "RecordDeposit", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeposit_AccountNotFound() {
	ctx := context.Background()
	testID := uuid.NewString()

	suite.mockRepo.On("FindAccountByID", ctx, testID).Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.Deposit(ctx, testID, decimal.RequireFromString("10.00"))

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRecorder.AssertNotCalled(suite.T(), "RecordDeposit", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestWithdraw_Success() {
	ctx := context.Background()
	testID := uuid.NewString()
	amount := decimal.RequireFromString("40.00")

	before := activeAccount(testID, "100.00")
	after := activeAccount(testID, "60.00")

	suite.mockRepo.On("FindAccountByID", ctx, testID).Return(before, nil).Once()
	suite.mockRecorder.On("RecordWithdraw", ctx, testID, amount).Return(nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, testID).Return(after, nil).Once()

	account, err := suite.service.Withdraw(ctx, testID, amount)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.True(account.Balance.Equal(decimal.RequireFromString("60.00")))

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockRecorder.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestWithdraw_InsufficientFunds() {
	ctx := context.Background()
	testID := uuid.NewString()

	before := activeAccount(testID, "30.00")

	suite.mockRepo.On("FindAccountByID", ctx, testID).Return(before, nil).Once()

	account, err := suite.service.Withdraw(ctx, testID, decimal.RequireFromString("30.01"))

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.mockRecorder.AssertNotCalled(suite.T(), "RecordWithdraw", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestWithdraw_ExactBalance() {
	ctx := context.Background()
	testID := uuid.NewString()
	amount := decimal.RequireFromString("30.00")

	before := activeAccount(testID, "30.00")
	after := activeAccount(testID, "0.00")

	suite.mockRepo.On("FindAccountByID", ctx, testID).Return(before, nil).Once()
	suite.mockRecorder.On("RecordWithdraw", ctx, testID, amount).Return(nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, testID).Return(after, nil).Once()

	account, err := suite.service.Withdraw(ctx, testID, amount)

	suite.Require().NoError(err)
	suite.True(account.Balance.IsZero())
}

func (suite *AccountServiceTestSuite) TestTransfer_Success() {
	ctx := context.Background()
	senderID := uuid.NewString()
	receiverID := uuid.NewString()
	amount := decimal.RequireFromString("25.00")

	suite.mockRepo.On("FindAccountByID", ctx, senderID).Return(activeAccount(senderID, "100.00"), nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, receiverID).Return(activeAccount(receiverID, "0.00"), nil).Once()
	suite.mockRecorder.On("RecordTransfer", ctx, senderID, receiverID, amount).Return(nil).Once()

	err := suite.service.Transfer(ctx, senderID, receiverID, amount)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockRecorder.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestTransfer_SameAccount() {
	ctx := context.Background()
	testID := uuid.NewString()

	// The same-account check fires before amount validation and before any lookup.
	err := suite.service.Transfer(ctx, testID, testID, decimal.RequireFromString("-1.00"))

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrSameAccountTransfer)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindAccountByID", mock.Anything, mock.Anything)
	suite.mockRecorder.AssertNotCalled(suite.T(), "RecordTransfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestTransfer_InvalidAmount() {
	ctx := context.Background()

	err := suite.service.Transfer(ctx, uuid.NewString(), uuid.NewString(), decimal.Zero)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidAmount)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindAccountByID", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestTransfer_InsufficientFunds() {
	ctx := context.Background()
	senderID := uuid.NewString()
	receiverID := uuid.NewString()

	suite.mockRepo.On("FindAccountByID", ctx, senderID).Return(activeAccount(senderID, "10.00"), nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, receiverID).Return(activeAccount(receiverID, "0.00"), nil).Once()

	err := suite.service.Transfer(ctx, senderID, receiverID, decimal.RequireFromString("10.01"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.mockRecorder.AssertNotCalled(suite.T(), "RecordTransfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestTransfer_ReceiverNotFound() {
	ctx := context.Background()
	senderID := uuid.NewString()
	receiverID := uuid.NewString()

	suite.mockRepo.On("FindAccountByID", ctx, senderID).Return(activeAccount(senderID, "100.00"), nil).Once()
	suite.mockRepo.On("FindAccountByID", ctx, receiverID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.Transfer(ctx, senderID, receiverID, decimal.RequireFromString("10.00"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRecorder.AssertNotCalled(suite.T(), "RecordTransfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Administrative CRUD ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Checking() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Owner:        "New Owner",
		CurrencyCode: "USD",
		AccountType:  domain.Checking,
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.NotEmpty(account.AccountID)
	suite.True(strings.HasPrefix(account.Number, "ACC-"))
	suite.Len(account.Number, 12)
	suite.Equal(domain.StatusActive, account.Status)
	suite.True(account.Balance.IsZero())
	suite.True(account.InterestRate.IsZero())
	suite.WithinDuration(time.Now(), account.CreatedAt, time.Second)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_SavingsGetsInterestRate() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Owner:        "Saver",
		CurrencyCode: "EUR",
		AccountType:  domain.Savings,
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req)

	suite.Require().NoError(err)
	suite.True(account.InterestRate.Equal(decimal.RequireFromString("0.02")))
}

func (suite *AccountServiceTestSuite) TestCreateAccount_SaveError() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Owner:        "Will Fail",
		CurrencyCode: "USD",
		AccountType:  domain.Checking,
	}

	expectedErr := assert.AnError
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(expectedErr).Once()

	account, err := suite.service.CreateAccount(ctx, req)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, expectedErr)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_OwnerAndStatus() {
	ctx := context.Background()
	testID := uuid.NewString()
	existing := activeAccount(testID, "10.00")
	blocked := domain.StatusBlocked

	req := dto.UpdateAccountRequest{Owner: "Renamed Owner", Status: &blocked}

	suite.mockRepo.On("FindAccountByID", ctx, testID).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Owner == "Renamed Owner" && a.Status == domain.StatusBlocked
	})).Return(nil).Once()

	account, err := suite.service.UpdateAccount(ctx, testID, req)

	suite.Require().NoError(err)
	suite.Equal("Renamed Owner", account.Owner)
	suite.Equal(domain.StatusBlocked, account.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_StatusOmitted() {
	ctx := context.Background()
	testID := uuid.NewString()
	existing := activeAccount(testID, "10.00")

	req := dto.UpdateAccountRequest{Owner: "Renamed Owner"}

	suite.mockRepo.On("FindAccountByID", ctx, testID).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Status == domain.StatusActive
	})).Return(nil).Once()

	account, err := suite.service.UpdateAccount(ctx, testID, req)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusActive, account.Status)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_ReturnsFinalSnapshot() {
	ctx := context.Background()
	testID := uuid.NewString()
	existing := activeAccount(testID, "55.00")

	suite.mockRepo.On("FindAccountByID", ctx, testID).Return(existing, nil).Once()
	suite.mockRepo.On("DeleteAccount", ctx, testID).Return(nil).Once()

	account, err := suite.service.DeleteAccount(ctx, testID)

	suite.Require().NoError(err)
	suite.True(account.Balance.Equal(decimal.RequireFromString("55.00")))
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Queries ---

func (suite *AccountServiceTestSuite) TestGetAccountsByOwner_NoneIsNotFound() {
	ctx := context.Background()

	suite.mockRepo.On("FindAccountsByOwner", ctx, "ghost").Return([]domain.Account{}, nil).Once()

	accounts, err := suite.service.GetAccountsByOwner(ctx, "ghost")

	suite.Require().Error(err)
	suite.Nil(accounts)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestGetTop3ByBalance_EmptyIsNotFound() {
	ctx := context.Background()

	suite.mockRepo.On("FindTopNByBalance", ctx, 3).Return([]domain.Account{}, nil).Once()

	accounts, err := suite.service.GetTop3ByBalance(ctx)

	suite.Require().Error(err)
	suite.Nil(accounts)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Run Test Suite ---

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
