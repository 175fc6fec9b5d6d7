package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/bizsuite/ledger_backend/internal/apperrors"
	"github.com/bizsuite/ledger_backend/internal/core/domain"
	portssvc "github.com/bizsuite/ledger_backend/internal/core/ports/services"
	"github.com/bizsuite/ledger_backend/internal/core/services"
	"github.com/bizsuite/ledger_backend/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	service         portssvc.AccountSvcFacade

	ctx    context.Context
	userID string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo)
	suite.ctx = context.Background()
	suite.userID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{
		Code:        "1001",
		Name:        "Cash",
		AccountType: "ASSET",
		Category:    "Current Assets",
	}

	suite.mockAccountRepo.On("FindAccountByCode", suite.ctx, "1001").
		Return(nil, fmt.Errorf("account: %w", apperrors.ErrNotFound)).Once()
	suite.mockAccountRepo.On("SaveAccount", suite.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Code == "1001" && a.AccountType == domain.Asset && a.Level == 0 && a.IsActive && a.Balance.IsZero()
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("1001", account.Code)
	suite.Equal(domain.Asset, account.AccountType)
	suite.True(account.IsActive)
	suite.Equal(suite.userID, account.CreatedBy)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	req := dto.CreateAccountRequest{Code: "1001", Name: "Cash", AccountType: "ASSET"}

	existing := &domain.Account{AccountID: uuid.NewString(), Code: "1001", AccountType: domain.Asset}
	suite.mockAccountRepo.On("FindAccountByCode", suite.ctx, "1001").Return(existing, nil).Once()

	_, err := suite.service.CreateAccount(suite.ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UnknownType() {
	req := dto.CreateAccountRequest{Code: "9001", Name: "Mystery", AccountType: "CONTRA"}

	_, err := suite.service.CreateAccount(suite.ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_SubAccountInheritsLevel() {
	parentID := uuid.NewString()
	parent := &domain.Account{
		AccountID:   parentID,
		Code:        "1000",
		AccountType: domain.Asset,
		Level:       0,
		IsActive:    true,
	}
	req := dto.CreateAccountRequest{
		Code:            "1001",
		Name:            "Petty Cash",
		AccountType:     "ASSET",
		ParentAccountID: parentID,
	}

	suite.mockAccountRepo.On("FindAccountByCode", suite.ctx, "1001").
		Return(nil, fmt.Errorf("account: %w", apperrors.ErrNotFound)).Once()
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, parentID).Return(parent, nil).Once()
	suite.mockAccountRepo.On("SaveAccount", suite.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Level == 1 && a.ParentAccountID == parentID
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, account.Level)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentTypeMismatch() {
	parentID := uuid.NewString()
	parent := &domain.Account{
		AccountID:   parentID,
		Code:        "4000",
		AccountType: domain.Revenue,
		IsActive:    true,
	}
	req := dto.CreateAccountRequest{
		Code:            "1001",
		Name:            "Cash",
		AccountType:     "ASSET",
		ParentAccountID: parentID,
	}

	suite.mockAccountRepo.On("FindAccountByCode", suite.ctx, "1001").
		Return(nil, fmt.Errorf("account: %w", apperrors.ErrNotFound)).Once()
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, parentID).Return(parent, nil).Once()

	_, err := suite.service.CreateAccount(suite.ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InactiveParent() {
	parentID := uuid.NewString()
	parent := &domain.Account{
		AccountID:   parentID,
		Code:        "1000",
		AccountType: domain.Asset,
		IsActive:    false,
	}
	req := dto.CreateAccountRequest{
		Code:            "1001",
		Name:            "Cash",
		AccountType:     "ASSET",
		ParentAccountID: parentID,
	}

	suite.mockAccountRepo.On("FindAccountByCode", suite.ctx, "1001").
		Return(nil, fmt.Errorf("account: %w", apperrors.ErrNotFound)).Once()
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, parentID).Return(parent, nil).Once()

	_, err := suite.service.CreateAccount(suite.ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInactiveAccount)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_MutableFieldsOnly() {
	accountID := uuid.NewString()
	account := &domain.Account{
		AccountID:   accountID,
		Code:        "1001",
		Name:        "Cash",
		AccountType: domain.Asset,
		IsActive:    true,
	}

	newName := "Cash on Hand"
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, accountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("UpdateAccountDetails", suite.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == newName && a.Code == "1001"
	})).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(suite.ctx, accountID, dto.UpdateAccountRequest{Name: &newName}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(newName, updated.Name)
	suite.Equal(suite.userID, updated.LastUpdatedBy)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NoChangesSkipsWrite() {
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, Code: "1001", AccountType: domain.Asset}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, accountID).Return(account, nil).Once()

	_, err := suite.service.UpdateAccount(suite.ctx, accountID, dto.UpdateAccountRequest{}, suite.userID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccountDetails", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_Success() {
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, Code: "1001", AccountType: domain.Asset, IsActive: true}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, accountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("DeactivateAccount", suite.ctx, accountID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateAccount(suite.ctx, accountID, suite.userID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_AlreadyInactive() {
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, Code: "1001", AccountType: domain.Asset, IsActive: false}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, accountID).Return(account, nil).Once()

	err := suite.service.DeactivateAccount(suite.ctx, accountID, suite.userID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestListAccounts_UnknownTypeRejected() {
	bad := "CONTRA"
	_, err := suite.service.ListAccounts(suite.ctx, dto.ListAccountsParams{AccountType: &bad})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
