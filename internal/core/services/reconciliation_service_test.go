package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/bizsuite/ledger_backend/internal/apperrors"
	"github.com/bizsuite/ledger_backend/internal/core/domain"
	portssvc "github.com/bizsuite/ledger_backend/internal/core/ports/services"
	"github.com/bizsuite/ledger_backend/internal/core/services"
	"github.com/bizsuite/ledger_backend/internal/dto"
)

type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockReconciliationRepo *MockReconciliationRepository
	mockLedgerRepo         *MockLedgerRepository
	mockAccountRepo        *MockAccountRepository
	service                portssvc.ReconciliationSvcFacade

	ctx         context.Context
	userID      string
	bankAccount domain.Account
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockReconciliationRepo = new(MockReconciliationRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewReconciliationService(suite.mockReconciliationRepo, suite.mockLedgerRepo, suite.mockAccountRepo)

	suite.ctx = context.Background()
	suite.userID = uuid.NewString()
	suite.bankAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1010",
		Name:        "Checking Account",
		AccountType: domain.Asset,
		IsActive:    true,
	}
}

func (suite *ReconciliationServiceTestSuite) openReconciliation(status domain.ReconciliationStatus) *domain.Reconciliation {
	return &domain.Reconciliation{
		ReconciliationID: uuid.NewString(),
		AccountID:        suite.bankAccount.AccountID,
		StatementDate:    time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC),
		StatementBalance: decimal.NewFromInt(500),
		ClearedBalance:   decimal.Zero,
		Difference:       decimal.NewFromInt(500),
		Status:           status,
	}
}

func (suite *ReconciliationServiceTestSuite) TestStartReconciliation_Success() {
	req := dto.StartReconciliationRequest{
		AccountID:        suite.bankAccount.AccountID,
		StatementDate:    time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC),
		StatementBalance: decimal.NewFromInt(500),
	}
	periodStart := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, suite.bankAccount.AccountID).Return(&suite.bankAccount, nil).Once()
	suite.mockReconciliationRepo.On("FindOpenReconciliation", suite.ctx, suite.bankAccount.AccountID, periodStart, periodEnd).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockReconciliationRepo.On("SaveReconciliation", suite.ctx, mock.MatchedBy(func(r domain.Reconciliation) bool {
		return r.Status == domain.ReconciliationPending && r.Difference.Equal(decimal.NewFromInt(500))
	})).Return(nil).Once()

	rec, err := suite.service.StartReconciliation(suite.ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReconciliationPending, rec.Status)
	suite.True(rec.ClearedBalance.IsZero())
	// Nothing cleared yet, so the whole statement balance is unexplained.
	suite.True(rec.Difference.Equal(decimal.NewFromInt(500)))
	suite.mockReconciliationRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestStartReconciliation_OpenSessionConflict() {
	req := dto.StartReconciliationRequest{
		AccountID:        suite.bankAccount.AccountID,
		StatementDate:    time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC),
		StatementBalance: decimal.NewFromInt(500),
	}
	open := suite.openReconciliation(domain.ReconciliationInProgress)

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, suite.bankAccount.AccountID).Return(&suite.bankAccount, nil).Once()
	suite.mockReconciliationRepo.On("FindOpenReconciliation", suite.ctx, suite.bankAccount.AccountID, mock.Anything, mock.Anything).
		Return(open, nil).Once()

	_, err := suite.service.StartReconciliation(suite.ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockReconciliationRepo.AssertNotCalled(suite.T(), "SaveReconciliation", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestStartReconciliation_InactiveAccount() {
	inactive := suite.bankAccount
	inactive.IsActive = false
	req := dto.StartReconciliationRequest{
		AccountID:        inactive.AccountID,
		StatementDate:    time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC),
		StatementBalance: decimal.NewFromInt(500),
	}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, inactive.AccountID).Return(&inactive, nil).Once()

	_, err := suite.service.StartReconciliation(suite.ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInactiveAccount)
}

func (suite *ReconciliationServiceTestSuite) TestMarkCleared_RecomputesDifference() {
	rec := suite.openReconciliation(domain.ReconciliationPending)
	lineIDs := []string{uuid.NewString(), uuid.NewString()}
	lines := []domain.LedgerLine{
		{LedgerLineID: lineIDs[0], Debit: decimal.NewFromInt(300)},
		{LedgerLineID: lineIDs[1], Debit: decimal.NewFromInt(180)},
	}

	suite.mockReconciliationRepo.On("FindReconciliationByID", suite.ctx, rec.ReconciliationID).Return(rec, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, suite.bankAccount.AccountID).Return(&suite.bankAccount, nil).Once()
	suite.mockLedgerRepo.On("FindLinesByIDs", suite.ctx, suite.bankAccount.AccountID, lineIDs).Return(lines, nil).Once()
	suite.mockReconciliationRepo.On("UpdateReconciliation", suite.ctx, mock.AnythingOfType("domain.Reconciliation"), lineIDs).Return(nil).Once()

	updated, err := suite.service.MarkCleared(suite.ctx, rec.ReconciliationID, lineIDs, suite.userID)

	suite.Require().NoError(err)
	// 480 cleared against a 500 statement leaves 20 unexplained.
	suite.True(updated.ClearedBalance.Equal(decimal.NewFromInt(480)))
	suite.True(updated.Difference.Equal(decimal.NewFromInt(20)))
	suite.Equal(domain.ReconciliationInProgress, updated.Status)
}

func (suite *ReconciliationServiceTestSuite) TestMarkCleared_ForeignLineRejected() {
	rec := suite.openReconciliation(domain.ReconciliationPending)
	lineIDs := []string{uuid.NewString(), uuid.NewString()}
	// Only one of the two requested lines belongs to the account.
	lines := []domain.LedgerLine{
		{LedgerLineID: lineIDs[0], Debit: decimal.NewFromInt(300)},
	}

	suite.mockReconciliationRepo.On("FindReconciliationByID", suite.ctx, rec.ReconciliationID).Return(rec, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, suite.bankAccount.AccountID).Return(&suite.bankAccount, nil).Once()
	suite.mockLedgerRepo.On("FindLinesByIDs", suite.ctx, suite.bankAccount.AccountID, lineIDs).Return(lines, nil).Once()

	_, err := suite.service.MarkCleared(suite.ctx, rec.ReconciliationID, lineIDs, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReconciliationRepo.AssertNotCalled(suite.T(), "UpdateReconciliation", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestMarkCleared_ClosedSessionRejected() {
	rec := suite.openReconciliation(domain.ReconciliationCompleted)

	suite.mockReconciliationRepo.On("FindReconciliationByID", suite.ctx, rec.ReconciliationID).Return(rec, nil).Once()

	_, err := suite.service.MarkCleared(suite.ctx, rec.ReconciliationID, []string{uuid.NewString()}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *ReconciliationServiceTestSuite) TestCompleteReconciliation_Success() {
	rec := suite.openReconciliation(domain.ReconciliationInProgress)
	rec.ClearedBalance = rec.StatementBalance
	rec.Difference = decimal.Zero

	suite.mockReconciliationRepo.On("FindReconciliationByID", suite.ctx, rec.ReconciliationID).Return(rec, nil).Once()
	suite.mockReconciliationRepo.On("UpdateReconciliation", suite.ctx, mock.MatchedBy(func(r domain.Reconciliation) bool {
		return r.Status == domain.ReconciliationCompleted
	}), mock.Anything).Return(nil).Once()

	completed, err := suite.service.CompleteReconciliation(suite.ctx, rec.ReconciliationID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReconciliationCompleted, completed.Status)
}

func (suite *ReconciliationServiceTestSuite) TestCompleteReconciliation_NonzeroDifference() {
	rec := suite.openReconciliation(domain.ReconciliationInProgress)
	rec.ClearedBalance = decimal.NewFromInt(480)
	rec.Difference = decimal.NewFromInt(20)

	suite.mockReconciliationRepo.On("FindReconciliationByID", suite.ctx, rec.ReconciliationID).Return(rec, nil).Once()

	_, err := suite.service.CompleteReconciliation(suite.ctx, rec.ReconciliationID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDiscrepancy)
	suite.mockReconciliationRepo.AssertNotCalled(suite.T(), "UpdateReconciliation", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestForceComplete_Success() {
	rec := suite.openReconciliation(domain.ReconciliationInProgress)
	rec.Difference = decimal.NewFromInt(20)

	suite.mockReconciliationRepo.On("FindReconciliationByID", suite.ctx, rec.ReconciliationID).Return(rec, nil).Once()
	suite.mockReconciliationRepo.On("UpdateReconciliation", suite.ctx, mock.MatchedBy(func(r domain.Reconciliation) bool {
		return r.Status == domain.ReconciliationDiscrepancy && r.Notes == "bank fee not yet recorded"
	}), mock.Anything).Return(nil).Once()

	forced, err := suite.service.ForceComplete(suite.ctx, rec.ReconciliationID, "bank fee not yet recorded", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReconciliationDiscrepancy, forced.Status)
	suite.Equal("bank fee not yet recorded", forced.Notes)
}

func (suite *ReconciliationServiceTestSuite) TestForceComplete_NotesRequired() {
	_, err := suite.service.ForceComplete(suite.ctx, uuid.NewString(), "", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReconciliationRepo.AssertNotCalled(suite.T(), "FindReconciliationByID", mock.Anything, mock.Anything)
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
