package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/bizsuite/ledger_backend/internal/apperrors"
	"github.com/bizsuite/ledger_backend/internal/core/domain"
	portsrepo "github.com/bizsuite/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/bizsuite/ledger_backend/internal/core/ports/services"
	"github.com/bizsuite/ledger_backend/internal/core/services"
	"github.com/bizsuite/ledger_backend/internal/dto"
	"github.com/bizsuite/ledger_backend/internal/utils/fiscal"
)

type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.JournalSvcFacade

	ctx    context.Context
	userID string

	cashAccount    domain.Account
	revenueAccount domain.Account
	expenseAccount domain.Account
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)

	calendar, err := fiscal.NewCalendar(1)
	suite.Require().NoError(err)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountRepo, calendar, 2)

	suite.ctx = context.Background()
	suite.userID = uuid.NewString()

	suite.cashAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1001",
		Name:        "Cash",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "4001",
		Name:        "Sales Revenue",
		AccountType: domain.Revenue,
		IsActive:    true,
	}
	suite.expenseAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "5001",
		Name:        "Office Supplies",
		AccountType: domain.Expense,
		IsActive:    true,
	}
}

func (suite *JournalServiceTestSuite) accountsMap(accounts ...domain.Account) map[string]domain.Account {
	m := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		m[a.AccountID] = a
	}
	return m
}

func (suite *JournalServiceTestSuite) TestCreateDraft_Success() {
	req := dto.CreateJournalEntryRequest{
		Date: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Memo: "March sales",
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(100)},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, []string{suite.cashAccount.AccountID, suite.revenueAccount.AccountID}).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockJournalRepo.On("SaveDraftEntry", suite.ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).
		Return("JE-000042", nil).Once()

	entry, err := suite.service.CreateDraft(suite.ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Draft, entry.Status)
	suite.Equal("JE-000042", entry.EntryNumber)
	suite.True(entry.TotalDebit.Equal(decimal.NewFromInt(100)))
	suite.True(entry.TotalCredit.Equal(decimal.NewFromInt(100)))
	suite.Len(entry.Lines, 2)
	suite.Equal(0, entry.Lines[0].Position)
	suite.Equal(1, entry.Lines[1].Position)
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateDraft_UnbalancedAllowed() {
	// Drafts may be unbalanced; the invariant is enforced at posting time.
	req := dto.CreateJournalEntryRequest{
		Date: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(75)},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, []string{suite.cashAccount.AccountID}).
		Return(suite.accountsMap(suite.cashAccount), nil).Once()
	suite.mockJournalRepo.On("SaveDraftEntry", suite.ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).
		Return("JE-000043", nil).Once()

	entry, err := suite.service.CreateDraft(suite.ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(entry.TotalDebit.Equal(decimal.NewFromInt(75)))
	suite.True(entry.TotalCredit.IsZero())
}

func (suite *JournalServiceTestSuite) TestCreateDraft_InactiveAccount() {
	inactive := suite.expenseAccount
	inactive.IsActive = false

	req := dto.CreateJournalEntryRequest{
		Date: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Lines: []dto.JournalLineRequest{
			{AccountID: inactive.AccountID, Debit: decimal.NewFromInt(50)},
			{AccountID: suite.cashAccount.AccountID, Credit: decimal.NewFromInt(50)},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, mock.Anything).
		Return(suite.accountsMap(inactive, suite.cashAccount), nil).Once()

	_, err := suite.service.CreateDraft(suite.ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInactiveAccount)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveDraftEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateDraft_BothSidesPositive() {
	req := dto.CreateJournalEntryRequest{
		Date: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(10), Credit: decimal.NewFromInt(10)},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount), nil).Once()

	_, err := suite.service.CreateDraft(suite.ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestCreateDraft_UnknownAccount() {
	unknownID := uuid.NewString()
	req := dto.CreateJournalEntryRequest{
		Date: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Lines: []dto.JournalLineRequest{
			{AccountID: unknownID, Debit: decimal.NewFromInt(10)},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, []string{unknownID}).
		Return(map[string]domain.Account{}, nil).Once()

	_, err := suite.service.CreateDraft(suite.ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestUpdateDraft_PostedEntryRejected() {
	entryID := uuid.NewString()
	posted := &domain.JournalEntry{EntryID: entryID, Status: domain.Posted}

	suite.mockJournalRepo.On("FindEntryByID", suite.ctx, entryID).Return(posted, nil).Once()

	newMemo := "amended"
	_, err := suite.service.UpdateDraft(suite.ctx, entryID, dto.UpdateJournalEntryRequest{Memo: &newMemo}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "UpdateDraftEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestUpdateDraft_EmptyLineReplacementRejected() {
	entryID := uuid.NewString()
	draft := &domain.JournalEntry{EntryID: entryID, Status: domain.Draft}

	suite.mockJournalRepo.On("FindEntryByID", suite.ctx, entryID).Return(draft, nil).Once()

	_, err := suite.service.UpdateDraft(suite.ctx, entryID, dto.UpdateJournalEntryRequest{Lines: []dto.JournalLineRequest{}}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) postableEntry() (*domain.JournalEntry, []domain.JournalLine) {
	entryID := uuid.NewString()
	entry := &domain.JournalEntry{
		EntryID:     entryID,
		EntryNumber: "JE-000050",
		EntryDate:   time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
		Status:      domain.Draft,
		TotalDebit:  decimal.NewFromInt(200),
		TotalCredit: decimal.NewFromInt(200),
	}
	lines := []domain.JournalLine{
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(200), Position: 0},
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(200), Position: 1},
	}
	return entry, lines
}

func (suite *JournalServiceTestSuite) TestPostEntry_Success() {
	entry, lines := suite.postableEntry()

	suite.mockJournalRepo.On("FindEntryByID", suite.ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", suite.ctx, entry.EntryID).Return(lines, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()

	postedAt := time.Now().UTC()
	posted := *entry
	posted.Status = domain.Posted
	posted.PostedAt = &postedAt
	posted.PostedBy = &suite.userID
	suite.mockJournalRepo.On("PostEntry", suite.ctx, entry.EntryID, mock.MatchedBy(func(meta portsrepo.PostingMeta) bool {
		// Entry date 2025-04-10 with a January-start fiscal year lands in FY2025 period 4.
		return meta.FiscalYear == 2025 && meta.Period == 4 && meta.PostedBy == suite.userID
	})).Return(&posted, nil).Once()

	result, err := suite.service.PostEntry(suite.ctx, entry.EntryID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, result.Status)
	suite.Require().NotNil(result.PostedBy)
	suite.Equal(suite.userID, *result.PostedBy)
	suite.Len(result.Lines, 2)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostEntry_AlreadyPosted() {
	entry, _ := suite.postableEntry()
	entry.Status = domain.Posted

	suite.mockJournalRepo.On("FindEntryByID", suite.ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.PostEntry(suite.ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_Unbalanced() {
	entry, lines := suite.postableEntry()
	lines[1].Credit = decimal.NewFromInt(150)

	suite.mockJournalRepo.On("FindEntryByID", suite.ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", suite.ctx, entry.EntryID).Return(lines, nil).Once()

	_, err := suite.service.PostEntry(suite.ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalanced)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_EmptyEntry() {
	entry, _ := suite.postableEntry()

	suite.mockJournalRepo.On("FindEntryByID", suite.ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", suite.ctx, entry.EntryID).Return([]domain.JournalLine{}, nil).Once()

	_, err := suite.service.PostEntry(suite.ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrEmptyEntry)
}

func (suite *JournalServiceTestSuite) TestPostEntry_AccountDeactivatedAfterDraft() {
	entry, lines := suite.postableEntry()
	deactivated := suite.revenueAccount
	deactivated.IsActive = false

	suite.mockJournalRepo.On("FindEntryByID", suite.ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", suite.ctx, entry.EntryID).Return(lines, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, deactivated), nil).Once()

	_, err := suite.service.PostEntry(suite.ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInactiveAccount)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_ConcurrentCallsPostOnce() {
	// Many callers race to post the same draft; the repository's conditional status flip
	// lets exactly one through and the rest surface ErrInvalidState.
	entry, lines := suite.postableEntry()

	suite.mockJournalRepo.On("FindEntryByID", suite.ctx, entry.EntryID).Return(entry, nil)
	suite.mockJournalRepo.On("FindLinesByEntryID", suite.ctx, entry.EntryID).Return(lines, nil)
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, mock.Anything).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil)

	posted := *entry
	posted.Status = domain.Posted
	suite.mockJournalRepo.On("PostEntry", suite.ctx, entry.EntryID, mock.AnythingOfType("repositories.PostingMeta")).
		Return(&posted, nil).Once()
	suite.mockJournalRepo.On("PostEntry", suite.ctx, entry.EntryID, mock.AnythingOfType("repositories.PostingMeta")).
		Return(nil, fmt.Errorf("%w: entry %s is %s", apperrors.ErrInvalidState, entry.EntryID, domain.Posted))

	const callers = 8
	results := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.service.PostEntry(suite.ctx, entry.EntryID, suite.userID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		} else {
			suite.ErrorIs(err, apperrors.ErrInvalidState)
		}
	}
	suite.Equal(1, successes, "exactly one caller should win the post")
}

func (suite *JournalServiceTestSuite) TestVoidEntry_Success() {
	entry, _ := suite.postableEntry()

	suite.mockJournalRepo.On("FindEntryByID", suite.ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("VoidEntry", suite.ctx, entry.EntryID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.VoidEntry(suite.ctx, entry.EntryID, suite.userID)

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestVoidEntry_PostedEntryRejected() {
	entry, _ := suite.postableEntry()
	entry.Status = domain.Posted

	suite.mockJournalRepo.On("FindEntryByID", suite.ctx, entry.EntryID).Return(entry, nil).Once()

	err := suite.service.VoidEntry(suite.ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_Success() {
	entry, lines := suite.postableEntry()
	entry.Status = domain.Posted

	suite.mockJournalRepo.On("FindEntryByID", suite.ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", suite.ctx, entry.EntryID).Return(lines, nil).Once()

	var capturedEntry domain.JournalEntry
	var capturedLines []domain.JournalLine
	suite.mockJournalRepo.On("SaveAndPostEntry", suite.ctx,
		mock.MatchedBy(func(e domain.JournalEntry) bool {
			capturedEntry = e
			return e.OriginalEntryID != nil && *e.OriginalEntryID == entry.EntryID
		}),
		mock.MatchedBy(func(ls []domain.JournalLine) bool {
			capturedLines = ls
			return len(ls) == len(lines)
		}),
		mock.AnythingOfType("repositories.PostingMeta"),
	).Return(&domain.JournalEntry{
		EntryID:         uuid.NewString(),
		EntryNumber:     "JE-000051",
		Status:          domain.Posted,
		OriginalEntryID: &entry.EntryID,
	}, nil).Once()

	reversal, err := suite.service.ReverseEntry(suite.ctx, entry.EntryID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, reversal.Status)
	suite.True(reversal.IsReversal())

	// Debits and credits are swapped line for line, positions preserved.
	suite.Require().Len(capturedLines, 2)
	suite.True(capturedLines[0].Credit.Equal(lines[0].Debit))
	suite.True(capturedLines[0].Debit.Equal(lines[0].Credit))
	suite.True(capturedLines[1].Debit.Equal(lines[1].Credit))
	suite.Equal(lines[0].Position, capturedLines[0].Position)
	suite.Equal(lines[1].Position, capturedLines[1].Position)
	suite.Equal("Reversal of JE-000050", capturedEntry.Memo)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverseEntry_AlreadyReversed() {
	entry, _ := suite.postableEntry()
	entry.Status = domain.Posted
	reversingID := uuid.NewString()
	entry.ReversingEntryID = &reversingID

	suite.mockJournalRepo.On("FindEntryByID", suite.ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.ReverseEntry(suite.ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveAndPostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_DraftRejected() {
	entry, _ := suite.postableEntry()

	suite.mockJournalRepo.On("FindEntryByID", suite.ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.ReverseEntry(suite.ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *JournalServiceTestSuite) TestListEntries_UnknownStatus() {
	bad := "PENDING"
	_, err := suite.service.ListEntries(suite.ctx, dto.ListJournalEntriesParams{Status: &bad})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
