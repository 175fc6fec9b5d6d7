package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bizsuite/ledger_backend/internal/apperrors"
	"github.com/bizsuite/ledger_backend/internal/core/domain"
	portsrepo "github.com/bizsuite/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/bizsuite/ledger_backend/internal/core/ports/services"
	"github.com/bizsuite/ledger_backend/internal/dto"
	"github.com/bizsuite/ledger_backend/internal/utils/accounting"
	"github.com/bizsuite/ledger_backend/internal/utils/fiscal"
)

// journalService manages the journal entry lifecycle. Drafts are freely editable and may
// be unbalanced; posting enforces the balance invariant and delegates the atomic ledger
// append to the repository, which runs it in a single database transaction.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	calendar    fiscal.Calendar
	amountScale int32
}

// NewJournalService creates a new journal service.
func NewJournalService(
	journalRepo portsrepo.JournalRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	calendar fiscal.Calendar,
	amountScale int32,
) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		calendar:    calendar,
		amountScale: amountScale,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// buildLines validates request lines and converts them into domain lines. Every
// referenced account must exist and be active.
func (s *journalService) buildLines(ctx context.Context, entryID string, reqLines []dto.JournalLineRequest, userID string, now time.Time) ([]domain.JournalLine, error) {
	accountIDs := make([]string, 0, len(reqLines))
	seen := make(map[string]struct{}, len(reqLines))
	for _, l := range reqLines {
		if _, ok := seen[l.AccountID]; !ok {
			seen[l.AccountID] = struct{}{}
			accountIDs = append(accountIDs, l.AccountID)
		}
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for lines: %w", err)
	}

	lines := make([]domain.JournalLine, 0, len(reqLines))
	for i, l := range reqLines {
		account, found := accounts[l.AccountID]
		if !found {
			return nil, fmt.Errorf("%w: account %s not found for line %d", apperrors.ErrValidation, l.AccountID, i)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: account %s (line %d)", apperrors.ErrInactiveAccount, account.Code, i)
		}
		if err := accounting.LineAmounts(l.Debit, l.Credit, s.amountScale); err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", apperrors.ErrValidation, i, err.Error())
		}
		lines = append(lines, domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountID:   l.AccountID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
			Position:    i,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		})
	}
	return lines, nil
}

// CreateDraft creates a mutable draft entry. Balance is not enforced here so callers can
// build entries incrementally; it is enforced at posting.
func (s *journalService) CreateDraft(ctx context.Context, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := s.GetLogger(ctx)

	now := time.Now().UTC()
	entryID := uuid.NewString()

	lines, err := s.buildLines(ctx, entryID, req.Lines, creatorUserID, now)
	if err != nil {
		return nil, err
	}

	totalDebit, totalCredit := accounting.Totals(lines)
	entry := domain.JournalEntry{
		EntryID:     entryID,
		EntryDate:   req.Date,
		Reference:   req.Reference,
		Memo:        req.Memo,
		Status:      domain.Draft,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	entryNumber, err := s.journalRepo.SaveDraftEntry(ctx, entry, lines)
	if err != nil {
		logger.Error("Failed to save draft entry", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save draft entry: %w", err)
	}
	entry.EntryNumber = entryNumber
	entry.Lines = lines

	logger.Info("Draft entry created", slog.String("entry_id", entryID), slog.String("entry_number", entryNumber))
	return &entry, nil
}

// GetEntryByID retrieves an entry with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID))
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load entry lines", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to load lines for entry %s: %w", entryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves a paginated list of entries, optionally filtered by status.
func (s *journalService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	var status *domain.EntryStatus
	if params.Status != nil {
		st := domain.EntryStatus(*params.Status)
		switch st {
		case domain.Draft, domain.Posted, domain.Void:
			status = &st
		default:
			return nil, fmt.Errorf("%w: unknown entry status %q", apperrors.ErrValidation, *params.Status)
		}
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	entries, nextToken, err := s.journalRepo.ListEntries(ctx, status, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries")
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	resp := &dto.ListJournalEntriesResponse{
		Entries:   make([]dto.JournalEntryResponse, 0, len(entries)),
		NextToken: nextToken,
	}
	for i := range entries {
		if params.IncludeLines {
			lines, err := s.journalRepo.FindLinesByEntryID(ctx, entries[i].EntryID)
			if err != nil {
				return nil, fmt.Errorf("failed to load lines for entry %s: %w", entries[i].EntryID, err)
			}
			entries[i].Lines = lines
		}
		resp.Entries = append(resp.Entries, dto.ToJournalEntryResponse(&entries[i]))
	}
	return resp, nil
}

// UpdateDraft replaces the mutable parts of a draft entry. Posted and void entries are
// rejected with ErrInvalidState.
func (s *journalService) UpdateDraft(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := s.GetLogger(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: entry %s is %s", apperrors.ErrInvalidState, entryID, entry.Status)
	}

	now := time.Now().UTC()
	if req.Date != nil {
		entry.EntryDate = *req.Date
	}
	if req.Reference != nil {
		entry.Reference = *req.Reference
	}
	if req.Memo != nil {
		entry.Memo = *req.Memo
	}

	var lines []domain.JournalLine
	if req.Lines != nil {
		if len(req.Lines) == 0 {
			return nil, fmt.Errorf("%w: line replacement requires at least one line", apperrors.ErrValidation)
		}
		lines, err = s.buildLines(ctx, entryID, req.Lines, userID, now)
		if err != nil {
			return nil, err
		}
		entry.TotalDebit, entry.TotalCredit = accounting.Totals(lines)
	} else {
		lines, err = s.journalRepo.FindLinesByEntryID(ctx, entryID)
		if err != nil {
			return nil, fmt.Errorf("failed to load lines for entry %s: %w", entryID, err)
		}
	}

	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	if err := s.journalRepo.UpdateDraftEntry(ctx, *entry, lines); err != nil {
		logger.Error("Failed to update draft entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to update draft entry: %w", err)
	}
	entry.Lines = lines

	logger.Info("Draft entry updated", slog.String("entry_id", entryID))
	return entry, nil
}

// PostEntry validates the full posting preconditions and delegates the atomic ledger
// append to the repository. On any failure nothing is written and the entry stays a
// draft. Posting the same entry twice fails with ErrInvalidState, never double-posts.
func (s *journalService) PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	logger := s.GetLogger(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: entry %s is %s", apperrors.ErrInvalidState, entryID, entry.Status)
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for entry %s: %w", entryID, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: entry %s", apperrors.ErrEmptyEntry, entryID)
	}
	if err := accounting.ValidateEntryBalance(lines); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnbalanced, err.Error())
	}

	// Accounts may have been deactivated since the draft was created; posting to an
	// inactive account is rejected.
	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountID]; !ok {
			seen[l.AccountID] = struct{}{}
			accountIDs = append(accountIDs, l.AccountID)
		}
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for posting: %w", err)
	}
	for _, id := range accountIDs {
		account, found := accounts[id]
		if !found {
			return nil, fmt.Errorf("%w: account %s no longer exists", apperrors.ErrValidation, id)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrInactiveAccount, account.Code)
		}
	}

	now := time.Now().UTC()
	fiscalYear, period := s.calendar.Derive(entry.EntryDate)
	meta := portsrepo.PostingMeta{
		PostedBy:   userID,
		PostedAt:   now,
		FiscalYear: fiscalYear,
		Period:     period,
	}

	posted, err := s.journalRepo.PostEntry(ctx, entryID, meta)
	if err != nil {
		logger.Error("Failed to post entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to post entry %s: %w", entryID, err)
	}
	posted.Lines = lines

	logger.Info("Entry posted",
		slog.String("entry_id", entryID),
		slog.String("entry_number", posted.EntryNumber),
		slog.Int("fiscal_year", fiscalYear),
		slog.Int("period", period))
	return posted, nil
}

// VoidEntry abandons a draft entry. Void entries never touch the ledger.
func (s *journalService) VoidEntry(ctx context.Context, entryID string, userID string) error {
	logger := s.GetLogger(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	if entry.Status != domain.Draft {
		return fmt.Errorf("%w: entry %s is %s", apperrors.ErrInvalidState, entryID, entry.Status)
	}

	if err := s.journalRepo.VoidEntry(ctx, entryID, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to void entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return fmt.Errorf("failed to void entry %s: %w", entryID, err)
	}

	logger.Info("Entry voided", slog.String("entry_id", entryID))
	return nil
}

// ReverseEntry builds a mirror-image entry (debits and credits swapped, line order
// preserved) and posts it in one transaction, linking it to the original. The original
// stays POSTED; an entry can only be reversed once.
func (s *journalService) ReverseEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	logger := s.GetLogger(ctx)

	original, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: only posted entries can be reversed, entry %s is %s", apperrors.ErrInvalidState, entryID, original.Status)
	}
	if original.ReversingEntryID != nil {
		return nil, fmt.Errorf("%w: entry %s was already reversed by %s", apperrors.ErrConflict, entryID, *original.ReversingEntryID)
	}

	originalLines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for entry %s: %w", entryID, err)
	}

	now := time.Now().UTC()
	reversalID := uuid.NewString()
	lines := make([]domain.JournalLine, len(originalLines))
	for i, l := range originalLines {
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     reversalID,
			AccountID:   l.AccountID,
			Debit:       l.Credit,
			Credit:      l.Debit,
			Description: l.Description,
			Position:    l.Position,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}

	totalDebit, totalCredit := accounting.Totals(lines)
	reversal := domain.JournalEntry{
		EntryID:         reversalID,
		EntryDate:       now,
		Reference:       original.Reference,
		Memo:            fmt.Sprintf("Reversal of %s", original.EntryNumber),
		Status:          domain.Draft,
		TotalDebit:      totalDebit,
		TotalCredit:     totalCredit,
		OriginalEntryID: &original.EntryID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	fiscalYear, period := s.calendar.Derive(reversal.EntryDate)
	meta := portsrepo.PostingMeta{
		PostedBy:   userID,
		PostedAt:   now,
		FiscalYear: fiscalYear,
		Period:     period,
	}

	posted, err := s.journalRepo.SaveAndPostEntry(ctx, reversal, lines, meta)
	if err != nil {
		logger.Error("Failed to reverse entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to reverse entry %s: %w", entryID, err)
	}
	posted.Lines = lines

	logger.Info("Entry reversed",
		slog.String("original_entry_id", entryID),
		slog.String("reversing_entry_id", posted.EntryID),
		slog.String("entry_number", posted.EntryNumber))
	return posted, nil
}
