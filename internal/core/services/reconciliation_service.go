package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bizsuite/ledger_backend/internal/apperrors"
	"github.com/bizsuite/ledger_backend/internal/core/domain"
	portsrepo "github.com/bizsuite/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/bizsuite/ledger_backend/internal/core/ports/services"
	"github.com/bizsuite/ledger_backend/internal/dto"
	"github.com/bizsuite/ledger_backend/internal/utils/accounting"
)

// reconciliationService matches statement balances against cleared ledger lines. It only
// ever reads ledger lines; clearance state lives in the reconciliation tables.
type reconciliationService struct {
	BaseService
	reconciliationRepo portsrepo.ReconciliationRepositoryFacade
	ledgerRepo         portsrepo.LedgerReader
	accountRepo        portsrepo.AccountReader
}

// NewReconciliationService creates a new reconciliation service.
func NewReconciliationService(
	reconciliationRepo portsrepo.ReconciliationRepositoryFacade,
	ledgerRepo portsrepo.LedgerReader,
	accountRepo portsrepo.AccountReader,
) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		reconciliationRepo: reconciliationRepo,
		ledgerRepo:         ledgerRepo,
		accountRepo:        accountRepo,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// StartReconciliation opens a pending session for the statement month. Only one
// uncompleted session may exist per account/period.
func (s *reconciliationService) StartReconciliation(ctx context.Context, req dto.StartReconciliationRequest, creatorUserID string) (*domain.Reconciliation, error) {
	logger := s.GetLogger(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", req.AccountID, err)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrInactiveAccount, account.Code)
	}

	periodStart := time.Date(req.StatementDate.Year(), req.StatementDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, 0)
	open, err := s.reconciliationRepo.FindOpenReconciliation(ctx, req.AccountID, periodStart, periodEnd)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check for open reconciliation", slog.String("account_id", req.AccountID))
		return nil, fmt.Errorf("failed to check for open reconciliation: %w", err)
	}
	if open != nil {
		return nil, fmt.Errorf("%w: reconciliation %s is still open for account %s in this period", apperrors.ErrConflict, open.ReconciliationID, account.Code)
	}

	now := time.Now().UTC()
	rec := domain.Reconciliation{
		ReconciliationID: uuid.NewString(),
		AccountID:        req.AccountID,
		StatementDate:    req.StatementDate,
		StatementBalance: req.StatementBalance,
		ClearedBalance:   decimal.Zero,
		Difference:       req.StatementBalance,
		Status:           domain.ReconciliationPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.reconciliationRepo.SaveReconciliation(ctx, rec); err != nil {
		logger.Error("Failed to save reconciliation", slog.String("error", err.Error()), slog.String("account_id", req.AccountID))
		return nil, fmt.Errorf("failed to save reconciliation: %w", err)
	}

	logger.Info("Reconciliation started", slog.String("reconciliation_id", rec.ReconciliationID), slog.String("account_id", req.AccountID))
	return &rec, nil
}

// GetReconciliationByID retrieves a session with its cleared line ids.
func (s *reconciliationService) GetReconciliationByID(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error) {
	rec, err := s.reconciliationRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find reconciliation", slog.String("reconciliation_id", reconciliationID))
		}
		return nil, fmt.Errorf("failed to find reconciliation %s: %w", reconciliationID, err)
	}
	return rec, nil
}

// ListReconciliationsByAccount lists sessions for an account, newest first.
func (s *reconciliationService) ListReconciliationsByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.Reconciliation, error) {
	if limit <= 0 {
		limit = 50
	}
	recs, err := s.reconciliationRepo.ListReconciliationsByAccount(ctx, accountID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list reconciliations", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to list reconciliations: %w", err)
	}
	return recs, nil
}

// MarkCleared replaces the cleared line set of an open session and recomputes the cleared
// balance and difference. Line ids that do not belong to the session's account are
// rejected rather than silently dropped.
func (s *reconciliationService) MarkCleared(ctx context.Context, reconciliationID string, ledgerLineIDs []string, userID string) (*domain.Reconciliation, error) {
	logger := s.GetLogger(ctx)

	rec, err := s.reconciliationRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reconciliation %s: %w", reconciliationID, err)
	}
	if !rec.Status.IsOpen() {
		return nil, fmt.Errorf("%w: reconciliation %s is %s", apperrors.ErrInvalidState, reconciliationID, rec.Status)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, rec.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", rec.AccountID, err)
	}

	cleared := decimal.Zero
	if len(ledgerLineIDs) > 0 {
		lines, err := s.ledgerRepo.FindLinesByIDs(ctx, rec.AccountID, ledgerLineIDs)
		if err != nil {
			s.LogError(ctx, err, "Failed to load cleared lines", slog.String("reconciliation_id", reconciliationID))
			return nil, fmt.Errorf("failed to load cleared lines: %w", err)
		}
		if len(lines) != len(ledgerLineIDs) {
			return nil, fmt.Errorf("%w: %d of %d ledger lines do not belong to account %s", apperrors.ErrValidation, len(ledgerLineIDs)-len(lines), len(ledgerLineIDs), account.Code)
		}
		for _, l := range lines {
			signed, err := accounting.SignedAmount(l.Debit, l.Credit, account.AccountType)
			if err != nil {
				return nil, fmt.Errorf("failed to compute cleared balance: %w", err)
			}
			cleared = cleared.Add(signed)
		}
	}

	now := time.Now().UTC()
	rec.ClearedBalance = cleared
	rec.Difference = rec.StatementBalance.Sub(cleared)
	rec.Status = domain.ReconciliationInProgress
	rec.ClearedLineIDs = ledgerLineIDs
	rec.LastUpdatedAt = now
	rec.LastUpdatedBy = userID

	if err := s.reconciliationRepo.UpdateReconciliation(ctx, *rec, ledgerLineIDs); err != nil {
		logger.Error("Failed to update reconciliation", slog.String("error", err.Error()), slog.String("reconciliation_id", reconciliationID))
		return nil, fmt.Errorf("failed to update reconciliation: %w", err)
	}

	logger.Info("Reconciliation lines cleared",
		slog.String("reconciliation_id", reconciliationID),
		slog.Int("cleared_lines", len(ledgerLineIDs)),
		slog.String("difference", rec.Difference.String()))
	return rec, nil
}

// CompleteReconciliation closes a session whose difference is exactly zero.
func (s *reconciliationService) CompleteReconciliation(ctx context.Context, reconciliationID string, userID string) (*domain.Reconciliation, error) {
	logger := s.GetLogger(ctx)

	rec, err := s.reconciliationRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reconciliation %s: %w", reconciliationID, err)
	}
	if !rec.Status.IsOpen() {
		return nil, fmt.Errorf("%w: reconciliation %s is %s", apperrors.ErrInvalidState, reconciliationID, rec.Status)
	}
	if !rec.Difference.IsZero() {
		return nil, fmt.Errorf("%w: difference is %s", apperrors.ErrDiscrepancy, rec.Difference.String())
	}

	now := time.Now().UTC()
	rec.Status = domain.ReconciliationCompleted
	rec.LastUpdatedAt = now
	rec.LastUpdatedBy = userID

	if err := s.reconciliationRepo.UpdateReconciliation(ctx, *rec, rec.ClearedLineIDs); err != nil {
		logger.Error("Failed to complete reconciliation", slog.String("error", err.Error()), slog.String("reconciliation_id", reconciliationID))
		return nil, fmt.Errorf("failed to complete reconciliation: %w", err)
	}

	logger.Info("Reconciliation completed", slog.String("reconciliation_id", reconciliationID))
	return rec, nil
}

// ForceComplete closes a session as a discrepancy with a mandatory explanation.
func (s *reconciliationService) ForceComplete(ctx context.Context, reconciliationID string, notes string, userID string) (*domain.Reconciliation, error) {
	logger := s.GetLogger(ctx)

	if notes == "" {
		return nil, fmt.Errorf("%w: notes are required to force-complete a reconciliation", apperrors.ErrValidation)
	}

	rec, err := s.reconciliationRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reconciliation %s: %w", reconciliationID, err)
	}
	if !rec.Status.IsOpen() {
		return nil, fmt.Errorf("%w: reconciliation %s is %s", apperrors.ErrInvalidState, reconciliationID, rec.Status)
	}

	now := time.Now().UTC()
	rec.Status = domain.ReconciliationDiscrepancy
	rec.Notes = notes
	rec.LastUpdatedAt = now
	rec.LastUpdatedBy = userID

	if err := s.reconciliationRepo.UpdateReconciliation(ctx, *rec, rec.ClearedLineIDs); err != nil {
		logger.Error("Failed to force-complete reconciliation", slog.String("error", err.Error()), slog.String("reconciliation_id", reconciliationID))
		return nil, fmt.Errorf("failed to force-complete reconciliation: %w", err)
	}

	logger.Info("Reconciliation force-completed with discrepancy",
		slog.String("reconciliation_id", reconciliationID),
		slog.String("difference", rec.Difference.String()))
	return rec, nil
}
