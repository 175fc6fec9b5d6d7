package services

import (
	"context"

	"github.com/bizsuite/ledger_backend/internal/core/domain"
	"github.com/bizsuite/ledger_backend/internal/dto"
)

// ReconciliationSvcFacade matches statement balances against cleared ledger lines.
type ReconciliationSvcFacade interface {
	// StartReconciliation opens a pending session; fails with ErrConflict when an
	// uncompleted session already exists for the account/statement period.
	StartReconciliation(ctx context.Context, req dto.StartReconciliationRequest, creatorUserID string) (*domain.Reconciliation, error)

	// GetReconciliationByID retrieves a session with its cleared line ids.
	GetReconciliationByID(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error)

	// ListReconciliationsByAccount lists sessions for an account, newest first.
	ListReconciliationsByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.Reconciliation, error)

	// MarkCleared replaces the cleared line set and recomputes cleared balance and
	// difference. Ledger lines themselves are never mutated.
	MarkCleared(ctx context.Context, reconciliationID string, ledgerLineIDs []string, userID string) (*domain.Reconciliation, error)

	// CompleteReconciliation closes the session; fails with ErrDiscrepancy when the
	// difference is not zero.
	CompleteReconciliation(ctx context.Context, reconciliationID string, userID string) (*domain.Reconciliation, error)

	// ForceComplete closes the session as a discrepancy with mandatory notes.
	ForceComplete(ctx context.Context, reconciliationID string, notes string, userID string) (*domain.Reconciliation, error)
}
