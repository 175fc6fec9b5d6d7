package repositories

import (
	"context"
	"time"

	"github.com/bizsuite/ledger_backend/internal/core/domain"
)

// ReconciliationReader defines read operations for reconciliation data.
type ReconciliationReader interface {
	// FindReconciliationByID retrieves a reconciliation with its cleared line ids.
	FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error)

	// FindOpenReconciliation retrieves an uncompleted reconciliation for the account
	// whose statement date falls inside [periodStart, periodEnd). Returns ErrNotFound
	// when none exists.
	FindOpenReconciliation(ctx context.Context, accountID string, periodStart, periodEnd time.Time) (*domain.Reconciliation, error)

	// ListReconciliationsByAccount retrieves reconciliations for an account, newest first.
	ListReconciliationsByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.Reconciliation, error)
}

// ReconciliationWriter defines write operations for reconciliation data. Ledger lines are
// never touched; clearance state lives entirely in the reconciliation tables.
type ReconciliationWriter interface {
	// SaveReconciliation persists a new reconciliation record.
	SaveReconciliation(ctx context.Context, rec domain.Reconciliation) error

	// UpdateReconciliation updates the record and replaces its cleared line set within
	// one transaction.
	UpdateReconciliation(ctx context.Context, rec domain.Reconciliation, clearedLineIDs []string) error
}

// ReconciliationRepositoryFacade combines all reconciliation repository interfaces.
type ReconciliationRepositoryFacade interface {
	ReconciliationReader
	ReconciliationWriter
}
