package services

import (
	"context"
	"time"

	"github.com/bizsuite/ledger_backend/internal/core/domain"
	"github.com/bizsuite/ledger_backend/internal/dto"
)

// LedgerQuerySvcFacade answers read-side queries over posted ledger lines. All operations
// are side-effect-free and only ever observe fully posted entries.
type LedgerQuerySvcFacade interface {
	// GetLedgerEntries returns a page of ledger lines for an account plus the summary
	// over the whole filtered window.
	GetLedgerEntries(ctx context.Context, params dto.LedgerQueryParams) (*dto.GeneralLedgerResponse, error)

	// GetTrialBalance computes every account's opening, period, and ending balances as of
	// a date, grouped in canonical type order. The ending debit and credit column totals
	// are always equal.
	GetTrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error)

	// GetAccountActivity returns a statement-style view of one account over a range.
	GetAccountActivity(ctx context.Context, accountID string, from, to time.Time) (*domain.AccountActivity, error)

	// GetPeriodComparison compares posting totals between two "YYYY-MM" periods.
	GetPeriodComparison(ctx context.Context, periodA, periodB string) (*domain.PeriodComparison, error)
}
