package repositories

import (
	"context"
	"time"

	"github.com/bizsuite/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceAccountSums carries raw per-account debit/credit sums for trial balance
// assembly. Opening sums cover lines strictly before the period start; period sums cover
// the window [period start, as-of]. Sign conventions are applied by the service.
type TrialBalanceAccountSums struct {
	AccountID     string
	AccountCode   string
	AccountName   string
	AccountType   domain.AccountType
	OpeningDebit  decimal.Decimal
	OpeningCredit decimal.Decimal
	PeriodDebit   decimal.Decimal
	PeriodCredit  decimal.Decimal
}

// LedgerReader defines the read-side queries over posted ledger lines. All operations are
// side-effect-free; drafts are invisible here because ledger lines only exist once an
// entry has posted.
type LedgerReader interface {
	// ListLedgerLines retrieves ledger lines for an account ordered ascending by
	// (entry date, posting sequence), with token-based pagination.
	ListLedgerLines(ctx context.Context, accountID string, from, to *time.Time, limit int, nextToken *string) ([]domain.LedgerLine, *string, error)

	// GetLedgerSummary aggregates the full filtered window regardless of pagination.
	GetLedgerSummary(ctx context.Context, accountID string, from, to *time.Time) (*domain.LedgerSummary, error)

	// FindAllLinesByAccount retrieves every ledger line of an account in a date range,
	// ordered ascending, without pagination. Used for account activity statements.
	FindAllLinesByAccount(ctx context.Context, accountID string, from, to time.Time) ([]domain.LedgerLine, error)

	// GetBalanceSums returns the debit and credit totals of an account's lines strictly
	// before the given date.
	GetBalanceSums(ctx context.Context, accountID string, before time.Time) (debit, credit decimal.Decimal, err error)

	// GetTrialBalanceData returns per-account raw sums for all accounts with postings on
	// or before asOf.
	GetTrialBalanceData(ctx context.Context, periodStart, asOf time.Time) ([]TrialBalanceAccountSums, error)

	// GetPeriodTotals aggregates all posting activity inside [from, to).
	GetPeriodTotals(ctx context.Context, from, to time.Time) (totalDebit, totalCredit decimal.Decimal, entryCount int, err error)

	// FindLinesByIDs retrieves specific ledger lines of one account. Ids not belonging to
	// the account are absent from the result.
	FindLinesByIDs(ctx context.Context, accountID string, ledgerLineIDs []string) ([]domain.LedgerLine, error)
}
