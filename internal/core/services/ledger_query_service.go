package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bizsuite/ledger_backend/internal/apperrors"
	"github.com/bizsuite/ledger_backend/internal/core/domain"
	portsrepo "github.com/bizsuite/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/bizsuite/ledger_backend/internal/core/ports/services"
	"github.com/bizsuite/ledger_backend/internal/dto"
	"github.com/bizsuite/ledger_backend/internal/utils/accounting"
	"github.com/bizsuite/ledger_backend/internal/utils/fiscal"
)

const queryDateLayout = "2006-01-02"

const defaultLedgerPageSize = 100

// ledgerQueryService answers read-side queries over posted ledger lines. Drafts are
// invisible here; every operation is side-effect-free.
type ledgerQueryService struct {
	BaseService
	ledgerRepo  portsrepo.LedgerReader
	accountRepo portsrepo.AccountReader
	calendar    fiscal.Calendar
}

// NewLedgerQueryService creates a new ledger query service.
func NewLedgerQueryService(
	ledgerRepo portsrepo.LedgerReader,
	accountRepo portsrepo.AccountReader,
	calendar fiscal.Calendar,
) portssvc.LedgerQuerySvcFacade {
	return &ledgerQueryService{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		calendar:    calendar,
	}
}

var _ portssvc.LedgerQuerySvcFacade = (*ledgerQueryService)(nil)

// parseDateRange validates optional YYYY-MM-DD bounds. Malformed filters fail fast
// instead of silently returning empty results.
func parseDateRange(fromStr, toStr *string) (from, to *time.Time, err error) {
	if fromStr != nil && *fromStr != "" {
		t, parseErr := time.Parse(queryDateLayout, *fromStr)
		if parseErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid from date %q", apperrors.ErrInvalidQuery, *fromStr)
		}
		from = &t
	}
	if toStr != nil && *toStr != "" {
		t, parseErr := time.Parse(queryDateLayout, *toStr)
		if parseErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid to date %q", apperrors.ErrInvalidQuery, *toStr)
		}
		to = &t
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, fmt.Errorf("%w: to date %s is before from date %s", apperrors.ErrInvalidQuery, to.Format(queryDateLayout), from.Format(queryDateLayout))
	}
	return from, to, nil
}

// GetLedgerEntries returns a page of ledger lines for one account ordered by
// (entry date, posting sequence) ascending, plus the summary over the whole filtered
// window regardless of which page is requested.
func (s *ledgerQueryService) GetLedgerEntries(ctx context.Context, params dto.LedgerQueryParams) (*dto.GeneralLedgerResponse, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, params.AccountID); err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", params.AccountID, err)
	}

	from, to, err := parseDateRange(params.From, params.To)
	if err != nil {
		return nil, err
	}

	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = defaultLedgerPageSize
	}

	lines, nextToken, err := s.ledgerRepo.ListLedgerLines(ctx, params.AccountID, from, to, pageSize, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger lines", "account_id", params.AccountID)
		return nil, fmt.Errorf("failed to list ledger lines: %w", err)
	}

	summary, err := s.ledgerRepo.GetLedgerSummary(ctx, params.AccountID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to summarize ledger window", "account_id", params.AccountID)
		return nil, fmt.Errorf("failed to summarize ledger window: %w", err)
	}

	return &dto.GeneralLedgerResponse{
		Lines: dto.ToLedgerLineResponses(lines),
		Summary: dto.LedgerSummaryResponse{
			TotalDebit:  summary.TotalDebit,
			TotalCredit: summary.TotalCredit,
			NetBalance:  summary.NetBalance,
			Count:       summary.Count,
		},
		NextToken: nextToken,
	}, nil
}

// GetTrialBalance computes every posted-to account's opening balance, period activity and
// ending balance as of a date. Rows are grouped in canonical type order; the ending debit
// and credit column totals always match (the accounting equation).
func (s *ledgerQueryService) GetTrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error) {
	if asOf.IsZero() {
		return nil, fmt.Errorf("%w: as-of date is required", apperrors.ErrInvalidQuery)
	}

	periodStart := s.calendar.PeriodStart(asOf)
	fiscalYear, period := s.calendar.Derive(asOf)

	sums, err := s.ledgerRepo.GetTrialBalanceData(ctx, periodStart, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch trial balance data")
		return nil, fmt.Errorf("failed to fetch trial balance data: %w", err)
	}

	report := &domain.TrialBalanceReport{
		AsOf:              asOf,
		PeriodStart:       periodStart,
		FiscalYear:        fiscalYear,
		Period:            period,
		Rows:              make([]domain.TrialBalanceRow, 0, len(sums)),
		TotalEndingDebit:  decimal.Zero,
		TotalEndingCredit: decimal.Zero,
	}

	for _, a := range sums {
		opening, err := accounting.SignedAmount(a.OpeningDebit, a.OpeningCredit, a.AccountType)
		if err != nil {
			return nil, fmt.Errorf("failed to compute opening balance for %s: %w", a.AccountCode, err)
		}
		periodNet, err := accounting.SignedAmount(a.PeriodDebit, a.PeriodCredit, a.AccountType)
		if err != nil {
			return nil, fmt.Errorf("failed to compute period balance for %s: %w", a.AccountCode, err)
		}

		row := domain.TrialBalanceRow{
			AccountID:      a.AccountID,
			AccountCode:    a.AccountCode,
			AccountName:    a.AccountName,
			AccountType:    a.AccountType,
			OpeningBalance: opening,
			Debit:          a.PeriodDebit,
			Credit:         a.PeriodCredit,
			EndingBalance:  opening.Add(periodNet),
			EndingDebit:    decimal.Zero,
			EndingCredit:   decimal.Zero,
		}

		// Column placement follows the raw debit/credit net so the two column totals
		// cancel exactly across all accounts.
		rawNet := a.OpeningDebit.Add(a.PeriodDebit).Sub(a.OpeningCredit).Sub(a.PeriodCredit)
		if rawNet.IsPositive() {
			row.EndingDebit = rawNet
		} else {
			row.EndingCredit = rawNet.Neg()
		}

		report.TotalEndingDebit = report.TotalEndingDebit.Add(row.EndingDebit)
		report.TotalEndingCredit = report.TotalEndingCredit.Add(row.EndingCredit)
		report.Rows = append(report.Rows, row)
	}

	typeRank := make(map[domain.AccountType]int, len(domain.AccountTypeOrder))
	for i, t := range domain.AccountTypeOrder {
		typeRank[t] = i
	}
	sort.SliceStable(report.Rows, func(i, j int) bool {
		if typeRank[report.Rows[i].AccountType] != typeRank[report.Rows[j].AccountType] {
			return typeRank[report.Rows[i].AccountType] < typeRank[report.Rows[j].AccountType]
		}
		return report.Rows[i].AccountCode < report.Rows[j].AccountCode
	})

	return report, nil
}

// GetAccountActivity returns a statement-style view of one account over a date range:
// the opening balance just before the range, every line inside it, and the ending balance.
func (s *ledgerQueryService) GetAccountActivity(ctx context.Context, accountID string, from, to time.Time) (*domain.AccountActivity, error) {
	if from.IsZero() || to.IsZero() {
		return nil, fmt.Errorf("%w: from and to dates are required", apperrors.ErrInvalidQuery)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: to date is before from date", apperrors.ErrInvalidQuery)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	openingDebit, openingCredit, err := s.ledgerRepo.GetBalanceSums(ctx, accountID, from)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute opening balance", "account_id", accountID)
		return nil, fmt.Errorf("failed to compute opening balance: %w", err)
	}
	opening, err := accounting.SignedAmount(openingDebit, openingCredit, account.AccountType)
	if err != nil {
		return nil, fmt.Errorf("failed to compute opening balance: %w", err)
	}

	lines, err := s.ledgerRepo.FindAllLinesByAccount(ctx, accountID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to load account activity", "account_id", accountID)
		return nil, fmt.Errorf("failed to load account activity: %w", err)
	}

	// Running balances advance in posting order, so after a back-dated posting the last
	// line in date order may carry a stale balance. Sum the window instead.
	ending := opening
	for _, line := range lines {
		net, err := accounting.SignedAmount(line.Debit, line.Credit, account.AccountType)
		if err != nil {
			return nil, fmt.Errorf("failed to compute ending balance: %w", err)
		}
		ending = ending.Add(net)
	}

	return &domain.AccountActivity{
		AccountID:      account.AccountID,
		AccountCode:    account.Code,
		AccountName:    account.Name,
		From:           from,
		To:             to,
		OpeningBalance: opening,
		EndingBalance:  ending,
		Lines:          lines,
	}, nil
}

// periodWindow parses a "YYYY-MM" period into its [start, end) window.
func periodWindow(period string) (start, end time.Time, err error) {
	start, err = time.Parse("2006-01", period)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid period %q, expected YYYY-MM", apperrors.ErrInvalidQuery, period)
	}
	return start, start.AddDate(0, 1, 0), nil
}

// GetPeriodComparison compares posting volume between two calendar months. The variance
// percentage is against period A's total; it is nil, not a division by zero, when period
// A had no activity.
func (s *ledgerQueryService) GetPeriodComparison(ctx context.Context, periodA, periodB string) (*domain.PeriodComparison, error) {
	totalsFor := func(period string) (domain.PeriodTotals, error) {
		start, end, err := periodWindow(period)
		if err != nil {
			return domain.PeriodTotals{}, err
		}
		debit, credit, entryCount, err := s.ledgerRepo.GetPeriodTotals(ctx, start, end)
		if err != nil {
			return domain.PeriodTotals{}, fmt.Errorf("failed to aggregate period %s: %w", period, err)
		}
		return domain.PeriodTotals{
			Period:      period,
			TotalDebit:  debit,
			TotalCredit: credit,
			Net:         debit.Sub(credit),
			EntryCount:  entryCount,
		}, nil
	}

	totalsA, err := totalsFor(periodA)
	if err != nil {
		return nil, err
	}
	totalsB, err := totalsFor(periodB)
	if err != nil {
		return nil, err
	}

	comparison := &domain.PeriodComparison{
		PeriodA:  totalsA,
		PeriodB:  totalsB,
		Variance: totalsB.TotalDebit.Sub(totalsA.TotalDebit),
	}
	if !totalsA.TotalDebit.IsZero() {
		pct := comparison.Variance.Div(totalsA.TotalDebit.Abs()).Mul(decimal.NewFromInt(100))
		comparison.VariancePercent = &pct
	}
	return comparison, nil
}
