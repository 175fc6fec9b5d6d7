package dto

import (
	"time"

	"github.com/bizsuite/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerQueryParams filters a general ledger listing for one account.
type LedgerQueryParams struct {
	AccountID string  `form:"accountId" binding:"required"`
	From      *string `form:"from"` // YYYY-MM-DD
	To        *string `form:"to"`
	PageSize  int     `form:"pageSize"`
	NextToken *string `form:"nextToken"`
}

// LedgerLineResponse defines the data returned for one ledger line.
type LedgerLineResponse struct {
	LedgerLineID string          `json:"ledgerLineID"`
	AccountID    string          `json:"accountID"`
	EntryID      string          `json:"entryID"`
	EntryNumber  string          `json:"entryNumber"`
	Date         time.Time       `json:"date"`
	Description  string          `json:"description,omitempty"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Balance      decimal.Decimal `json:"balance"`
	FiscalYear   int             `json:"fiscalYear"`
	Period       int             `json:"period"`
}

// LedgerSummaryResponse aggregates the filtered window.
type LedgerSummaryResponse struct {
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	NetBalance  decimal.Decimal `json:"netBalance"`
	Count       int             `json:"count"`
}

// GeneralLedgerResponse is a page of ledger lines plus the whole-window summary.
type GeneralLedgerResponse struct {
	Lines     []LedgerLineResponse  `json:"lines"`
	Summary   LedgerSummaryResponse `json:"summary"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// TrialBalanceRowResponse is one account row of the trial balance.
type TrialBalanceRowResponse struct {
	AccountID      string          `json:"accountID"`
	AccountCode    string          `json:"accountCode"`
	AccountName    string          `json:"accountName"`
	AccountType    string          `json:"accountType"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	EndingBalance  decimal.Decimal `json:"endingBalance"`
	EndingDebit    decimal.Decimal `json:"endingDebit"`
	EndingCredit   decimal.Decimal `json:"endingCredit"`
}

// TrialBalanceResponse lists every account's balances as of a date.
type TrialBalanceResponse struct {
	AsOf              time.Time                 `json:"asOf"`
	FiscalYear        int                       `json:"fiscalYear"`
	Period            int                       `json:"period"`
	Rows              []TrialBalanceRowResponse `json:"rows"`
	TotalEndingDebit  decimal.Decimal           `json:"totalEndingDebit"`
	TotalEndingCredit decimal.Decimal           `json:"totalEndingCredit"`
}

// AccountActivityParams filters an account activity statement.
type AccountActivityParams struct {
	AccountID string `form:"accountId" binding:"required"`
	From      string `form:"from" binding:"required"`
	To        string `form:"to" binding:"required"`
}

// AccountActivityResponse is a statement-style view of one account.
type AccountActivityResponse struct {
	AccountID      string               `json:"accountID"`
	AccountCode    string               `json:"accountCode"`
	AccountName    string               `json:"accountName"`
	From           time.Time            `json:"from"`
	To             time.Time            `json:"to"`
	OpeningBalance decimal.Decimal      `json:"openingBalance"`
	EndingBalance  decimal.Decimal      `json:"endingBalance"`
	Lines          []LedgerLineResponse `json:"lines"`
}

// PeriodTotalsResponse aggregates posting activity over one calendar period.
type PeriodTotalsResponse struct {
	Period      string          `json:"period"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Net         decimal.Decimal `json:"net"`
	EntryCount  int             `json:"entryCount"`
}

// PeriodComparisonResponse holds totals for two periods and their variance.
// VariancePercent is omitted when period A's net is zero.
type PeriodComparisonResponse struct {
	PeriodA         PeriodTotalsResponse `json:"periodA"`
	PeriodB         PeriodTotalsResponse `json:"periodB"`
	Variance        decimal.Decimal      `json:"variance"`
	VariancePercent *decimal.Decimal     `json:"variancePercent,omitempty"`
}

// ToLedgerLineResponse converts a domain.LedgerLine to LedgerLineResponse.
func ToLedgerLineResponse(l *domain.LedgerLine) LedgerLineResponse {
	return LedgerLineResponse{
		LedgerLineID: l.LedgerLineID,
		AccountID:    l.AccountID,
		EntryID:      l.EntryID,
		EntryNumber:  l.EntryNumber,
		Date:         l.EntryDate,
		Description:  l.Description,
		Debit:        l.Debit,
		Credit:       l.Credit,
		Balance:      l.Balance,
		FiscalYear:   l.FiscalYear,
		Period:       l.Period,
	}
}

// ToLedgerLineResponses converts a slice of domain ledger lines.
func ToLedgerLineResponses(lines []domain.LedgerLine) []LedgerLineResponse {
	responses := make([]LedgerLineResponse, len(lines))
	for i := range lines {
		responses[i] = ToLedgerLineResponse(&lines[i])
	}
	return responses
}

// ToTrialBalanceResponse converts a domain.TrialBalanceReport.
func ToTrialBalanceResponse(r *domain.TrialBalanceReport) TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = TrialBalanceRowResponse{
			AccountID:      row.AccountID,
			AccountCode:    row.AccountCode,
			AccountName:    row.AccountName,
			AccountType:    string(row.AccountType),
			OpeningBalance: row.OpeningBalance,
			Debit:          row.Debit,
			Credit:         row.Credit,
			EndingBalance:  row.EndingBalance,
			EndingDebit:    row.EndingDebit,
			EndingCredit:   row.EndingCredit,
		}
	}
	return TrialBalanceResponse{
		AsOf:              r.AsOf,
		FiscalYear:        r.FiscalYear,
		Period:            r.Period,
		Rows:              rows,
		TotalEndingDebit:  r.TotalEndingDebit,
		TotalEndingCredit: r.TotalEndingCredit,
	}
}

// ToAccountActivityResponse converts a domain.AccountActivity.
func ToAccountActivityResponse(a *domain.AccountActivity) AccountActivityResponse {
	return AccountActivityResponse{
		AccountID:      a.AccountID,
		AccountCode:    a.AccountCode,
		AccountName:    a.AccountName,
		From:           a.From,
		To:             a.To,
		OpeningBalance: a.OpeningBalance,
		EndingBalance:  a.EndingBalance,
		Lines:          ToLedgerLineResponses(a.Lines),
	}
}

// ToPeriodComparisonResponse converts a domain.PeriodComparison.
func ToPeriodComparisonResponse(c *domain.PeriodComparison) PeriodComparisonResponse {
	toTotals := func(t domain.PeriodTotals) PeriodTotalsResponse {
		return PeriodTotalsResponse{
			Period:      t.Period,
			TotalDebit:  t.TotalDebit,
			TotalCredit: t.TotalCredit,
			Net:         t.Net,
			EntryCount:  t.EntryCount,
		}
	}
	return PeriodComparisonResponse{
		PeriodA:         toTotals(c.PeriodA),
		PeriodB:         toTotals(c.PeriodB),
		Variance:        c.Variance,
		VariancePercent: c.VariancePercent,
	}
}
