package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single account row in a trial balance report.
// Debit/Credit are the period totals; Ending carries the natural-sign balance.
type TrialBalanceRow struct {
	AccountID      string          `json:"accountID"`
	AccountCode    string          `json:"accountCode"`
	AccountName    string          `json:"accountName"`
	AccountType    AccountType     `json:"accountType"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	EndingBalance  decimal.Decimal `json:"endingBalance"`
	EndingDebit    decimal.Decimal `json:"endingDebit"`  // Ending balance if net debit, else zero
	EndingCredit   decimal.Decimal `json:"endingCredit"` // Ending balance if net credit, else zero
}

// TrialBalanceReport lists every active account's balances as of a date, grouped in the
// canonical type order. TotalEndingDebit must equal TotalEndingCredit.
type TrialBalanceReport struct {
	AsOf              time.Time         `json:"asOf"`
	PeriodStart       time.Time         `json:"periodStart"`
	FiscalYear        int               `json:"fiscalYear"`
	Period            int               `json:"period"`
	Rows              []TrialBalanceRow `json:"rows"`
	TotalEndingDebit  decimal.Decimal   `json:"totalEndingDebit"`
	TotalEndingCredit decimal.Decimal   `json:"totalEndingCredit"`
}

// AccountActivity is a statement-style view of one account over a date range.
type AccountActivity struct {
	AccountID      string          `json:"accountID"`
	AccountCode    string          `json:"accountCode"`
	AccountName    string          `json:"accountName"`
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	EndingBalance  decimal.Decimal `json:"endingBalance"`
	Lines          []LedgerLine    `json:"lines"`
}

// PeriodTotals aggregates posting activity over one calendar period.
type PeriodTotals struct {
	Period      string          `json:"period"` // "YYYY-MM"
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Net         decimal.Decimal `json:"net"`
	EntryCount  int             `json:"entryCount"`
}

// PeriodComparison holds totals for two periods and their variance. VariancePercent is
// nil when period A's net is zero (undefined variance, not division by zero).
type PeriodComparison struct {
	PeriodA         PeriodTotals     `json:"periodA"`
	PeriodB         PeriodTotals     `json:"periodB"`
	Variance        decimal.Decimal  `json:"variance"`
	VariancePercent *decimal.Decimal `json:"variancePercent,omitempty"`
}
