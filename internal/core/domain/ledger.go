package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerLine is one immutable general-ledger posting, created exactly once when its
// parent journal entry posts. Never mutated or deleted; a reversing entry produces new,
// separate ledger lines.
type LedgerLine struct {
	LedgerLineID string          `json:"ledgerLineID"`
	Seq          int64           `json:"seq"` // Monotonic posting sequence, assigned by the store

	AccountID    string          `json:"accountID"`
	EntryID      string          `json:"entryID"`
	EntryNumber  string          `json:"entryNumber"`
	EntryDate    time.Time       `json:"entryDate"`
	Description  string          `json:"description"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Balance      decimal.Decimal `json:"balance"` // Account running balance as of this line
	FiscalYear   int             `json:"fiscalYear"`
	Period       int             `json:"period"`   // 1..12 within the fiscal year
	Position     int             `json:"position"` // Ordinal of the source line within its entry
	CreatedAt    time.Time       `json:"createdAt"`
}

// LedgerSummary aggregates a filtered window of ledger lines.
type LedgerSummary struct {
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	NetBalance  decimal.Decimal `json:"netBalance"` // TotalDebit - TotalCredit
	Count       int             `json:"count"`
}
