package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerLine is the persistence model for the append-only general ledger.
// Rows are written once at posting time and never updated or deleted.
type LedgerLine struct {
	LedgerLineID string          `db:"ledger_line_id"`
	Seq          int64           `db:"seq"`
	AccountID    string          `db:"account_id"`
	EntryID      string          `db:"entry_id"`
	EntryNumber  string          `db:"entry_number"`
	EntryDate    time.Time       `db:"entry_date"`
	Description  string          `db:"description"`
	Debit        decimal.Decimal `db:"debit"`
	Credit       decimal.Decimal `db:"credit"`
	Balance      decimal.Decimal `db:"balance"`
	FiscalYear   int             `db:"fiscal_year"`
	Period       int             `db:"period"`
	Position     int             `db:"position"`
	CreatedAt    time.Time       `db:"created_at"`
}
