package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	Draft  EntryStatus = "DRAFT"
	Posted EntryStatus = "POSTED"
	Void   EntryStatus = "VOID"
)

// JournalEntry is the persistence model for a journal entry header.
type JournalEntry struct {
	EntryID          string          `db:"entry_id"`
	EntryNumber      string          `db:"entry_number"`
	EntryDate        time.Time       `db:"entry_date"`
	Reference        string          `db:"reference"`
	Memo             string          `db:"memo"`
	Status           EntryStatus     `db:"status"`
	TotalDebit       decimal.Decimal `db:"total_debit"`
	TotalCredit      decimal.Decimal `db:"total_credit"`
	PostedAt         *time.Time      `db:"posted_at"`            // Nullable, set only on posting
	PostedBy         *string         `db:"posted_by"`            // Nullable
	OriginalEntryID  *string         `db:"original_entry_id"`    // Nullable
	ReversingEntryID *string         `db:"reversing_entry_id"`   // Nullable
	AuditFields
}

// JournalLine is the persistence model for one debit-or-credit row of an entry.
type JournalLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	AccountID   string          `db:"account_id"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Description string          `db:"description"`
	Position    int             `db:"position"`
	AuditFields
}
