package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	// Draft entries are mutable and have no ledger effect.
	Draft EntryStatus = "DRAFT"
	// Posted entries are structurally immutable; corrections happen via reversing entries.
	Posted EntryStatus = "POSTED"
	// Void entries were abandoned before posting.
	Void EntryStatus = "VOID"
)

// JournalEntry represents a single financial event composed of debit/credit lines.
// Totals are computed from the lines, never supplied by callers.
type JournalEntry struct {
	EntryID     string          `json:"entryID"`     // Primary key (UUID)
	EntryNumber string          `json:"entryNumber"` // Sequential human-readable number, e.g. "JE-000042"
	EntryDate   time.Time       `json:"entryDate"`
	Reference   string          `json:"reference"`
	Memo        string          `json:"memo"`
	Status      EntryStatus     `json:"status"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	PostedAt    *time.Time      `json:"postedAt,omitempty"`
	PostedBy    *string         `json:"postedBy,omitempty"`

	// Reversal linkage. A reversing entry carries OriginalEntryID; the original entry,
	// once reversed, carries ReversingEntryID but stays POSTED.
	OriginalEntryID  *string `json:"originalEntryID,omitempty"`
	ReversingEntryID *string `json:"reversingEntryID,omitempty"`

	AuditFields
	Lines []JournalLine `json:"lines,omitempty"` // Often loaded separately
}

// IsReversal reports whether this entry reverses another entry.
func (e *JournalEntry) IsReversal() bool {
	return e.OriginalEntryID != nil
}

// JournalLine is a single debit-or-credit row of a journal entry. Exactly one of
// Debit/Credit is nonzero on a valid line.
type JournalLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	Position    int             `json:"position"` // Ordinal within the entry, 0-based
	AuditFields
}

// IsDebit reports whether the line is the debit side.
func (l *JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}
