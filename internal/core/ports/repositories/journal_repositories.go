package repositories

import (
	"context"
	"time"

	"github.com/bizsuite/ledger_backend/internal/core/domain"
)

// PostingMeta carries posting-time attribution and fiscal bucketing for an entry. The
// fiscal year and period are derived from the entry date by the caller so the posting
// path and the query engine share one derivation.
type PostingMeta struct {
	PostedBy   string
	PostedAt   time.Time
	FiscalYear int
	Period     int
}

// JournalEntryReader defines read operations for journal entry data.
type JournalEntryReader interface {
	// FindEntryByID retrieves a specific journal entry header by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves the lines of an entry ordered by position.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// ListEntries retrieves a paginated list of entries using token-based pagination.
	// It returns the entries, a token for the next page, and an error.
	ListEntries(ctx context.Context, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalEntryWriter defines write operations for journal entry data.
type JournalEntryWriter interface {
	// SaveDraftEntry persists a new draft entry and its lines, assigning the sequential
	// entry number. Returns the assigned number.
	SaveDraftEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) (string, error)

	// UpdateDraftEntry replaces the header fields and lines of a draft entry. Fails with
	// ErrInvalidState if the entry is no longer a draft.
	UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error

	// VoidEntry transitions a draft entry to void. Fails with ErrInvalidState otherwise.
	VoidEntry(ctx context.Context, entryID string, userID string, now time.Time) error

	// PostEntry atomically transitions a draft entry to posted: flips the status, locks
	// the affected accounts in ascending id order, appends ledger lines with running
	// balances, and bumps account balances. On any failure nothing is committed and the
	// entry remains a draft. Posting a non-draft entry fails with ErrInvalidState.
	PostEntry(ctx context.Context, entryID string, meta PostingMeta) (*domain.JournalEntry, error)

	// SaveAndPostEntry persists a reversing entry and posts it within one transaction,
	// linking the original entry's reversing_entry_id. Fails with ErrConflict if the
	// original was already reversed.
	SaveAndPostEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, meta PostingMeta) (*domain.JournalEntry, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalEntryReader
	JournalEntryWriter
}
