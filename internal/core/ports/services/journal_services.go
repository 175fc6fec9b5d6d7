package services

import (
	"context"

	"github.com/bizsuite/ledger_backend/internal/core/domain"
	"github.com/bizsuite/ledger_backend/internal/dto"
)

// JournalSvcFacade manages the journal entry lifecycle: draft, post, void, reverse.
type JournalSvcFacade interface {
	// CreateDraft creates a mutable draft entry. Drafts may be unbalanced; all referenced
	// accounts must exist and be active at draft-creation time.
	CreateDraft(ctx context.Context, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// GetEntryByID retrieves an entry with its lines.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries.
	ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)

	// UpdateDraft replaces mutable fields of a draft entry.
	UpdateDraft(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, userID string) (*domain.JournalEntry, error)

	// PostEntry validates the balance invariant and atomically converts the draft into
	// immutable ledger lines. All-or-nothing: on failure the entry remains a draft.
	PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)

	// VoidEntry abandons a draft entry. No ledger effect.
	VoidEntry(ctx context.Context, entryID string, userID string) error

	// ReverseEntry creates and immediately posts a new entry with debit/credit swapped,
	// back-referencing the original. The original stays posted.
	ReverseEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)
}
