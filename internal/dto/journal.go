package dto

import (
	"time"

	"github.com/bizsuite/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one debit-or-credit row of a draft entry. Exactly one of
// Debit/Credit must be positive; the service enforces the pairing.
type JournalLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// CreateJournalEntryRequest defines the payload for creating a draft entry. Drafts may be
// unbalanced to support incremental editing; balance is enforced at posting.
type CreateJournalEntryRequest struct {
	Date      time.Time            `json:"date" binding:"required"`
	Reference string               `json:"reference"`
	Memo      string               `json:"memo"`
	Lines     []JournalLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateJournalEntryRequest replaces the mutable parts of a draft entry. Nil fields keep
// their current values; a non-nil Lines slice replaces the full line set.
type UpdateJournalEntryRequest struct {
	Date      *time.Time           `json:"date"`
	Reference *string              `json:"reference"`
	Memo      *string              `json:"memo"`
	Lines     []JournalLineRequest `json:"lines"`
}

// ListJournalEntriesParams holds parameters for listing entries.
type ListJournalEntriesParams struct {
	Status       *string `form:"status"`
	Limit        int     `form:"limit"`
	NextToken    *string `form:"nextToken"`
	IncludeLines bool    `form:"includeLines"`
}

// JournalLineResponse defines the data returned for one entry line.
type JournalLineResponse struct {
	LineID      string          `json:"lineID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
	Position    int             `json:"position"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID          string                `json:"entryID"`
	EntryNumber      string                `json:"entryNumber"`
	Date             time.Time             `json:"date"`
	Reference        string                `json:"reference,omitempty"`
	Memo             string                `json:"memo,omitempty"`
	Status           string                `json:"status"`
	TotalDebit       decimal.Decimal       `json:"totalDebit"`
	TotalCredit      decimal.Decimal       `json:"totalCredit"`
	PostedAt         *time.Time            `json:"postedAt,omitempty"`
	PostedBy         *string               `json:"postedBy,omitempty"`
	OriginalEntryID  *string               `json:"originalEntryID,omitempty"`
	ReversingEntryID *string               `json:"reversingEntryID,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
	CreatedBy        string                `json:"createdBy"`
	Lines            []JournalLineResponse `json:"lines,omitempty"`
}

// ListJournalEntriesResponse wraps a page of entries with the pagination token.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToJournalLineResponse converts a domain.JournalLine to JournalLineResponse.
func ToJournalLineResponse(l *domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:      l.LineID,
		AccountID:   l.AccountID,
		Debit:       l.Debit,
		Credit:      l.Credit,
		Description: l.Description,
		Position:    l.Position,
	}
}

// ToJournalEntryResponse converts a domain.JournalEntry to JournalEntryResponse.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:          e.EntryID,
		EntryNumber:      e.EntryNumber,
		Date:             e.EntryDate,
		Reference:        e.Reference,
		Memo:             e.Memo,
		Status:           string(e.Status),
		TotalDebit:       e.TotalDebit,
		TotalCredit:      e.TotalCredit,
		PostedAt:         e.PostedAt,
		PostedBy:         e.PostedBy,
		OriginalEntryID:  e.OriginalEntryID,
		ReversingEntryID: e.ReversingEntryID,
		CreatedAt:        e.CreatedAt,
		CreatedBy:        e.CreatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]JournalLineResponse, len(e.Lines))
		for i := range e.Lines {
			resp.Lines[i] = ToJournalLineResponse(&e.Lines[i])
		}
	}
	return resp
}
