package dto

import (
	"time"

	"github.com/bizsuite/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StartReconciliationRequest opens a reconciliation session for an account.
type StartReconciliationRequest struct {
	AccountID        string          `json:"accountID" binding:"required"`
	StatementDate    time.Time       `json:"statementDate" binding:"required"`
	StatementBalance decimal.Decimal `json:"statementBalance"`
}

// ClearLinesRequest replaces the set of ledger lines cleared for a reconciliation.
type ClearLinesRequest struct {
	LedgerLineIDs []string `json:"ledgerLineIDs" binding:"required"`
}

// ForceCompleteRequest closes a reconciliation with a discrepancy. Notes are mandatory.
type ForceCompleteRequest struct {
	Notes string `json:"notes" binding:"required"`
}

// ReconciliationResponse defines the data returned for a reconciliation session.
type ReconciliationResponse struct {
	ReconciliationID string          `json:"reconciliationID"`
	AccountID        string          `json:"accountID"`
	StatementDate    time.Time       `json:"statementDate"`
	StatementBalance decimal.Decimal `json:"statementBalance"`
	ClearedBalance   decimal.Decimal `json:"clearedBalance"`
	Difference       decimal.Decimal `json:"difference"`
	Status           string          `json:"status"`
	Notes            string          `json:"notes,omitempty"`
	ClearedLineIDs   []string        `json:"clearedLineIDs,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
}

// ListReconciliationsResponse wraps a page of reconciliations.
type ListReconciliationsResponse struct {
	Reconciliations []ReconciliationResponse `json:"reconciliations"`
}

// ToReconciliationResponse converts a domain.Reconciliation.
func ToReconciliationResponse(r *domain.Reconciliation) ReconciliationResponse {
	return ReconciliationResponse{
		ReconciliationID: r.ReconciliationID,
		AccountID:        r.AccountID,
		StatementDate:    r.StatementDate,
		StatementBalance: r.StatementBalance,
		ClearedBalance:   r.ClearedBalance,
		Difference:       r.Difference,
		Status:           string(r.Status),
		Notes:            r.Notes,
		ClearedLineIDs:   r.ClearedLineIDs,
		CreatedAt:        r.CreatedAt,
		CreatedBy:        r.CreatedBy,
	}
}

// ToReconciliationResponses converts a slice of domain reconciliations.
func ToReconciliationResponses(recs []domain.Reconciliation) []ReconciliationResponse {
	responses := make([]ReconciliationResponse, len(recs))
	for i := range recs {
		responses[i] = ToReconciliationResponse(&recs[i])
	}
	return responses
}
