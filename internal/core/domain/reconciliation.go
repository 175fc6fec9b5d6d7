package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus indicates the state of a reconciliation session.
type ReconciliationStatus string

const (
	ReconciliationPending     ReconciliationStatus = "PENDING"
	ReconciliationInProgress  ReconciliationStatus = "IN_PROGRESS"
	ReconciliationCompleted   ReconciliationStatus = "COMPLETED"
	ReconciliationDiscrepancy ReconciliationStatus = "DISCREPANCY"
)

// IsOpen reports whether the reconciliation is still being worked on.
func (s ReconciliationStatus) IsOpen() bool {
	return s == ReconciliationPending || s == ReconciliationInProgress
}

// Reconciliation matches a statement balance against cleared ledger lines for one account.
// Clearance state lives here, never on the ledger lines themselves.
type Reconciliation struct {
	ReconciliationID string               `json:"reconciliationID"`
	AccountID        string               `json:"accountID"`
	StatementDate    time.Time            `json:"statementDate"`
	StatementBalance decimal.Decimal      `json:"statementBalance"`
	ClearedBalance   decimal.Decimal      `json:"clearedBalance"`
	Difference       decimal.Decimal      `json:"difference"` // StatementBalance - ClearedBalance
	Status           ReconciliationStatus `json:"status"`
	Notes            string               `json:"notes"`
	ClearedLineIDs   []string             `json:"clearedLineIDs,omitempty"`
	AuditFields
}
