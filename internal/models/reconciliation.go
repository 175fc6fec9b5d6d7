package models

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

// Reconciliation is the persistence model for a reconciliation session.
type Reconciliation struct {
	ReconciliationID string               `db:"reconciliation_id"`
	AccountID        string               `db:"account_id"`
	StatementDate    time.Time            `db:"statement_date"`
	StatementBalance decimal.Decimal      `db:"statement_balance"`
	ClearedBalance   decimal.Decimal      `db:"cleared_balance"`
	Difference       decimal.Decimal      `db:"difference"`
	Status           ReconciliationStatus `db:"status"`
	Notes            string               `db:"notes"`
	AuditFields
}

// ReconciliationLine marks one ledger line as cleared for a reconciliation session.
// Clearance never touches the ledger line itself.
type ReconciliationLine struct {
	ReconciliationID string    `db:"reconciliation_id"`
	LedgerLineID     string    `db:"ledger_line_id"`
	ClearedAt        time.Time `db:"cleared_at"`
}
