package mapping

import (
	"github.com/bizsuite/ledger_backend/internal/core/domain"
	"github.com/bizsuite/ledger_backend/internal/models"
)

// ToModelReconciliation converts a domain Reconciliation to a model Reconciliation.
func ToModelReconciliation(d domain.Reconciliation) models.Reconciliation {
	return models.Reconciliation{
		ReconciliationID: d.ReconciliationID,
		AccountID:        d.AccountID,
		StatementDate:    d.StatementDate,
		StatementBalance: d.StatementBalance,
		ClearedBalance:   d.ClearedBalance,
		Difference:       d.Difference,
		Status:           models.ReconciliationStatus(d.Status),
		Notes:            d.Notes,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReconciliation converts a model Reconciliation to a domain Reconciliation.
func ToDomainReconciliation(m models.Reconciliation) domain.Reconciliation {
	return domain.Reconciliation{
		ReconciliationID: m.ReconciliationID,
		AccountID:        m.AccountID,
		StatementDate:    m.StatementDate,
		StatementBalance: m.StatementBalance,
		ClearedBalance:   m.ClearedBalance,
		Difference:       m.Difference,
		Status:           domain.ReconciliationStatus(m.Status),
		Notes:            m.Notes,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}
