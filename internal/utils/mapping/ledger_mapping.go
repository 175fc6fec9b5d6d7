package mapping

import (
	"github.com/bizsuite/ledger_backend/internal/core/domain"
	"github.com/bizsuite/ledger_backend/internal/models"
)

// ToDomainLedgerLine converts a model LedgerLine to a domain LedgerLine.
func ToDomainLedgerLine(m models.LedgerLine) domain.LedgerLine {
	return domain.LedgerLine{
		LedgerLineID: m.LedgerLineID,
		Seq:          m.Seq,
		AccountID:    m.AccountID,
		EntryID:      m.EntryID,
		EntryNumber:  m.EntryNumber,
		EntryDate:    m.EntryDate,
		Description:  m.Description,
		Debit:        m.Debit,
		Credit:       m.Credit,
		Balance:      m.Balance,
		FiscalYear:   m.FiscalYear,
		Period:       m.Period,
		Position:     m.Position,
		CreatedAt:    m.CreatedAt,
	}
}

// ToDomainLedgerLineSlice converts a slice of model LedgerLines to domain LedgerLines.
func ToDomainLedgerLineSlice(ms []models.LedgerLine) []domain.LedgerLine {
	ds := make([]domain.LedgerLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerLine(m)
	}
	return ds
}
