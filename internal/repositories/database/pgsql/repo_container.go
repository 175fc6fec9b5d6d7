package pgsql

import (
	portsrepo "github.com/bizsuite/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool, accountRepo)
	ledgerRepo := newPgxLedgerRepository(dbPool)
	reconciliationRepo := newPgxReconciliationRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:        accountRepo,
		JournalRepo:        journalRepo,
		LedgerRepo:         ledgerRepo,
		ReconciliationRepo: reconciliationRepo,
	}
}
