package services

import (
	portsrepo "github.com/bizsuite/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/bizsuite/ledger_backend/internal/core/ports/services"
	"github.com/bizsuite/ledger_backend/internal/platform/config"
	"github.com/bizsuite/ledger_backend/internal/utils/fiscal"
)

// NewServiceContainer wires every service with its repositories and the shared fiscal
// calendar. The calendar is built once here so posting and reporting always bucket dates
// identically.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) (*portssvc.ServiceContainer, error) {
	calendar, err := fiscal.NewCalendar(cfg.FiscalYearStartMonth)
	if err != nil {
		return nil, err
	}

	container := &portssvc.ServiceContainer{}
	container.Account = NewAccountService(repos.AccountRepo)
	container.Journal = NewJournalService(repos.JournalRepo, repos.AccountRepo, calendar, cfg.AmountScale)
	container.LedgerQuery = NewLedgerQueryService(repos.LedgerRepo, repos.AccountRepo, calendar)
	container.Reconciliation = NewReconciliationService(repos.ReconciliationRepo, repos.LedgerRepo, repos.AccountRepo)
	return container, nil
}
