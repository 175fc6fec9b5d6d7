package repositories

// RepositoryProvider bundles every repository the service layer needs, so wiring happens
// in one place at startup.
type RepositoryProvider struct {
	AccountRepo        AccountRepositoryFacade
	JournalRepo        JournalRepositoryFacade
	LedgerRepo         LedgerReader
	ReconciliationRepo ReconciliationRepositoryFacade
}
