package services

// ServiceContainer bundles every service facade the handler layer needs.
type ServiceContainer struct {
	Account        AccountSvcFacade
	Journal        JournalSvcFacade
	LedgerQuery    LedgerQuerySvcFacade
	Reconciliation ReconciliationSvcFacade
}
