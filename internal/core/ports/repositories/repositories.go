package repositories

// RepositoryProvider bundles every repository the service layer needs, so
// wiring happens once at startup.
type RepositoryProvider struct {
	TxManager       TransactionManager
	AccountRepo     AccountRepositoryWithTx
	JournalRepo     JournalRepositoryWithTx
	InvoiceRepo     InvoiceRepositoryWithTx
	PostingRuleRepo PostingRuleRepository
	CustomerRepo    CustomerRepository
	VehicleRepo     VehicleRepository
	BookingRepo     BookingRepository
}
