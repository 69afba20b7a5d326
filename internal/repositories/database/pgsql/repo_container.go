package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool, accountRepo)
	invoiceRepo := newPgxInvoiceRepository(dbPool)
	postingRuleRepo := newPgxPostingRuleRepository(dbPool)
	customerRepo := newPgxCustomerRepository(dbPool)
	vehicleRepo := newPgxVehicleRepository(dbPool)
	bookingRepo := newPgxBookingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		TxManager:       &BaseRepository{Pool: dbPool},
		AccountRepo:     accountRepo,
		JournalRepo:     journalRepo,
		InvoiceRepo:     invoiceRepo,
		PostingRuleRepo: postingRuleRepo,
		CustomerRepo:    customerRepo,
		VehicleRepo:     vehicleRepo,
		BookingRepo:     bookingRepo,
	}
}
