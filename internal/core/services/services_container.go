package services

import (
	"github.com/go-redis/redis/v8"

	portsrepo "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/repositories"
	portssvc "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/services"
)

// NewServiceContainer wires all services onto the repository provider.
// The balance service is built first because posting, journal and invoice
// services all invalidate balance caches through it.
func NewServiceContainer(repos portsrepo.RepositoryProvider, redisClient *redis.Client) *portssvc.ServiceContainer {
	accountSvc := NewAccountService(repos.AccountRepo)
	balanceSvc := NewBalanceService(repos.JournalRepo, repos.AccountRepo, repos.TxManager, redisClient)
	journalSvc := NewJournalService(repos.JournalRepo, accountSvc, repos.TxManager, balanceSvc)
	postingSvc := NewPostingService(repos.JournalRepo, repos.AccountRepo, repos.PostingRuleRepo, balanceSvc)
	invoiceSvc := NewInvoiceService(repos, postingSvc, balanceSvc, redisClient)
	registrySvc := NewRegistryService(repos)

	return &portssvc.ServiceContainer{
		Account:  accountSvc,
		Journal:  journalSvc,
		Posting:  postingSvc,
		Balance:  balanceSvc,
		Invoice:  invoiceSvc,
		Registry: registrySvc,
	}
}
