package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/apperrors"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
	portsrepo "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/repositories"
	portssvc "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/services"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/dto"
)

const seedUserID = "erpctl-seed"

// Chart codes referenced by the default posting rules.
const (
	codeCash          = "1000"
	codeReceivables   = "1100"
	codeTaxPayable    = "2100"
	codeRentalRevenue = "4000"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the chart of accounts and posting rules",
	Long: `Seed creates the default chart of accounts and the posting rules the
invoice lifecycle depends on. Running it twice is safe: existing account
codes are skipped and posting rules are upserted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(runSeed)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(ctx context.Context, svcs *portssvc.ServiceContainer, repos portsrepo.RepositoryProvider) error {
	accounts := []dto.CreateAccountRequest{
		{Code: codeCash, Name: "Cash", AccountType: domain.Asset, Description: "Cash and bank balances"},
		{Code: codeReceivables, Name: "Accounts Receivable", AccountType: domain.Asset, Description: "Amounts owed by rental customers"},
		{Code: codeTaxPayable, Name: "VAT Payable", AccountType: domain.Liability, Description: "Tax collected on invoices, owed to the authority"},
		{Code: codeRentalRevenue, Name: "Rental Revenue", AccountType: domain.Revenue, Description: "Revenue from vehicle rentals"},
	}

	for _, req := range accounts {
		if _, err := svcs.Account.CreateAccount(ctx, req, seedUserID); err != nil {
			if errors.Is(err, apperrors.ErrDuplicateCode) {
				fmt.Printf("account %s already exists, skipping\n", req.Code)
				continue
			}
			return fmt.Errorf("failed to create account %s: %w", req.Code, err)
		}
		fmt.Printf("created account %s %s\n", req.Code, req.Name)
	}

	taxCode := codeTaxPayable
	now := time.Now().UTC()
	rules := []domain.PostingRule{
		{
			EventKind:         domain.EventInvoiceIssued,
			DebitAccountCode:  codeReceivables,
			CreditAccountCode: codeRentalRevenue,
			TaxAccountCode:    &taxCode,
			AuditFields:       domain.NewAuditFields(seedUserID, now),
		},
		{
			EventKind:         domain.EventPaymentReceived,
			DebitAccountCode:  codeCash,
			CreditAccountCode: codeReceivables,
			AuditFields:       domain.NewAuditFields(seedUserID, now),
		},
	}

	for _, rule := range rules {
		if err := repos.PostingRuleRepo.SaveRule(ctx, &rule); err != nil {
			return fmt.Errorf("failed to save posting rule %s: %w", rule.EventKind, err)
		}
		fmt.Printf("saved posting rule %s\n", rule.EventKind)
	}

	fmt.Println("seed complete")
	return nil
}
