package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	portsrepo "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/repositories"
	portssvc "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/services"
)

const rebuildUserID = "erpctl-rebuild"

var rebuildCmd = &cobra.Command{
	Use:   "rebuild [accountID]",
	Short: "Rebuild drifted balances from the journal log",
	Long: `Rebuild recomputes the stored balance of an account from the journal
log. With no argument it first scans the chart for drifted accounts and
rebuilds every one of them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(func(ctx context.Context, svcs *portssvc.ServiceContainer, _ portsrepo.RepositoryProvider) error {
			if len(args) == 1 {
				balance, err := svcs.Balance.RebuildAccount(ctx, args[0], rebuildUserID)
				if err != nil {
					return err
				}
				fmt.Printf("account %s rebuilt: %s\n", args[0], balance.String())
				return nil
			}

			drifts, err := svcs.Balance.VerifyAll(ctx)
			if err != nil {
				return err
			}
			if len(drifts) == 0 {
				fmt.Println("ledger consistent: nothing to rebuild")
				return nil
			}
			for _, d := range drifts {
				balance, err := svcs.Balance.RebuildAccount(ctx, d.AccountID, rebuildUserID)
				if err != nil {
					return fmt.Errorf("failed to rebuild account %s: %w", d.AccountID, err)
				}
				fmt.Printf("account %s (%s) rebuilt: %s -> %s\n", d.AccountID, d.Code, d.Stored.String(), balance.String())
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
}
