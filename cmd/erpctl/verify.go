package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	portsrepo "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/repositories"
	portssvc "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/services"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [accountID]",
	Short: "Verify stored balances against the journal log",
	Long: `Verify recomputes account balances from the journal log and compares
them with the stored balances. With no argument the whole chart is
scanned; with an account ID only that account is checked.

A non-zero exit status means at least one account is in drift.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(func(ctx context.Context, svcs *portssvc.ServiceContainer, _ portsrepo.RepositoryProvider) error {
			if len(args) == 1 {
				drift, err := svcs.Balance.VerifyAccount(ctx, args[0])
				if err != nil {
					return err
				}
				if drift.InDrift() {
					return fmt.Errorf("account %s (%s) in drift: stored %s, computed %s",
						drift.AccountID, drift.Code, drift.Stored.String(), drift.Computed.String())
				}
				fmt.Printf("account %s consistent: %s\n", drift.AccountID, drift.Stored.String())
				return nil
			}

			drifts, err := svcs.Balance.VerifyAll(ctx)
			if err != nil {
				return err
			}
			if len(drifts) == 0 {
				fmt.Println("ledger consistent: no drifted accounts")
				return nil
			}
			for _, d := range drifts {
				fmt.Printf("DRIFT %s (%s): stored %s, computed %s\n",
					d.AccountID, d.Code, d.Stored.String(), d.Computed.String())
			}
			return fmt.Errorf("%d account(s) in drift", len(drifts))
		})
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
