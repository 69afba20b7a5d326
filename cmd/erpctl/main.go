package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/services"
	portssvc "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/services"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/repositories/database/pgsql"
	portsrepo "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/repositories"
	"github.com/migueldeguzman/web-erp-app-sub001/pkg/config"
	"github.com/migueldeguzman/web-erp-app-sub001/pkg/database"
)

var rootCmd = &cobra.Command{
	Use:   "erpctl",
	Short: "erpctl - operational tooling for the fleet ERP ledger",
	Long: `erpctl is the operator CLI for the fleet ERP backend.

It seeds the chart of accounts and posting rules, verifies stored
balances against the journal log, and rebuilds balances that drifted.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

// withServices opens the database, builds the service container and hands it
// to fn, closing everything afterwards. erpctl never touches redis: cache
// reads would be pointless from a one-shot process.
func withServices(fn func(ctx context.Context, svcs *portssvc.ServiceContainer, repos portsrepo.RepositoryProvider) error) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx := context.Background()
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.ClosePgxPool(dbPool)

	repos := pgsql.NewRepositoryProvider(dbPool)
	svcs := services.NewServiceContainer(repos, nil)
	return fn(ctx, svcs, repos)
}
