// Command tripctl runs operator tasks against the family trips database:
// schema migrations, catalog backup and admin token issuing.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"familytrips/internal/config"
	"familytrips/internal/database"
	"familytrips/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "tripctl",
		Short:        "Family trips operator tool",
		SilenceUsage: true,
	}

	root.AddCommand(
		newMigrateCmd(),
		newExportCmd(),
		newImportCmd(),
		newAdminTokenCmd(),
	)
	return root
}

// loadConfig reads configuration and initializes console logging
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: "console",
		Output: os.Stderr,
	})
	return cfg, nil
}

// openDB connects using the configured pool settings
func openDB(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	return database.Open(ctx, cfg.Database.URL, database.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	})
}
