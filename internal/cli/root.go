// Package cli implements pocketctl, the operations tool for Pocketbook.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pocketbook/internal/config"
	"pocketbook/internal/database"
	"pocketbook/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "pocketctl",
	Short: "Operate a Pocketbook installation",
	Long: `pocketctl manages the Pocketbook database and users.
It reads the same .env file, CONFIG_FILE and environment variables as the API server.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(os.Getenv("ENV"))
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// openDatabase loads configuration and connects to the configured database.
// The caller closes the returned manager.
func openDatabase() (*config.Config, *database.Manager, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	mgr, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return nil, nil, err
	}
	return cfg, mgr, nil
}

func closeDatabase(mgr *database.Manager) {
	if err := mgr.Close(); err != nil {
		logger.Get().Warnw("failed to close database", "error", err)
	}
}
