package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"pocketbook/internal/logger"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
	Long: `Apply or roll back schema migrations. Postgres uses the versioned SQL files
under migrations/; SQLite is migrated from the model definitions and only supports "up".`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, mgr, err := openDatabase()
		if err != nil {
			return err
		}
		defer closeDatabase(mgr)

		if err := mgr.RunMigrations(); err != nil {
			return err
		}
		logger.Get().Info("Migrations applied successfully")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [N]",
	Short: "Roll back N migrations (default 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, err := parseSteps(args)
		if err != nil {
			return err
		}

		_, mgr, err := openDatabase()
		if err != nil {
			return err
		}
		defer closeDatabase(mgr)

		if err := mgr.RollbackMigrations(steps); err != nil {
			return err
		}
		logger.Get().Infof("Rolled back %d migration(s)", steps)
		return nil
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied migration version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, mgr, err := openDatabase()
		if err != nil {
			return err
		}
		defer closeDatabase(mgr)

		version, dirty, err := mgr.MigrationVersion()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Version: %d, Dirty: %v\n", version, dirty)
		return nil
	},
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(args[0])
	if err != nil || steps < 1 {
		return 0, fmt.Errorf("invalid step count %q: must be a positive integer", args[0])
	}
	return steps, nil
}
