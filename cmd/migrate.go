package cmd

import (
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the goose migrations under db/migrations",
	Long: `Applies pending migrations. --rollback reverts the latest one and --status
prints the applied version of every migration file.`,
	RunE: runMigration,
}

var (
	migrateRollback bool
	migrateStatus   bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "Revert the latest applied migration")
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "Print migration status and exit")
	migrateCmd.Flags().StringVarP(&migrateDir, "dir", "d", "db/migrations", "SQL migrations directory")
}

func migrateCommand() string {
	switch {
	case migrateStatus:
		return "status"
	case migrateRollback:
		return "down"
	default:
		return "up"
	}
}

func runMigration(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	initLogger(cfg)

	db, err := goose.OpenDBWithDriver("pgx", cfg.Database.Source)
	if err != nil {
		return fmt.Errorf("goose: failed to open db: %w", err)
	}
	defer db.Close()

	goose.SetTableName("schema_migrations")

	command := migrateCommand()
	if err := goose.RunContext(cmd.Context(), command, db, migrateDir); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
