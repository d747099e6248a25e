package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/config"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/internal/repository/sqlite"
	"github.com/ahmedanwarabdulaziz/ASC-sub000/pkg/database"
)

var gooseShort = map[string]string{
	"up":     "Apply all pending migrations",
	"down":   "Roll back the most recent migration",
	"status": "Print the status of every migration",
}

func newGooseCmd(command string) *cobra.Command {
	return &cobra.Command{
		Use:   command,
		Short: gooseShort[command],
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runMigration(cmd, cfg, command)
		},
	}
}

// runMigration applies command with goose on Postgres. The sqlite store is
// schema-managed by AutoMigrate, so only up is meaningful there.
func runMigration(cmd *cobra.Command, cfg *config.Config, command string) error {
	ctx := cmd.Context()

	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		pg, err := database.NewPostgresDB(ctx, cfg.DatabaseURL, cfg.Environment)
		if err != nil {
			return err
		}
		defer pg.Close()
		if err := database.Migrate(ctx, pg, command); err != nil {
			return err
		}
	case config.DriverSQLite:
		if command != "up" {
			return fmt.Errorf("%s is not supported for the sqlite driver", command)
		}
		db, err := database.NewSQLiteDB(cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := sqlite.Migrate(db.DB); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: done (%s)\n", command, cfg.DatabaseDriver)
	return nil
}
