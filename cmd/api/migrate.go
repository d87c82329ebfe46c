package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/01moynul/storefront/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the storefront tables",
	Long: `Apply the embedded schema for the configured DB_DRIVER.

Tables are created with IF NOT EXISTS, so running it twice is harmless.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.Context())
	},
}

func runMigrate(ctx context.Context) error {
	cf, log, err := bootstrap()
	if err != nil {
		return err
	}

	db, dialect, err := database.OpenDB(cf, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, dialect); err != nil {
		return err
	}
	log.Info().Str("dialect", string(dialect)).Msg("schema applied")
	return nil
}
