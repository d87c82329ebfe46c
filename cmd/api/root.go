package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/01moynul/storefront/internal/config"
	"github.com/01moynul/storefront/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront catalog, cart and wishlist API",
	Long: `Storefront serves the product catalog, the session cart and wishlist,
checkout and customer accounts as a JSON API.

Running it without a subcommand is the same as "storefront serve".`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// bootstrap loads the configuration and builds the root logger.
func bootstrap() (*config.Config, zerolog.Logger, error) {
	cf, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cf, logger.New(cf.LogLevel, cf.LogFormat), nil
}
