package main

import (
	"log/slog"

	"storefront/config"
	"storefront/internal/errors"
	logs "storefront/internal/infra/log"

	"github.com/spf13/cobra"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	databaseURL string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "storectl",
		Short:         "Operator tool for the storefront service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.databaseURL, "database-url", "",
		"Postgres URL, defaults to the configured master node")

	cmd.AddCommand(
		newMigrateCmd(opts),
		newAdminCmd(),
	)

	return cmd
}

// loadConfig reads the same configuration the service boots with.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to load config")
	}

	logger, err := logs.New(logs.Params{Config: cfg})
	if err != nil {
		return nil, nil, err
	}

	return cfg, logger, nil
}
