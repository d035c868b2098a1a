package main

import (
	"fmt"

	"storefront/internal/errors"
	"storefront/internal/infra/persistence/migrations"

	"github.com/spf13/cobra"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRunner(root, func(runner *migrations.Runner) error {
				if err := runner.Up(); err != nil {
					return err
				}

				return printVersion(cmd, runner)
			})
		},
	}

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Revert applied migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRunner(root, func(runner *migrations.Runner) error {
				if err := runner.Down(steps); err != nil {
					return err
				}

				return printVersion(cmd, runner)
			})
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to revert")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRunner(root, func(runner *migrations.Runner) error {
				return printVersion(cmd, runner)
			})
		},
	}

	cmd.AddCommand(upCmd, downCmd, versionCmd)

	return cmd
}

func withRunner(root *rootOptions, run func(*migrations.Runner) error) error {
	url := root.databaseURL
	if url == "" {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Postgres == nil {
			return errors.New("postgres is not configured and --database-url is empty")
		}
		url = cfg.Postgres.URL()
	}

	runner, err := migrations.New(url)
	if err != nil {
		return err
	}
	defer runner.Close()

	return run(runner)
}

func printVersion(cmd *cobra.Command, runner *migrations.Runner) error {
	version, dirty, err := runner.Version()
	if err != nil {
		return err
	}

	state := "clean"
	if dirty {
		state = "dirty"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (%s)\n", version, state)

	return nil
}
