package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wajiddaudtamboli/careercompass/pkg/migrate"
)

func newMigrateCmd() *cobra.Command {
	cmd := groupCmd("migrate", "Database migration commands",
		"Commands for managing migrations recorded in the migrations ledger table")

	cmd.AddCommand(newMigrateUpCmd())
	cmd.AddCommand(newMigrateStatusCmd())
	cmd.AddCommand(newMigrateCreateCmd())
	cmd.AddCommand(newCheckCmd())

	return cmd
}

func newMigrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if _, err := migrate.EnsureDir(e.cfg.MigrationsDir, time.Now()); err != nil {
				return err
			}
			applied, err := migrate.New(e.exec, e.cfg.MigrationsDir).Up(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range applied {
				e.log.Info("Applied %s", name)
			}
			e.log.Success("%d migration(s) applied", len(applied))
			return nil
		},
	}
}

func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			statuses, err := migrate.New(e.exec, e.cfg.MigrationsDir).Status(cmd.Context())
			if err != nil {
				return err
			}
			printMigrationStatus(cmd.OutOrStdout(), statuses)
			return nil
		},
	}
}

func newMigrateCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new migration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := migrate.Create(settings().MigrationsDir, args[0], time.Now())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created migration: %s\n", path)
			return nil
		},
	}
}
