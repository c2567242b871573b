package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wajiddaudtamboli/careercompass/internal/automation"
	"github.com/wajiddaudtamboli/careercompass/pkg/backup"
	"github.com/wajiddaudtamboli/careercompass/pkg/db"
)

var adminURL string

func newDBCmd() *cobra.Command {
	cmd := groupCmd("db", "Database setup and management commands",
		"Commands for managing the database lifecycle: setup, seed, verify, back up, restore, reset, create and drop")

	cmd.PersistentFlags().StringVar(&adminURL, "admin-url", "",
		"Admin database URL for create and drop (default: the postgres database as the configured user)")

	cmd.AddCommand(newDBSetupCmd())
	cmd.AddCommand(newDBTestCmd())
	cmd.AddCommand(newDBHealthCmd())
	cmd.AddCommand(newDBSchemaCmd())
	cmd.AddCommand(newDBIndexesCmd())
	cmd.AddCommand(newDBDataCmd())
	cmd.AddCommand(newDBValidateCmd())
	cmd.AddCommand(newDBStatsCmd())
	cmd.AddCommand(newDBBackupCmd())
	cmd.AddCommand(newDBRestoreCmd())
	cmd.AddCommand(newDBResetCmd())
	cmd.AddCommand(newDBCreateCmd())
	cmd.AddCommand(newDBDropCmd())
	cmd.AddCommand(newDBMLCmd())

	return cmd
}

// withManager opens the database and runs fn against a Manager
func withManager(cmd *cobra.Command, fn func(e *env, m *db.Manager) error) error {
	e, err := open(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	m, err := e.manager()
	if err != nil {
		return err
	}
	return fn(e, m)
}

func newDBSetupCmd() *cobra.Command {
	var phase string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Full database setup",
		Long: `Full database setup: connect, create the schema, run migrations, create
indexes, seed sample data and verify the result.

Every step is idempotent. Schema and migration failures abort the run;
index and seed failures are reported and the run continues.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var p db.Phase
			if phase != "" {
				var err error
				if p, err = db.ParsePhase(phase); err != nil {
					return err
				}
			}

			return withManager(cmd, func(e *env, m *db.Manager) error {
				var report *db.SetupReport
				if p != "" {
					report = &db.SetupReport{Results: []db.PhaseResult{m.RunPhase(cmd.Context(), p)}, State: m.State()}
				} else {
					report = m.FullSetup(cmd.Context())
				}
				printSetupReport(cmd.OutOrStdout(), report)

				if report.Aborted() || p != "" {
					return report.Err()
				}
				if err := report.Err(); err != nil {
					e.log.Warn("%v", err)
					return nil
				}
				e.log.Success("Database setup completed successfully")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&phase, "phase", "", "Run a single phase (connect, schema, migrations, indexes, seed, verify)")
	return cmd
}

func newDBTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Test the database connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			test := db.TestConnection(cmd.Context(), e.exec)
			if !test.OK {
				return fmt.Errorf("connection test failed: %w", test.Err)
			}
			if c, err := db.ParseDatabaseURL(e.cfg.DatabaseURL); err == nil {
				e.log.Success("Connected to %s", c.Redacted())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Server time: %s\nVersion: %s\n", test.ServerTime.Format(time.RFC3339), test.Version)
			return nil
		},
	}
}

func newDBHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Report database health as JSON",
		Long:  "Report database health. An unconfigured DATABASE_URL reports mock mode and is not an error.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h := db.HealthCheck(cmd.Context(), settings().DatabaseURL)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(h); err != nil {
				return err
			}
			if h.Status == db.StatusError {
				return fmt.Errorf("database unhealthy: %s", h.Error)
			}
			return nil
		},
	}
}

func newDBSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create tables, functions and triggers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(cmd, func(e *env, m *db.Manager) error {
				n, err := m.SetupSchema(cmd.Context())
				if err != nil {
					return err
				}
				e.log.Success("Schema applied (%d statements)", n)
				return nil
			})
		},
	}
}

func newDBIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create performance and search indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(cmd, func(e *env, m *db.Manager) error {
				results, err := m.SetupIndexes(cmd.Context())
				for _, r := range results {
					if r.Err != nil {
						e.log.Warn("%s: %v", r.Name, r.Err)
					}
				}
				if err != nil {
					return err
				}
				e.log.Success("%d indexes in place", len(results))
				return nil
			})
		},
	}
}

func newDBDataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "data",
		Short: "Seed sample data into empty tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(cmd, func(e *env, m *db.Manager) error {
				_, err := m.SeedData(cmd.Context())
				return err
			})
		},
	}
}

func newDBValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that every table exists and seeded tables hold data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(cmd, func(e *env, m *db.Manager) error {
				checks, err := m.Verify(cmd.Context())
				printTableChecks(cmd.OutOrStdout(), checks)
				if err != nil {
					return err
				}
				e.log.Success("All %d tables present", len(checks))
				return nil
			})
		},
	}
}

func newDBStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show row counts and sizes of every table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(cmd, func(e *env, m *db.Manager) error {
				stats, err := m.TableStats(cmd.Context())
				if err != nil {
					return err
				}
				printTableStats(cmd.OutOrStdout(), stats)
				return nil
			})
		},
	}
}

func newDBBackupCmd() *cobra.Command {
	var (
		output string
		keep   int
	)

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a data-only SQL backup",
		Long: `Write a data-only SQL backup: per table a TRUNCATE ... CASCADE followed by
one INSERT per row, parents before children.

Without -o the backup is written to BACKUP_DIR with a timestamped name and
older backups beyond --keep are removed. Use -o - for stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(cmd, func(e *env, m *db.Manager) error {
				switch output {
				case "-":
					_, err := m.Backup(cmd.Context(), cmd.OutOrStdout())
					return err
				case "":
					path, sum, err := automation.BackupToDir(cmd.Context(), m, e.cfg.BackupDir, time.Now())
					if err != nil {
						return err
					}
					e.log.Success("Backup written to %s (%d rows)", path, sum.Rows())
					removed, err := backup.Prune(e.cfg.BackupDir, keep)
					for _, f := range removed {
						e.log.Info("Removed old backup %s", f)
					}
					return err
				}

				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				sum, err := m.Backup(cmd.Context(), f)
				if cerr := f.Close(); err == nil {
					err = cerr
				}
				if err != nil {
					return err
				}
				e.log.Success("Backup written to %s (%d rows)", output, sum.Rows())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, - for stdout (default: timestamped file in BACKUP_DIR)")
	cmd.Flags().IntVar(&keep, "keep", 0, "Number of backups to keep in BACKUP_DIR (0 keeps all)")
	return cmd
}

func newDBRestoreCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore a backup written by db backup",
		Long:  "Re-apply the schema and migrations, then replay the backup in one transaction. Existing rows of every backed up table are replaced.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			if !force && !confirmAction(cmd, fmt.Sprintf("Replace current data with %s?", args[0])) {
				return errAborted
			}

			return withManager(cmd, func(e *env, m *db.Manager) error {
				n, err := m.Restore(cmd.Context(), f)
				if err != nil {
					return err
				}
				e.log.Success("Restored %s (%d statements)", args[0], n)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}

func newDBResetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop every table and run a full setup",
		Long:  "Drop every table of the public schema and run a full setup. This is a destructive operation.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force && !confirmAction(cmd, "This will DROP every table and all data. Continue?") {
				return errAborted
			}

			return withManager(cmd, func(e *env, m *db.Manager) error {
				report, err := m.Reset(cmd.Context())
				if err != nil {
					return err
				}
				printSetupReport(cmd.OutOrStdout(), report)
				if report.Aborted() {
					return report.Err()
				}
				e.log.Success("Database reset")
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}

// openAdmin connects to the maintenance database of the configured server
func openAdmin(cmd *cobra.Command) (*env, *db.DBConfig, error) {
	cfg := settings()
	if !db.Configured(cfg.DatabaseURL) {
		return nil, nil, fmt.Errorf("database URL required (use -d flag or DATABASE_URL env)")
	}
	target, err := db.ParseDatabaseURL(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	admin := adminURL
	if admin == "" {
		admin = target.AdminURL()
	}
	adminCfg := *cfg
	adminCfg.DatabaseURL = admin

	log, err := newLogger(cmd, cfg)
	if err != nil {
		return nil, nil, err
	}
	exec, conn, err := connect(cmd.Context(), admin)
	if err != nil {
		log.Error("Admin connection failed (%s): %v", db.KindOf(err), err)
		_ = log.Close()
		return nil, nil, err
	}
	return &env{cfg: &adminCfg, log: log, exec: exec, conn: conn}, target, nil
}

func newDBCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create the database",
		Long:  "Create the database specified in DATABASE_URL if it does not exist.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, target, err := openAdmin(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			created, err := db.CreateDatabase(cmd.Context(), e.exec, target.Database)
			if err != nil {
				return err
			}
			if !created {
				e.log.Info("Database '%s' already exists", target.Database)
				return nil
			}
			e.log.Success("Database '%s' created successfully", target.Database)
			return nil
		},
	}
}

func newDBDropCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Drop the database",
		Long:  "Drop the database specified in DATABASE_URL. This is a destructive operation.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rawURL := settings().DatabaseURL
			if !db.Configured(rawURL) {
				return fmt.Errorf("database URL required (use -d flag or DATABASE_URL env)")
			}
			target, err := db.ParseDatabaseURL(rawURL)
			if err != nil {
				return err
			}
			if !force && !confirmAction(cmd, fmt.Sprintf("Drop database '%s'?", target.Database)) {
				return errAborted
			}

			e, _, err := openAdmin(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := db.DropDatabase(cmd.Context(), e.exec, target.Database); err != nil {
				return err
			}
			e.log.Success("Database '%s' dropped successfully", target.Database)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}
