package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wajiddaudtamboli/careercompass/pkg/check"
	"github.com/wajiddaudtamboli/careercompass/pkg/db"
	"github.com/wajiddaudtamboli/careercompass/pkg/migrate"
)

func newCheckCmd() *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate migration file names and the ledger",
		Long: `Validate that every migration file is named <UTC timestamp>_<name>.sql with a
unique timestamp that is not in the future. When a database is configured
the ledger is checked too: applied files must be unchanged and still present,
and no pending migration may be older than the newest applied one.

This command is intended for use in CI pipelines.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := settings()
			dir := cfg.MigrationsDir
			if _, err := os.Stat(dir); err != nil {
				return fmt.Errorf("migrations directory: %w", err)
			}

			report, err := check.Dir(os.DirFS(dir), time.Now())
			if err != nil {
				return err
			}

			if !offline && db.Configured(cfg.DatabaseURL) {
				e, err := open(cmd)
				if err != nil {
					return err
				}
				defer e.Close()

				statuses, err := migrate.New(e.exec, dir).Status(cmd.Context())
				if err != nil {
					return err
				}
				check.Ledger(report, statuses)
			}

			if err := report.Err(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d migration file(s) OK\n", report.Files)
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Only check file names, never connect")
	return cmd
}
