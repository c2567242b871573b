package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wajiddaudtamboli/careercompass/internal/automation"
	"github.com/wajiddaudtamboli/careercompass/pkg/db"
)

func newAutomateCmd() *cobra.Command {
	var keep int

	cmd := groupCmd("automate", "Run database workflows",
		`Run named database workflows. Every step runs even when an earlier one fails;
the command fails when any step failed. Each step is logged to the console
and to LOG_FILE.`)
	cmd.PersistentFlags().IntVar(&keep, "keep", 7, "Number of backups to keep in BACKUP_DIR (0 keeps all)")

	descriptions := map[string]string{
		"setup":       "Test the connection, run a full setup and report table statistics",
		"health":      "Test the connection, verify tables and report table statistics",
		"optimize":    "Ensure indexes, then ANALYZE and VACUUM",
		"backup":      "Write a timestamped backup and prune old ones",
		"maintenance": "Run health, optimize and backup in sequence",
	}
	for _, name := range automation.Names {
		wfCmd := newWorkflowCmd(name, descriptions[name], &keep)
		if name == "maintenance" {
			wfCmd.Flags().String("schedule", "", `Run on a cron schedule until interrupted (e.g. "0 3 * * *" or "@daily")`)
		}
		cmd.AddCommand(wfCmd)
	}

	return cmd
}

func newWorkflowCmd(name, short string, keep *int) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(cmd, func(e *env, m *db.Manager) error {
				deps := automation.Deps{
					Exec:      e.exec,
					Manager:   m,
					Log:       e.log,
					BackupDir: e.cfg.BackupDir,
					Keep:      *keep,
				}
				wf, err := deps.Lookup(name)
				if err != nil {
					return err
				}
				runner := automation.NewRunner(e.log)

				if f := cmd.Flags().Lookup("schedule"); f != nil && f.Value.String() != "" {
					ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
					defer stop()
					return runner.Schedule(ctx, f.Value.String(), wf)
				}

				return summarize(runner.Run(cmd.Context(), wf))
			})
		},
	}
}

func summarize(res automation.Result) error {
	if res.Success {
		return nil
	}
	failed := res.Failed()
	return fmt.Errorf("%s workflow: %d of %d steps failed (first: %s: %v)",
		res.Workflow, len(failed), len(res.Steps), failed[0].Name, failed[0].Err)
}

