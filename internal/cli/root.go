package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wajiddaudtamboli/careercompass/internal/config"
	"github.com/wajiddaudtamboli/careercompass/internal/logging"
	"github.com/wajiddaudtamboli/careercompass/pkg/db"
	"github.com/wajiddaudtamboli/careercompass/pkg/executor"
	"github.com/wajiddaudtamboli/careercompass/pkg/schema"
)

var (
	// Global flags
	databaseURL   string
	migrationsDir string
	logFile       string
	verbose       bool
)

// connect opens a database connection. Tests replace it.
var connect = func(ctx context.Context, rawURL string, opts ...executor.Option) (executor.Executor, io.Closer, error) {
	h, err := db.Connect(ctx, rawURL, opts...)
	if err != nil {
		return nil, nil, err
	}
	return h.Executor(), h, nil
}

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "compass",
		Short: "Career Compass database and API tool",
		Long: `compass sets up, seeds, migrates, backs up and serves the Career Compass database.

Configuration is done via environment variables (or a .env file in development) or CLI flags:
  DATABASE_URL    - PostgreSQL connection URL
  MIGRATIONS_DIR  - Path to migrations directory (default: ./migrations)
  LOG_FILE        - Append-only log file (default: compass.log)
  BACKUP_DIR      - Backup directory (default: ./backups)
  SQL_DIR         - Directory overriding the built-in SQL files
  GEMINI_API_KEY  - Enables the AI assistant
  PORT            - API port for serve (default: 5000)`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		// arguments are validated before this runs, so only argument
		// errors print usage
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return config.LoadEnv()
		},
		RunE: requireSubcommand,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&databaseURL, "database-url", "d", "",
		"Database URL (or DATABASE_URL env)")
	rootCmd.PersistentFlags().StringVarP(&migrationsDir, "migrations-dir", "m", "",
		"Migrations directory (or MIGRATIONS_DIR env)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"Log file (or LOG_FILE env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newDBCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newAutomateCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// groupCmd returns a command that only holds subcommands. Invoked bare or
// with an unknown subcommand it prints usage and fails.
func groupCmd(use, short, long string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE:  requireSubcommand,
	}
}

func requireSubcommand(cmd *cobra.Command, args []string) error {
	_ = cmd.Usage()
	return fmt.Errorf("%s requires a subcommand", cmd.CommandPath())
}

func settings() *config.Config {
	cfg := config.Get()
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}
	if migrationsDir != "" {
		cfg.MigrationsDir = migrationsDir
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	return cfg
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*logging.Logger, error) {
	level := logging.LevelInfo
	if verbose {
		level = logging.LevelDebug
	}
	return logging.New(cfg.LogFile, logging.WithConsole(cmd.ErrOrStderr()), logging.WithLevel(level))
}

// env is everything a database command works with
type env struct {
	cfg  *config.Config
	log  *logging.Logger
	exec executor.Executor
	conn io.Closer
}

func (e *env) Close() {
	if e.conn != nil {
		_ = e.conn.Close()
	}
	_ = e.log.Close()
}

func (e *env) manager() (*db.Manager, error) {
	files, err := schema.FS(e.cfg.SQLDir)
	if err != nil {
		return nil, err
	}
	return db.New(e.exec,
		db.WithFiles(files),
		db.WithMigrationsDir(e.cfg.MigrationsDir),
		db.WithLogger(e.log),
	), nil
}

// open connects to the configured database
func open(cmd *cobra.Command) (*env, error) {
	cfg := settings()
	if !db.Configured(cfg.DatabaseURL) {
		return nil, fmt.Errorf("database URL required (use -d flag or DATABASE_URL env)")
	}

	log, err := newLogger(cmd, cfg)
	if err != nil {
		return nil, err
	}

	exec, conn, err := connect(cmd.Context(), cfg.DatabaseURL,
		executor.WithVerbose(verbose), executor.WithStderr(cmd.ErrOrStderr()))
	if err != nil {
		log.Error("Connection failed (%s): %v", db.KindOf(err), err)
		_ = log.Close()
		return nil, err
	}
	return &env{cfg: cfg, log: log, exec: exec, conn: conn}, nil
}

var errAborted = errors.New("aborted")

func confirmAction(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	response, _ := reader.ReadString('\n')
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

// Execute runs the root command and returns the process exit code
func Execute(ctx context.Context, args []string) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, errAborted) {
			fmt.Fprintln(os.Stderr, "Aborted.")
			return 1
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
