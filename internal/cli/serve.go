package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wajiddaudtamboli/careercompass/internal/metrics"
	"github.com/wajiddaudtamboli/careercompass/internal/server"
	"github.com/wajiddaudtamboli/careercompass/pkg/assistant"
	"github.com/wajiddaudtamboli/careercompass/pkg/datasource"
	"github.com/wajiddaudtamboli/careercompass/pkg/mockdata"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Long: `Serve the career compass JSON API. Without a reachable database, or with
MOCK_MODE set, the built-in mock data is served instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := settings()
			if port == 0 {
				port = cfg.Port
			}

			log, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}
			defer log.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ds := datasource.Select(ctx, datasource.Options{DatabaseURL: cfg.DatabaseURL, MockMode: cfg.MockMode}, log)
			defer ds.Close()
			metrics.SetDataSourceMode(string(ds.Mode()), string(datasource.ModePostgres), string(datasource.ModeMock))

			gen, err := assistant.FromKey(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
			if err != nil {
				log.Warn("Assistant unavailable, running offline: %v", err)
			}
			ai := assistant.New(gen, mockdata.New().QuizQuestions())
			defer ai.Close()

			return server.New(ds, ai, log).Run(ctx, fmt.Sprintf(":%d", port))
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (default: PORT env or 5000)")
	return cmd
}
