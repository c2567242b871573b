package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wajiddaudtamboli/careercompass/pkg/dbml"
)

func newDBMLCmd() *cobra.Command {
	var (
		output        string
		schemaName    string
		excludeTables string
	)

	cmd := &cobra.Command{
		Use:   "dbml",
		Short: "Generate DBML from database schema",
		Long: `Generate DBML (Database Markup Language) documentation from the database schema.

Examples:
  compass db dbml                              # Output to stdout
  compass db dbml -o schema.dbml               # Output to file
  compass db dbml --exclude-tables migrations`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			opts := dbml.Options{Schema: schemaName}
			if excludeTables != "" {
				opts.ExcludeTables = strings.Split(excludeTables, ",")
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			if err := dbml.New(e.exec).Generate(cmd.Context(), w, opts); err != nil {
				return err
			}
			if output != "" {
				e.log.Success("DBML written to %s", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&schemaName, "schema", "public", "Schema to document")
	cmd.Flags().StringVar(&excludeTables, "exclude-tables", "", "Comma-separated tables to exclude")

	return cmd
}
