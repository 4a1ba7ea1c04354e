package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/LeadImport/internal/app"
	"github.com/JonMunkholm/LeadImport/internal/cli/ui"
	"github.com/JonMunkholm/LeadImport/internal/config"
	"github.com/JonMunkholm/LeadImport/internal/core"
	"github.com/JonMunkholm/LeadImport/internal/logging"
)

func newInspectCommand() *cobra.Command {
	var (
		asJSON  bool
		mapping map[string]int
	)

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "dry-run a lead file without a database",
		Long: `Parse a CSV or XLSX file and report the detected format, separator,
column mapping, row counts and sample leads. Nothing is written and no
database connection is needed.`,
		Example: `  $ leadctl inspect leads.csv
  $ leadctl inspect leads.xlsx --json
  $ leadctl inspect export.csv --map phone=4 --map email=2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg config.ImportConfig
			if err := config.LoadInto(&cfg); err != nil {
				return err
			}
			opts, err := app.EngineOptions(cfg, logging.Discard())
			if err != nil {
				return err
			}

			u, err := readUpload(args[0], mapping)
			if err != nil {
				return err
			}

			preview, err := core.NewEngine(nil, opts).Preview(cmd.Context(), u)
			if err != nil {
				ui.PrintError(cmd.ErrOrStderr(), "%s", core.FormatUserError(err))
				return fmt.Errorf("inspect %s: %w", u.FileName, err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(preview)
			}
			ui.RenderPreview(out, preview)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the preview as JSON")
	cmd.Flags().StringToIntVar(&mapping, "map", nil, "Pin a field to a column index, e.g. phone=3")
	return cmd
}
