package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/LeadImport/internal/app"
	"github.com/JonMunkholm/LeadImport/internal/cli/ui"
	"github.com/JonMunkholm/LeadImport/internal/config"
	"github.com/JonMunkholm/LeadImport/internal/core"
	"github.com/JonMunkholm/LeadImport/internal/logging"
)

func newImportCommand() *cobra.Command {
	var (
		searchID int64
		mapping  map[string]int
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "import a lead file into a search",
		Long: `Import every usable row of a CSV or XLSX file as a prospecting result
of the given search. Uses DATABASE_URL and the optional Redis, RabbitMQ and
MinIO settings exactly like the server.`,
		Example: `  $ leadctl import leads.csv --search 42
  $ leadctl import leads.xlsx --search 42 --map phone=3 -v`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if searchID <= 0 {
				return errors.New("--search must be a positive search id")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			level := "warn"
			if verbose {
				level = "debug"
			}
			logger := logging.New(cmd.ErrOrStderr(), level, cfg.Logging.Format)

			u, err := readUpload(args[0], mapping)
			if err != nil {
				return err
			}

			application, err := app.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			result, err := application.Service.Import(cmd.Context(), searchID, u)
			if err != nil {
				ui.PrintError(cmd.ErrOrStderr(), "%s", core.FormatUserError(err))
				logger.Debug("import failed", slog.Any("error", err))
				return fmt.Errorf("import %s: %w", u.FileName, err)
			}

			ui.RenderResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().Int64VarP(&searchID, "search", "s", 0, "Search that receives the leads (required)")
	cmd.Flags().StringToIntVar(&mapping, "map", nil, "Pin a field to a column index, e.g. phone=3")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log engine progress to stderr")
	_ = cmd.MarkFlagRequired("search")
	return cmd
}
