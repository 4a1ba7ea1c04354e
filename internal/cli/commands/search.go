package commands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/LeadImport/internal/app"
	"github.com/JonMunkholm/LeadImport/internal/cli/ui"
	"github.com/JonMunkholm/LeadImport/internal/config"
	"github.com/JonMunkholm/LeadImport/internal/database"
	"github.com/JonMunkholm/LeadImport/internal/logging"
)

func newSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "manage searches",
	}
	cmd.AddCommand(newSearchCreateCommand())
	return cmd
}

func newSearchCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "create <name>",
		Short:   "create a search and print its id",
		Example: `  $ leadctl search create "Clinicas Londrina"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return errors.New("search name must not be empty")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			application, err := app.New(cmd.Context(), cfg, logging.New(cmd.ErrOrStderr(), "warn", cfg.Logging.Format))
			if err != nil {
				return err
			}
			defer application.Close()

			id, err := database.NewLeadRepository(application.Pool).CreateSearch(cmd.Context(), name)
			if err != nil {
				return err
			}
			ui.PrintSuccess(cmd.OutOrStdout(), "created search %d (%s)", id, name)
			return nil
		},
	}
}
