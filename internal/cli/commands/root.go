// Package commands implements the leadctl command tree.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/LeadImport/internal/core"
)

const version = "0.1.0"

// NewRootCommand builds the leadctl command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "leadctl",
		Short:   "Lead spreadsheet import tool",
		Version: version,
		Long: `Inspect and import CSV/XLSX lead spreadsheets with the same engine
the HTTP server uses. Configuration is read from the environment and an
optional .env file in the working directory.`,
		Example: `  # Dry run: show detected columns and what would be imported
  $ leadctl inspect leads.csv

  # Same, as JSON
  $ leadctl inspect leads.xlsx --json

  # Import into search 42, pinning the phone column
  $ leadctl import leads.csv --search 42 --map phone=3

  # Create a search to import into
  $ leadctl search create "Clinicas Londrina"`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
		SilenceUsage: true,
	}

	root.CompletionOptions.DisableDefaultCmd = true
	root.SetVersionTemplate(fmt.Sprintf("leadctl version %s\n", version))

	root.AddCommand(newInspectCommand())
	root.AddCommand(newImportCommand())
	root.AddCommand(newSearchCommand())
	root.AddCommand(newFieldsCommand())
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

// readUpload loads a local file as an upload.
func readUpload(path string, mapping map[string]int) (core.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Upload{}, fmt.Errorf("read %s: %w", path, err)
	}
	u := core.Upload{
		FileName: filepath.Base(path),
		Data:     data,
	}
	if len(mapping) > 0 {
		u.Mapping = mapping
	}
	return u, nil
}
