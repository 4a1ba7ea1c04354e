package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/LeadImport/internal/core"
)

func newFieldsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "list lead fields and the headers that map to them",
		Long: `List every lead field with the header spellings the column resolver
recognises. Headers are compared lowercase and without accents.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FIELD\tHEADERS")
			for _, kind := range core.AllFieldKinds {
				fmt.Fprintf(tw, "%s\t%s\n", kind, strings.Join(core.Aliases(kind), ", "))
			}
			return tw.Flush()
		},
	}
}
