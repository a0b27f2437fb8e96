package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"survey-agent/internal/catalog"
	"survey-agent/internal/config"
)

func newCatalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the active question catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := config.LoadCatalog(loadConfig().Survey.CatalogFile)
			if err != nil {
				return err
			}
			printCatalog(cmd.OutOrStdout(), cat)
			return nil
		},
	}
}

func printCatalog(out io.Writer, cat *catalog.Catalog) {
	for i, q := range cat.Questions() {
		tag := q.ResultTag
		if tag == "" {
			tag = "-"
		}
		fmt.Fprintf(out, "%d. [%s] %s (solution: %s)\n", i+1, q.ID, q.Text, tag)
	}
}
