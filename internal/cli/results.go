package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"survey-agent/internal/storage"
)

const defaultResultsDir = "results"

func newResultsCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "results [conversation-id]",
		Short: "List saved console survey results, or print one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := storage.New(dir)
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				result, err := store.Load(args[0])
				if err != nil {
					return err
				}
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			ids, err := store.List()
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Fprintf(out, "No results in %s\n", store.Dir())
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", defaultResultsDir, "results directory")
	return cmd
}
