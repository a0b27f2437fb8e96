// Package cli implements the survey-agent command line.
package cli

import (
	"github.com/spf13/cobra"

	"survey-agent/internal/config"
	svlog "survey-agent/internal/log"
)

var catalogFile string

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "survey-agent",
		Short: "Conversational survey agent",
		Long: `survey-agent walks a user through a fixed list of survey questions, one chat
message at a time, using a language model to judge answers and pick the next question.

The server is stateless: every response carries a survey_state blob that the caller
sends back with the next message.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg := config.LoadAppConfig()
			svlog.Configure(svlog.Config{
				Level:   cfg.Log.Level,
				Service: cfg.Log.Service,
				Output:  cmd.ErrOrStderr(),
			})
		},
	}

	root.PersistentFlags().StringVar(&catalogFile, "catalog", "", "YAML question catalog (overrides SURVEY_CATALOG_FILE)")

	root.AddCommand(newServeCommand(), newChatCommand(), newCatalogCommand(), newResultsCommand())
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// loadConfig reads the environment and applies command line overrides.
func loadConfig() *config.AppConfig {
	cfg := config.LoadAppConfig()
	if catalogFile != "" {
		cfg.Survey.CatalogFile = catalogFile
	}
	return cfg
}
