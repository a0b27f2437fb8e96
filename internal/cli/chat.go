package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"survey-agent/internal/agent"
	"survey-agent/internal/storage"
	"survey-agent/internal/survey"
)

func newChatCommand() *cobra.Command {
	var sender, opening, resultsDir string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Take the survey in the terminal",
		Long: `Runs the survey against the configured model, reading answers from stdin.
The survey state is kept in memory and passed back on every turn, exactly as an
HTTP caller would.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			orch, err := buildOrchestrator(ctx, loadConfig())
			if err != nil {
				return err
			}
			var store *storage.Store
			if resultsDir != "" {
				store = storage.New(resultsDir)
			}
			return runChat(ctx, orch, store, cmd.InOrStdin(), cmd.OutOrStdout(), sender, opening)
		},
	}

	cmd.Flags().StringVar(&sender, "name", os.Getenv("USER"), "sender display name")
	cmd.Flags().StringVar(&opening, "message", "", "opening message (prompted for when empty)")
	cmd.Flags().StringVar(&resultsDir, "results-dir", defaultResultsDir, "directory for completed survey results (empty disables saving)")
	return cmd
}

// runChat drives one survey to completion over a line-based console. A completed survey is saved
// to store when it is non-nil.
func runChat(ctx context.Context, runner agent.Runner, store *storage.Store, in io.Reader, out io.Writer, sender, opening string) error {
	scanner := bufio.NewScanner(in)

	message := strings.TrimSpace(opening)
	if message == "" {
		fmt.Fprint(out, "Opening message: ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		message = strings.TrimSpace(scanner.Text())
	}

	var (
		state          json.RawMessage
		conversationID string
	)
	for {
		res, err := runner.Run(ctx, survey.Request{Message: message, SenderName: sender, State: state})
		if err != nil {
			return fmt.Errorf("survey turn: %w", err)
		}

		fmt.Fprintf(out, "Agent: %s\n", res.AgentMessage)
		if res.Status == survey.StatusCompleted {
			printResult(out, res)
			return saveResult(store, out, conversationID, sender, res)
		}
		if res.State != nil {
			conversationID = res.State.ConversationID
		}

		if state, err = survey.EncodeState(res.State); err != nil {
			return fmt.Errorf("encode state: %w", err)
		}

		fmt.Fprint(out, "You: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			fmt.Fprintln(out, "\nSurvey left unfinished.")
			return nil
		}
		message = strings.TrimSpace(scanner.Text())
	}
}

func printResult(out io.Writer, res *survey.Result) {
	fmt.Fprintf(out, "\nSummary: %s\n", res.Summary)
	for _, a := range res.Answers {
		fmt.Fprintf(out, "- %s %s\n  %s\n", a.QuestionID, a.QuestionText, a.AnswerText)
	}
}

func saveResult(store *storage.Store, out io.Writer, conversationID, sender string, res *survey.Result) error {
	if store == nil {
		return nil
	}
	if conversationID == "" {
		conversationID = uuid.New().String()
	}

	path, err := store.Save(&storage.SurveyResult{
		ConversationID: conversationID,
		CompletedAt:    time.Now().UTC(),
		SenderName:     sender,
		Summary:        res.Summary,
		AgentMessage:   res.AgentMessage,
		Model:          res.ModelName,
		Answers:        res.Answers,
	})
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	fmt.Fprintf(out, "\nSaved to %s\n", path)
	return nil
}
