package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survey-agent/internal/catalog"
	"survey-agent/internal/storage"
	"survey-agent/internal/survey"
)

// replyOracle accepts every message, proposing an id that is never allowed so the orchestrator
// picks the next open question, and answers the final prompt with a fixed summary.
type replyOracle struct{}

func (replyOracle) Generate(_ context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, "summary and agent_message") {
		return `{"summary":"All done.","agent_message":"Thanks for your answers."}`, nil
	}
	return `{"next_question_id":"any","accepted_answer":true,"normalized_answer":null,"assistant_message":"ok"}`, nil
}

func TestRunChatCompletesSurvey(t *testing.T) {
	orch := survey.New(catalog.Default(), replyOracle{}, survey.WithLogger(zerolog.Nop()),
		survey.WithIDGenerator(func() string { return "conv-1" }))
	store := storage.New(t.TempDir())

	in := strings.NewReader("Collect onboarding feedback\nNew hires\nNext week\n")
	var out bytes.Buffer

	require.NoError(t, runChat(context.Background(), orch, store, in, &out, "Jane", "please run the survey"))

	text := out.String()
	assert.Contains(t, text, "Agent: What is the goal of this survey request?")
	assert.Contains(t, text, "Agent: Who is the intended audience?")
	assert.Contains(t, text, "Agent: When should the survey be run?")
	assert.Contains(t, text, "Agent: Thanks for your answers.")
	assert.Contains(t, text, "Summary: All done.")
	assert.Contains(t, text, "New hires")

	saved, err := store.Load("conv-1")
	require.NoError(t, err)
	assert.Equal(t, "All done.", saved.Summary)
	assert.Equal(t, "Jane", saved.SenderName)
	require.Len(t, saved.Answers, 3)
	assert.Equal(t, "Next week", saved.Answers[2].AnswerText)

	root := NewRootCommand()
	var listing bytes.Buffer
	root.SetOut(&listing)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"results", "--dir", store.Dir()})
	require.NoError(t, root.Execute())
	assert.Equal(t, "conv-1\n", listing.String())
}

func TestRunChatPromptsForOpeningAndStopsOnEOF(t *testing.T) {
	orch := survey.New(catalog.Default(), replyOracle{}, survey.WithLogger(zerolog.Nop()))

	var out bytes.Buffer
	require.NoError(t, runChat(context.Background(), orch, nil, strings.NewReader("hello\n"), &out, "Jane", ""))

	assert.Contains(t, out.String(), "Opening message: ")
	assert.Contains(t, out.String(), "Survey left unfinished.")
}

type failingRunner struct{}

func (failingRunner) Run(context.Context, survey.Request) (*survey.Result, error) {
	return nil, survey.NewError(survey.CodeUpstreamUnavailable, "Upstream model call failed.", errors.New("boom"))
}

func TestRunChatReturnsTurnErrors(t *testing.T) {
	err := runChat(context.Background(), failingRunner{}, nil, strings.NewReader(""), &bytes.Buffer{}, "Jane", "hi")
	require.Error(t, err)
	assert.Equal(t, survey.CodeUpstreamUnavailable, survey.CodeOf(err))
}

func TestCatalogCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.yaml")
	require.NoError(t, os.WriteFile(path, []byte("questions:\n  - id: budget\n    text: What is the budget?\n    solution_id: s-budget\n  - id: owner\n    text: Who owns it?\n"), 0o600))

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"catalog", "--catalog", path})
	t.Cleanup(func() { catalogFile = "" })

	require.NoError(t, root.Execute())
	assert.Equal(t, "1. [budget] What is the budget? (solution: s-budget)\n2. [owner] Who owns it? (solution: -)\n", out.String())
}

func TestPrintCatalogDefault(t *testing.T) {
	var out bytes.Buffer
	printCatalog(&out, catalog.Default())
	assert.Contains(t, out.String(), "1. [q1] What is the goal of this survey request? (solution: s1)")
}

func TestRootCommandTree(t *testing.T) {
	root := NewRootCommand()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "chat", "catalog", "results"})
}
