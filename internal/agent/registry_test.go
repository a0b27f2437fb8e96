package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"survey-agent/internal/survey"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubRunner struct{ summary string }

func (s stubRunner) Run(context.Context, survey.Request) (*survey.Result, error) {
	return &survey.Result{Summary: s.summary}, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("/survey", stubRunner{summary: "a"}))
	require.NoError(t, r.Register("/feedback", stubRunner{summary: "b"}))

	runner, err := r.Lookup("/survey")
	require.NoError(t, err)
	res, err := runner.Run(context.Background(), survey.Request{})
	require.NoError(t, err)
	assert.Equal(t, "a", res.Summary)

	assert.Equal(t, []string{"/feedback", "/survey"}, r.Paths())
}

func TestRegistryErrors(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("/survey", stubRunner{}))

	assert.Error(t, r.Register("/survey", stubRunner{}), "duplicate path")
	assert.Error(t, r.Register("/other", nil), "nil runner")

	_, err := r.Lookup("/missing")
	require.Error(t, err)
	assert.Equal(t, survey.CodeAgentNotFound, survey.CodeOf(err))
	assert.Contains(t, survey.MessageOf(err), "/missing")
}
