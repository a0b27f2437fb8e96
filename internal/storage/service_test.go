package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"survey-agent/internal/survey"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSaveLoadList(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "results"))

	ids, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, ids, "missing directory lists as empty")

	tag := "s1"
	want := &SurveyResult{
		ConversationID: "b2",
		CompletedAt:    time.Date(2026, 2, 19, 10, 15, 30, 0, time.UTC),
		SenderName:     "Jane",
		Summary:        "Done.",
		AgentMessage:   "Thanks.",
		Model:          "test-model",
		Answers:        []survey.Answer{{QuestionID: "q1", QuestionText: "Goal?", AnswerText: "Feedback", ResultTag: &tag}},
	}
	path, err := store.Save(want)
	require.NoError(t, err)
	assert.Equal(t, "survey_b2.json", filepath.Base(path))

	_, err = store.Save(&SurveyResult{ConversationID: "a1"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "notes.txt"), []byte("x"), 0o600))

	ids, err = store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "b2"}, ids)

	got, err := store.Load("b2")
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("loaded result mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveRequiresConversationID(t *testing.T) {
	_, err := New(t.TempDir()).Save(&SurveyResult{})
	assert.Error(t, err)
}

func TestLoadMissing(t *testing.T) {
	_, err := New(t.TempDir()).Load("nope")
	assert.Error(t, err)
}
