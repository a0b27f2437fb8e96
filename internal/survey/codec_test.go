package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survey-agent/internal/catalog"
)

func TestParseRoutingDecision(t *testing.T) {
	d, err := ParseRoutingDecision(`{"next_question_id":" q2 ","accepted_answer":true,"assistant_message":" Thanks. ","normalized_answer":"  Engineers "}`)
	require.NoError(t, err)
	assert.Equal(t, "q2", d.NextQuestionID)
	assert.True(t, d.AcceptedAnswer)
	assert.Equal(t, "Thanks.", d.AssistantMessage)
	require.NotNil(t, d.NormalizedAnswer)
	assert.Equal(t, "Engineers", *d.NormalizedAnswer)
}

func TestParseRoutingDecisionOptionalNormalized(t *testing.T) {
	for _, raw := range []string{
		`{"next_question_id":"q1","accepted_answer":false,"assistant_message":"clarify"}`,
		`{"next_question_id":"q1","accepted_answer":false,"assistant_message":"clarify","normalized_answer":null}`,
	} {
		d, err := ParseRoutingDecision(raw)
		require.NoError(t, err, raw)
		assert.Nil(t, d.NormalizedAnswer)
		assert.False(t, d.AcceptedAnswer)
	}
}

func TestParseRoutingDecisionRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "sure, next question"},
		{name: "empty", raw: ""},
		{name: "array", raw: `[1,2]`},
		{name: "string", raw: `"q2"`},
		{name: "missing next id", raw: `{"accepted_answer":true,"assistant_message":"x"}`},
		{name: "next id blank", raw: `{"next_question_id":"  ","accepted_answer":true,"assistant_message":"x"}`},
		{name: "next id not string", raw: `{"next_question_id":2,"accepted_answer":true,"assistant_message":"x"}`},
		{name: "accepted as string", raw: `{"next_question_id":"q2","accepted_answer":"true","assistant_message":"x"}`},
		{name: "missing accepted", raw: `{"next_question_id":"q2","assistant_message":"x"}`},
		{name: "missing message", raw: `{"next_question_id":"q2","accepted_answer":true}`},
		{name: "message null", raw: `{"next_question_id":"q2","accepted_answer":true,"assistant_message":null}`},
		{name: "normalized number", raw: `{"next_question_id":"q2","accepted_answer":true,"assistant_message":"x","normalized_answer":5}`},
		{name: "markdown fenced", raw: "```json\n{\"next_question_id\":\"q2\",\"accepted_answer\":true,\"assistant_message\":\"x\"}\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRoutingDecision(tt.raw)
			require.Error(t, err)
			assert.Equal(t, CodeModelParse, CodeOf(err))
		})
	}
}

func TestParseFinalDecision(t *testing.T) {
	d, err := ParseFinalDecision(`{"summary":" done ","agent_message":" Thanks! "}`)
	require.NoError(t, err)
	assert.Equal(t, FinalDecision{Summary: "done", AgentMessage: "Thanks!"}, d)
}

func TestParseFinalDecisionRejectsMalformed(t *testing.T) {
	for _, raw := range []string{
		`{"summary":"x"}`,
		`{"agent_message":"x"}`,
		`{"summary":1,"agent_message":"x"}`,
		`{"summary":"x","agent_message":false}`,
		`null`,
		`{`,
	} {
		_, err := ParseFinalDecision(raw)
		require.Error(t, err, raw)
		assert.Equal(t, CodeModelParse, CodeOf(err), raw)
	}
}

func TestBuildAnswers(t *testing.T) {
	cat := catalog.MustNew([]catalog.Question{
		{ID: "a", Text: "First?", ResultTag: "t1"},
		{ID: "b", Text: "Second?"},
	})

	got := BuildAnswers(cat, map[string]string{"b": "yes", "zz": "ignored"})
	require.Len(t, got, 2)

	assert.Equal(t, "a", got[0].QuestionID)
	assert.Equal(t, "First?", got[0].QuestionText)
	assert.Equal(t, "", got[0].AnswerText)
	require.NotNil(t, got[0].ResultTag)
	assert.Equal(t, "t1", *got[0].ResultTag)

	assert.Equal(t, "yes", got[1].AnswerText)
	assert.Nil(t, got[1].ResultTag)
}
