package survey

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRoundTrip(t *testing.T) {
	tests := []string{
		`{"status":"in_progress","initial_message":"start","current_question_id":"q2","awaiting_question_id":"q2","answers":[{"question_id":"q1","answer":"A1"}],"conversation_id":"c-1","turn":3}`,
		`{"status":"in_progress","initial_message":"","current_question_id":null,"awaiting_question_id":null,"answers":[]}`,
		`{"status":"completed","initial_message":"hi","current_question_id":"q1","awaiting_question_id":null,"answers":[{"question_id":"q1","answer":"x"},{"question_id":"q3","answer":"y"}]}`,
	}

	for _, raw := range tests {
		s, ok := DecodeState([]byte(raw))
		require.True(t, ok, raw)

		out, err := EncodeState(s)
		require.NoError(t, err)

		var want, got any
		require.NoError(t, json.Unmarshal([]byte(raw), &want))
		require.NoError(t, json.Unmarshal(out, &got))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestDecodeStateRejectsMalformed(t *testing.T) {
	for _, raw := range []string{
		``,
		`null`,
		`   `,
		`[]`,
		`"state"`,
		`{"initial_message":"x"}`,
		`{"status":"in_progress"}`,
		`{"status":1,"initial_message":"x"}`,
		`{not json`,
	} {
		_, ok := DecodeState([]byte(raw))
		assert.False(t, ok, raw)
	}
}

func TestDecodeStateDropsMistypedFields(t *testing.T) {
	raw := `{
		"status":"in_progress",
		"initial_message":"x",
		"current_question_id":5,
		"awaiting_question_id":"q2",
		"answers":[{"question_id":"q1","answer":"A"},"junk",{"question_id":"q2"},{"question_id":3,"answer":"B"}],
		"conversation_id":7,
		"turn":"two"
	}`

	s, ok := DecodeState([]byte(raw))
	require.True(t, ok)
	assert.Nil(t, s.CurrentQuestionID)
	require.NotNil(t, s.AwaitingQuestionID)
	assert.Equal(t, "q2", *s.AwaitingQuestionID)
	assert.Equal(t, []StateAnswer{{QuestionID: "q1", Answer: "A"}}, s.Answers)
	assert.Empty(t, s.ConversationID)
	assert.Zero(t, s.Turn)
}

func TestEncodeNilState(t *testing.T) {
	out, err := EncodeState(nil)
	require.NoError(t, err)
	assert.JSONEq(t, "null", string(out))
}

func TestEncodeStateEmitsEmptyAnswers(t *testing.T) {
	out, err := EncodeState(&State{Status: StatusInProgress})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"in_progress","initial_message":"","current_question_id":null,"awaiting_question_id":null,"answers":[]}`, string(out))
}
