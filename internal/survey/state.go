package survey

import (
	"bytes"
	"encoding/json"
	"math"
)

// Status is the survey lifecycle status.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// StateAnswer is one stored answer inside a State.
type StateAnswer struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

// State is the persisted survey snapshot. Callers treat it as an opaque blob and send it back
// unchanged on the next turn.
//
// ConversationID and Turn are used by the turn guard to detect replayed states; both are omitted
// from the wire form when unset.
type State struct {
	Status             Status        `json:"status"`
	InitialMessage     string        `json:"initial_message"`
	CurrentQuestionID  *string       `json:"current_question_id"`
	AwaitingQuestionID *string       `json:"awaiting_question_id"`
	Answers            []StateAnswer `json:"answers"`
	ConversationID     string        `json:"conversation_id,omitempty"`
	Turn               int           `json:"turn,omitempty"`
}

// EncodeState serializes a state. A nil state encodes as JSON null.
func EncodeState(s *State) (json.RawMessage, error) {
	if s == nil {
		return json.RawMessage("null"), nil
	}
	out := *s
	if out.Answers == nil {
		out.Answers = []StateAnswer{}
	}
	return json.Marshal(out)
}

// DecodeState reads a state leniently. It reports false when raw is empty, null, not an object,
// or lacks string status and initial_message; the caller then treats the turn as first contact.
// Mistyped optional fields are dropped rather than rejected.
func DecodeState(raw []byte) (*State, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, false
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil || data == nil {
		return nil, false
	}

	status, ok := data["status"].(string)
	if !ok {
		return nil, false
	}
	initial, ok := data["initial_message"].(string)
	if !ok {
		return nil, false
	}

	s := &State{
		Status:             Status(status),
		InitialMessage:     initial,
		CurrentQuestionID:  optionalString(data["current_question_id"]),
		AwaitingQuestionID: optionalString(data["awaiting_question_id"]),
		Answers:            []StateAnswer{},
	}

	if items, ok := data["answers"].([]any); ok {
		for _, item := range items {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			qid, okID := obj["question_id"].(string)
			answer, okAnswer := obj["answer"].(string)
			if okID && okAnswer {
				s.Answers = append(s.Answers, StateAnswer{QuestionID: qid, Answer: answer})
			}
		}
	}

	if cid, ok := data["conversation_id"].(string); ok {
		s.ConversationID = cid
	}
	if n, ok := data["turn"].(json.Number); ok {
		if v, err := n.Int64(); err == nil && v > 0 && v <= math.MaxInt32 {
			s.Turn = int(v)
		}
	}

	return s, true
}

func optionalString(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}
