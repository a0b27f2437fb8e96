package survey

import (
	"encoding/json"
	"fmt"
	"strings"

	"survey-agent/internal/catalog"
)

// RoutingDecision is the validated reply to a routing prompt.
type RoutingDecision struct {
	NextQuestionID   string
	AcceptedAnswer   bool
	AssistantMessage string
	NormalizedAnswer *string
}

// FinalDecision is the validated reply to a final-summary prompt.
type FinalDecision struct {
	Summary      string
	AgentMessage string
}

// Answer joins a catalog question with its current answer ("" when unanswered).
type Answer struct {
	QuestionID   string  `json:"question_id"`
	QuestionText string  `json:"question"`
	AnswerText   string  `json:"answer"`
	ResultTag    *string `json:"solution_id"`
}

// ParseRoutingDecision strictly parses a routing reply. Every violation of the expected shape
// yields a MODEL_PARSE_ERROR.
func ParseRoutingDecision(raw string) (RoutingDecision, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return RoutingDecision{}, err
	}

	nextID, ok := obj["next_question_id"].(string)
	if !ok || strings.TrimSpace(nextID) == "" {
		return RoutingDecision{}, errModelParse(fmt.Errorf("next_question_id must be a non-empty string"))
	}
	accepted, ok := obj["accepted_answer"].(bool)
	if !ok {
		return RoutingDecision{}, errModelParse(fmt.Errorf("accepted_answer must be a boolean"))
	}
	message, ok := obj["assistant_message"].(string)
	if !ok {
		return RoutingDecision{}, errModelParse(fmt.Errorf("assistant_message must be a string"))
	}

	d := RoutingDecision{
		NextQuestionID:   strings.TrimSpace(nextID),
		AcceptedAnswer:   accepted,
		AssistantMessage: strings.TrimSpace(message),
	}

	switch v := obj["normalized_answer"].(type) {
	case nil:
	case string:
		normalized := strings.TrimSpace(v)
		d.NormalizedAnswer = &normalized
	default:
		return RoutingDecision{}, errModelParse(fmt.Errorf("normalized_answer must be a string or null"))
	}

	return d, nil
}

// ParseFinalDecision strictly parses a final-summary reply.
func ParseFinalDecision(raw string) (FinalDecision, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return FinalDecision{}, err
	}

	summary, ok := obj["summary"].(string)
	if !ok {
		return FinalDecision{}, errModelParse(fmt.Errorf("summary must be a string"))
	}
	message, ok := obj["agent_message"].(string)
	if !ok {
		return FinalDecision{}, errModelParse(fmt.Errorf("agent_message must be a string"))
	}

	return FinalDecision{
		Summary:      strings.TrimSpace(summary),
		AgentMessage: strings.TrimSpace(message),
	}, nil
}

func decodeObject(raw string) (map[string]any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, errModelParse(err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errModelParse(fmt.Errorf("top-level value is %T, want object", v))
	}
	return obj, nil
}

// BuildAnswers returns one Answer per catalog question, in catalog order.
func BuildAnswers(cat *catalog.Catalog, answers map[string]string) []Answer {
	questions := cat.Questions()
	out := make([]Answer, 0, len(questions))
	for _, q := range questions {
		a := Answer{
			QuestionID:   q.ID,
			QuestionText: q.Text,
			AnswerText:   answers[q.ID],
		}
		if q.ResultTag != "" {
			tag := q.ResultTag
			a.ResultTag = &tag
		}
		out = append(out, a)
	}
	return out
}
