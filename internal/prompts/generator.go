// Package prompts builds the model prompts for survey routing and finalization.
package prompts

import (
	"fmt"
	"strings"
)

// KnownAnswer is one question id with its answer text as shown to the model.
type KnownAnswer struct {
	QuestionID string
	Answer     string
}

// RoutingInput is everything the routing prompt is built from.
type RoutingInput struct {
	InitialMessage     string
	SenderName         string
	CurrentQuestionID  string
	CurrentQuestion    string
	CurrentUserMessage string
	KnownAnswers       []KnownAnswer
	AllowedNextIDs     []string
}

// Markers the routing and final prompts always contain. Test oracles use them to tell the two
// prompt kinds apart.
const (
	RoutingMarker = "next_question_id"
	FinalMarker   = "summary and agent_message"
)

// BuildRoutingPrompt asks the model to judge the user's message against the current question
// and to choose the next question from AllowedNextIDs.
func BuildRoutingPrompt(in RoutingInput) string {
	var prompt strings.Builder

	prompt.WriteString("You are the survey routing controller.\n")
	prompt.WriteString("Decide whether the user answered the current question.\n")
	prompt.WriteString("If the message is off-topic or unclear, set accepted_answer=false and keep next_question_id equal to the current question id.\n")
	prompt.WriteString("Allowed next_question_id values are restricted to the provided list.\n")
	prompt.WriteString("Return JSON only with keys: next_question_id (string), accepted_answer (boolean), ")
	prompt.WriteString("normalized_answer (string or null), assistant_message (string).\n\n")

	prompt.WriteString(fmt.Sprintf("Sender: %s\n", in.SenderName))
	prompt.WriteString(fmt.Sprintf("Initial message: %s\n", in.InitialMessage))
	prompt.WriteString(fmt.Sprintf("Current question id: %s\n", in.CurrentQuestionID))
	prompt.WriteString(fmt.Sprintf("Current question: %s\n", in.CurrentQuestion))
	prompt.WriteString(fmt.Sprintf("Current user message: %s\n", in.CurrentUserMessage))
	prompt.WriteString("Existing answers:\n")
	writeAnswers(&prompt, in.KnownAnswers)
	prompt.WriteString(fmt.Sprintf("Allowed next ids: %s\n\n", strings.Join(in.AllowedNextIDs, ", ")))

	prompt.WriteString("JSON format example:\n")
	prompt.WriteString(`{"next_question_id":"q2","accepted_answer":true,"normalized_answer":"Product managers","assistant_message":"Thanks."}`)

	return prompt.String()
}

// BuildFinalPrompt asks the model for a closing summary once every question is answered.
func BuildFinalPrompt(initialMessage, senderName string, answers []KnownAnswer) string {
	var prompt strings.Builder

	prompt.WriteString("You are the survey assistant.\n")
	prompt.WriteString("Given the survey answers, return JSON only with keys: " + FinalMarker + ".\n")
	prompt.WriteString("summary must be concise. agent_message should be a direct reply to the user.\n\n")

	prompt.WriteString(fmt.Sprintf("Sender: %s\n", senderName))
	prompt.WriteString(fmt.Sprintf("Initial message: %s\n\n", initialMessage))
	prompt.WriteString("Survey answers:\n")
	writeAnswers(&prompt, answers)
	prompt.WriteString("\n")

	prompt.WriteString("JSON format example:\n")
	prompt.WriteString(`{"summary":"...","agent_message":"..."}`)

	return prompt.String()
}

func writeAnswers(b *strings.Builder, answers []KnownAnswer) {
	if len(answers) == 0 {
		b.WriteString("- none\n")
		return
	}
	for _, a := range answers {
		b.WriteString(fmt.Sprintf("- %s: %s\n", a.QuestionID, a.Answer))
	}
}
