package storage

import (
	"time"

	"survey-agent/internal/survey"
)

// SurveyResult is a completed survey as written to disk.
type SurveyResult struct {
	ConversationID string          `json:"conversation_id"`
	CompletedAt    time.Time       `json:"completed_at"`
	SenderName     string          `json:"sender_name,omitempty"`
	Summary        string          `json:"summary"`
	AgentMessage   string          `json:"agent_message"`
	Model          string          `json:"model"`
	Answers        []survey.Answer `json:"answers"`
}
