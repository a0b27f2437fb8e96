package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// SurveyRequest is the inbound chat event. Required string fields are pointers so that a
// missing key can be told apart from an empty value.
type SurveyRequest struct {
	Source        *string         `json:"source"`
	EventType     *string         `json:"event_type"`
	Team          *Team           `json:"team,omitempty"`
	Message       *Message        `json:"message"`
	Sender        *Sender         `json:"sender"`
	Mentions      []Mention       `json:"mentions"`
	CorrelationID *string         `json:"correlation_id"`
	SurveyState   json.RawMessage `json:"survey_state,omitempty"`
}

type Team struct {
	ID        *string `json:"id"`
	ChannelID *string `json:"channel_id"`
}

type Message struct {
	ID          *string `json:"id"`
	ContentType *string `json:"content_type"`
	Content     *string `json:"content"`
	CreatedAt   *string `json:"created_at"`
	ReplyToID   *string `json:"reply_to_id,omitempty"`
}

type Sender struct {
	ID          *string `json:"id"`
	DisplayName *string `json:"display_name"`
}

type Mention struct {
	Type        *string `json:"type"`
	ID          *string `json:"id"`
	DisplayName *string `json:"display_name"`
}

// decodeRequest strictly decodes body: unknown fields and trailing data are rejected.
// The returned request may be partially filled on error so the correlation id can still be
// echoed.
func decodeRequest(body io.Reader) (*SurveyRequest, error) {
	var req SurveyRequest
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return &req, fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return &req, errors.New("invalid JSON body: trailing data")
	}
	if err := req.validate(); err != nil {
		return &req, err
	}
	return &req, nil
}

func (r *SurveyRequest) validate() error {
	var missing []string
	need := func(name string, v *string) {
		if v == nil {
			missing = append(missing, name)
		}
	}

	need("source", r.Source)
	need("event_type", r.EventType)
	need("correlation_id", r.CorrelationID)

	if r.Team != nil {
		need("team.id", r.Team.ID)
		need("team.channel_id", r.Team.ChannelID)
	}
	if r.Message == nil {
		missing = append(missing, "message")
	} else {
		need("message.id", r.Message.ID)
		need("message.content_type", r.Message.ContentType)
		need("message.content", r.Message.Content)
		need("message.created_at", r.Message.CreatedAt)
	}
	if r.Sender == nil {
		missing = append(missing, "sender")
	} else {
		need("sender.id", r.Sender.ID)
		need("sender.display_name", r.Sender.DisplayName)
	}
	if r.Mentions == nil {
		missing = append(missing, "mentions")
	}
	for i, m := range r.Mentions {
		need(fmt.Sprintf("mentions[%d].type", i), m.Type)
		need(fmt.Sprintf("mentions[%d].id", i), m.ID)
		need(fmt.Sprintf("mentions[%d].display_name", i), m.DisplayName)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// surveyState returns the state blob, treating an explicit null like an absent field.
func (r *SurveyRequest) surveyState() json.RawMessage {
	if len(bytes.TrimSpace(r.SurveyState)) == 0 || bytes.Equal(bytes.TrimSpace(r.SurveyState), []byte("null")) {
		return nil
	}
	return r.SurveyState
}

func (r *SurveyRequest) correlationID() string {
	if r == nil || r.CorrelationID == nil {
		return ""
	}
	return *r.CorrelationID
}
