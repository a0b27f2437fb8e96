package api

import (
	"encoding/json"
	"net/http"

	"survey-agent/internal/survey"
)

type SuccessResponse struct {
	OK            bool       `json:"ok"`
	CorrelationID string     `json:"correlation_id"`
	Result        ResultBody `json:"result"`
	Meta          Meta       `json:"meta"`
}

type ResultBody struct {
	Summary      string          `json:"summary"`
	Answers      []survey.Answer `json:"answers"`
	Status       survey.Status   `json:"status"`
	AgentMessage string          `json:"agent_message"`
	SurveyState  json.RawMessage `json:"survey_state"`
}

type Meta struct {
	Model     string `json:"model"`
	LatencyMS int64  `json:"latency_ms"`
}

type ErrorResponse struct {
	OK            bool        `json:"ok"`
	CorrelationID string      `json:"correlation_id"`
	Error         ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    survey.Code `json:"code"`
	Message string      `json:"message"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the error envelope with the status mapped from the error code.
func writeError(w http.ResponseWriter, correlationID string, err error) {
	code := survey.CodeOf(err)
	writeJSON(w, statusFor(code), ErrorResponse{
		OK:            false,
		CorrelationID: correlationID,
		Error:         ErrorDetail{Code: code, Message: survey.MessageOf(err)},
	})
}

func statusFor(code survey.Code) int {
	switch code {
	case survey.CodeValidation:
		return http.StatusUnprocessableEntity
	case survey.CodeStaleState:
		return http.StatusConflict
	case survey.CodeAgentNotFound:
		return http.StatusNotFound
	case survey.CodeRateLimited:
		return http.StatusTooManyRequests
	case survey.CodeUpstreamUnavailable, survey.CodeModelParse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func successResponse(correlationID string, res *survey.Result) (SuccessResponse, error) {
	state, err := survey.EncodeState(res.State)
	if err != nil {
		return SuccessResponse{}, err
	}
	answers := res.Answers
	if answers == nil {
		answers = []survey.Answer{}
	}
	return SuccessResponse{
		OK:            true,
		CorrelationID: correlationID,
		Result: ResultBody{
			Summary:      res.Summary,
			Answers:      answers,
			Status:       res.Status,
			AgentMessage: res.AgentMessage,
			SurveyState:  state,
		},
		Meta: Meta{Model: res.ModelName, LatencyMS: res.LatencyMS},
	}, nil
}
