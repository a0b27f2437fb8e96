package api

import (
	"net/http"

	svlog "survey-agent/internal/log"
	"survey-agent/internal/metrics"
	"survey-agent/internal/survey"
)

func (s *Server) handleSurvey(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		correlationID := req.correlationID()
		if err != nil {
			writeError(w, correlationID, survey.NewError(survey.CodeValidation, "Invalid request: "+err.Error(), err))
			return
		}

		ctx := svlog.ContextWithCorrelationID(r.Context(), correlationID)
		logger := svlog.WithContext(ctx, s.logger)

		runner, err := s.registry.Lookup(path)
		if err != nil {
			writeError(w, correlationID, err)
			return
		}

		state := req.surveyState()
		if prior, ok := survey.DecodeState(state); ok && prior.ConversationID != "" {
			if err := s.guard.Begin(ctx, prior.ConversationID, prior.Turn); err != nil {
				metrics.IncrementStaleTurns()
				logger.Warn().Str("conversation_id", prior.ConversationID).Int("turn", prior.Turn).Msg("stale survey state rejected")
				writeError(w, correlationID, err)
				return
			}
			defer func() {
				if err != nil {
					s.guard.Abort(ctx, prior.ConversationID, prior.Turn)
				}
			}()
		}

		res, err := runner.Run(ctx, survey.Request{
			Message:    *req.Message.Content,
			SenderName: *req.Sender.DisplayName,
			State:      state,
		})
		if err != nil {
			logger.Error().Err(err).Str("code", string(survey.CodeOf(err))).Msg("survey turn failed")
			writeError(w, correlationID, err)
			return
		}

		var body SuccessResponse
		body, err = successResponse(correlationID, res)
		if err != nil {
			logger.Error().Err(err).Msg("encode survey state")
			writeError(w, correlationID, err)
			return
		}
		writeJSON(w, http.StatusOK, body)
	}
}
