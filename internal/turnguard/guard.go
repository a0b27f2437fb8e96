// Package turnguard rejects replays of an already processed survey state.
//
// Every in-progress state carries a conversation id and a turn number. The first request that
// presents a given (conversation, turn) pair claims it; any later request with the same pair is
// stale, because the caller should have sent the newer state returned by the first one.
package turnguard

import (
	"context"
	"fmt"

	"survey-agent/internal/survey"
)

// Guard claims survey turns.
type Guard interface {
	// Begin claims the turn. It returns a STALE_STATE error when the turn was already claimed.
	Begin(ctx context.Context, conversationID string, turn int) error
	// Abort releases a claim whose turn failed, so the caller can retry with the same state.
	Abort(ctx context.Context, conversationID string, turn int)
}

// Nop accepts every turn.
type Nop struct{}

func (Nop) Begin(context.Context, string, int) error { return nil }

func (Nop) Abort(context.Context, string, int) {}

// ErrStale is returned by Begin for replayed turns.
var ErrStale = survey.NewError(survey.CodeStaleState, "Survey state was already used; send the latest state.", nil)

func key(conversationID string, turn int) string {
	return fmt.Sprintf("survey:turn:%s:%d", conversationID, turn)
}
