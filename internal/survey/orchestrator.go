// Package survey implements the survey state machine: one call per user message, resuming from
// the caller-held state and consulting the model at most once.
package survey

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"survey-agent/internal/catalog"
	svlog "survey-agent/internal/log"
	"survey-agent/internal/metrics"
	"survey-agent/internal/prompts"
)

const (
	summaryInProgress = "Survey in progress."
	continueMessage   = "Please continue the survey."
)

// Decision branches, used as log fields and metric labels.
const (
	branchFirstContact  = "first_contact"
	branchParseFallback = "parse_fallback"
	branchRejected      = "rejected"
	branchEmptyAnswer   = "empty_answer"
	branchAdvanced      = "advanced"
	branchForcedAdvance = "forced_advance"
	branchCompleted     = "completed"
)

// Oracle is the model capability: one prompt in, raw text out.
type Oracle interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Request is one incoming user message plus the state returned by the previous turn.
type Request struct {
	Message    string
	SenderName string
	// State is the opaque blob from the previous result; nil or null on first contact.
	State json.RawMessage
}

// Result is the outcome of one turn. State is nil once the survey is completed.
type Result struct {
	Summary      string
	Answers      []Answer
	Status       Status
	AgentMessage string
	ModelName    string
	LatencyMS    int64
	State        *State
}

// Orchestrator runs survey turns. It holds no per-conversation data and is safe for concurrent
// use.
type Orchestrator struct {
	catalog   *catalog.Catalog
	oracle    Oracle
	modelName string
	logger    zerolog.Logger
	now       func() time.Time
	newID     func() string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the base logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithModelName overrides the model name reported in results.
func WithModelName(name string) Option {
	return func(o *Orchestrator) { o.modelName = name }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithIDGenerator replaces the conversation id generator.
func WithIDGenerator(newID func() string) Option {
	return func(o *Orchestrator) { o.newID = newID }
}

// New builds an orchestrator. If oracle has a ModelName method it provides the default model
// name.
func New(cat *catalog.Catalog, oracle Oracle, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		catalog: cat,
		oracle:  oracle,
		logger:  svlog.WithComponent("survey"),
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
	if named, ok := oracle.(interface{ ModelName() string }); ok {
		o.modelName = named.ModelName()
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Catalog returns the question catalog the orchestrator runs.
func (o *Orchestrator) Catalog() *catalog.Catalog {
	return o.catalog
}

// turn is the working copy of one conversation's progress during a call.
type turn struct {
	initialMessage string
	senderName     string
	message        string
	answers        map[string]string
	conversationID string
	number         int
	start          time.Time
	logger         zerolog.Logger
}

// Run executes one turn. Fatal errors are *Error values with CodeUpstreamUnavailable or
// CodeModelParse; on error no result or state is produced.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	t := &turn{
		initialMessage: req.Message,
		senderName:     req.SenderName,
		message:        req.Message,
		answers:        make(map[string]string),
		logger:         svlog.WithContext(ctx, o.logger),
	}

	var currentID string
	prior, resumed := DecodeState(req.State)
	if resumed {
		t.initialMessage = prior.InitialMessage
		t.conversationID = prior.ConversationID
		t.number = prior.Turn
		currentID = deref(prior.CurrentQuestionID)
		if currentID == "" {
			currentID = deref(prior.AwaitingQuestionID)
		}
		for _, a := range prior.Answers {
			if o.catalog.Has(a.QuestionID) {
				t.answers[a.QuestionID] = a.Answer
			}
		}
	} else {
		t.conversationID = o.newID()
	}

	// An unknown or already answered current id is replaced by the first open question, so a
	// stored answer is never overwritten.
	if !o.catalog.Has(currentID) || catalog.Answered(t.answers, currentID) {
		currentID, _ = o.catalog.FirstUnanswered(t.answers)
	}

	if !resumed && currentID != "" {
		metrics.IncrementSurveysStarted()
		q, _ := o.catalog.Lookup(currentID)
		return o.inProgress(t, branchFirstContact, currentID, q.Text), nil
	}

	t.start = o.now()
	if currentID != "" {
		res, err := o.route(ctx, t, currentID)
		if err != nil || res != nil {
			return res, err
		}
	}
	return o.finalize(ctx, t)
}

// route runs a routing turn. A nil result with a nil error means every question is answered
// and the caller proceeds to finalization.
func (o *Orchestrator) route(ctx context.Context, t *turn, currentID string) (*Result, error) {
	current, _ := o.catalog.Lookup(currentID)
	remaining := o.catalog.Remaining(t.answers)

	prompt := prompts.BuildRoutingPrompt(prompts.RoutingInput{
		InitialMessage:     t.initialMessage,
		SenderName:         t.senderName,
		CurrentQuestionID:  current.ID,
		CurrentQuestion:    current.Text,
		CurrentUserMessage: t.message,
		KnownAnswers:       o.knownAnswers(t.answers, false),
		AllowedNextIDs:     append(remaining, catalog.EndID),
	})

	raw, err := o.generate(ctx, "routing", prompt)
	if err != nil {
		t.logger.Error().Err(err).Str("question_id", currentID).Msg("routing model call failed")
		return nil, errUpstream(err)
	}

	decision, err := ParseRoutingDecision(raw)
	if err != nil {
		metrics.IncrementParseErrors("routing")
		metrics.IncrementParseFallbacks()
		t.logger.Warn().Err(err).Str("question_id", currentID).Msg("routing reply unparseable, falling back")
		return o.fallback(t, currentID), nil
	}

	if !decision.AcceptedAnswer {
		msg := decision.AssistantMessage
		if msg == "" {
			msg = pleaseAnswer(current)
		}
		return o.inProgress(t, branchRejected, currentID, msg), nil
	}

	candidate := ""
	if decision.NormalizedAnswer != nil {
		candidate = strings.TrimSpace(*decision.NormalizedAnswer)
	}
	if candidate == "" {
		candidate = strings.TrimSpace(t.message)
	}
	if candidate == "" {
		return o.inProgress(t, branchEmptyAnswer, currentID, pleaseAnswer(current)), nil
	}

	t.answers[currentID] = candidate

	remainingAfter := o.catalog.Remaining(t.answers)
	nextID := decision.NextQuestionID
	if nextID != catalog.EndID && !slices.Contains(remainingAfter, nextID) {
		nextID = catalog.EndID
		if len(remainingAfter) > 0 {
			nextID = remainingAfter[0]
		}
	}

	switch {
	case nextID != catalog.EndID:
		next, _ := o.catalog.Lookup(nextID)
		return o.inProgress(t, branchAdvanced, nextID, next.Text), nil
	case len(remainingAfter) > 0:
		next, _ := o.catalog.Lookup(remainingAfter[0])
		t.logger.Debug().Str("question_id", next.ID).Msg("model ended early, advancing to open question")
		return o.inProgress(t, branchForcedAdvance, next.ID, next.Text), nil
	default:
		return nil, nil
	}
}

// fallback picks the safe next question after an unparseable routing reply: stay on the current
// question while it is open, otherwise the first open question.
func (o *Orchestrator) fallback(t *turn, currentID string) *Result {
	nextID := currentID
	if catalog.Answered(t.answers, nextID) {
		nextID, _ = o.catalog.FirstUnanswered(t.answers)
	}
	if nextID == "" {
		return o.inProgress(t, branchParseFallback, "", continueMessage)
	}
	q, _ := o.catalog.Lookup(nextID)
	return o.inProgress(t, branchParseFallback, nextID, q.Text)
}

func (o *Orchestrator) finalize(ctx context.Context, t *turn) (*Result, error) {
	prompt := prompts.BuildFinalPrompt(t.initialMessage, t.senderName, o.knownAnswers(t.answers, true))

	raw, err := o.generate(ctx, "final", prompt)
	if err != nil {
		t.logger.Error().Err(err).Msg("final model call failed")
		return nil, errUpstream(err)
	}

	final, err := ParseFinalDecision(raw)
	if err != nil {
		metrics.IncrementParseErrors("final")
		t.logger.Error().Err(err).Msg("final reply unparseable")
		return nil, err
	}

	metrics.IncrementSurveysCompleted()
	metrics.RecordTurn(string(StatusCompleted), branchCompleted)
	t.logger.Info().Str("conversation_id", t.conversationID).Msg("survey completed")

	return &Result{
		Summary:      final.Summary,
		Answers:      BuildAnswers(o.catalog, t.answers),
		Status:       StatusCompleted,
		AgentMessage: final.AgentMessage,
		ModelName:    o.modelName,
		LatencyMS:    o.latency(t),
	}, nil
}

func (o *Orchestrator) generate(ctx context.Context, kind, prompt string) (string, error) {
	start := o.now()
	raw, err := o.oracle.Generate(ctx, prompt)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.ObserveOracleCall(kind, outcome, o.now().Sub(start))
	return raw, err
}

// inProgress builds an in_progress result whose state points at questionID ("" for none).
func (o *Orchestrator) inProgress(t *turn, branch, questionID, message string) *Result {
	var current, awaiting *string
	if questionID != "" {
		id := questionID
		current, awaiting = &id, &id
	}

	stored := make([]StateAnswer, 0, len(t.answers))
	for _, q := range o.catalog.Questions() {
		if catalog.Answered(t.answers, q.ID) {
			stored = append(stored, StateAnswer{QuestionID: q.ID, Answer: t.answers[q.ID]})
		}
	}

	metrics.RecordTurn(string(StatusInProgress), branch)
	t.logger.Debug().
		Str("branch", branch).
		Str("question_id", questionID).
		Int("turn", t.number+1).
		Msg("survey turn")

	return &Result{
		Summary:      summaryInProgress,
		Answers:      BuildAnswers(o.catalog, t.answers),
		Status:       StatusInProgress,
		AgentMessage: message,
		ModelName:    o.modelName,
		LatencyMS:    o.latency(t),
		State: &State{
			Status:             StatusInProgress,
			InitialMessage:     t.initialMessage,
			CurrentQuestionID:  current,
			AwaitingQuestionID: awaiting,
			Answers:            stored,
			ConversationID:     t.conversationID,
			Turn:               t.number + 1,
		},
	}
}

// knownAnswers lists answers in catalog order. With all set, unanswered questions are included
// with an empty answer.
func (o *Orchestrator) knownAnswers(answers map[string]string, all bool) []prompts.KnownAnswer {
	var out []prompts.KnownAnswer
	for _, q := range o.catalog.Questions() {
		if all || catalog.Answered(answers, q.ID) {
			out = append(out, prompts.KnownAnswer{QuestionID: q.ID, Answer: answers[q.ID]})
		}
	}
	return out
}

func (o *Orchestrator) latency(t *turn) int64 {
	if t.start.IsZero() {
		return 0
	}
	return o.now().Sub(t.start).Milliseconds()
}

func pleaseAnswer(q catalog.Question) string {
	return "Please answer this question: " + q.Text
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
