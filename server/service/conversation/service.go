// Package conversation implements the conversation processor: it classifies each
// user message, picks the coaching agent that owns it, calls the generative
// backend and records the exchange.
//
// A request is processed in three phases:
//   - load: the working thread, histories and portfolio counts are read concurrently
//   - generate: the agent prompt is built and the backend is called (or a clarification is served)
//   - commit: thread, turns and extracted actions are written in one transaction
//
// Nothing is written before generation succeeds.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"golang.org/x/sync/errgroup"

	"github.com/hrygo/northstar/plugin/ai"
	"github.com/hrygo/northstar/plugin/ai/agent"
	"github.com/hrygo/northstar/plugin/ai/timeout"
	aierrors "github.com/hrygo/northstar/server/internal/errors"
	"github.com/hrygo/northstar/server/internal/observability"
	"github.com/hrygo/northstar/store"
)

// reviewDateLayout is the date format agents use in GOAL_CREATED markers.
const reviewDateLayout = "2006-01-02"

// MaxMessageLength bounds the user message accepted by Process.
const MaxMessageLength = 4000

type service struct {
	store        *store.Store
	llm          ai.LLMService
	registry     *agent.Registry
	classifier   *agent.IntentClassifier
	selector     *agent.Selector
	orchestrator *agent.Orchestrator
	metrics      *agent.AgentMetrics
	logger       *slog.Logger
}

// Option customizes the service.
type Option func(*service)

// WithRegistry replaces the default agent registry.
func WithRegistry(registry *agent.Registry) Option {
	return func(s *service) {
		s.registry = registry
	}
}

// WithLogger sets the logger used for request logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithMetrics shares a metrics collector with the caller.
func WithMetrics(metrics *agent.AgentMetrics) Option {
	return func(s *service) {
		s.metrics = metrics
	}
}

// NewService creates a conversation service.
func NewService(st *store.Store, llm ai.LLMService, opts ...Option) Service {
	s := &service{
		store:      st,
		llm:        llm,
		classifier: agent.NewIntentClassifier(),
		metrics:    agent.NewAgentMetrics(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = agent.DefaultRegistry()
	}
	s.selector = agent.NewSelector(s.registry)
	s.orchestrator = agent.NewOrchestrator(s.registry)
	return s
}

func (s *service) Agents() []agent.AgentInfo {
	return s.registry.ListAgentInfo()
}

func (s *service) Metrics() agent.MetricsSummary {
	return s.metrics.GetSummary()
}

func (s *service) Analyze(message string, cc agent.ClassifyContext) *Analysis {
	result := s.classifier.Classify(message, cc)
	selected := s.selector.Select(result.Intent)
	return &Analysis{
		Result:    result,
		AgentType: selected,
		Route:     agent.RouteFor(selected),
	}
}

// snapshot is everything Process reads from the store before generating.
type snapshot struct {
	user            *store.User
	threadTurns     []*store.ConversationTurn
	sessionTurns    []*store.ConversationTurn
	personaCount    int
	activeGoalCount int
	targetPersona   *store.Persona
}

func (s *service) Process(ctx context.Context, req *ProcessRequest) (*ProcessResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	override, err := s.overrideAgent(req.Context)
	if err != nil {
		return nil, err
	}

	reqCtx := observability.NewRequestContext(s.logger, req.UserID)
	ctx = observability.WithRequestContext(ctx, reqCtx)

	current, err := s.resolveThread(ctx, reqCtx, req)
	if err != nil {
		return nil, err
	}
	sessionID := req.SessionID
	if current != nil {
		sessionID = current.SessionID
	}
	if sessionID == "" {
		sessionID = shortuuid.New()
	}

	snap, err := s.load(ctx, req, current, sessionID)
	if err != nil {
		return nil, err
	}
	threadHistory := toTurns(snap.threadTurns)

	// Classify, or honour the caller's override.
	var intent agent.IntentResult
	var selected agent.AgentType
	if override != "" {
		intent = agent.OverrideResult(override)
		selected = override
	} else {
		intent = s.classifier.Classify(req.Message, classifyContext(req.Context, threadHistory))
		selected = s.selector.Select(intent.Intent)
	}
	s.metrics.RecordIntent(intent.Intent)
	reqCtx.SetAgentType(selected.String())

	var currentAgent agent.AgentType
	if current != nil {
		currentAgent = agent.AgentType(current.AgentType)
	}
	decision := s.orchestrator.DecideThread(currentAgent, selected)

	threadUID := ""
	if decision.NewThread {
		threadUID = shortuuid.New()
		// A fresh thread starts without history.
		threadHistory = nil
	} else {
		threadUID = current.UID
	}

	var intentTransition agent.Transition
	if decision.Transitioned {
		intentTransition = s.orchestrator.IntentTransition(decision.Previous, selected, intent.Intent, threadUID)
	}

	a, ok := s.registry.Get(selected)
	if !ok {
		a = s.registry.Default()
		selected = a.Type()
	}

	actx := &agent.Context{
		ThreadID:        threadUID,
		SessionID:       sessionID,
		UserID:          req.UserID,
		TargetPersonaID: req.TargetPersonaID,
		TargetGoalID:    req.TargetGoalID,
		ThreadHistory:   threadHistory,
		SessionHistory:  toTurns(snap.sessionTurns),
		PersonaCount:    snap.personaCount,
		ActiveGoalCount: snap.activeGoalCount,
		Intent:          intent.Intent,
		Confidence:      intent.Confidence,
		TemporaryState:  req.Context,
	}
	if snap.targetPersona != nil {
		actx.TargetPersona = &agent.PersonaSnapshot{
			ID:        snap.targetPersona.ID,
			Name:      snap.targetPersona.Name,
			NorthStar: snap.targetPersona.NorthStar,
		}
	}

	started := time.Now()
	extraction, clarified, err := s.generate(ctx, a, actx, req.Message)
	if err != nil {
		s.metrics.RecordExecution(selected, time.Since(started), false)
		reqCtx.Error(ctx, "generation failed", err, slog.String(observability.LogFieldIntent, intent.Intent.String()))
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, aierrors.Timeout("generation timed out", err)
		}
		if errors.Is(err, context.Canceled) {
			return nil, aierrors.ContextCanceled(err)
		}
		return nil, aierrors.LLMUnavailable("failed to generate reply", err)
	}

	inText := s.orchestrator.InTextTransition(selected, extraction.Transition)
	transition, suggested := s.orchestrator.Merge(intentTransition, inText)

	applied, err := s.commit(ctx, commitPlan{
		req:           req,
		current:       current,
		decision:      decision,
		threadUID:     threadUID,
		sessionID:     sessionID,
		agentType:     selected,
		intent:        intent,
		reply:         extraction.Text,
		actions:       extraction.Actions,
		targetPersona: snap.targetPersona,
	})
	if err != nil {
		s.metrics.RecordExecution(selected, time.Since(started), false)
		reqCtx.Error(ctx, "failed to persist conversation", err)
		return nil, aierrors.PersistenceFailed("failed to persist conversation", err)
	}

	s.metrics.RecordExecution(selected, time.Since(started), true)
	s.metrics.RecordActions(extraction.Actions)
	if transition.Occurred {
		s.metrics.RecordTransition()
	}
	if clarified {
		s.metrics.RecordClarification()
	}

	result := &ProcessResult{
		ThreadID:            threadUID,
		SessionID:           sessionID,
		AgentType:           selected,
		Intent:              intent,
		Text:                extraction.Text,
		Actions:             applied,
		Transition:          transition,
		SuggestedTransition: suggested,
		Clarified:           clarified,
		Context:             echoContext(req.Context, extraction.Text),
	}
	if decision.Transitioned {
		result.PreviousAgentType = decision.Previous
	}

	reqCtx.Info(ctx, "conversation processed",
		slog.String(observability.LogFieldThreadID, threadUID),
		slog.String(observability.LogFieldSessionID, sessionID),
		slog.String(observability.LogFieldIntent, intent.Intent.String()),
		slog.Float64(observability.LogFieldConfidence, intent.Confidence),
		slog.Int(observability.LogFieldMessageLen, len(req.Message)),
		slog.Bool("transitioned", transition.Occurred),
		slog.Int("actions", len(applied)),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()),
	)
	return result, nil
}

func validateRequest(req *ProcessRequest) error {
	if req == nil {
		return aierrors.InvalidArgument("request is required")
	}
	if req.UserID <= 0 {
		return aierrors.InvalidArgument("user id is required")
	}
	if strings.TrimSpace(req.Message) == "" {
		return aierrors.Wrap(agent.ErrEmptyMessage, aierrors.ErrCodeInvalidArgument, "message is required")
	}
	if len(req.Message) > MaxMessageLength {
		return aierrors.InvalidArgument(fmt.Sprintf("message exceeds %d bytes", MaxMessageLength))
	}
	return nil
}

// overrideAgent returns the agent forced by the caller, or empty.
func (s *service) overrideAgent(bag map[string]any) (agent.AgentType, error) {
	raw, ok := bag[ContextKeyAgentOverride]
	if !ok || raw == nil {
		return "", nil
	}
	name, ok := raw.(string)
	if !ok {
		return "", aierrors.InvalidArgument("agent_override must be a string")
	}
	if name == "" {
		return "", nil
	}
	t := agent.AgentType(strings.ToLower(strings.TrimSpace(name)))
	if !s.registry.Has(t) {
		return "", aierrors.Wrap(agent.ErrAgentNotFound, aierrors.ErrCodeInvalidArgument, fmt.Sprintf("unknown agent %q", name))
	}
	return t, nil
}

// resolveThread returns the caller's thread, or nil when a new one must be opened.
// An unknown uid, or one owned by another user, starts a new thread.
func (s *service) resolveThread(ctx context.Context, reqCtx *observability.RequestContext, req *ProcessRequest) (*store.ConversationThread, error) {
	if req.ThreadID == "" {
		return nil, nil
	}
	thread, err := s.store.GetConversationThread(ctx, &store.FindConversationThread{UID: &req.ThreadID})
	if err != nil {
		return nil, aierrors.PersistenceFailed("failed to load conversation thread", err)
	}
	if thread == nil || thread.UserID != req.UserID {
		reqCtx.Warn(ctx, "thread not found, starting a new one", slog.String(observability.LogFieldThreadID, req.ThreadID))
		return nil, nil
	}
	return thread, nil
}

// load reads the request snapshot concurrently.
func (s *service) load(ctx context.Context, req *ProcessRequest, current *store.ConversationThread, sessionID string) (*snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout.StoreTimeout)
	defer cancel()

	snap := &snapshot{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		user, err := s.store.GetUser(gctx, &store.FindUser{ID: &req.UserID})
		if err != nil {
			return aierrors.PersistenceFailed("failed to load user", err)
		}
		if user == nil {
			return aierrors.NotFound(fmt.Sprintf("user %d not found", req.UserID))
		}
		snap.user = user
		return nil
	})
	if current != nil {
		g.Go(func() error {
			turns, err := s.store.ListConversationTurns(gctx, &store.FindConversationTurn{ThreadID: &current.ID})
			if err != nil {
				return aierrors.PersistenceFailed("failed to load thread history", err)
			}
			snap.threadTurns = turns
			return nil
		})
	}
	g.Go(func() error {
		turns, err := s.store.ListConversationTurns(gctx, &store.FindConversationTurn{SessionID: &sessionID, UserID: &req.UserID})
		if err != nil {
			return aierrors.PersistenceFailed("failed to load session history", err)
		}
		snap.sessionTurns = turns
		return nil
	})
	g.Go(func() error {
		count, err := s.store.CountPersonas(gctx, req.UserID)
		if err != nil {
			return aierrors.PersistenceFailed("failed to count personas", err)
		}
		snap.personaCount = count
		return nil
	})
	g.Go(func() error {
		count, err := s.store.CountActiveGoals(gctx, req.UserID)
		if err != nil {
			return aierrors.PersistenceFailed("failed to count goals", err)
		}
		snap.activeGoalCount = count
		return nil
	})
	if req.TargetPersonaID != nil {
		g.Go(func() error {
			persona, err := s.store.GetPersona(gctx, &store.FindPersona{ID: req.TargetPersonaID})
			if err != nil {
				return aierrors.PersistenceFailed("failed to load target persona", err)
			}
			if persona == nil || persona.UserID != req.UserID {
				return aierrors.NotFound(fmt.Sprintf("persona %d not found", *req.TargetPersonaID))
			}
			snap.targetPersona = persona
			return nil
		})
	}
	if req.TargetGoalID != nil {
		g.Go(func() error {
			goals, err := s.store.ListGoals(gctx, &store.FindGoal{ID: req.TargetGoalID, UserID: &req.UserID})
			if err != nil {
				return aierrors.PersistenceFailed("failed to load target goal", err)
			}
			if len(goals) == 0 {
				return aierrors.NotFound(fmt.Sprintf("goal %d not found", *req.TargetGoalID))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// generate produces the agent reply. Agents that cannot run without more context
// answer with a clarification and the backend is not called.
func (s *service) generate(ctx context.Context, a agent.Agent, actx *agent.Context, message string) (*agent.Extraction, bool, error) {
	if reply, ok := a.Clarification(actx); ok {
		return &agent.Extraction{Text: reply}, true, nil
	}

	genCtx, cancel := context.WithTimeout(ctx, timeout.GenerationTimeout)
	defer cancel()

	raw, err := s.llm.Chat(genCtx, ai.FormatMessages(a.GeneratePrompt(actx), message, nil))
	if err != nil {
		return nil, false, agent.NewAgentError(a.Type(), "generate", fmt.Errorf("%w: %w", agent.ErrLLMUnavailable, err))
	}
	return a.Extract(raw), false, nil
}

type commitPlan struct {
	req           *ProcessRequest
	current       *store.ConversationThread
	decision      agent.ThreadDecision
	threadUID     string
	sessionID     string
	agentType     agent.AgentType
	intent        agent.IntentResult
	reply         string
	actions       []agent.Action
	targetPersona *store.Persona
}

// commit writes the thread, both turns and every extracted action as one unit.
func (s *service) commit(ctx context.Context, plan commitPlan) ([]AppliedAction, error) {
	var applied []AppliedAction
	err := s.store.RunInTx(ctx, func(tx *store.Store) error {
		now := time.Now().Unix()
		thread := plan.current

		if plan.decision.NewThread {
			if plan.decision.Transitioned && plan.current != nil {
				if _, err := tx.UpdateConversationThread(ctx, &store.UpdateConversationThread{ID: plan.current.ID, EndedTs: &now}); err != nil {
					return err
				}
			}
			created, err := tx.CreateConversationThread(ctx, &store.ConversationThread{
				UID:       plan.threadUID,
				UserID:    plan.req.UserID,
				SessionID: plan.sessionID,
				AgentType: plan.agentType.String(),
				CreatedTs: now,
				UpdatedTs: now,
			})
			if err != nil {
				return err
			}
			thread = created
		} else if _, err := tx.UpdateConversationThread(ctx, &store.UpdateConversationThread{ID: thread.ID, UpdatedTs: &now}); err != nil {
			return err
		}

		turns := []*store.ConversationTurn{
			{
				UID:        shortuuid.New(),
				ThreadID:   thread.ID,
				Speaker:    store.SpeakerUser,
				Text:       plan.req.Message,
				AgentType:  plan.agentType.String(),
				Intent:     plan.intent.Intent.String(),
				Confidence: plan.intent.Confidence,
				CreatedTs:  now,
			},
			{
				UID:       shortuuid.New(),
				ThreadID:  thread.ID,
				Speaker:   store.SpeakerAgent,
				Text:      plan.reply,
				AgentType: plan.agentType.String(),
				CreatedTs: now,
			},
		}
		for _, turn := range turns {
			if _, err := tx.CreateConversationTurn(ctx, turn); err != nil {
				return err
			}
		}

		var err error
		applied, err = applyActions(ctx, tx, plan.req.UserID, plan.targetPersona, plan.actions)
		return err
	})
	if err != nil {
		return nil, err
	}
	return applied, nil
}

func applyActions(ctx context.Context, tx *store.Store, userID int32, target *store.Persona, actions []agent.Action) ([]AppliedAction, error) {
	applied := make([]AppliedAction, 0, len(actions))
	for _, action := range actions {
		switch action.Kind {
		case agent.ActionPersonaCreate:
			persona, err := tx.CreatePersona(ctx, &store.Persona{
				UserID:     userID,
				Name:       action.Name,
				NorthStar:  action.NorthStar,
				IsCalling:  false,
				Importance: store.DefaultPersonaImportance,
			})
			if err != nil {
				return nil, err
			}
			applied = append(applied, AppliedAction{Kind: action.Kind, Persona: persona})

		case agent.ActionPersonaUpdateNorthStar:
			if target == nil {
				applied = append(applied, AppliedAction{Kind: action.Kind, Skipped: "no target persona"})
				continue
			}
			northStar := action.NorthStar
			persona, err := tx.UpdatePersona(ctx, &store.UpdatePersona{ID: target.ID, NorthStar: &northStar})
			if err != nil {
				return nil, err
			}
			applied = append(applied, AppliedAction{Kind: action.Kind, Persona: persona})

		case agent.ActionGoalCreate:
			goal := &store.Goal{
				UserID:             userID,
				Name:               action.Name,
				AcceptanceCriteria: action.AcceptanceCriteria,
				ReviewDate:         parseReviewDate(action.ReviewDate),
				PlannedHours:       0,
				ActualHours:        0,
				Status:             store.GoalStatusActive,
			}
			if target != nil {
				goal.PersonaID = target.ID
			}
			created, err := tx.CreateGoal(ctx, goal)
			if err != nil {
				return nil, err
			}
			applied = append(applied, AppliedAction{Kind: action.Kind, Goal: created})
		}
	}
	return applied, nil
}

// parseReviewDate reads a YYYY-MM-DD review date. Anything else means "review now".
func parseReviewDate(value string) int64 {
	if t, err := time.Parse(reviewDateLayout, strings.TrimSpace(value)); err == nil {
		return t.Unix()
	}
	return time.Now().Unix()
}

// classifyContext derives the classifier state from the caller's bag and the thread history.
func classifyContext(bag map[string]any, history []agent.Turn) agent.ClassifyContext {
	cc := agent.ClassifyContext{History: history}
	if awaiting, ok := bag[ContextKeyAwaitingConfirmation].(bool); ok && awaiting {
		cc.AwaitingConfirmation = true
	}
	if pending, ok := bag[ContextKeyPendingTransition].(string); ok && pending != "" {
		cc.PendingIntent = agent.Intent(pending)
	}
	if !cc.AwaitingConfirmation {
		for i := len(history) - 1; i >= 0; i-- {
			if history[i].From == agent.SpeakerAgent {
				cc.AwaitingConfirmation = agent.AsksForHandoff(history[i].Text)
				break
			}
		}
	}
	return cc
}

// echoContext returns the caller's bag with the confirmation state of reply.
// The override is dropped so it applies to one message only.
func echoContext(bag map[string]any, reply string) map[string]any {
	echo := make(map[string]any, len(bag)+2)
	for k, v := range bag {
		echo[k] = v
	}
	delete(echo, ContextKeyAgentOverride)

	if agent.AsksForHandoff(reply) {
		echo[ContextKeyAwaitingConfirmation] = true
		echo[ContextKeyPendingTransition] = agent.IntentPersonaCreation.String()
	} else {
		echo[ContextKeyAwaitingConfirmation] = false
		delete(echo, ContextKeyPendingTransition)
	}
	return echo
}

func toTurns(list []*store.ConversationTurn) []agent.Turn {
	if len(list) == 0 {
		return nil
	}
	turns := make([]agent.Turn, 0, len(list))
	for _, t := range list {
		turns = append(turns, agent.Turn{
			ID:        t.UID,
			From:      agent.Speaker(t.Speaker),
			Text:      t.Text,
			Timestamp: time.Unix(t.CreatedTs, 0),
			AgentType: agent.AgentType(t.AgentType),
		})
	}
	return turns
}
