package v1

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/northstar/plugin/ai/agent"
	aierrors "github.com/hrygo/northstar/server/internal/errors"
	"github.com/hrygo/northstar/server/service/conversation"
	"github.com/hrygo/northstar/store"
)

type ProcessConversationRequest struct {
	UserID          int32          `json:"user_id"`
	Message         string         `json:"message"`
	SessionID       string         `json:"session_id,omitempty"`
	ThreadID        string         `json:"thread_id,omitempty"`
	TargetPersonaID *int32         `json:"target_persona_id,omitempty"`
	TargetGoalID    *int32         `json:"target_goal_id,omitempty"`
	Context         map[string]any `json:"context,omitempty"`
}

type IntentPayload struct {
	Intent     agent.Intent `json:"intent"`
	Confidence float64      `json:"confidence"`
	Method     string       `json:"method"`
}

type ActionPayload struct {
	Kind    agent.ActionKind `json:"kind"`
	Persona *Persona         `json:"persona,omitempty"`
	Goal    *Goal            `json:"goal,omitempty"`
	Skipped string           `json:"skipped,omitempty"`
}

type ProcessConversationResponse struct {
	ThreadID            string            `json:"thread_id"`
	SessionID           string            `json:"session_id"`
	AgentType           agent.AgentType   `json:"agent_type"`
	PreviousAgentType   agent.AgentType   `json:"previous_agent_type,omitempty"`
	Intent              IntentPayload     `json:"intent"`
	Text                string            `json:"text"`
	HTML                string            `json:"text_html"`
	Actions             []ActionPayload   `json:"actions"`
	Transition          agent.Transition  `json:"transition"`
	SuggestedTransition *agent.Transition `json:"suggested_transition,omitempty"`
	Clarified           bool              `json:"clarified"`
	Context             map[string]any    `json:"context"`
}

type Thread struct {
	UID       string `json:"uid"`
	UserID    int32  `json:"user_id"`
	SessionID string `json:"session_id"`
	AgentType string `json:"agent_type"`
	CreatedTs int64  `json:"created_ts"`
	UpdatedTs int64  `json:"updated_ts"`
	EndedTs   int64  `json:"ended_ts,omitempty"`
}

type Turn struct {
	UID        string  `json:"uid"`
	Speaker    string  `json:"speaker"`
	Text       string  `json:"text"`
	AgentType  string  `json:"agent_type,omitempty"`
	Intent     string  `json:"intent,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	CreatedTs  int64   `json:"created_ts"`
}

type ThreadWithTurns struct {
	Thread
	Turns []*Turn `json:"turns"`
}

// ProcessConversation routes one user message to an agent.
// POST /api/v1/conversations/process
func (s *APIV1Service) ProcessConversation(c echo.Context) error {
	var req ProcessConversationRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, aierrors.InvalidArgument("invalid request body"))
	}
	if req.UserID > 0 && !s.rateLimiter.Allow(fmt.Sprintf("user:%d", req.UserID)) {
		return writeError(c, aierrors.RateLimitExceeded("too many messages, slow down"))
	}

	result, err := s.ConversationService.Process(c.Request().Context(), &conversation.ProcessRequest{
		UserID:          req.UserID,
		Message:         req.Message,
		SessionID:       req.SessionID,
		ThreadID:        req.ThreadID,
		TargetPersonaID: req.TargetPersonaID,
		TargetGoalID:    req.TargetGoalID,
		Context:         req.Context,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s.convertProcessResult(result))
}

// GetConversation returns a thread with its turns, oldest first.
// GET /api/v1/conversations/:uid
func (s *APIV1Service) GetConversation(c echo.Context) error {
	ctx := c.Request().Context()
	uid := c.Param("uid")
	thread, err := s.Store.GetConversationThread(ctx, &store.FindConversationThread{UID: &uid})
	if err != nil {
		return writeError(c, aierrors.PersistenceFailed("failed to get conversation", err))
	}
	if thread == nil {
		return writeError(c, aierrors.NotFound("conversation not found: " + uid))
	}
	turns, err := s.Store.ListConversationTurns(ctx, &store.FindConversationTurn{ThreadID: &thread.ID})
	if err != nil {
		return writeError(c, aierrors.PersistenceFailed("failed to list turns", err))
	}
	return c.JSON(http.StatusOK, convertThreadWithTurns(thread, turns))
}

// ListSessionConversations returns every thread of a session in creation order.
// GET /api/v1/sessions/:session/conversations
func (s *APIV1Service) ListSessionConversations(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session")
	threads, err := s.Store.ListConversationThreads(ctx, &store.FindConversationThread{SessionID: &sessionID})
	if err != nil {
		return writeError(c, aierrors.PersistenceFailed("failed to list conversations", err))
	}
	result := make([]*ThreadWithTurns, 0, len(threads))
	for _, thread := range threads {
		turns, err := s.Store.ListConversationTurns(ctx, &store.FindConversationTurn{ThreadID: &thread.ID})
		if err != nil {
			return writeError(c, aierrors.PersistenceFailed("failed to list turns", err))
		}
		result = append(result, convertThreadWithTurns(thread, turns))
	}
	return c.JSON(http.StatusOK, map[string]any{"session_id": sessionID, "conversations": result})
}

func (s *APIV1Service) convertProcessResult(r *conversation.ProcessResult) *ProcessConversationResponse {
	actions := make([]ActionPayload, 0, len(r.Actions))
	for _, a := range r.Actions {
		actions = append(actions, ActionPayload{
			Kind:    a.Kind,
			Persona: convertPersona(a.Persona),
			Goal:    convertGoal(a.Goal),
			Skipped: a.Skipped,
		})
	}
	return &ProcessConversationResponse{
		ThreadID:          r.ThreadID,
		SessionID:         r.SessionID,
		AgentType:         r.AgentType,
		PreviousAgentType: r.PreviousAgentType,
		Intent: IntentPayload{
			Intent:     r.Intent.Intent,
			Confidence: r.Intent.Confidence,
			Method:     r.Intent.Method,
		},
		Text:                r.Text,
		HTML:                s.renderHTML(r.Text),
		Actions:             actions,
		Transition:          r.Transition,
		SuggestedTransition: r.SuggestedTransition,
		Clarified:           r.Clarified,
		Context:             r.Context,
	}
}

func convertThreadWithTurns(thread *store.ConversationThread, turns []*store.ConversationTurn) *ThreadWithTurns {
	result := &ThreadWithTurns{
		Thread: Thread{
			UID:       thread.UID,
			UserID:    thread.UserID,
			SessionID: thread.SessionID,
			AgentType: thread.AgentType,
			CreatedTs: thread.CreatedTs,
			UpdatedTs: thread.UpdatedTs,
			EndedTs:   thread.EndedTs,
		},
		Turns: make([]*Turn, 0, len(turns)),
	}
	for _, t := range turns {
		result.Turns = append(result.Turns, &Turn{
			UID:        t.UID,
			Speaker:    string(t.Speaker),
			Text:       t.Text,
			AgentType:  t.AgentType,
			Intent:     t.Intent,
			Confidence: t.Confidence,
			CreatedTs:  t.CreatedTs,
		})
	}
	return result
}
