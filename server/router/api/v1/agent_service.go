package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/northstar/plugin/ai/agent"
	aierrors "github.com/hrygo/northstar/server/internal/errors"
	"github.com/hrygo/northstar/server/service/conversation"
)

type AnalyzeIntentRequest struct {
	Message string `json:"message"`
	// AwaitingConfirmation marks the message as the answer to a hand-off question.
	AwaitingConfirmation bool   `json:"awaiting_confirmation"`
	PendingIntent        string `json:"pending_intent,omitempty"`
}

type AnalyzeIntentResponse struct {
	Intent     agent.Intent    `json:"intent"`
	Confidence float64         `json:"confidence"`
	Method     string          `json:"method"`
	AgentType  agent.AgentType `json:"agent_type"`
	Route      string          `json:"suggested_route"`
}

// ListAgents lists the registered agents.
// GET /api/v1/agents
func (s *APIV1Service) ListAgents(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"agents": s.ConversationService.Agents()})
}

// AnalyzeIntent classifies a message without generating a reply or writing anything.
// POST /api/v1/intents/analyze
func (s *APIV1Service) AnalyzeIntent(c echo.Context) error {
	var req AnalyzeIntentRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, aierrors.InvalidArgument("invalid request body"))
	}
	if strings.TrimSpace(req.Message) == "" {
		return writeError(c, aierrors.InvalidArgument("message is required"))
	}
	if len(req.Message) > conversation.MaxMessageLength {
		return writeError(c, aierrors.InvalidArgument("message is too long"))
	}

	analysis := s.ConversationService.Analyze(req.Message, agent.ClassifyContext{
		AwaitingConfirmation: req.AwaitingConfirmation,
		PendingIntent:        agent.Intent(req.PendingIntent),
	})
	return c.JSON(http.StatusOK, AnalyzeIntentResponse{
		Intent:     analysis.Result.Intent,
		Confidence: analysis.Result.Confidence,
		Method:     analysis.Result.Method,
		AgentType:  analysis.AgentType,
		Route:      analysis.Route,
	})
}
