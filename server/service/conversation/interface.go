package conversation

import (
	"context"

	"github.com/hrygo/northstar/plugin/ai/agent"
	"github.com/hrygo/northstar/store"
)

// Service routes user messages to coaching agents and records the conversation.
// Service 将用户消息路由到教练代理并记录会话。
type Service interface {
	// Process runs one message through classification, generation and persistence.
	// Either every write of the request commits or none does.
	Process(ctx context.Context, req *ProcessRequest) (*ProcessResult, error)

	// Analyze classifies a message and selects an agent without generating a reply.
	Analyze(message string, cc agent.ClassifyContext) *Analysis

	// Agents lists the registered agents.
	Agents() []agent.AgentInfo

	// Metrics returns a snapshot of routing and execution metrics.
	Metrics() agent.MetricsSummary
}

// Keys of the transient context bag exchanged with callers.
const (
	// ContextKeyAgentOverride forces the named agent and bypasses classification.
	ContextKeyAgentOverride = "agent_override"
	// ContextKeyAwaitingConfirmation is true when the last reply asked a yes/no hand-off question.
	ContextKeyAwaitingConfirmation = "awaiting_transition_confirmation"
	// ContextKeyPendingTransition names the intent an affirmative answer resolves to.
	ContextKeyPendingTransition = "pending_transition"
)

// ProcessRequest is the input of Process.
type ProcessRequest struct {
	UserID  int32
	Message string
	// SessionID groups threads. A new one is generated when empty.
	SessionID string
	// ThreadID is the uid of the working thread, if any.
	ThreadID        string
	TargetPersonaID *int32
	TargetGoalID    *int32
	// Context is caller-supplied transient state. Unknown keys are echoed back.
	Context map[string]any
}

// ProcessResult is the output of Process.
type ProcessResult struct {
	ThreadID  string
	SessionID string
	AgentType agent.AgentType
	// PreviousAgentType is set when the message moved the session to another agent.
	PreviousAgentType agent.AgentType
	Intent            agent.IntentResult
	// Text is the sanitized reply shown to the user.
	Text    string
	Actions []AppliedAction
	// Transition is authoritative for storage.
	Transition agent.Transition
	// SuggestedTransition is an in-text hand-off that disagreed with Transition.
	SuggestedTransition *agent.Transition
	// Clarified is true when the agent answered without calling the generative backend.
	Clarified bool
	Context   map[string]any
}

// AppliedAction records the store write performed for one extracted action.
type AppliedAction struct {
	Kind    agent.ActionKind
	Persona *store.Persona
	Goal    *store.Goal
	// Skipped explains why the action was not applied; empty when it was.
	Skipped string
}

// Analysis is the output of Analyze.
type Analysis struct {
	Result    agent.IntentResult
	AgentType agent.AgentType
	Route     string
}
