package agent

import (
	"fmt"
	"time"
)

// AgentType identifies one of the fixed coaching agents.
// AgentType 标识固定的教练代理之一。
type AgentType string

const (
	// AgentEducational explains persona and north star concepts.
	AgentEducational AgentType = "educational"
	// AgentDiscovery helps users discover and create personas.
	AgentDiscovery AgentType = "discovery"
	// AgentRefinement improves an existing persona.
	AgentRefinement AgentType = "refinement"
	// AgentGoal turns a persona into measurable goals.
	AgentGoal AgentType = "goal"
	// AgentManagement gives a strategic overview of personas and goals.
	AgentManagement AgentType = "management"
)

// DefaultAgentType is used whenever routing cannot resolve a registered agent.
const DefaultAgentType = AgentEducational

// AllAgentTypes returns every agent type in registration order.
func AllAgentTypes() []AgentType {
	return []AgentType{AgentEducational, AgentDiscovery, AgentRefinement, AgentGoal, AgentManagement}
}

// IsValid reports whether t is one of the known agent types.
func (t AgentType) IsValid() bool {
	switch t {
	case AgentEducational, AgentDiscovery, AgentRefinement, AgentGoal, AgentManagement:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (t AgentType) String() string {
	return string(t)
}

// Speaker is the author of a conversation turn.
type Speaker string

const (
	SpeakerUser  Speaker = "user"
	SpeakerAgent Speaker = "agent"
)

// Turn is one message in a conversation thread.
// Turn 是会话线程中的一条消息。
type Turn struct {
	ID        string
	From      Speaker
	Text      string
	Timestamp time.Time
	// AgentType is the agent that owned the thread when the turn was recorded.
	// Empty when unknown.
	AgentType AgentType
}

// PersonaSnapshot is the read-only view of a persona used for prompt building.
type PersonaSnapshot struct {
	ID        int32
	Name      string
	NorthStar string
}

// Context is the immutable snapshot an agent builds its prompt from.
// It is assembled once per request and never refers to live store rows.
// Context 是代理构建提示词所用的不可变快照。
type Context struct {
	ThreadID  string
	SessionID string
	UserID    int32

	TargetPersonaID *int32
	TargetGoalID    *int32
	// TargetPersona is loaded from the store when TargetPersonaID is set.
	TargetPersona *PersonaSnapshot

	// ThreadHistory holds the turns of the working thread only.
	ThreadHistory []Turn
	// SessionHistory holds the turns of every thread in the session, oldest first.
	SessionHistory []Turn

	PersonaCount    int
	ActiveGoalCount int

	Intent     Intent
	Confidence float64

	// TemporaryState is caller-supplied state echoed back unchanged.
	TemporaryState map[string]any
}

// HasTargetPersona reports whether a persona has been designated for this request.
func (c *Context) HasTargetPersona() bool {
	return c != nil && c.TargetPersonaID != nil
}

// Agent is the contract shared by all coaching agents.
// Agent 是所有教练代理共享的接口。
type Agent interface {
	// Type returns the stable agent identifier.
	Type() AgentType

	// DisplayName returns the human readable name.
	DisplayName() string

	// SupportedIntents returns the intent labels this agent handles.
	SupportedIntents() []Intent

	// CanHandle reports whether intent is among SupportedIntents.
	CanHandle(intent Intent) bool

	// GeneratePrompt builds the system instruction for the generative backend.
	// It must be a pure function of ctx.
	GeneratePrompt(ctx *Context) string

	// Clarification returns a fixed reply when the agent cannot run with ctx.
	// When ok is true the generative backend must not be called.
	Clarification(ctx *Context) (reply string, ok bool)

	// Extract scans generated text for markers and sanitizes it.
	Extract(generated string) *Extraction
}

// AgentInfo describes an agent for catalogue listings.
type AgentInfo struct {
	Type             AgentType `json:"type"`
	DisplayName      string    `json:"display_name"`
	SupportedIntents []Intent  `json:"supported_intents"`
}

// AgentError wraps a failure raised while running an agent.
// AgentError 包装代理执行期间的错误。
type AgentError struct {
	Agent     AgentType
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *AgentError) Error() string {
	return fmt.Sprintf("agent %s: %s failed: %v", e.Agent, e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *AgentError) Unwrap() error {
	return e.Err
}

// NewAgentError creates an AgentError.
func NewAgentError(agent AgentType, operation string, err error) *AgentError {
	return &AgentError{
		Agent:     agent,
		Operation: operation,
		Err:       err,
	}
}
