package agent

import "fmt"

// Transition is the per-message hand-off record. The zero value means no transition.
type Transition struct {
	Occurred       bool      `json:"occurred"`
	From           AgentType `json:"from,omitempty"`
	To             AgentType `json:"to,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	SuggestedRoute string    `json:"suggested_route,omitempty"`
	Message        string    `json:"message,omitempty"`
}

// ThreadDecision says whether a message continues the working thread or opens a new one.
type ThreadDecision struct {
	// NewThread is true when no thread exists yet or the agent changed.
	NewThread bool
	// Transitioned is true only when an existing thread is superseded by another agent.
	Transitioned bool
	Previous     AgentType
}

const defaultRoute = "/personas"

var agentRoutes = map[AgentType]string{
	AgentDiscovery:   "/personas/discovery",
	AgentRefinement:  "/personas/edit",
	AgentGoal:        "/goals",
	AgentManagement:  "/dashboard",
	AgentEducational: "/personas",
}

// RouteFor returns the navigation hint for an agent.
func RouteFor(t AgentType) string {
	if route, ok := agentRoutes[t]; ok {
		return route
	}
	return defaultRoute
}

// Orchestrator is the conversation-level state machine. A thread is owned by exactly
// one agent; any agent change opens a new thread in the same session.
type Orchestrator struct {
	registry *Registry
}

// NewOrchestrator creates an Orchestrator over registry.
func NewOrchestrator(registry *Registry) *Orchestrator {
	return &Orchestrator{registry: registry}
}

// DecideThread compares the working thread's agent with the selected one.
// current is empty when no thread exists.
func (o *Orchestrator) DecideThread(current, selected AgentType) ThreadDecision {
	switch {
	case current == "":
		return ThreadDecision{NewThread: true}
	case current != selected:
		return ThreadDecision{NewThread: true, Transitioned: true, Previous: current}
	default:
		return ThreadDecision{}
	}
}

// IntentTransition builds the record for an intent-driven thread change.
func (o *Orchestrator) IntentTransition(from, to AgentType, intent Intent, threadID string) Transition {
	return Transition{
		Occurred:       true,
		From:           from,
		To:             to,
		Reason:         "agent_change_" + string(intent),
		SuggestedRoute: RouteFor(to),
		Message:        fmt.Sprintf("Created new conversation (ID: %s) for %s agent based on intent: %s", threadID, to, intent),
	}
}

// InTextTransition builds the record for a hand-off command emitted by agent from.
// A target missing from the registry downgrades the record to occurred=false.
func (o *Orchestrator) InTextTransition(from AgentType, req *TransitionRequest) Transition {
	if req == nil {
		return Transition{}
	}
	t := Transition{
		Occurred:       true,
		From:           from,
		To:             req.To,
		Reason:         req.Reason,
		SuggestedRoute: RouteFor(req.To),
		Message:        transitionMessage(from, req),
	}
	if o.registry != nil && !o.registry.Has(req.To) {
		t.Message += fmt.Sprintf(" (Note: %s agent will be available soon)", req.To)
		t.Occurred = false
	}
	return t
}

// Merge combines the intent-driven and in-text records of one turn.
// The intent-driven record is authoritative for storage. When both point at the same
// agent the in-text explanation replaces the system one. When they disagree the
// in-text record is returned separately so the caller can surface it.
func (o *Orchestrator) Merge(intentDriven, inText Transition) (primary Transition, suggested *Transition) {
	switch {
	case intentDriven.Occurred && inText.Occurred:
		if intentDriven.To == inText.To {
			primary = intentDriven
			primary.Message = inText.Message
			return primary, nil
		}
		other := inText
		return intentDriven, &other
	case intentDriven.Occurred:
		if inText.Message != "" {
			// Downgraded in-text hand-off: keep its note visible.
			other := inText
			return intentDriven, &other
		}
		return intentDriven, nil
	default:
		return inText, nil
	}
}

func transitionMessage(from AgentType, req *TransitionRequest) string {
	switch req.To {
	case AgentGoal:
		name := req.PersonaName
		if name == "" {
			name = "your persona"
		}
		return fmt.Sprintf("Great! Let's set some goals for %s. Moving to the goals page.", name)
	case AgentDiscovery:
		if from == AgentEducational {
			return "Perfect! Now that you understand personas, let me connect you with our Discovery Agent who will help you identify and create your personal personas."
		}
		return "Perfect! Let's discover your personal personas. Moving to the discovery page."
	case AgentRefinement:
		return "I'll help you refine your persona. Let me take you to the editing interface."
	default:
		return fmt.Sprintf("Switching to %s mode to better help you.", req.To)
	}
}
