package agent

// DefaultIntentRoutes returns the static intent to agent table.
func DefaultIntentRoutes() map[Intent]AgentType {
	return map[Intent]AgentType{
		IntentConceptExplanation:   AgentEducational,
		IntentExamplesRequest:      AgentEducational,
		IntentConceptClarification: AgentEducational,
		// Stay educational until a hand-off is confirmed.
		IntentAffirmativeResponse: AgentEducational,
		IntentNegativeResponse:    AgentEducational,

		IntentPersonaCreation:   AgentDiscovery,
		IntentPersonaRefinement: AgentRefinement,
		IntentGoalSetting:       AgentGoal,

		IntentOverviewRequest:   AgentManagement,
		IntentProgressReview:    AgentManagement,
		IntentStrategicPlanning: AgentManagement,
	}
}

// Selector maps an intent to an agent. It is total: unknown intents and
// unregistered targets resolve to the default agent.
type Selector struct {
	routes   map[Intent]AgentType
	registry *Registry
}

// NewSelector creates a Selector over registry using the default route table.
func NewSelector(registry *Registry) *Selector {
	return NewSelectorWithRoutes(registry, DefaultIntentRoutes())
}

// NewSelectorWithRoutes creates a Selector with a custom route table.
func NewSelectorWithRoutes(registry *Registry, routes map[Intent]AgentType) *Selector {
	copied := make(map[Intent]AgentType, len(routes))
	for k, v := range routes {
		copied[k] = v
	}
	return &Selector{routes: copied, registry: registry}
}

// Select returns the agent for intent.
func (s *Selector) Select(intent Intent) AgentType {
	target, ok := s.routes[intent]
	if !ok {
		return DefaultAgentType
	}
	if s.registry != nil && !s.registry.Has(target) {
		return DefaultAgentType
	}
	return target
}

// Routes returns a copy of the route table.
func (s *Selector) Routes() map[Intent]AgentType {
	out := make(map[Intent]AgentType, len(s.routes))
	for k, v := range s.routes {
		out[k] = v
	}
	return out
}
