package agent

import (
	"fmt"
)

// Registry is the fixed set of agents available for routing.
// It is built once at startup and never mutated afterwards, so reads need no locking.
// Registry 是启动时构建的固定代理集合，之后不再修改。
type Registry struct {
	agents map[AgentType]Agent
	order  []AgentType
}

// NewRegistry creates a registry from the given agents.
// NewRegistry 使用给定代理创建注册表。
func NewRegistry(agents ...Agent) (*Registry, error) {
	r := &Registry{
		agents: make(map[AgentType]Agent, len(agents)),
	}
	for _, a := range agents {
		if a == nil {
			return nil, fmt.Errorf("agent cannot be nil")
		}
		agentType := a.Type()
		if !agentType.IsValid() {
			return nil, fmt.Errorf("unknown agent type: %q", agentType)
		}
		if _, exists := r.agents[agentType]; exists {
			return nil, fmt.Errorf("agent %s already registered", agentType)
		}
		r.agents[agentType] = a
		r.order = append(r.order, agentType)
	}
	if _, ok := r.agents[DefaultAgentType]; !ok {
		return nil, fmt.Errorf("default agent %s must be registered", DefaultAgentType)
	}
	return r, nil
}

// DefaultRegistry returns a registry holding all five agents.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		NewEducationalAgent(),
		NewDiscoveryAgent(),
		NewRefinementAgent(),
		NewGoalAgent(),
		NewManagementAgent(),
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Get retrieves a registered agent by type.
// Get 按类型检索已注册的代理。
func (r *Registry) Get(agentType AgentType) (Agent, bool) {
	a, ok := r.agents[agentType]
	return a, ok
}

// Has reports whether agentType is registered.
func (r *Registry) Has(agentType AgentType) bool {
	_, ok := r.agents[agentType]
	return ok
}

// Default returns the fallback agent.
func (r *Registry) Default() Agent {
	return r.agents[DefaultAgentType]
}

// ListAgents returns all registered agent types in registration order.
// ListAgents 返回所有已注册的代理类型。
func (r *Registry) ListAgents() []AgentType {
	out := make([]AgentType, len(r.order))
	copy(out, r.order)
	return out
}

// Count returns the number of registered agents.
func (r *Registry) Count() int {
	return len(r.agents)
}

// ListAgentInfo returns the catalogue entry of every registered agent.
// ListAgentInfo 返回所有已注册代理的信息。
func (r *Registry) ListAgentInfo() []AgentInfo {
	infos := make([]AgentInfo, 0, len(r.order))
	for _, t := range r.order {
		infos = append(infos, describe(r.agents[t]))
	}
	return infos
}

// AgentInfo returns the catalogue entry of one agent.
func (r *Registry) AgentInfo(agentType AgentType) (AgentInfo, error) {
	a, ok := r.agents[agentType]
	if !ok {
		return AgentInfo{}, fmt.Errorf("%w: %s", ErrAgentNotFound, agentType)
	}
	return describe(a), nil
}

func describe(a Agent) AgentInfo {
	return AgentInfo{
		Type:             a.Type(),
		DisplayName:      a.DisplayName(),
		SupportedIntents: a.SupportedIntents(),
	}
}
