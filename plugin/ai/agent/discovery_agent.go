package agent

import "fmt"

// DiscoveryAgent guides the user to name personas and their north stars.
type DiscoveryAgent struct {
	baseAgent
}

// NewDiscoveryAgent creates a DiscoveryAgent.
func NewDiscoveryAgent() *DiscoveryAgent {
	return &DiscoveryAgent{baseAgent{
		agentType:   AgentDiscovery,
		displayName: "Discovery Agent",
		intents: []Intent{
			IntentPersonaCreation,
			IntentPersonaDiscovery,
			IntentRoleExploration,
			IntentIdentityClarification,
			IntentPersonaNaming,
			IntentNorthStarCreation,
		},
	}}
}

func (a *DiscoveryAgent) GeneratePrompt(ctx *Context) string {
	return fmt.Sprintf(discoveryPromptTemplate, formatLabeledTranscript(longRangeHistory(ctx)))
}

var _ Agent = (*DiscoveryAgent)(nil)
