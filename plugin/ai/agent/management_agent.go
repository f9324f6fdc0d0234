package agent

import "fmt"

// ManagementAgent reviews the whole persona and goal portfolio.
type ManagementAgent struct {
	baseAgent
}

// NewManagementAgent creates a ManagementAgent.
func NewManagementAgent() *ManagementAgent {
	return &ManagementAgent{baseAgent{
		agentType:   AgentManagement,
		displayName: "Management Agent",
		intents: []Intent{
			IntentOverviewRequest,
			IntentProgressReview,
			IntentPrioritization,
			IntentStrategicPlanning,
			IntentDashboardView,
			IntentPersonaManagement,
			IntentGoalOverview,
		},
	}}
}

func (a *ManagementAgent) GeneratePrompt(ctx *Context) string {
	return fmt.Sprintf(managementPromptTemplate, formatPortfolio(ctx), formatTranscript(threadHistory(ctx)))
}

var _ Agent = (*ManagementAgent)(nil)
