package agent

import "fmt"

// GoalAgent turns a persona's north star into SMART goals. It requires a target persona.
type GoalAgent struct {
	baseAgent
}

// NewGoalAgent creates a GoalAgent.
func NewGoalAgent() *GoalAgent {
	return &GoalAgent{baseAgent{
		agentType:   AgentGoal,
		displayName: "Goal Agent",
		intents: []Intent{
			IntentGoalSetting,
			IntentGoalCreation,
			IntentActionablePlanning,
			IntentGoalManagement,
			IntentProgressTracking,
			IntentGoalRefinement,
		},
	}}
}

func (a *GoalAgent) GeneratePrompt(ctx *Context) string {
	return fmt.Sprintf(goalPromptTemplate,
		formatTargetPersona(ctx, "Persona", "Northstar"),
		formatTranscript(threadHistory(ctx)),
	)
}

// Clarification asks which persona the goals are for when none is designated.
func (a *GoalAgent) Clarification(ctx *Context) (string, bool) {
	if ctx.HasTargetPersona() {
		return "", false
	}
	return goalClarification, true
}

var _ Agent = (*GoalAgent)(nil)
