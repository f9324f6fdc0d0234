package agent

import "fmt"

// RefinementAgent improves an existing persona. It requires a target persona.
type RefinementAgent struct {
	baseAgent
}

// NewRefinementAgent creates a RefinementAgent.
func NewRefinementAgent() *RefinementAgent {
	return &RefinementAgent{baseAgent{
		agentType:   AgentRefinement,
		displayName: "Refinement Agent",
		intents: []Intent{
			IntentPersonaRefinement,
			IntentPersonaUpdate,
			IntentPersonaModification,
			IntentNorthStarRefinement,
			IntentPersonaImprovement,
			IntentPersonaEditing,
		},
	}}
}

func (a *RefinementAgent) GeneratePrompt(ctx *Context) string {
	return fmt.Sprintf(refinementPromptTemplate,
		formatTargetPersona(ctx, "Current Persona", "Current Northstar"),
		formatTranscript(threadHistory(ctx)),
	)
}

// Clarification asks which persona to refine when none is designated.
func (a *RefinementAgent) Clarification(ctx *Context) (string, bool) {
	if ctx.HasTargetPersona() {
		return "", false
	}
	return refinementClarification, true
}

var _ Agent = (*RefinementAgent)(nil)
