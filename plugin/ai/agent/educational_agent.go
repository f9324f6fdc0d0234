package agent

import "fmt"

// EducationalAgent explains persona and north star concepts and offers the discovery hand-off.
type EducationalAgent struct {
	baseAgent
}

// NewEducationalAgent creates an EducationalAgent.
func NewEducationalAgent() *EducationalAgent {
	return &EducationalAgent{baseAgent{
		agentType:   AgentEducational,
		displayName: "Educational Agent",
		intents: []Intent{
			IntentConceptExplanation,
			IntentPersonaEducation,
			IntentNorthStarExplanation,
			IntentExamplesRequest,
			IntentConceptClarification,
		},
	}}
}

// GeneratePrompt embeds the whole session so the agent remembers earlier hand-offs.
func (a *EducationalAgent) GeneratePrompt(ctx *Context) string {
	return fmt.Sprintf(educationalPromptTemplate, formatLabeledTranscript(longRangeHistory(ctx)))
}

var _ Agent = (*EducationalAgent)(nil)
