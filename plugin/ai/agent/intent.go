package agent

import "strings"

// Intent is the routing label assigned to a user message.
type Intent string

// Intents emitted by the classifier.
const (
	IntentConceptExplanation   Intent = "concept_explanation"
	IntentExamplesRequest      Intent = "examples_request"
	IntentConceptClarification Intent = "concept_clarification"
	IntentPersonaCreation      Intent = "persona_creation"
	IntentPersonaRefinement    Intent = "persona_refinement"
	IntentGoalSetting          Intent = "goal_setting"
	IntentOverviewRequest      Intent = "overview_request"
	IntentProgressReview       Intent = "progress_review"
	IntentStrategicPlanning    Intent = "strategic_planning"
	IntentAffirmativeResponse  Intent = "affirmative_response"
	IntentNegativeResponse     Intent = "negative_response"
)

// Finer-grained intents advertised by individual agents.
const (
	IntentPersonaEducation     Intent = "persona_education"
	IntentNorthStarExplanation Intent = "northstar_explanation"

	IntentPersonaDiscovery      Intent = "persona_discovery"
	IntentRoleExploration       Intent = "role_exploration"
	IntentIdentityClarification Intent = "identity_clarification"
	IntentPersonaNaming         Intent = "persona_naming"
	IntentNorthStarCreation     Intent = "northstar_creation"

	IntentPersonaUpdate       Intent = "persona_update"
	IntentPersonaModification Intent = "persona_modification"
	IntentNorthStarRefinement Intent = "northstar_refinement"
	IntentPersonaImprovement  Intent = "persona_improvement"
	IntentPersonaEditing      Intent = "persona_editing"

	IntentGoalCreation       Intent = "goal_creation"
	IntentActionablePlanning Intent = "actionable_planning"
	IntentGoalManagement     Intent = "goal_management"
	IntentProgressTracking   Intent = "progress_tracking"
	IntentGoalRefinement     Intent = "goal_refinement"
	IntentPrioritization     Intent = "prioritization"
	IntentDashboardView      Intent = "dashboard_view"
	IntentPersonaManagement  Intent = "persona_management"
	IntentGoalOverview       Intent = "goal_overview"
)

const forcedIntentPrefix = "forced_"

// ForcedIntent returns the synthetic intent recorded when the caller overrides routing.
func ForcedIntent(t AgentType) Intent {
	return Intent(forcedIntentPrefix + string(t))
}

// IsForced reports whether the intent was produced by an explicit override.
func (i Intent) IsForced() bool {
	return strings.HasPrefix(string(i), forcedIntentPrefix)
}

// String implements fmt.Stringer.
func (i Intent) String() string {
	return string(i)
}

// IntentResult is the outcome of classifying one message.
type IntentResult struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
	// Method records which rule produced the result: pattern, confirmation, history,
	// default, or override when the caller forced the agent.
	Method string `json:"method"`
}

// OverrideResult is the classification recorded when the caller forces agent t.
func OverrideResult(t AgentType) IntentResult {
	return IntentResult{Intent: ForcedIntent(t), Confidence: 1.0, Method: MethodOverride}
}
