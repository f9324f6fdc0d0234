package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelector_DefaultRoutes(t *testing.T) {
	s := NewSelector(DefaultRegistry())

	testCases := []struct {
		intent   Intent
		expected AgentType
	}{
		{IntentConceptExplanation, AgentEducational},
		{IntentExamplesRequest, AgentEducational},
		{IntentConceptClarification, AgentEducational},
		{IntentAffirmativeResponse, AgentEducational},
		{IntentNegativeResponse, AgentEducational},
		{IntentPersonaCreation, AgentDiscovery},
		{IntentPersonaRefinement, AgentRefinement},
		{IntentGoalSetting, AgentGoal},
		{IntentOverviewRequest, AgentManagement},
		{IntentProgressReview, AgentManagement},
		{IntentStrategicPlanning, AgentManagement},
	}

	for _, tc := range testCases {
		t.Run(string(tc.intent), func(t *testing.T) {
			assert.Equal(t, tc.expected, s.Select(tc.intent))
		})
	}
}

func TestSelector_Total(t *testing.T) {
	registry := DefaultRegistry()
	s := NewSelector(registry)

	for _, intent := range []Intent{"", "weather_request", IntentPersonaNaming, ForcedIntent(AgentGoal)} {
		got := s.Select(intent)
		assert.Equal(t, DefaultAgentType, got, "intent %q", intent)
		assert.True(t, registry.Has(got))
	}

	// Every classifier output resolves to a registered agent.
	for _, intent := range NewIntentClassifier().Rules() {
		assert.True(t, registry.Has(s.Select(intent)), "intent %q", intent)
	}
}

func TestSelector_UnregisteredTargetFallsBack(t *testing.T) {
	registry, err := NewRegistry(NewEducationalAgent(), NewDiscoveryAgent())
	require.NoError(t, err)
	s := NewSelector(registry)

	assert.Equal(t, AgentDiscovery, s.Select(IntentPersonaCreation))
	assert.Equal(t, AgentEducational, s.Select(IntentGoalSetting))
	assert.Equal(t, AgentEducational, s.Select(IntentOverviewRequest))
}

func TestSelector_CustomRoutesAreCopied(t *testing.T) {
	routes := map[Intent]AgentType{IntentGoalSetting: AgentManagement}
	s := NewSelectorWithRoutes(DefaultRegistry(), routes)
	routes[IntentGoalSetting] = AgentGoal

	assert.Equal(t, AgentManagement, s.Select(IntentGoalSetting))
	assert.Equal(t, AgentEducational, s.Select(IntentPersonaCreation))

	out := s.Routes()
	out[IntentGoalSetting] = AgentDiscovery
	assert.Equal(t, AgentManagement, s.Select(IntentGoalSetting))
}

func TestOverrideResult(t *testing.T) {
	r := OverrideResult(AgentGoal)
	assert.Equal(t, Intent("forced_goal"), r.Intent)
	assert.True(t, r.Intent.IsForced())
	assert.Equal(t, 1.0, r.Confidence)
	assert.Equal(t, MethodOverride, r.Method)
}
