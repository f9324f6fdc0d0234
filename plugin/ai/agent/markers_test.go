package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractActions(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []Action
	}{
		{
			name:  "persona_confirmed",
			input: "Great!\nPERSONA_CONFIRMED: Creative Writer | To inspire through stories\nWhat next?",
			expected: []Action{
				{Kind: ActionPersonaCreate, Name: "Creative Writer", NorthStar: "To inspire through stories"},
			},
		},
		{
			name:  "goal_created",
			input: "GOAL_CREATED: Write daily | 1000 words by 9am | 2024-01-15",
			expected: []Action{
				{Kind: ActionGoalCreate, Name: "Write daily", AcceptanceCriteria: "1000 words by 9am", ReviewDate: "2024-01-15"},
			},
		},
		{
			name:  "refined_northstar",
			input: "Here is the update.\nREFINED_NORTHSTAR: To lead with empathy",
			expected: []Action{
				{Kind: ActionPersonaUpdateNorthStar, NorthStar: "To lead with empathy"},
			},
		},
		{
			name:  "repeated_markers_are_exhaustive",
			input: "PERSONA_CONFIRMED: Parent | To raise kind kids\nPERSONA_CONFIRMED: Runner | To finish a marathon",
			expected: []Action{
				{Kind: ActionPersonaCreate, Name: "Parent", NorthStar: "To raise kind kids"},
				{Kind: ActionPersonaCreate, Name: "Runner", NorthStar: "To finish a marathon"},
			},
		},
		{
			name:  "grouped_by_kind",
			input: "REFINED_NORTHSTAR: Sharper focus\nGOAL_CREATED: Run | 5k under 30m | 2024-03-01\nPERSONA_CONFIRMED: Athlete | To move daily",
			expected: []Action{
				{Kind: ActionPersonaCreate, Name: "Athlete", NorthStar: "To move daily"},
				{Kind: ActionPersonaUpdateNorthStar, NorthStar: "Sharper focus"},
				{Kind: ActionGoalCreate, Name: "Run", AcceptanceCriteria: "5k under 30m", ReviewDate: "2024-03-01"},
			},
		},
		{
			name:  "case_insensitive_tag",
			input: "persona_confirmed: Mentor | To grow others",
			expected: []Action{
				{Kind: ActionPersonaCreate, Name: "Mentor", NorthStar: "To grow others"},
			},
		},
		{name: "goal_missing_field", input: "GOAL_CREATED: Write daily | 1000 words", expected: nil},
		{name: "persona_blank_name", input: "PERSONA_CONFIRMED:   | To inspire", expected: nil},
		{name: "variant_not_an_action", input: "VARIANT_PERSONA: Writer | Poet", expected: nil},
		{name: "plain_text", input: "Let's keep talking about your roles.", expected: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractActions(tc.input))
		})
	}
}

func TestExtractTransition(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected *TransitionRequest
	}{
		{
			name:     "discovery",
			input:    "Wonderful! TRANSITION_TO_DISCOVERY",
			expected: &TransitionRequest{To: AgentDiscovery, Reason: ReasonEducationalHandoff},
		},
		{
			name:     "goals_with_persona_name",
			input:    "TRANSITION_TO_GOALS: Creative Writer",
			expected: &TransitionRequest{To: AgentGoal, Reason: ReasonActionTriggered, PersonaName: "Creative Writer"},
		},
		{
			name:     "refinement_with_persona_id",
			input:    "TRANSITION_TO_REFINEMENT: 42",
			expected: &TransitionRequest{To: AgentRefinement, Reason: ReasonActionTriggered, PersonaID: "42"},
		},
		{
			name:     "goals_beat_discovery",
			input:    "TRANSITION_TO_DISCOVERY\nTRANSITION_TO_GOALS: Parent",
			expected: &TransitionRequest{To: AgentGoal, Reason: ReasonActionTriggered, PersonaName: "Parent"},
		},
		{
			name:     "discovery_beats_refinement",
			input:    "TRANSITION_TO_REFINEMENT: 7\nTRANSITION_TO_DISCOVERY",
			expected: &TransitionRequest{To: AgentDiscovery, Reason: ReasonEducationalHandoff},
		},
		{
			name:     "first_goals_marker_wins",
			input:    "TRANSITION_TO_GOALS: Parent\nTRANSITION_TO_GOALS: Runner",
			expected: &TransitionRequest{To: AgentGoal, Reason: ReasonActionTriggered, PersonaName: "Parent"},
		},
		{name: "goals_without_payload", input: "TRANSITION_TO_GOALS:", expected: nil},
		{name: "unknown_target", input: "TRANSITION_TO_MANAGEMENT: now", expected: nil},
		{name: "none", input: "No hand-off here.", expected: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractTransition(tc.input))
		})
	}
}

func TestSanitize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "drops_marker_line",
			input:    "Great!\nPERSONA_CONFIRMED: Creative Writer | To inspire through stories\nWhat next?",
			expected: "Great!\nWhat next?",
		},
		{
			name:     "keeps_text_before_marker",
			input:    "Sounds great! TRANSITION_TO_DISCOVERY",
			expected: "Sounds great!",
		},
		{
			name:     "keeps_text_after_bare_marker",
			input:    "Great choice! TRANSITION_TO_DISCOVERY Let's find your roles together.",
			expected: "Great choice! Let's find your roles together.",
		},
		{
			name:     "bare_marker_leading_line",
			input:    "TRANSITION_TO_DISCOVERY Let's begin.",
			expected: "Let's begin.",
		},
		{
			name:     "strips_variant_and_generic",
			input:    "Options:\nVARIANT_PERSONA: Writer | Poet\nTRANSITION_TO_MANAGEMENT: now\nDone.",
			expected: "Options:\nDone.",
		},
		{
			name:     "strips_goal_and_transition",
			input:    "Here is your goal.\nGOAL_CREATED: Write daily | 1000 words by 9am | 2024-01-15\nTRANSITION_TO_GOALS: Writer",
			expected: "Here is your goal.",
		},
		{
			name:     "malformed_goal_passes_through",
			input:    "GOAL_CREATED: Write daily | 1000 words",
			expected: "GOAL_CREATED: Write daily | 1000 words",
		},
		{
			name:     "blank_field_passes_through",
			input:    "PERSONA_CONFIRMED:   | To inspire",
			expected: "PERSONA_CONFIRMED:   | To inspire",
		},
		{
			name:     "trims_surrounding_whitespace",
			input:    "\n\n  Hello there.  \n\n",
			expected: "Hello there.",
		},
		{
			name:     "only_markers",
			input:    "TRANSITION_TO_DISCOVERY",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Sanitize(tc.input)
			assert.Equal(t, tc.expected, got)
			assert.Equal(t, got, Sanitize(got), "sanitize must be idempotent")
		})
	}
}

func TestSanitize_NoMarkersSurvive(t *testing.T) {
	input := "Intro\nPERSONA_CONFIRMED: A | B\nREFINED_NORTHSTAR: C\nGOAL_CREATED: D | E | 2024-01-01\nTRANSITION_TO_GOALS: A\nTRANSITION_TO_REFINEMENT: 3\nTRANSITION_TO_DISCOVERY\nOutro"
	got := Sanitize(input)
	assert.Equal(t, "Intro\nOutro", got)
	for _, m := range sanitizedMarkers {
		start, _ := m.firstSpan(got)
		assert.Equal(t, -1, start)
	}
}

func TestExtract_RoundTrip(t *testing.T) {
	generated := "Wonderful, that captures it.\nPERSONA_CONFIRMED: Creative Writer | To inspire through stories\nTRANSITION_TO_GOALS: Creative Writer"

	ext := Extract(generated)
	require.NotNil(t, ext)
	assert.Equal(t, "Wonderful, that captures it.", ext.Text)
	require.Len(t, ext.Actions, 1)
	assert.Equal(t, "Creative Writer", ext.Actions[0].Name)
	require.NotNil(t, ext.Transition)
	assert.Equal(t, AgentGoal, ext.Transition.To)
	assert.Equal(t, "Creative Writer", ext.Transition.PersonaName)

	// Sanitized text carries no further commands.
	again := Extract(ext.Text)
	assert.Empty(t, again.Actions)
	assert.Nil(t, again.Transition)
	assert.Equal(t, ext.Text, again.Text)
}
