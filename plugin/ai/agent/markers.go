package agent

import (
	"regexp"
	"strings"
)

// ActionKind is the type of a structured action requested by generated text.
type ActionKind string

const (
	ActionPersonaCreate          ActionKind = "persona_create"
	ActionPersonaUpdateNorthStar ActionKind = "persona_update_northstar"
	ActionGoalCreate             ActionKind = "goal_create"
)

// Action is a structured command extracted from generated text.
type Action struct {
	Kind               ActionKind `json:"kind"`
	Name               string     `json:"name,omitempty"`
	NorthStar          string     `json:"north_star,omitempty"`
	AcceptanceCriteria string     `json:"acceptance_criteria,omitempty"`
	ReviewDate         string     `json:"review_date,omitempty"`
}

// Reasons attached to in-text transition requests.
const (
	ReasonActionTriggered    = "action_triggered"
	ReasonEducationalHandoff = "educational_handoff"
)

// TransitionRequest is a hand-off command found in generated text.
type TransitionRequest struct {
	To          AgentType `json:"to"`
	Reason      string    `json:"reason"`
	PersonaName string    `json:"persona_name,omitempty"`
	PersonaID   string    `json:"persona_id,omitempty"`
}

// Extraction is the result of scanning one generated response.
type Extraction struct {
	// Text is the sanitized, user-visible response.
	Text       string
	Actions    []Action
	Transition *TransitionRequest
}

// marker is one line-oriented command of the in-band protocol.
// Payloads never span a newline and every field must be non-blank,
// otherwise the line is malformed and left untouched.
type marker struct {
	re     *regexp.Regexp
	fields int
}

func newMarker(expr string, fields int) *marker {
	return &marker{re: regexp.MustCompile(`(?i)` + expr), fields: fields}
}

var (
	markerPersonaConfirmed  = newMarker(`PERSONA_CONFIRMED:[ \t]*([^|\n]+)\|[ \t]*([^\n]+)`, 2)
	markerRefinedNorthStar  = newMarker(`REFINED_NORTHSTAR:[ \t]*([^\n]+)`, 1)
	markerVariantPersona    = newMarker(`VARIANT_PERSONA:[ \t]*([^|\n]+)\|[ \t]*([^\n]+)`, 2)
	markerGoalCreated       = newMarker(`GOAL_CREATED:[ \t]*([^|\n]+)\|[ \t]*([^|\n]+)\|[ \t]*([^\n]+)`, 3)
	markerToGoals           = newMarker(`TRANSITION_TO_GOALS:[ \t]*([^\n]+)`, 1)
	markerToDiscovery       = newMarker(`TRANSITION_TO_DISCOVERY\b(?:[ \t]*:[^\n]*)?`, 0)
	markerToRefinement      = newMarker(`TRANSITION_TO_REFINEMENT:[ \t]*([^\n]+)`, 1)
	markerGenericTransition = newMarker(`TRANSITION_TO_[A-Z]+:[ \t]*([^\n]+)`, 1)
)

// sanitizedMarkers lists every marker stripped from user-visible text.
var sanitizedMarkers = []*marker{
	markerPersonaConfirmed,
	markerRefinedNorthStar,
	markerVariantPersona,
	markerGoalCreated,
	markerToGoals,
	markerToDiscovery,
	markerToRefinement,
	markerGenericTransition,
}

// valid reports whether every captured field of a submatch is non-blank.
func (m *marker) valid(sub []string) bool {
	if len(sub) != m.fields+1 {
		return false
	}
	for _, field := range sub[1:] {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}

// findAll returns the trimmed fields of every well-formed occurrence in text.
func (m *marker) findAll(text string) [][]string {
	var result [][]string
	for _, sub := range m.re.FindAllStringSubmatch(text, -1) {
		if !m.valid(sub) {
			continue
		}
		fields := make([]string, 0, m.fields)
		for _, field := range sub[1:] {
			fields = append(fields, strings.TrimSpace(field))
		}
		result = append(result, fields)
	}
	return result
}

// first returns the fields of the first well-formed occurrence.
func (m *marker) first(text string) ([]string, bool) {
	all := m.findAll(text)
	if len(all) == 0 {
		return nil, false
	}
	return all[0], true
}

// firstSpan returns the span of the earliest well-formed occurrence in line,
// or -1, -1. A marker carrying fields owns the rest of the line.
func (m *marker) firstSpan(line string) (int, int) {
	for _, loc := range m.re.FindAllStringSubmatchIndex(line, -1) {
		sub := make([]string, 0, len(loc)/2)
		for i := 0; i < len(loc); i += 2 {
			if loc[i] < 0 {
				sub = append(sub, "")
				continue
			}
			sub = append(sub, line[loc[i]:loc[i+1]])
		}
		if !m.valid(sub) {
			continue
		}
		if m.fields > 0 {
			return loc[0], len(line)
		}
		return loc[0], loc[1]
	}
	return -1, -1
}

// ExtractActions returns every persona and goal action in text.
// Extraction is exhaustive: repeated markers yield repeated actions.
func ExtractActions(text string) []Action {
	var actions []Action
	for _, f := range markerPersonaConfirmed.findAll(text) {
		actions = append(actions, Action{Kind: ActionPersonaCreate, Name: f[0], NorthStar: f[1]})
	}
	for _, f := range markerRefinedNorthStar.findAll(text) {
		actions = append(actions, Action{Kind: ActionPersonaUpdateNorthStar, NorthStar: f[0]})
	}
	for _, f := range markerGoalCreated.findAll(text) {
		actions = append(actions, Action{Kind: ActionGoalCreate, Name: f[0], AcceptanceCriteria: f[1], ReviewDate: f[2]})
	}
	return actions
}

// ExtractTransition returns the first hand-off command in text, tested in the
// fixed order goals, discovery, refinement. Later markers are ignored.
func ExtractTransition(text string) *TransitionRequest {
	if f, ok := markerToGoals.first(text); ok {
		return &TransitionRequest{To: AgentGoal, Reason: ReasonActionTriggered, PersonaName: f[0]}
	}
	if markerToDiscovery.re.MatchString(text) {
		return &TransitionRequest{To: AgentDiscovery, Reason: ReasonEducationalHandoff}
	}
	if f, ok := markerToRefinement.first(text); ok {
		return &TransitionRequest{To: AgentRefinement, Reason: ReasonActionTriggered, PersonaID: f[0]}
	}
	return nil
}

// Sanitize removes every recognised marker and its payload from text.
// A line left blank by the removal is dropped; text before a marker on
// the same line is kept, and so is text after a marker without payload. Malformed markers pass through untouched.
// Sanitize is idempotent.
func Sanitize(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		stripped, changed := stripMarkers(line)
		if !changed {
			kept = append(kept, line)
			continue
		}
		if strings.TrimSpace(stripped) == "" {
			continue
		}
		kept = append(kept, stripped)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// stripMarkers removes marker spans from line until none remain.
func stripMarkers(line string) (string, bool) {
	changed := false
	for {
		start, end := -1, -1
		for _, m := range sanitizedMarkers {
			if s, e := m.firstSpan(line); s >= 0 && (start < 0 || s < start) {
				start, end = s, e
			}
		}
		if start < 0 {
			return line, changed
		}
		changed = true
		before := strings.TrimRight(line[:start], " \t\r")
		after := strings.TrimLeft(line[end:], " \t")
		switch {
		case before == "":
			line = after
		case after == "":
			line = before
		default:
			line = before + " " + after
		}
	}
}

// Extract runs action extraction, transition extraction and sanitization over generated text.
func Extract(generated string) *Extraction {
	return &Extraction{
		Text:       Sanitize(generated),
		Actions:    ExtractActions(generated),
		Transition: ExtractTransition(generated),
	}
}
