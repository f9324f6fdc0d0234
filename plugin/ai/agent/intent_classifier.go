package agent

import (
	"regexp"
	"strings"
)

// Confidence values produced by the classifier. They are diagnostics only and never gate routing.
const (
	confidenceConfirmed    = 0.95
	confidenceDeclined     = 0.90
	confidenceFromHistory  = 0.60
	confidenceFirstContact = 0.50
)

// Pattern-match confidence in hundredths, so sums stay exact.
const (
	hundredthsBase        = 70
	hundredthsMultiMatch  = 85
	hundredthsAnchorBonus = 10
	hundredthsCeiling     = 95
)

// Classification methods recorded on IntentResult.
const (
	MethodPattern      = "pattern"
	MethodConfirmation = "confirmation"
	MethodHistory      = "history"
	MethodDefault      = "default"
	MethodOverride     = "override"
)

// handoffQuestion is the phrase an educational reply uses to offer persona discovery.
const handoffQuestion = "discover your own personas"

// intentRule is one entry of the ordered pattern table.
type intentRule struct {
	intent   Intent
	patterns []*regexp.Regexp
}

// ClassifyContext is the minimal prior-turn state the classifier needs.
type ClassifyContext struct {
	// AwaitingConfirmation is set when the previous agent turn asked a yes/no hand-off question.
	AwaitingConfirmation bool
	// PendingIntent is returned on an affirmative reply. Defaults to persona_creation.
	PendingIntent Intent
	// History is the working thread's turns, oldest first.
	History []Turn
}

// IntentClassifier maps a user message to an intent with a deterministic, ordered pattern table.
// The first group with any matching pattern wins, so table order is part of the contract.
type IntentClassifier struct {
	rules       []intentRule
	affirmative []*regexp.Regexp
	negative    []*regexp.Regexp

	// Words that raise confidence when present in the message.
	anchorWords []string

	// Bare replies recognised when inferring from history.
	historyYes []string
	historyNo  []string
}

// NewIntentClassifier creates an IntentClassifier with the default pattern table.
func NewIntentClassifier() *IntentClassifier {
	ic := &IntentClassifier{
		anchorWords: []string{"persona", "northstar", "north star"},
		historyYes:  []string{"yes", "yeah", "sure", "okay"},
		historyNo:   []string{"no", "not yet", "maybe later"},
	}

	ic.affirmative = compilePatterns(
		`^yes$`,
		`^yeah$`,
		`^yep$`,
		`^sure$`,
		`^okay$`,
		`^ok$`,
		`yes,?\s+`,
		`that\s+sounds?\s+good`,
		`i\s*'?d\s+like\s+that`,
		`let\s*'?s\s+do\s+it`,
		`sounds?\s+great`,
	)

	ic.negative = compilePatterns(
		`^no$`,
		`^nah$`,
		`^nope$`,
		`no,?\s+`,
		`not\s+yet`,
		`not\s+now`,
		`maybe\s+later`,
		`not\s+ready`,
	)

	ic.rules = []intentRule{
		{
			intent: IntentConceptExplanation,
			patterns: compilePatterns(
				`what\s+is\s+a?\s*(persona|northstar|north\s*star)`,
				`explain\s+(persona|northstar|north\s*star)`,
				`what\s+are\s+(personas|northstars|north\s*stars)`,
				`help\s+me\s+understand\s+(persona|northstar)`,
				`meaning\s+of\s+life`,
				`what.*persona.*mean`,
				`define\s+(persona|northstar)`,
			),
		},
		{
			intent: IntentExamplesRequest,
			patterns: compilePatterns(
				`give\s+me\s+examples?\s+of\s+(persona|northstar)`,
				`show\s+me\s+examples?\s+of\s+(persona|northstar)`,
				`examples?\s+of\s+(persona|northstar)`,
				`can\s+you\s+show\s+me.*examples?`,
			),
		},
		{
			intent: IntentPersonaCreation,
			patterns: compilePatterns(
				`create\s+my\s+(persona|personas)`,
				`discover\s+my\s+(persona|personas)`,
				`find\s+my\s+(persona|personas)`,
				`identify\s+my\s+(persona|personas)`,
				`ready\s+to\s+(create|discover)`,
				`let.*s\s+(create|discover|find)\s+my`,
				`(want\s+to\s+|i\s+want\s+to\s+)?(create|discover|find)\s+(my\s+)?(persona|personas)`,
				`i\s+want\s+to\s+(create|discover|find)`,
			),
		},
		{
			intent: IntentPersonaRefinement,
			patterns: compilePatterns(
				`improve\s+my\s+.*persona`,
				`refine\s+my\s+.*persona`,
				`update\s+my\s+.*persona`,
				`change\s+my\s+.*persona`,
				`modify\s+my\s+.*persona`,
				`better.*persona`,
			),
		},
		{
			intent: IntentGoalSetting,
			patterns: compilePatterns(
				`set\s+goals?\s+for`,
				`create\s+goals?\s+for`,
				`goals?\s+for\s+my\s+.*persona`,
				`turn.*into\s+goals?`,
				`actionable\s+steps`,
				`daily\s+practices`,
			),
		},
		{
			intent: IntentOverviewRequest,
			patterns: compilePatterns(
				`show\s+me\s+all\s+my\s+(personas|goals)`,
				`list\s+all\s+my\s+(personas|goals)`,
				`overview\s+of\s+my\s+(personas|goals)`,
				`dashboard`,
				`summary\s+of\s+my`,
				`all\s+my\s+(personas|goals)`,
			),
		},
		{
			intent: IntentProgressReview,
			patterns: compilePatterns(
				`how\s+am\s+i\s+doing`,
				`progress\s+on\s+my`,
				`review\s+my\s+progress`,
				`check\s+my\s+progress`,
			),
		},
		{
			intent: IntentStrategicPlanning,
			patterns: compilePatterns(
				`what\s+should\s+i\s+focus\s+on`,
				`prioritize\s+my`,
				`strategic\s+planning`,
				`big\s+picture`,
				`long\s+term`,
			),
		},
		{intent: IntentAffirmativeResponse, patterns: ic.affirmative},
		{intent: IntentNegativeResponse, patterns: ic.negative},
	}

	return ic
}

// compilePatterns compiles case-insensitive patterns, panicking on invalid input.
func compilePatterns(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		patterns = append(patterns, regexp.MustCompile(`(?i)`+expr))
	}
	return patterns
}

// Classify determines the intent of message. It never fails.
func (ic *IntentClassifier) Classify(message string, cc ClassifyContext) IntentResult {
	msg := normalizeMessage(message)

	// A pending yes/no question takes precedence over the general table.
	if cc.AwaitingConfirmation {
		if anyMatch(msg, ic.affirmative) {
			pending := cc.PendingIntent
			if pending == "" {
				pending = IntentPersonaCreation
			}
			return IntentResult{Intent: pending, Confidence: confidenceConfirmed, Method: MethodConfirmation}
		}
		if anyMatch(msg, ic.negative) {
			return IntentResult{Intent: IntentConceptClarification, Confidence: confidenceDeclined, Method: MethodConfirmation}
		}
	}

	for _, rule := range ic.rules {
		matches := countMatches(msg, rule.patterns)
		if matches == 0 {
			continue
		}
		return IntentResult{Intent: rule.intent, Confidence: ic.confidence(msg, matches), Method: MethodPattern}
	}

	if len(cc.History) > 0 {
		return IntentResult{Intent: ic.inferFromHistory(msg, cc.History), Confidence: confidenceFromHistory, Method: MethodHistory}
	}

	return IntentResult{Intent: IntentConceptExplanation, Confidence: confidenceFirstContact, Method: MethodDefault}
}

// Rules returns the ordered intent labels of the pattern table.
func (ic *IntentClassifier) Rules() []Intent {
	intents := make([]Intent, 0, len(ic.rules))
	for _, rule := range ic.rules {
		intents = append(intents, rule.intent)
	}
	return intents
}

func (ic *IntentClassifier) confidence(msg string, matches int) float64 {
	hundredths := hundredthsBase
	if matches > 1 {
		hundredths = hundredthsMultiMatch
	}
	for _, word := range ic.anchorWords {
		if strings.Contains(msg, word) {
			hundredths += hundredthsAnchorBonus
			break
		}
	}
	hundredths = min(hundredths, hundredthsCeiling)
	return float64(hundredths) / 100
}

// inferFromHistory looks at the most recent agent turn to resolve a message the table could not.
func (ic *IntentClassifier) inferFromHistory(msg string, history []Turn) Intent {
	lastAgent := lastAgentText(history)
	if strings.Contains(strings.ToLower(lastAgent), handoffQuestion) {
		for _, yes := range ic.historyYes {
			if msg == yes {
				return IntentPersonaCreation
			}
		}
		for _, no := range ic.historyNo {
			if msg == no {
				return IntentConceptClarification
			}
		}
	}
	return IntentConceptExplanation
}

// AsksForHandoff reports whether an agent reply offered the persona discovery hand-off,
// which means the next user message should be read as a confirmation.
func AsksForHandoff(reply string) bool {
	return strings.Contains(strings.ToLower(reply), handoffQuestion)
}

func lastAgentText(history []Turn) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].From == SpeakerAgent {
			return history[i].Text
		}
	}
	return ""
}

func normalizeMessage(message string) string {
	return strings.ToLower(strings.TrimSpace(message))
}

func anyMatch(msg string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(msg) {
			return true
		}
	}
	return false
}

func countMatches(msg string, patterns []*regexp.Regexp) int {
	n := 0
	for _, p := range patterns {
		if p.MatchString(msg) {
			n++
		}
	}
	return n
}
