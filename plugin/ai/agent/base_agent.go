package agent

// baseAgent carries the identity and behaviour shared by every agent variant.
type baseAgent struct {
	agentType   AgentType
	displayName string
	intents     []Intent
}

func (b *baseAgent) Type() AgentType {
	return b.agentType
}

func (b *baseAgent) DisplayName() string {
	return b.displayName
}

func (b *baseAgent) SupportedIntents() []Intent {
	out := make([]Intent, len(b.intents))
	copy(out, b.intents)
	return out
}

func (b *baseAgent) CanHandle(intent Intent) bool {
	for _, i := range b.intents {
		if i == intent {
			return true
		}
	}
	return false
}

// Clarification is a no-op for agents that can always run.
func (b *baseAgent) Clarification(*Context) (string, bool) {
	return "", false
}

// Extract applies the shared marker protocol.
func (b *baseAgent) Extract(generated string) *Extraction {
	return Extract(generated)
}
