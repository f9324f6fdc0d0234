// Package agent provides error definitions for the coaching agents.
package agent

import "errors"

var (
	// ErrAgentNotFound indicates the requested agent type is not registered.
	ErrAgentNotFound = errors.New("agent not found")

	// ErrLLMUnavailable indicates the generative backend failed or timed out.
	// Not recovered locally: the whole request fails.
	ErrLLMUnavailable = errors.New("llm unavailable")

	// ErrEmptyMessage indicates the user message is blank.
	ErrEmptyMessage = errors.New("message cannot be empty")
)

// IsTransientError reports whether the error might succeed on retry.
// The core never retries; callers may.
func IsTransientError(err error) bool {
	return errors.Is(err, ErrLLMUnavailable)
}
