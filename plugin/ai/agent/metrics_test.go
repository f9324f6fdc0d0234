package agent

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAgentMetrics_Summary(t *testing.T) {
	m := NewAgentMetrics()

	m.RecordIntent(IntentConceptExplanation)
	m.RecordIntent(IntentConceptExplanation)
	m.RecordIntent(IntentGoalSetting)
	m.RecordExecution(AgentEducational, 10*time.Millisecond, true)
	m.RecordExecution(AgentGoal, 30*time.Millisecond, false)
	m.RecordActions([]Action{{Kind: ActionGoalCreate}, {Kind: ActionGoalCreate}})
	m.RecordActions(nil)
	m.RecordTransition()
	m.RecordClarification()

	s := m.GetSummary()
	assert.Equal(t, int64(2), s.TotalExecutions)
	assert.Equal(t, int64(1), s.SuccessfulExecutions)
	assert.Equal(t, int64(1), s.FailedExecutions)
	assert.InDelta(t, 50.0, s.SuccessRate, 1e-9)
	assert.Equal(t, int64(20), s.AverageDurationMs)
	assert.Equal(t, int64(30), s.P95DurationMs)
	assert.Equal(t, int64(2), s.Intents[IntentConceptExplanation])
	assert.Equal(t, int64(1), s.Agents[AgentGoal])
	assert.Equal(t, int64(2), s.Actions[ActionGoalCreate])
	assert.Equal(t, int64(1), s.Transitions)
	assert.Equal(t, int64(1), s.Clarifications)
}

func TestAgentMetrics_Empty(t *testing.T) {
	m := NewAgentMetrics()
	assert.Zero(t, m.GetSuccessRate())
	assert.Zero(t, m.GetAverageDuration())
	assert.Zero(t, m.GetP95Duration())
	m.LogSummary()
}

func TestAgentMetrics_SampleWindow(t *testing.T) {
	m := NewAgentMetrics()
	for i := 0; i < maxDurationSamples+20; i++ {
		m.RecordExecution(AgentDiscovery, time.Second, true)
	}
	assert.Len(t, m.executionDuration, maxDurationSamples)
	assert.Equal(t, time.Second, m.GetAverageDuration())
}

func TestAgentMetrics_Concurrent(t *testing.T) {
	m := NewAgentMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				m.RecordIntent(IntentPersonaCreation)
				m.RecordExecution(AgentDiscovery, time.Millisecond, true)
				_ = m.GetSummary()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(800), m.GetSummary().Intents[IntentPersonaCreation])
}
