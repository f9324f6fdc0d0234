package agent

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const maxDurationSamples = 100

// AgentMetrics collects routing and execution metrics for the coaching agents.
// All operations are safe for concurrent use.
type AgentMetrics struct {
	mu sync.RWMutex

	// Recent generation latencies, newest last.
	executionDuration []time.Duration

	totalExecutions      atomic.Int64
	successfulExecutions atomic.Int64
	failedExecutions     atomic.Int64
	clarifications       atomic.Int64
	transitions          atomic.Int64

	intents map[Intent]int64
	agents  map[AgentType]int64
	actions map[ActionKind]int64
}

// NewAgentMetrics creates a new metrics collector.
func NewAgentMetrics() *AgentMetrics {
	return &AgentMetrics{
		executionDuration: make([]time.Duration, 0, maxDurationSamples),
		intents:           make(map[Intent]int64),
		agents:            make(map[AgentType]int64),
		actions:           make(map[ActionKind]int64),
	}
}

// RecordExecution records one processed message handled by agentType.
func (m *AgentMetrics) RecordExecution(agentType AgentType, duration time.Duration, success bool) {
	m.totalExecutions.Add(1)
	if success {
		m.successfulExecutions.Add(1)
	} else {
		m.failedExecutions.Add(1)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.agents[agentType]++
	if len(m.executionDuration) >= maxDurationSamples {
		m.executionDuration = m.executionDuration[1:]
	}
	m.executionDuration = append(m.executionDuration, duration)
}

// RecordIntent records a classification result.
func (m *AgentMetrics) RecordIntent(intent Intent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intents[intent]++
}

// RecordActions records the structured actions applied for one reply.
func (m *AgentMetrics) RecordActions(actions []Action) {
	if len(actions) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range actions {
		m.actions[a.Kind]++
	}
}

// RecordTransition records a thread hand-off.
func (m *AgentMetrics) RecordTransition() {
	m.transitions.Add(1)
}

// RecordClarification records a reply served without calling the generative backend.
func (m *AgentMetrics) RecordClarification() {
	m.clarifications.Add(1)
}

// GetSuccessRate returns the success rate as a percentage (0-100).
func (m *AgentMetrics) GetSuccessRate() float64 {
	total := m.totalExecutions.Load()
	if total == 0 {
		return 0
	}
	return float64(m.successfulExecutions.Load()) / float64(total) * 100
}

// GetAverageDuration returns the average execution duration over recent samples.
func (m *AgentMetrics) GetAverageDuration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.averageDurationLocked()
}

// GetP95Duration returns the 95th percentile execution duration over recent samples.
func (m *AgentMetrics) GetP95Duration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.p95DurationLocked()
}

func (m *AgentMetrics) averageDurationLocked() time.Duration {
	if len(m.executionDuration) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range m.executionDuration {
		sum += d
	}
	return sum / time.Duration(len(m.executionDuration))
}

func (m *AgentMetrics) p95DurationLocked() time.Duration {
	if len(m.executionDuration) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(m.executionDuration))
	copy(sorted, m.executionDuration)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idx := int(float64(len(sorted)) * 0.95)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// GetSummary returns a point-in-time copy of all metrics.
func (m *AgentMetrics) GetSummary() MetricsSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summary := MetricsSummary{
		TotalExecutions:      m.totalExecutions.Load(),
		SuccessfulExecutions: m.successfulExecutions.Load(),
		FailedExecutions:     m.failedExecutions.Load(),
		Clarifications:       m.clarifications.Load(),
		Transitions:          m.transitions.Load(),
		SuccessRate:          m.GetSuccessRate(),
		AverageDurationMs:    m.averageDurationLocked().Milliseconds(),
		P95DurationMs:        m.p95DurationLocked().Milliseconds(),
		Intents:              make(map[Intent]int64, len(m.intents)),
		Agents:               make(map[AgentType]int64, len(m.agents)),
		Actions:              make(map[ActionKind]int64, len(m.actions)),
	}
	for k, v := range m.intents {
		summary.Intents[k] = v
	}
	for k, v := range m.agents {
		summary.Agents[k] = v
	}
	for k, v := range m.actions {
		summary.Actions[k] = v
	}
	return summary
}

// LogSummary logs the current metrics summary.
func (m *AgentMetrics) LogSummary() {
	summary := m.GetSummary()
	slog.Info("agent_metrics_summary",
		"total_executions", summary.TotalExecutions,
		"success_rate", fmtFloat(summary.SuccessRate),
		"avg_duration_ms", summary.AverageDurationMs,
		"p95_duration_ms", summary.P95DurationMs,
		"clarifications", summary.Clarifications,
		"transitions", summary.Transitions,
	)
}

// MetricsSummary is a snapshot of AgentMetrics.
type MetricsSummary struct {
	TotalExecutions      int64                `json:"total_executions"`
	SuccessfulExecutions int64                `json:"successful_executions"`
	FailedExecutions     int64                `json:"failed_executions"`
	Clarifications       int64                `json:"clarifications"`
	Transitions          int64                `json:"transitions"`
	SuccessRate          float64              `json:"success_rate"`
	AverageDurationMs    int64                `json:"average_duration_ms"`
	P95DurationMs        int64                `json:"p95_duration_ms"`
	Intents              map[Intent]int64     `json:"intents"`
	Agents               map[AgentType]int64  `json:"agents"`
	Actions              map[ActionKind]int64 `json:"actions"`
}

// fmtFloat formats a float value with 2 decimal places.
func fmtFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
