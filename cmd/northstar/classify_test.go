package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hrygo/northstar/plugin/ai/agent"
)

func TestClassifyMessages(t *testing.T) {
	results := classifyMessages([]string{"What is a persona?", "I want to create my persona"}, false)
	require.Len(t, results, 2)
	assert.Equal(t, agent.IntentConceptExplanation, results[0].Intent)
	assert.Equal(t, agent.AgentEducational, results[0].AgentType)
	assert.Equal(t, agent.AgentDiscovery, results[1].AgentType)
	assert.Equal(t, "/personas/discovery", results[1].Route)

	confirmed := classifyMessages([]string{"yes"}, true)
	assert.Equal(t, agent.IntentPersonaCreation, confirmed[0].Intent)
	assert.Equal(t, agent.MethodConfirmation, confirmed[0].Method)
}

func TestWriteClassifications(t *testing.T) {
	results := classifyMessages([]string{"What is a persona?"}, false)

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeClassifications(&buf, "json", results))
		var decoded []classification
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, results, decoded)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeClassifications(&buf, "yaml", results))
		var decoded []classification
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, results, decoded)
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeClassifications(&buf, "text", results))
		assert.Contains(t, buf.String(), "educational")
		assert.Contains(t, buf.String(), "concept_explanation")
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Error(t, writeClassifications(&bytes.Buffer{}, "xml", results))
	})
}

func TestClassifyCommand(t *testing.T) {
	cmd := newClassifyCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"-o", "json", "Help me set goals for my writer persona"})
	require.NoError(t, cmd.Execute())

	var decoded []classification
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, agent.AgentGoal, decoded[0].AgentType)
}
