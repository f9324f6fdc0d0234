package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewLLMService tests service creation.
func TestNewLLMService(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *LLMConfig
		expectError bool
	}{
		{
			name: "deepseek_config",
			cfg: &LLMConfig{
				Provider:    "deepseek",
				Model:       "deepseek-chat",
				APIKey:      "test-key",
				BaseURL:     "https://api.deepseek.com",
				MaxTokens:   2048,
				Temperature: 0.7,
			},
		},
		{
			name: "openai_config",
			cfg: &LLMConfig{
				Provider:    "openai",
				Model:       "gpt-4",
				APIKey:      "test-key",
				MaxTokens:   4096,
				Temperature: 0.5,
			},
		},
		{
			name: "ollama_config",
			cfg: &LLMConfig{
				Provider: "ollama",
				Model:    "llama3",
				BaseURL:  "http://localhost:11434/v1",
			},
		},
		{
			name:        "unsupported_provider",
			cfg:         &LLMConfig{Provider: "unsupported"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewLLMService(tt.cfg)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, svc)
		})
	}
}

// TestConvertMessages tests message conversion.
func TestConvertMessages(t *testing.T) {
	messages := []Message{
		{Role: "system", Content: "You are a coach"},
		{Role: "user", Content: "Hello"},
		{Role: "assistant", Content: "Hi there"},
		{Role: "tool", Content: "treated as user"},
	}

	out := convertMessages(messages)
	require.Len(t, out, len(messages))
	assert.Equal(t, openai.ChatMessageRoleSystem, out[0].Role)
	assert.Equal(t, openai.ChatMessageRoleUser, out[1].Role)
	assert.Equal(t, openai.ChatMessageRoleAssistant, out[2].Role)
	assert.Equal(t, openai.ChatMessageRoleUser, out[3].Role)
	assert.Equal(t, "Hi there", out[2].Content)
}

func TestFormatMessages(t *testing.T) {
	history := []Message{UserMessage("earlier"), AssistantMessage("reply")}
	out := FormatMessages("system prompt", "now", history)
	require.Len(t, out, 4)
	assert.Equal(t, SystemPrompt("system prompt"), out[0])
	assert.Equal(t, UserMessage("now"), out[3])

	assert.Equal(t, []Message{UserMessage("only")}, FormatMessages("", "only", nil))
}

func newChatServer(t *testing.T, status int, reply string, seen *openai.ChatCompletionRequest) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"backend down","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestLLMService_Chat(t *testing.T) {
	var seen openai.ChatCompletionRequest
	server := newChatServer(t, http.StatusOK, "A persona is a role you play.", &seen)

	svc, err := NewLLMService(&LLMConfig{
		Provider:    "openai",
		Model:       "test-model",
		APIKey:      "test-key",
		BaseURL:     server.URL + "/v1",
		MaxTokens:   256,
		Temperature: 0.2,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	reply, err := svc.Chat(ctx, FormatMessages("You are an Educational Agent", "What is a persona?", nil))
	require.NoError(t, err)
	assert.Equal(t, "A persona is a role you play.", reply)

	assert.Equal(t, "test-model", seen.Model)
	assert.Equal(t, 256, seen.MaxTokens)
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, seen.Messages[0].Role)
	assert.Equal(t, "What is a persona?", seen.Messages[1].Content)
}

func TestLLMService_ChatErrors(t *testing.T) {
	t.Run("backend_error", func(t *testing.T) {
		server := newChatServer(t, http.StatusInternalServerError, "", nil)
		svc, err := NewLLMService(&LLMConfig{Provider: "ollama", Model: "llama3", BaseURL: server.URL + "/v1"})
		require.NoError(t, err)

		_, err = svc.Chat(context.Background(), []Message{UserMessage("hi")})
		assert.ErrorContains(t, err, "chat completion failed")
	})

	t.Run("no_messages", func(t *testing.T) {
		svc, err := NewLLMService(&LLMConfig{Provider: "openai", Model: "m", APIKey: "k"})
		require.NoError(t, err)

		_, err = svc.Chat(context.Background(), nil)
		assert.Error(t, err)
	})
}

func TestDisabledLLMService(t *testing.T) {
	_, err := NewDisabledLLMService().Chat(context.Background(), []Message{UserMessage("hi")})
	assert.ErrorIs(t, err, ErrAIDisabled)
}
