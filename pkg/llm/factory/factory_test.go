package factory

import (
	"testing"

	"taskchat-be/internal/config"
	"taskchat-be/pkg/llm/gemini"
	"taskchat-be/pkg/llm/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompletionProvider(t *testing.T) {
	geminiCfg := &config.AIConfig{
		Provider:      "gemini",
		GeminiAPIKey:  "g-key",
		GeminiBaseURL: "https://example.com",
		GeminiModel:   "gemini-2.0-flash",
	}
	provider, err := NewCompletionProvider(geminiCfg)
	require.NoError(t, err)
	_, ok := provider.(*gemini.GeminiProvider)
	assert.True(t, ok)

	openaiCfg := &config.AIConfig{
		Provider:      "openai",
		OpenAIAPIKey:  "sk-key",
		OpenAIBaseURL: "https://example.com",
		OpenAIModel:   "gpt-4o-mini",
	}
	provider, err = NewCompletionProvider(openaiCfg)
	require.NoError(t, err)
	_, ok = provider.(*openai.OpenAIProvider)
	assert.True(t, ok)
}

func TestNewCompletionProviderUnsupported(t *testing.T) {
	_, err := NewCompletionProvider(&config.AIConfig{Provider: "llama-on-a-toaster"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestMissingKeyIsNotAConstructionError(t *testing.T) {
	provider, err := NewCompletionProvider(&config.AIConfig{Provider: "gemini"})
	require.NoError(t, err)
	assert.NotNil(t, provider)
}
