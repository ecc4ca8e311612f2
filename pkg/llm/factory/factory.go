package factory

import (
	"fmt"

	"taskchat-be/internal/config"
	"taskchat-be/pkg/llm"
	"taskchat-be/pkg/llm/gemini"
	"taskchat-be/pkg/llm/openai"
)

// NewCompletionProvider selects the provider adapter named by configuration.
// A missing API key is not an error here; it surfaces on the first call.
func NewCompletionProvider(cfg *config.AIConfig) (llm.CompletionProvider, error) {
	switch cfg.Provider {
	case "gemini":
		return gemini.NewGeminiProvider(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel), nil
	case "openai":
		return openai.NewOpenAIProvider(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
