package config

import (
	"time"

	"github.com/stake-plus/commitaudit/src/ai/core"
)

// AI configures the judge. Keys are only ever read from configuration.
// A zero MaxCompletionTokens leaves the output cap to the provider.
type AI struct {
	Provider            string
	Model               string
	SystemPrompt        string
	Temperature         float64
	MaxCompletionTokens int
	Attempts            int
	Timeout             time.Duration
	BaseURL             string

	GeminiKey string
	OpenAIKey string
	ClaudeKey string
}

// LoadAI loads judge configuration.
func LoadAI(l *Loader) AI {
	provider := l.GetSetting("ai_provider", "AI_PROVIDER", core.DefaultProvider)
	return AI{
		Provider:            provider,
		Model:               core.ResolveModelName(provider, l.GetSetting("ai_model", "AI_MODEL", "")),
		SystemPrompt:        l.GetSetting("ai_system_prompt", "AI_SYSTEM_PROMPT", ""),
		Temperature:         l.getFloat("ai_temperature", "AI_TEMPERATURE", 0.2),
		MaxCompletionTokens: l.getInt("ai_max_tokens", "AI_MAX_TOKENS", 0),
		Attempts:            l.getInt("ai_attempts", "AI_ATTEMPTS", 1),
		Timeout:             l.getDuration("ai_timeout", "AI_TIMEOUT", 120*time.Second),
		BaseURL:             l.GetSetting("ai_base_url", "AI_BASE_URL", ""),
		GeminiKey:           l.GetSetting("gemini_api_key", "GEMINI_API_KEY", ""),
		OpenAIKey:           l.GetSetting("openai_api_key", "OPENAI_API_KEY", ""),
		ClaudeKey:           l.GetSetting("claude_api_key", "CLAUDE_API_KEY", ""),
	}
}

// FactoryConfig converts the judge configuration for core.NewClient.
func (a AI) FactoryConfig() core.FactoryConfig {
	return core.FactoryConfig{
		Provider:            a.Provider,
		SystemPrompt:        a.SystemPrompt,
		Model:               a.Model,
		Temperature:         a.Temperature,
		MaxCompletionTokens: a.MaxCompletionTokens,
		Attempts:            a.Attempts,
		Timeout:             a.Timeout,
		GeminiKey:           a.GeminiKey,
		OpenAIKey:           a.OpenAIKey,
		ClaudeKey:           a.ClaudeKey,
		BaseURL:             a.BaseURL,
	}
}
