package llm

import (
	"strings"
	"time"

	"github.com/clipbrief/clipbrief/internal/config"
)

// DetectProvider picks the summarization backend: explicit configuration
// wins, otherwise the API-key shape decides (sk-ant-... keys are Anthropic).
func DetectProvider(cfg config.LLMConfig) string {
	if cfg.Provider != "" {
		return cfg.Provider
	}
	if strings.HasPrefix(cfg.APIKey, "sk-ant-") {
		return "anthropic"
	}
	return "openai"
}

// NewFromConfig builds the configured completion client.
func NewFromConfig(cfg config.LLMConfig) Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	switch DetectProvider(cfg) {
	case "anthropic":
		return NewAnthropicClient(cfg.APIKey, cfg.Model, cfg.Temperature, cfg.MaxTokens, timeout)
	default:
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.Temperature, cfg.MaxTokens, timeout)
	}
}
