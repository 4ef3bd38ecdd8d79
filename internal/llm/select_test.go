package llm

import (
	"testing"

	"github.com/clipbrief/clipbrief/internal/config"
)

func TestDetectProvider(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LLMConfig
		want string
	}{
		{"explicit anthropic", config.LLMConfig{Provider: "anthropic", APIKey: "sk-abc"}, "anthropic"},
		{"explicit openai", config.LLMConfig{Provider: "openai", APIKey: "sk-ant-abc"}, "openai"},
		{"anthropic key shape", config.LLMConfig{APIKey: "sk-ant-api03-xyz"}, "anthropic"},
		{"openai key shape", config.LLMConfig{APIKey: "sk-proj-xyz"}, "openai"},
		{"unknown key defaults to openai", config.LLMConfig{APIKey: "whatever"}, "openai"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectProvider(tt.cfg); got != tt.want {
				t.Errorf("DetectProvider() = %q, want %q", got, tt.want)
			}
		})
	}
}
