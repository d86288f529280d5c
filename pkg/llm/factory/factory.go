package factory

import (
	"fmt"
	"time"

	"mental-health-agent-be/pkg/llm"
	"mental-health-agent-be/pkg/llm/gemini"
	"mental-health-agent-be/pkg/llm/ollama"
)

type Params struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
}

func NewLLMProvider(p Params) (llm.LLMProvider, error) {
	switch p.Provider {
	case "", "gemini":
		return gemini.NewGeminiProvider(p.BaseURL, p.Model, p.APIKey, p.Timeout), nil
	case "ollama":
		baseURL := p.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, p.Model, p.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", p.Provider)
	}
}
