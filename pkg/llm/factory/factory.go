package factory

import (
	"fmt"

	"kb-agent-lambda/pkg/llm"
	"kb-agent-lambda/pkg/llm/bedrock"
	"kb-agent-lambda/pkg/llm/ollama"
)

// Settings selects and configures the agent model backend
type Settings struct {
	Provider  string // "bedrock" or "ollama"
	Model     string
	BaseURL   string
	Converse  bedrock.ConverseAPI
	Guardrail *bedrock.Guardrail
}

func NewLLMProvider(s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case "bedrock", "":
		if s.Converse == nil {
			return nil, fmt.Errorf("bedrock provider needs a runtime client")
		}
		return bedrock.NewProvider(s.Converse, s.Model, s.Guardrail), nil
	case "ollama":
		baseURL := s.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, s.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
