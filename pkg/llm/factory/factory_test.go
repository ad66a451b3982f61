package factory

import (
	"testing"

	"kb-agent-lambda/pkg/llm/bedrock"
	"kb-agent-lambda/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider(Settings{Provider: "ollama", Model: "llama3.1"})
	require.NoError(t, err)
	o, ok := p.(*ollama.OllamaProvider)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:11434", o.BaseURL)

	_, err = NewLLMProvider(Settings{Provider: "bedrock"})
	assert.Error(t, err)

	_, err = NewLLMProvider(Settings{Provider: "openai"})
	assert.Error(t, err)

	var api bedrock.ConverseAPI = nil
	_, err = NewLLMProvider(Settings{Provider: "", Converse: api})
	assert.Error(t, err)
}
