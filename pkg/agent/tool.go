package agent

import (
	"context"

	"kb-agent-lambda/pkg/llm"
)

// Tool is something the model may call during a turn. Call returns the text
// handed back to the model; citations go into turn.Citations.
type Tool interface {
	Spec() llm.ToolSpec
	Call(ctx context.Context, turn *Turn, input map[string]interface{}) (string, error)
}

// StringInput reads an optional string argument
func StringInput(input map[string]interface{}, key string) string {
	if v, ok := input[key].(string); ok {
		return v
	}
	return ""
}
