package agent

import (
	"context"
	"errors"
	"fmt"

	"kb-agent-lambda/pkg/llm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const DefaultMaxIterations = 8

var ErrMaxIterations = errors.New("agent did not finish within the iteration limit")

// Agent runs the model with a fixed system prompt and tool set
type Agent struct {
	provider      llm.LLMProvider
	systemPrompt  string
	tools         map[string]Tool
	specs         []llm.ToolSpec
	maxIterations int
	options       []llm.Option
}

type AgentOption func(*Agent)

func WithMaxIterations(n int) AgentOption {
	return func(a *Agent) {
		if n > 0 {
			a.maxIterations = n
		}
	}
}

// WithModelOptions passes provider options on every model call
func WithModelOptions(opts ...llm.Option) AgentOption {
	return func(a *Agent) {
		a.options = append(a.options, opts...)
	}
}

func New(provider llm.LLMProvider, systemPrompt string, tools []Tool, opts ...AgentOption) *Agent {
	a := &Agent{
		provider:      provider,
		systemPrompt:  systemPrompt,
		tools:         make(map[string]Tool, len(tools)),
		maxIterations: DefaultMaxIterations,
	}
	for _, t := range tools {
		spec := t.Spec()
		a.tools[spec.Name] = t
		a.specs = append(a.specs, spec)
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Agent) SystemPrompt() string {
	return a.systemPrompt
}

// ToolNames lists the registered tools in registration order
func (a *Agent) ToolNames() []string {
	names := make([]string, 0, len(a.specs))
	for _, s := range a.specs {
		names = append(names, s.Name)
	}
	return names
}

// Run answers question given the prior history. It returns the final answer
// and the history extended with this turn's messages.
func (a *Agent) Run(ctx context.Context, turn *Turn, history []llm.Message, question string) (string, []llm.Message, error) {
	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, llm.TextMessage(llm.RoleUser, question))

	system := a.systemPrompt
	if turn.SystemPrompt != "" {
		system = turn.SystemPrompt
	}

	for i := 0; i < a.maxIterations; i++ {
		resp, err := a.provider.Chat(ctx, llm.Request{
			System:   system,
			Messages: messages,
			Tools:    a.specs,
		}, a.options...)
		if err != nil {
			return "", messages, fmt.Errorf("model call %d: %w", i+1, err)
		}
		messages = append(messages, resp.Message)

		uses := resp.Message.ToolUses()
		if len(uses) == 0 {
			return resp.Message.Text(), messages, nil
		}

		results := make([]llm.ContentBlock, 0, len(uses))
		for _, use := range uses {
			results = append(results, llm.ContentBlock{ToolResult: a.callTool(ctx, turn, use)})
		}
		messages = append(messages, llm.Message{Role: llm.RoleUser, Content: results})
	}
	return "", messages, ErrMaxIterations
}

func (a *Agent) callTool(ctx context.Context, turn *Turn, use llm.ToolUse) *llm.ToolResult {
	ctx, span := otel.Tracer("agent").Start(ctx, "tool."+use.Name)
	defer span.End()

	turn.countToolCall()

	tool, ok := a.tools[use.Name]
	if !ok {
		span.SetStatus(codes.Error, "unknown tool")
		return &llm.ToolResult{
			ToolUseID: use.ID,
			Content:   fmt.Sprintf("unknown tool: %s", use.Name),
			IsError:   true,
		}
	}

	before := turn.Citations.Len()
	out, err := tool.Call(ctx, turn, use.Input)
	span.SetAttributes(attribute.Int("citations.added", turn.Citations.Len()-before))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return &llm.ToolResult{ToolUseID: use.ID, Content: err.Error(), IsError: true}
	}
	return &llm.ToolResult{ToolUseID: use.ID, Content: out}
}
