package agent

import (
	"context"
	"errors"
	"testing"

	"kb-agent-lambda/pkg/citation"
	"kb-agent-lambda/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	replies  []llm.Message
	requests []llm.Request
	err      error
}

func (p *scriptedProvider) Chat(ctx context.Context, req llm.Request, opts ...llm.Option) (*llm.Response, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	msg := p.replies[0]
	if len(p.replies) > 1 {
		p.replies = p.replies[1:]
	}
	return &llm.Response{Message: msg}, nil
}

type echoTool struct {
	fail bool
}

func (echoTool) Spec() llm.ToolSpec {
	return llm.ToolSpec{Name: "echo", InputSchema: map[string]interface{}{"type": "object"}}
}

func (e echoTool) Call(ctx context.Context, turn *Turn, input map[string]interface{}) (string, error) {
	if e.fail {
		return "", errors.New("boom")
	}
	turn.Citations.Add("echo", []citation.Candidate{{SourceURI: "s3://x", Kind: citation.KindDocument}})
	return "echo:" + StringInput(input, "text"), nil
}

func toolCall(id, name string, input map[string]interface{}) llm.Message {
	return llm.Message{Role: llm.RoleAssistant, Content: []llm.ContentBlock{
		{ToolUse: &llm.ToolUse{ID: id, Name: name, Input: input}},
	}}
}

func TestRunWithToolCall(t *testing.T) {
	provider := &scriptedProvider{replies: []llm.Message{
		toolCall("t1", "echo", map[string]interface{}{"text": "hi"}),
		llm.TextMessage(llm.RoleAssistant, "done"),
	}}
	a := New(provider, "system", []Tool{echoTool{}})
	turn := NewTurn("s1")

	history := []llm.Message{llm.TextMessage(llm.RoleUser, "earlier")}
	answer, messages, err := a.Run(context.Background(), turn, history, "question")
	require.NoError(t, err)

	assert.Equal(t, "done", answer)
	assert.Equal(t, 1, turn.ToolCalls())
	assert.Equal(t, 1, turn.Citations.Len())
	// earlier, question, tool call, tool result, answer
	require.Len(t, messages, 5)
	result := messages[3].Content[0].ToolResult
	require.NotNil(t, result)
	assert.Equal(t, "t1", result.ToolUseID)
	assert.Equal(t, "echo:hi", result.Content)

	require.Len(t, provider.requests, 2)
	assert.Equal(t, "system", provider.requests[0].System)
	assert.Len(t, provider.requests[0].Tools, 1)
	assert.Len(t, history, 1)
}

func TestRunToolFailures(t *testing.T) {
	provider := &scriptedProvider{replies: []llm.Message{
		{Role: llm.RoleAssistant, Content: []llm.ContentBlock{
			{ToolUse: &llm.ToolUse{ID: "a", Name: "missing"}},
			{ToolUse: &llm.ToolUse{ID: "b", Name: "echo"}},
		}},
		llm.TextMessage(llm.RoleAssistant, "ok"),
	}}
	a := New(provider, "", []Tool{echoTool{fail: true}})
	turn := NewTurn("s")

	answer, messages, err := a.Run(context.Background(), turn, nil, "q")
	require.NoError(t, err)
	assert.Equal(t, "ok", answer)
	assert.Equal(t, 2, turn.ToolCalls())

	results := messages[2].Content
	require.Len(t, results, 2)
	assert.True(t, results[0].ToolResult.IsError)
	assert.Contains(t, results[0].ToolResult.Content, "unknown tool")
	assert.True(t, results[1].ToolResult.IsError)
	assert.Equal(t, "boom", results[1].ToolResult.Content)
}

func TestRunIterationLimit(t *testing.T) {
	provider := &scriptedProvider{replies: []llm.Message{toolCall("x", "echo", nil)}}
	a := New(provider, "", []Tool{echoTool{}}, WithMaxIterations(3))

	_, _, err := a.Run(context.Background(), NewTurn("s"), nil, "q")
	assert.ErrorIs(t, err, ErrMaxIterations)
	assert.Len(t, provider.requests, 3)
}

func TestRunProviderError(t *testing.T) {
	a := New(&scriptedProvider{err: errors.New("throttled")}, "", nil)
	_, _, err := a.Run(context.Background(), NewTurn("s"), nil, "q")
	assert.ErrorContains(t, err, "throttled")
}

func TestRunSystemPromptOverride(t *testing.T) {
	provider := &scriptedProvider{replies: []llm.Message{llm.TextMessage(llm.RoleAssistant, "ok")}}
	a := New(provider, "default", []Tool{echoTool{}})
	assert.Equal(t, []string{"echo"}, a.ToolNames())

	turn := NewTurn("s")
	turn.SystemPrompt = "restored"
	_, _, err := a.Run(context.Background(), turn, nil, "q")
	require.NoError(t, err)
	assert.Equal(t, "restored", provider.requests[0].System)
}

func TestTurnKBSession(t *testing.T) {
	turn := NewTurn("s")
	turn.SetKBSessionID("")
	assert.Equal(t, "", turn.KBSessionID())
	turn.SetKBSessionID("kb-1")
	turn.SetKBSessionID("")
	assert.Equal(t, "kb-1", turn.KBSessionID())
}
