package agent

import (
	"sync"

	"kb-agent-lambda/pkg/citation"
)

// Turn carries the state of one request through every tool call it makes.
// Nothing in it outlives the request.
type Turn struct {
	SessionID string
	Citations *citation.Accumulator

	// SystemPrompt overrides the agent prompt, for restored sessions
	SystemPrompt string

	mu          sync.Mutex
	toolCalls   int
	kbSessionID string
}

func NewTurn(sessionID string) *Turn {
	return &Turn{
		SessionID: sessionID,
		Citations: &citation.Accumulator{},
	}
}

// ToolCalls is the number of tool invocations so far
func (t *Turn) ToolCalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.toolCalls
}

func (t *Turn) countToolCall() {
	t.mu.Lock()
	t.toolCalls++
	t.mu.Unlock()
}

// KBSessionID is the knowledge-base session opened earlier in the turn
func (t *Turn) KBSessionID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.kbSessionID
}

// SetKBSessionID remembers the knowledge-base session; empty ids are ignored
func (t *Turn) SetKBSessionID(id string) {
	if id == "" {
		return
	}
	t.mu.Lock()
	t.kbSessionID = id
	t.mu.Unlock()
}
