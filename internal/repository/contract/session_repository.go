package contract

import (
	"context"

	"kb-agent-lambda/pkg/llm"
)

// SessionState is the persisted agent conversation
type SessionState struct {
	SessionID    string        `json:"-"`
	Messages     []llm.Message `json:"messages"`
	SystemPrompt string        `json:"system_prompt"`
}

// SessionRepository stores one whole object per session. Save overwrites,
// Restore reports absent on any read or decode failure.
type SessionRepository interface {
	Save(ctx context.Context, sessionID string, messages []llm.Message, systemPrompt string) error
	Restore(ctx context.Context, sessionID string) (*SessionState, bool)
}
