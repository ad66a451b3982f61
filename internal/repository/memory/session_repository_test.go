package memory

import (
	"context"
	"testing"

	"kb-agent-lambda/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	repo := NewSessionRepository(0)
	ctx := context.Background()

	_, ok := repo.Restore(ctx, "missing")
	assert.False(t, ok)

	messages := []llm.Message{llm.TextMessage(llm.RoleUser, "hi")}
	require.NoError(t, repo.Save(ctx, "s1", messages, "prompt"))

	// callers may keep mutating their slice
	messages[0] = llm.TextMessage(llm.RoleUser, "changed")

	state, ok := repo.Restore(ctx, "s1")
	require.True(t, ok)
	assert.Equal(t, "s1", state.SessionID)
	assert.Equal(t, "prompt", state.SystemPrompt)
	assert.Equal(t, "hi", state.Messages[0].Text())

	require.NoError(t, repo.Save(ctx, "s1", nil, "second"))
	state, ok = repo.Restore(ctx, "s1")
	require.True(t, ok)
	assert.Empty(t, state.Messages)
	assert.Equal(t, "second", state.SystemPrompt)
}
