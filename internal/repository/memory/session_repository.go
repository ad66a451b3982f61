package memory

import (
	"context"
	"time"

	"kb-agent-lambda/internal/repository/contract"
	"kb-agent-lambda/pkg/llm"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps sessions in process memory. It serves local runs
// and warm Lambda containers; state is lost on cold start.
type SessionRepository struct {
	cache *cache.Cache
}

var _ contract.SessionRepository = &SessionRepository{}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	// Purge expired items every 10 minutes
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(ctx context.Context, sessionID string, messages []llm.Message, systemPrompt string) error {
	stored := make([]llm.Message, len(messages))
	copy(stored, messages)
	r.cache.Set(sessionID, &contract.SessionState{
		SessionID:    sessionID,
		Messages:     stored,
		SystemPrompt: systemPrompt,
	}, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Restore(ctx context.Context, sessionID string) (*contract.SessionState, bool) {
	if x, found := r.cache.Get(sessionID); found {
		state := *x.(*contract.SessionState)
		state.Messages = make([]llm.Message, len(state.Messages))
		copy(state.Messages, x.(*contract.SessionState).Messages)
		return &state, true
	}
	return nil, false
}
