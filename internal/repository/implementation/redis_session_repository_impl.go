package implementation

import (
	"context"
	"fmt"
	"time"

	"kb-agent-lambda/internal/pkg/logger"
	"kb-agent-lambda/internal/repository/contract"
	"kb-agent-lambda/pkg/llm"

	"github.com/redis/go-redis/v9"
)

type RedisSessionRepositoryImpl struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	logger logger.ILogger
}

// NewRedisSessionRepository stores sessions under the same keys as the S3
// store. A zero ttl keeps them forever.
func NewRedisSessionRepository(rdb *redis.Client, prefix string, ttl time.Duration, log logger.ILogger) contract.SessionRepository {
	return &RedisSessionRepositoryImpl{
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
		logger: log,
	}
}

func (r *RedisSessionRepositoryImpl) Save(ctx context.Context, sessionID string, messages []llm.Message, systemPrompt string) error {
	body, err := encodeState(messages, systemPrompt)
	if err != nil {
		return err
	}

	key := SessionKey(r.prefix, sessionID)
	if err := r.rdb.Set(ctx, key, body, r.ttl).Err(); err != nil {
		return fmt.Errorf("set session %s: %w", key, err)
	}
	return nil
}

func (r *RedisSessionRepositoryImpl) Restore(ctx context.Context, sessionID string) (*contract.SessionState, bool) {
	key := SessionKey(r.prefix, sessionID)
	body, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("SessionStore", "Failed to read session", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return nil, false
	}

	state, err := decodeState(sessionID, body)
	if err != nil {
		r.logger.Warn("SessionStore", "Malformed session", map[string]interface{}{"key": key, "error": err.Error()})
		return nil, false
	}
	return state, true
}
