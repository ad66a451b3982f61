package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTurnCompleted(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	e := TurnCompleted{SessionID: "s1", Profile: "underwriting", CitationCount: 3, ToolCalls: 2, OccurredAt: at}

	assert.Equal(t, "events.agent.turn_completed", Subject(e))
	assert.Equal(t, at, e.Timestamp())
	assert.Equal(t, map[string]interface{}{
		"session_id":     "s1",
		"profile":        "underwriting",
		"citation_count": 3,
		"tool_calls":     2,
		"occurred_at":    "2024-05-01T12:00:00Z",
	}, e.Payload())
}
