package nats

import (
	"testing"
	"time"

	"kb-agent-lambda/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	published := events.TurnCompleted{SessionID: "s", Profile: "encyclopedia", CitationCount: 1, OccurredAt: at}

	data := []byte(`{"session_id":"s","profile":"encyclopedia","citation_count":1,"tool_calls":0,"occurred_at":"2024-01-02T03:04:05Z"}`)
	event, err := decodeEvent(events.Subject(published), data)
	require.NoError(t, err)

	assert.Equal(t, events.TypeTurnCompleted, event.EventType())
	assert.True(t, at.Equal(event.Timestamp()))
	assert.Equal(t, "s", event.Payload()["session_id"])
	assert.Equal(t, float64(1), event.Payload()["citation_count"])

	_, err = decodeEvent("events.x", []byte("nope"))
	assert.Error(t, err)
}

func TestMsgIDStable(t *testing.T) {
	e := events.TurnCompleted{SessionID: "s", OccurredAt: time.Unix(10, 0)}
	assert.Equal(t, msgID(e), msgID(e))
	assert.Contains(t, msgID(e), "agent.turn_completed")
}

func TestTurnStreamCoversEventSubjects(t *testing.T) {
	cfg := turnStream()
	assert.Equal(t, StreamName, cfg.Name)
	assert.Equal(t, []string{"events.>"}, cfg.Subjects)
	assert.Equal(t, 7*24*time.Hour, cfg.MaxAge)
	assert.Equal(t, 10*time.Minute, cfg.Duplicates)
}
