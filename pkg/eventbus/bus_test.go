package eventbus

import (
	"context"
	"testing"
	"time"

	"kb-agent-lambda/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe(t *testing.T) {
	bus := New(nil)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan events.Event, 1)
	require.NoError(t, bus.Subscribe(ctx, events.TypeTurnCompleted, func(ctx context.Context, e events.Event) error {
		received <- e
		return nil
	}))

	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, bus.Publish(ctx, events.TurnCompleted{
		SessionID:     "abc",
		Profile:       "underwriting",
		CitationCount: 4,
		ToolCalls:     2,
		OccurredAt:    at,
	}))

	select {
	case e := <-received:
		assert.Equal(t, events.TypeTurnCompleted, e.EventType())
		assert.Equal(t, "abc", e.Payload()["session_id"])
		assert.Equal(t, float64(4), e.Payload()["citation_count"])
		assert.True(t, at.Equal(e.Timestamp()))
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	bus := New(nil)
	defer bus.Close()

	assert.NoError(t, bus.Publish(context.Background(), events.TurnCompleted{SessionID: "x", OccurredAt: time.Now()}))
}
