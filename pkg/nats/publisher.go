package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kb-agent-lambda/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// StreamName holds every turn event; the subscriber reads from it too
const StreamName = "AGENT_EVENTS"

// Connecting happens during cold start, so it must give up quickly
const connectTimeout = 3 * time.Second

// turnStream keeps a week of turn events for replay by durable consumers
func turnStream() jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:        StreamName,
		Description: "Completed agent turns",
		Subjects:    []string{events.SubjectFor(">")},
		Storage:     jetstream.FileStorage,
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      7 * 24 * time.Hour,
		Duplicates:  10 * time.Minute,
	}
}

// Publisher writes turn events to JetStream
type Publisher struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// NewPublisher connects and makes sure the turn stream exists. Any failure
// is returned so the caller can fall back to the in-process bus instead of
// losing events.
func NewPublisher(url string) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("kb-agent-lambda"),
		nats.Timeout(connectTimeout),
		nats.MaxReconnects(2),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if _, err := js.CreateOrUpdateStream(ctx, turnStream()); err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure stream %s: %w", StreamName, err)
	}

	return &Publisher{nc: nc, js: js}, nil
}

// Publish sends the event payload as JSON on its subject
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", event.EventType(), err)
	}

	subject := events.Subject(event)
	if _, err := p.js.Publish(ctx, subject, data, jetstream.WithMsgID(msgID(event))); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	return nil
}

// msgID lets JetStream drop duplicates when a Lambda retry republishes
func msgID(event events.Event) string {
	return fmt.Sprintf("%s-%d-%v", event.EventType(), event.Timestamp().UnixNano(), event.Payload()["session_id"])
}

var _ events.Publisher = &Publisher{}

// Close closes the connection
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
