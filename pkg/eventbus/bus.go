package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kb-agent-lambda/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Bus is an in-process event bus on a watermill go channel. It stands in for
// NATS when no broker is configured.
type Bus struct {
	pubSub *gochannel.GoChannel
}

var _ events.Publisher = &Bus{}

func New(logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &Bus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{}, logger),
	}
}

// Publish sends the event payload on the event's subject
func (b *Bus) Publish(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("event_type", event.EventType())
	msg.Metadata.Set("occurred_at", event.Timestamp().UTC().Format(time.RFC3339Nano))
	msg.SetContext(ctx)

	if err := b.pubSub.Publish(events.Subject(event), msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.EventType(), err)
	}
	return nil
}

// Subscribe delivers events of one type to handler until ctx ends.
// Handler errors nack the message, which redelivers it.
func (b *Bus) Subscribe(ctx context.Context, eventType string, handler func(context.Context, events.Event) error) error {
	messages, err := b.pubSub.Subscribe(ctx, events.SubjectFor(eventType))
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			event, err := decode(msg)
			if err != nil {
				msg.Ack() // undecodable, drop it
				continue
			}
			if err := handler(ctx, event); err != nil {
				msg.Nack()
				continue
			}
			msg.Ack()
		}
	}()

	return nil
}

func decode(msg *message.Message) (events.Event, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, err
	}
	occurredAt, err := time.Parse(time.RFC3339Nano, msg.Metadata.Get("occurred_at"))
	if err != nil {
		occurredAt = time.Now()
	}
	return events.BaseEvent{
		Type:       msg.Metadata.Get("event_type"),
		Data:       payload,
		OccurredAt: occurredAt,
	}, nil
}

func (b *Bus) Close() error {
	return b.pubSub.Close()
}
