package events

import "time"

const TypeTurnCompleted = "agent.turn_completed"

// TurnCompleted is emitted after an agent turn returned an answer
type TurnCompleted struct {
	SessionID     string
	Profile       string
	CitationCount int
	ToolCalls     int
	OccurredAt    time.Time
}

func (e TurnCompleted) EventType() string {
	return TypeTurnCompleted
}

func (e TurnCompleted) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id":     e.SessionID,
		"profile":        e.Profile,
		"citation_count": e.CitationCount,
		"tool_calls":     e.ToolCalls,
		"occurred_at":    e.OccurredAt.UTC().Format(time.RFC3339),
	}
}

func (e TurnCompleted) Timestamp() time.Time {
	return e.OccurredAt
}

// Subject is the bus subject an event is published on
func Subject(e Event) string {
	return SubjectFor(e.EventType())
}

// SubjectFor is the bus subject for an event type
func SubjectFor(eventType string) string {
	return "events." + eventType
}
