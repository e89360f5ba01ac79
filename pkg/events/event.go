package events

import "time"

// Topic the link bus publishes on.
const TopicLinkGenerated = "LINK_GENERATED"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g. "LINK_GENERATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// LinkGeneratedEvent is emitted once per tracking URL handed to an
// operator, single or bulk.
type LinkGeneratedEvent struct {
	SessionID  string
	Source     string
	Medium     string
	Campaign   string
	Content    string
	URL        string
	Bulk       bool
	OccurredAt time.Time
}

func (e LinkGeneratedEvent) EventType() string {
	return TopicLinkGenerated
}

func (e LinkGeneratedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id": e.SessionID,
		"source":     e.Source,
		"medium":     e.Medium,
		"campaign":   e.Campaign,
		"content":    e.Content,
		"url":        e.URL,
		"bulk":       e.Bulk,
	}
}

func (e LinkGeneratedEvent) Timestamp() time.Time {
	return e.OccurredAt
}
