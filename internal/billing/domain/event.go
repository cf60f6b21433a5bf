package domain

import "time"

type EventType string

var (
	EventCreate EventType = "create"
	EventResize EventType = "resize"
	EventExists EventType = "exists"
	EventDelete EventType = "delete"
)

// Event is one inbound metering fact. Events are immutable once received
// and are not persisted here; the raw stream is an upstream audit concern.
type Event struct {
	ResourceID   string         `json:"resource_id"`
	ResourceType string         `json:"resource_type"`
	EventType    EventType      `json:"event_type"`
	EventTime    time.Time      `json:"event_time"`
	Content      map[string]any `json:"content"`
}
