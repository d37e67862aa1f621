package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPostCreated EventType = "post_created"
	EventPostUpdated EventType = "post_updated"
	EventPostDeleted EventType = "post_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	PostID    string      `json:"post_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// PostChangedPayload identifies the affected post.
type PostChangedPayload struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

// PostUpdatedPayload lists the fields an update supplied.
type PostUpdatedPayload struct {
	Slug   string   `json:"slug"`
	Fields []string `json:"fields"`
}
