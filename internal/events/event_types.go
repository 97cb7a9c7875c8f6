package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCompletionRelayed EventType = "completion_relayed"
	EventCompletionFailed  EventType = "completion_failed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// CompletionPayload describes one Completion Proxy outcome.
type CompletionPayload struct {
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	Transport  string `json:"transport,omitempty"`
	StatusCode int    `json:"status_code"`
	LatencyMS  int64  `json:"latency_ms"`
	NotesHash  string `json:"notes_hash"`
	Cached     bool   `json:"cached"`
	Error      string `json:"error,omitempty"`
}
