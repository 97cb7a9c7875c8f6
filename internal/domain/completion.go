package domain

import "time"

// CompletionAudit records the outcome of one Completion Proxy call.
type CompletionAudit struct {
	ID         string
	SessionID  string
	Provider   string
	Model      string
	Transport  string
	StatusCode int
	LatencyMS  int64
	NotesHash  string
	Cached     bool
	Error      string
	CreatedAt  time.Time
}
