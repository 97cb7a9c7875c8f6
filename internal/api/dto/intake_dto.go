package dto

import "time"

// ConfigResponse is returned by the config endpoint.
type ConfigResponse struct {
	WebhookURL string `json:"webhookUrl"`
	Status     string `json:"status"`
}

// GenerateQuestionsRequest is the completion proxy payload.
type GenerateQuestionsRequest struct {
	Notes string `json:"notes"`
}

// SessionResponse carries a freshly issued intake session.
type SessionResponse struct {
	Token     string    `json:"token"`
	SessionID string    `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ErrorResponse is the flat error body rendered for every failure.
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	RetryAfter int    `json:"retry_after,omitempty"`
	Status     int    `json:"status,omitempty"`
	Response   string `json:"response,omitempty"`
}
