package util

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors. Message is rendered under the
// "error" key and Extra is merged into the same JSON object.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Extra      map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Body returns the flat JSON body for the error.
func (e *DomainError) Body() map[string]any {
	body := make(map[string]any, len(e.Extra)+1)
	for k, v := range e.Extra {
		body[k] = v
	}
	body["error"] = e.Message
	return body
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, extra map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Extra: extra}
}

func NewValidationError(message string) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, nil)
}

func NewMethodNotAllowed() error {
	return NewDomainError("METHOD_NOT_ALLOWED", "Method not allowed", http.StatusMethodNotAllowed, nil)
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewConflict(message string) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, nil)
}

func NewRateLimited(retryAfter int) error {
	return NewDomainError("RATE_LIMITED", "Too many requests", http.StatusTooManyRequests, map[string]any{
		"retry_after": retryAfter,
	})
}

func NewConfigurationError(message string) error {
	return NewDomainError("CONFIGURATION_ERROR", message, http.StatusInternalServerError, nil)
}

// NewUpstreamUnavailable is returned when every transport to the AI provider failed.
func NewUpstreamUnavailable(retryAfter int, err error) error {
	return &DomainError{
		Code:       "UPSTREAM_UNAVAILABLE",
		Message:    "AI service temporarily unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Extra: map[string]any{
			"message":     "Please try again in a moment. If the issue persists, contact support.",
			"retry_after": retryAfter,
		},
		Err: err,
	}
}

// NewUpstreamStatus relays a non-200 provider answer with its original status.
func NewUpstreamStatus(status int, body []byte) error {
	return &DomainError{
		Code:       "UPSTREAM_ERROR",
		Message:    "AI API error",
		HTTPStatus: status,
		Extra: map[string]any{
			"status":   status,
			"response": string(body),
		},
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if de, ok := NewInternalError(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	return ToDomainError(err).HTTPStatus
}
