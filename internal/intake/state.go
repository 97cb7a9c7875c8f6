package intake

import "errors"

// State is a Form Controller state.
type State int

const (
	StateEditing State = iota
	StateSummary
	StateSubmitting
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSummary:
		return "summary"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

var (
	// ErrInvalidTransition is returned for any operation not allowed in the current state.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrStaleAssessment means the user went back before the AI answer arrived.
	ErrStaleAssessment = errors.New("assessment discarded: form was edited")
	// ErrAssessmentInFlight means this summary cycle already has an outstanding AI request.
	ErrAssessmentInFlight = errors.New("assessment already requested for this cycle")
	// ErrNoWebhookURL means the config endpoint returned no webhook URL.
	ErrNoWebhookURL = errors.New("webhook URL not configured")
	// ErrProxyContactRequired means a confirmed proxy submission lacks impacted-user contact details.
	ErrProxyContactRequired = errors.New("impacted user name, email and phone are required")
)
