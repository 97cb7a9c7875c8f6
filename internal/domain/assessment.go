package domain

import "strings"

// UrgencyLevel enumerates assessed urgency.
type UrgencyLevel string

const (
	UrgencyHigh   UrgencyLevel = "HIGH"
	UrgencyMedium UrgencyLevel = "MEDIUM"
	UrgencyLow    UrgencyLevel = "LOW"
)

// ParseUrgency normalizes s into a known level. Unknown values report false.
func ParseUrgency(s string) (UrgencyLevel, bool) {
	switch UrgencyLevel(strings.ToUpper(strings.TrimSpace(s))) {
	case UrgencyHigh:
		return UrgencyHigh, true
	case UrgencyMedium:
		return UrgencyMedium, true
	case UrgencyLow:
		return UrgencyLow, true
	}
	return UrgencyMedium, false
}

// AIAssessment is the subject, urgency and follow-up questions inferred from a completion.
type AIAssessment struct {
	Subject       string
	UrgencyLevel  UrgencyLevel
	UrgencyReason string
	Questions     []string
	// Warnings lists fields that fell back to defaults while parsing.
	Warnings []string
}

// UrgencyField renders the urgency as carried in the submitted ticket.
func (a AIAssessment) UrgencyField() string {
	return string(a.UrgencyLevel) + ": " + a.UrgencyReason
}
