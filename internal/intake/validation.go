package intake

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/spec-kit/support-intake/internal/domain"
)

const (
	minNotesLength = 10
	maxNotesLength = 2000
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9()\-.\s]{7,20}$`)
)

// ValidationError maps field names to messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "invalid fields: " + strings.Join(parts, "; ")
}

// ValidateTicket checks the fields a ticket needs before it can leave Editing.
// Notes length is counted in bytes to match the completion proxy.
func ValidateTicket(t domain.Ticket) error {
	problems := map[string]string{}

	required := map[string]string{
		"fullName":    t.FullName,
		"companyName": t.CompanyName,
		"email":       t.Email,
		"phone":       t.Phone,
		"notes":       t.Notes,
	}
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			problems[name] = "required"
		}
	}

	if _, missing := problems["email"]; !missing && !emailPattern.MatchString(strings.TrimSpace(t.Email)) {
		problems["email"] = "invalid email address"
	}
	if _, missing := problems["phone"]; !missing && !phonePattern.MatchString(strings.TrimSpace(t.Phone)) {
		problems["phone"] = "invalid phone number"
	}
	if _, missing := problems["notes"]; !missing {
		if n := len(t.Notes); n < minNotesLength || n > maxNotesLength {
			problems["notes"] = fmt.Sprintf("must be between %d and %d characters", minNotesLength, maxNotesLength)
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Fields: problems}
	}
	return nil
}

// ValidateProxyInfo checks the impacted-user contact details.
func ValidateProxyInfo(p domain.ProxyInfo) error {
	if !p.Complete() {
		return ErrProxyContactRequired
	}
	problems := map[string]string{}
	if !emailPattern.MatchString(strings.TrimSpace(p.ActualUserEmail)) {
		problems["actualUserEmail"] = "invalid email address"
	}
	if !phonePattern.MatchString(strings.TrimSpace(p.ActualUserPhone)) {
		problems["actualUserPhone"] = "invalid phone number"
	}
	if len(problems) > 0 {
		return &ValidationError{Fields: problems}
	}
	return nil
}
