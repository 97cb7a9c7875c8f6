package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	apperrors "github.com/spec-kit/support-intake/pkg/util"
)

const (
	MinNotesLength = 10
	MaxNotesLength = 2000
)

var (
	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	injectionPattern = regexp.MustCompile(`(?i)<script|javascript:|vbscript:|onload=|onerror=`)
)

// ValidateNotes decodes a {"notes": string} body and returns the sanitized
// notes. Length is measured in bytes before escaping.
func ValidateNotes(body []byte) (string, error) {
	if len(body) == 0 {
		return "", apperrors.NewValidationError("No input data received")
	}

	var input map[string]any
	if err := json.Unmarshal(body, &input); err != nil || input == nil {
		return "", apperrors.NewValidationError("Invalid JSON input")
	}

	raw, present := input["notes"]
	if !present {
		raw = ""
	}
	notes, ok := raw.(string)
	if !ok {
		return "", apperrors.NewValidationError("Invalid notes input")
	}

	if len(notes) > MaxNotesLength {
		return "", apperrors.NewValidationError(fmt.Sprintf("Notes too long - please keep under %d characters", MaxNotesLength))
	}
	if len(notes) < MinNotesLength {
		return "", apperrors.NewValidationError(fmt.Sprintf("Notes too short - please provide more details (minimum %d characters)", MinNotesLength))
	}

	sanitized := SanitizeNotes(notes)
	if injectionPattern.MatchString(sanitized) {
		return "", apperrors.NewValidationError("Invalid content detected in notes")
	}
	if sanitized == "" {
		return "", apperrors.NewValidationError("Notes are required")
	}
	return sanitized, nil
}

// SanitizeNotes HTML-escapes and trims free text.
func SanitizeNotes(notes string) string {
	return strings.TrimSpace(htmlEscaper.Replace(notes))
}
