// Package assessment turns a chat-completion answer into an AIAssessment.
package assessment

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/spec-kit/support-intake/internal/domain"
)

const (
	DefaultSubject       = "Support Request"
	DefaultUrgencyReason = "Standard support request"
	DisabledSubject      = "Help Request"

	subjectPrefix = "SUBJECT:"
	urgencyPrefix = "URGENCY:"
	reasonPrefix  = "REASON:"
)

// ErrUnexpectedResponse means the body has no choices[0].message.content string.
var ErrUnexpectedResponse = errors.New("unexpected AI response structure")

type completionBody struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ExtractContent returns the trimmed text of the first choice.
func ExtractContent(body []byte) (string, error) {
	var parsed completionBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errors.Join(ErrUnexpectedResponse, err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == nil {
		return "", ErrUnexpectedResponse
	}
	return strings.TrimSpace(*parsed.Choices[0].Message.Content), nil
}

// Parse reads the three header lines by position and treats every later
// non-blank line as a question. Missing or malformed headers fall back to
// defaults and are listed in Warnings; Parse never fails.
func Parse(content string) domain.AIAssessment {
	lines := nonBlankLines(content)
	result := domain.AIAssessment{
		Subject:       DefaultSubject,
		UrgencyLevel:  domain.UrgencyMedium,
		UrgencyReason: DefaultUrgencyReason,
		Questions:     []string{},
	}

	if value, ok := header(lines, 0, subjectPrefix); ok {
		result.Subject = value
	} else {
		result.Warnings = append(result.Warnings, "subject")
	}

	if value, ok := header(lines, 1, urgencyPrefix); ok {
		level, known := domain.ParseUrgency(value)
		result.UrgencyLevel = level
		if !known {
			result.Warnings = append(result.Warnings, "urgency value "+value)
		}
	} else {
		result.Warnings = append(result.Warnings, "urgency")
	}

	if value, ok := header(lines, 2, reasonPrefix); ok {
		result.UrgencyReason = value
	} else {
		result.Warnings = append(result.Warnings, "reason")
	}

	if len(lines) > 3 {
		result.Questions = append(result.Questions, lines[3:]...)
	}
	return result
}

// Default is the assessment used when AI review is switched off.
func Default() domain.AIAssessment {
	return domain.AIAssessment{
		Subject:       DisabledSubject,
		UrgencyLevel:  domain.UrgencyMedium,
		UrgencyReason: DefaultUrgencyReason,
		Questions:     []string{},
	}
}

func nonBlankLines(content string) []string {
	raw := strings.Split(content, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func header(lines []string, idx int, prefix string) (string, bool) {
	if idx >= len(lines) || !strings.HasPrefix(lines[idx], prefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(lines[idx], prefix)), true
}
