package assessment

import (
	"errors"
	"reflect"
	"testing"

	"github.com/spec-kit/support-intake/internal/domain"
)

func TestParseWellFormed(t *testing.T) {
	got := Parse("SUBJECT: Printer issue\nURGENCY: HIGH\nREASON: multiple users\n1. When did it start?\n2. Does it affect others?")

	if got.Subject != "Printer issue" || got.UrgencyLevel != domain.UrgencyHigh || got.UrgencyReason != "multiple users" {
		t.Fatalf("unexpected headers: %+v", got)
	}
	want := []string{"1. When did it start?", "2. Does it affect others?"}
	if !reflect.DeepEqual(got.Questions, want) {
		t.Fatalf("expected questions %v, got %v", want, got.Questions)
	}
	if len(got.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", got.Warnings)
	}
}

func TestParseFallbacks(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantSubject string
		wantLevel   domain.UrgencyLevel
		wantReason  string
		wantQ       int
		wantWarn    int
	}{
		{
			name:        "missing subject shifts every header",
			content:     "URGENCY: HIGH\nREASON: outage\n1. When?",
			wantSubject: DefaultSubject,
			wantLevel:   domain.UrgencyMedium,
			wantReason:  DefaultUrgencyReason,
			wantQ:       0,
			wantWarn:    3,
		},
		{
			name:        "empty content",
			content:     "",
			wantSubject: DefaultSubject,
			wantLevel:   domain.UrgencyMedium,
			wantReason:  DefaultUrgencyReason,
			wantWarn:    3,
		},
		{
			name:        "unknown urgency normalized",
			content:     "SUBJECT: VPN\nURGENCY: CRITICAL\nREASON: boss said so",
			wantSubject: "VPN",
			wantLevel:   domain.UrgencyMedium,
			wantReason:  "boss said so",
			wantWarn:    1,
		},
		{
			name:        "lowercase urgency accepted",
			content:     "SUBJECT: Mouse\nURGENCY: low\nREASON: cosmetic",
			wantSubject: "Mouse",
			wantLevel:   domain.UrgencyLow,
			wantReason:  "cosmetic",
		},
		{
			name:        "blank lines and carriage returns ignored",
			content:     "SUBJECT: Email\r\n\r\nURGENCY: MEDIUM\r\n  \nREASON: one user\r\n1. Since when?\r\n",
			wantSubject: "Email",
			wantLevel:   domain.UrgencyMedium,
			wantReason:  "one user",
			wantQ:       1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.content)
			if got.Subject != tc.wantSubject || got.UrgencyLevel != tc.wantLevel || got.UrgencyReason != tc.wantReason {
				t.Fatalf("unexpected assessment: %+v", got)
			}
			if len(got.Questions) != tc.wantQ {
				t.Fatalf("expected %d questions, got %v", tc.wantQ, got.Questions)
			}
			if len(got.Warnings) != tc.wantWarn {
				t.Fatalf("expected %d warnings, got %v", tc.wantWarn, got.Warnings)
			}
		})
	}
}

func TestExtractContent(t *testing.T) {
	content, err := ExtractContent([]byte(`{"choices":[{"message":{"content":"  SUBJECT: X\n"}}]}`))
	if err != nil || content != "SUBJECT: X" {
		t.Fatalf("unexpected content %q err %v", content, err)
	}

	for _, body := range []string{`{}`, `{"choices":[]}`, `{"choices":[{"message":{"content":5}}]}`, `not json`, `{"choices":[{"message":{}}]}`} {
		if _, err := ExtractContent([]byte(body)); !errors.Is(err, ErrUnexpectedResponse) {
			t.Fatalf("body %s: expected ErrUnexpectedResponse, got %v", body, err)
		}
	}
}

func TestDefault(t *testing.T) {
	got := Default()
	if got.Subject != "Help Request" || got.UrgencyField() != "MEDIUM: Standard support request" {
		t.Fatalf("unexpected default assessment: %+v", got)
	}
}
