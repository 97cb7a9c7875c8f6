package service

import (
	"strings"
	"testing"

	apperrors "github.com/spec-kit/support-intake/pkg/util"
)

func TestValidateNotes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr string
	}{
		{name: "empty body", body: "", wantErr: "No input data received"},
		{name: "malformed json", body: "{notes:", wantErr: "Invalid JSON input"},
		{name: "json array", body: `["a"]`, wantErr: "Invalid JSON input"},
		{name: "json null", body: `null`, wantErr: "Invalid JSON input"},
		{name: "numeric notes", body: `{"notes":42}`, wantErr: "Invalid notes input"},
		{name: "missing notes", body: `{}`, wantErr: "Notes too short - please provide more details (minimum 10 characters)"},
		{name: "too short", body: `{"notes":"broken"}`, wantErr: "Notes too short - please provide more details (minimum 10 characters)"},
		{name: "too long", body: `{"notes":"` + strings.Repeat("a", 2001) + `"}`, wantErr: "Notes too long - please keep under 2000 characters"},
		{name: "script tag is escaped", body: `{"notes":"please run <script>alert(1)</script>"}`, want: "please run &lt;script&gt;alert(1)&lt;/script&gt;"},
		{name: "javascript scheme", body: `{"notes":"click JavaScript:void(0) here"}`, wantErr: "Invalid content detected in notes"},
		{name: "vbscript scheme", body: `{"notes":"open VBScript:MsgBox now"}`, wantErr: "Invalid content detected in notes"},
		{name: "onload handler", body: `{"notes":"the page has OnLoad=run attached"}`, wantErr: "Invalid content detected in notes"},
		{name: "onerror handler", body: `{"notes":"image tag with oNeRrOr=boom inside"}`, wantErr: "Invalid content detected in notes"},
		{name: "whitespace only", body: `{"notes":"            "}`, wantErr: "Notes are required"},
		{name: "exactly ten", body: `{"notes":"0123456789"}`, want: "0123456789"},
		{name: "exactly max", body: `{"notes":"` + strings.Repeat("b", 2000) + `"}`, want: strings.Repeat("b", 2000)},
		{name: "escaped and trimmed", body: `{"notes":"  Tom's \"VPN\" & email down  "}`, want: "Tom&apos;s &quot;VPN&quot; &amp; email down"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateNotes([]byte(tc.body))
			if tc.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error %q, got none", tc.wantErr)
				}
				de := apperrors.ToDomainError(err)
				if de.Message != tc.wantErr || de.HTTPStatus != 400 {
					t.Fatalf("expected 400 %q, got %d %q", tc.wantErr, de.HTTPStatus, de.Message)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestValidateNotesMeasuresBytes(t *testing.T) {
	// 667 three-byte runes exceed the limit even though there are fewer than 2000 characters.
	notes := strings.Repeat("€", 667)
	_, err := ValidateNotes([]byte(`{"notes":"` + notes + `"}`))
	if err == nil || apperrors.ToDomainError(err).Message != "Notes too long - please keep under 2000 characters" {
		t.Fatalf("expected byte-length rejection, got %v", err)
	}
}
