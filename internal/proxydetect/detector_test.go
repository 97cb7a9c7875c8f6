package proxydetect

import (
	"os"
	"path/filepath"
	"testing"
)

func TestKeywordDetector(t *testing.T) {
	d := NewKeywordDetector(DefaultRules())

	tests := []struct {
		name      string
		notes     string
		questions []string
		want      bool
	}{
		{name: "behalf of colleague", notes: "I'm submitting this on behalf of my colleague", want: true},
		{name: "case insensitive", notes: "Our Client cannot print", want: true},
		{name: "plain request", notes: "My laptop screen is cracked", questions: []string{"1. When did it happen?"}, want: false},
		{name: "question asks for contact", notes: "Email is down", questions: []string{"1. What is the actual user's name?"}, want: true},
		{name: "question mentions information", notes: "Email is down", questions: []string{"2. Can you share more INFORMATION about the error?"}, want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := d.Detect(tc.notes, tc.questions)
			if got.IsProxy != tc.want {
				t.Fatalf("expected IsProxy=%v, got %+v", tc.want, got)
			}
			if got.IsProxy && len(got.Matched) == 0 {
				t.Fatal("expected matched phrases")
			}
		})
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := "note_phrases:\n  - \"For My Manager\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(rules.NotePhrases) != 1 || len(rules.QuestionPhrases) != len(DefaultRules().QuestionPhrases) {
		t.Fatalf("unexpected rules: %+v", rules)
	}

	d := NewKeywordDetector(rules)
	if !d.Detect("filing this for my manager today", nil).IsProxy {
		t.Fatal("custom phrase should match")
	}
	if d.Detect("on behalf of a friend", nil).IsProxy {
		t.Fatal("replaced note phrases should no longer match")
	}
}

func TestLoadRulesErrors(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("note_phrases: [unclosed"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadRules(path); err == nil {
		t.Fatal("expected parse error")
	}
}
