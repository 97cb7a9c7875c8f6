// Package proxydetect flags tickets that are probably filed on someone else's behalf.
package proxydetect

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Detector decides whether a submission looks like a proxy submission.
type Detector interface {
	Detect(notes string, questions []string) Result
}

// Result explains a detection outcome.
type Result struct {
	IsProxy bool
	// Matched lists the phrases that triggered the flag.
	Matched []string
}

// Rules holds the phrase sets matched case-insensitively as substrings.
type Rules struct {
	NotePhrases     []string `yaml:"note_phrases"`
	QuestionPhrases []string `yaml:"question_phrases"`
}

// DefaultRules returns the built-in phrase sets.
func DefaultRules() Rules {
	return Rules{
		NotePhrases: []string{
			"on behalf of",
			"submitting for",
			"our client",
			"my colleague",
			"they need help",
			"client having trouble",
			"submitting this on behalf",
		},
		QuestionPhrases: []string{
			"actual user",
			"information",
			"name, email, and phone",
			"so we can contact them",
		},
	}
}

// LoadRules reads a YAML rule file. An empty section keeps the default phrases.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read proxy rules: %w", err)
	}

	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parse proxy rules %s: %w", path, err)
	}

	defaults := DefaultRules()
	if len(rules.NotePhrases) == 0 {
		rules.NotePhrases = defaults.NotePhrases
	}
	if len(rules.QuestionPhrases) == 0 {
		rules.QuestionPhrases = defaults.QuestionPhrases
	}
	return rules, nil
}

// KeywordDetector matches fixed phrases.
type KeywordDetector struct {
	rules Rules
}

// NewKeywordDetector lower-cases the phrases once.
func NewKeywordDetector(rules Rules) *KeywordDetector {
	return &KeywordDetector{rules: Rules{
		NotePhrases:     lowerAll(rules.NotePhrases),
		QuestionPhrases: lowerAll(rules.QuestionPhrases),
	}}
}

// Detect checks the notes, then every question.
func (d *KeywordDetector) Detect(notes string, questions []string) Result {
	var matched []string
	lowered := strings.ToLower(notes)
	for _, phrase := range d.rules.NotePhrases {
		if strings.Contains(lowered, phrase) {
			matched = append(matched, phrase)
		}
	}
	for _, question := range questions {
		q := strings.ToLower(question)
		for _, phrase := range d.rules.QuestionPhrases {
			if strings.Contains(q, phrase) {
				matched = append(matched, phrase)
			}
		}
	}
	return Result{IsProxy: len(matched) > 0, Matched: matched}
}

func lowerAll(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
