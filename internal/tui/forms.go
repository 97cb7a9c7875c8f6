package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spec-kit/support-intake/internal/domain"
)

const (
	fieldFullName = iota
	fieldCompany
	fieldEmail
	fieldPhone
	fieldNotes
	editFieldCount
)

var editLabels = [...]string{"Full name", "Company", "Email", "Phone", "Describe the problem"}

type editForm struct {
	inputs   [fieldNotes]textinput.Model
	notes    textarea.Model
	focus    int
	aiReview bool
}

func newEditForm(aiReview bool) *editForm {
	f := &editForm{aiReview: aiReview}
	placeholders := [...]string{"Jane Doe", "Acme Corp", "jane@acme.com", "+1 555 010 0100"}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 200
		in.Width = 50
		f.inputs[i] = in
	}
	f.notes = textarea.New()
	f.notes.Placeholder = "What is happening? When did it start?"
	f.notes.CharLimit = 2000
	f.notes.SetWidth(60)
	f.notes.SetHeight(6)
	f.inputs[fieldFullName].Focus()
	return f
}

func (f *editForm) ticket() domain.Ticket {
	return domain.Ticket{
		FullName:    strings.TrimSpace(f.inputs[fieldFullName].Value()),
		CompanyName: strings.TrimSpace(f.inputs[fieldCompany].Value()),
		Email:       strings.TrimSpace(f.inputs[fieldEmail].Value()),
		Phone:       strings.TrimSpace(f.inputs[fieldPhone].Value()),
		Notes:       f.notes.Value(),
	}
}

func (f *editForm) move(delta int) tea.Cmd {
	f.focus = (f.focus + delta + editFieldCount) % editFieldCount
	return f.focusCurrent()
}

func (f *editForm) focusCurrent() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.notes.Blur()
	if f.focus == fieldNotes {
		return f.notes.Focus()
	}
	return f.inputs[f.focus].Focus()
}

func (f *editForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.focus == fieldNotes {
		f.notes, cmd = f.notes.Update(msg)
		return cmd
	}
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

type summaryForm struct {
	assessment domain.AIAssessment
	loaded     bool

	answers []textinput.Model
	note    textinput.Model
	proxy   [3]textinput.Model
	focus   int

	urgencyStatus  string
	adjusting      bool
	adjustLevel    domain.UrgencyLevel
	proxySuspected bool
	proxyConfirmed bool
}

func newSummaryForm() *summaryForm {
	s := &summaryForm{}
	s.note = textinput.New()
	s.note.Placeholder = "Why should the urgency change? (optional)"
	s.note.Width = 50
	placeholders := [...]string{"Impacted user's name", "Impacted user's email", "Impacted user's phone"}
	for i := range s.proxy {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.Width = 40
		s.proxy[i] = in
	}
	return s
}

func (s *summaryForm) load(a domain.AIAssessment) {
	s.assessment = a
	s.loaded = true
	s.answers = make([]textinput.Model, len(a.Questions))
	for i := range s.answers {
		in := textinput.New()
		in.Placeholder = "Your answer (optional)"
		in.Width = 60
		s.answers[i] = in
	}
	s.focus = 0
}

func (s *summaryForm) proxyInfo() domain.ProxyInfo {
	return domain.ProxyInfo{
		ActualUserName:  strings.TrimSpace(s.proxy[0].Value()),
		ActualUserEmail: strings.TrimSpace(s.proxy[1].Value()),
		ActualUserPhone: strings.TrimSpace(s.proxy[2].Value()),
	}
}

// fields lists the focusable inputs in display order.
func (s *summaryForm) fields() []*textinput.Model {
	out := make([]*textinput.Model, 0, len(s.answers)+4)
	for i := range s.answers {
		out = append(out, &s.answers[i])
	}
	if s.adjusting {
		out = append(out, &s.note)
	}
	if s.proxyConfirmed {
		for i := range s.proxy {
			out = append(out, &s.proxy[i])
		}
	}
	return out
}

func (s *summaryForm) move(delta int) tea.Cmd {
	n := len(s.fields())
	if n == 0 {
		return nil
	}
	s.focus = (s.focus + delta + n) % n
	return s.focusCurrent()
}

func (s *summaryForm) focusNote() tea.Cmd {
	for i, f := range s.fields() {
		if f == &s.note {
			s.focus = i
		}
	}
	return s.focusCurrent()
}

func (s *summaryForm) focusCurrent() tea.Cmd {
	fields := s.fields()
	if len(fields) == 0 {
		return nil
	}
	if s.focus >= len(fields) {
		s.focus = len(fields) - 1
	}
	for _, f := range fields {
		f.Blur()
	}
	return fields[s.focus].Focus()
}

func (s *summaryForm) update(msg tea.Msg) tea.Cmd {
	fields := s.fields()
	if s.focus >= len(fields) {
		return nil
	}
	var cmd tea.Cmd
	*fields[s.focus], cmd = fields[s.focus].Update(msg)
	return cmd
}
