package tui

import (
	"fmt"
	"strings"
)

func (a *App) renderSummary() string {
	s := a.summary
	var b strings.Builder

	if a.busy || !s.loaded {
		b.WriteString(styleTitle.Render("Summary"))
		b.WriteString("\n" + a.status + "\n")
		b.WriteString(styleHelp.Render(helpLine(keys.Back, keys.Quit)))
		return b.String()
	}

	b.WriteString(styleTitle.Render(s.assessment.Subject))
	b.WriteString("\n")

	t := a.ctrl.Ticket()
	details := fmt.Sprintf("%s (%s)\n%s | %s\n\n%s", t.FullName, t.CompanyName, t.Email, t.Phone, t.Notes)
	b.WriteString(styleBox.Render(details))
	b.WriteString("\n\n")

	b.WriteString(urgencyBadge(s.assessment.UrgencyLevel) + " " + s.assessment.UrgencyReason + "\n")
	if s.urgencyStatus != "" {
		b.WriteString(styleLabel.Render(s.urgencyStatus) + "\n")
	}
	if s.adjusting {
		b.WriteString(fmt.Sprintf("New urgency: %s (ctrl+u to cycle, enter to apply)\n", s.adjustLevel))
		b.WriteString(s.note.View() + "\n")
	}
	b.WriteString("\n")

	for i, q := range s.assessment.Questions {
		b.WriteString(styleFocused.Render(q) + "\n")
		b.WriteString(s.answers[i].View() + "\n\n")
	}

	if s.proxySuspected && !s.proxyConfirmed {
		b.WriteString("Are you submitting this for someone else? (ctrl+p yes / ctrl+n no)\n\n")
	}
	if s.proxyConfirmed {
		b.WriteString(styleLabel.Render("Impacted user contact details (required)") + "\n")
		for i := range s.proxy {
			b.WriteString(s.proxy[i].View() + "\n")
		}
		b.WriteString("\n")
	}

	if a.status != "" {
		b.WriteString(styleLabel.Render(a.status) + "\n")
	}
	if a.err != nil {
		b.WriteString(styleError.Render(a.err.Error()) + "\n")
	}
	b.WriteString(styleHelp.Render(helpLine(keys.Submit, keys.Back, keys.ConfirmUrg, keys.AdjustUrg, keys.ProxyYes, keys.Quit)))
	return b.String()
}
