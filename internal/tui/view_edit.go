package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

func (a *App) renderEdit() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("IT Support Request"))
	b.WriteString("\n")

	for i := range a.edit.inputs {
		b.WriteString(label(editLabels[i], a.edit.focus == i))
		b.WriteString("\n")
		b.WriteString(a.edit.inputs[i].View())
		b.WriteString("\n\n")
	}
	b.WriteString(label(editLabels[fieldNotes], a.edit.focus == fieldNotes))
	b.WriteString("\n")
	b.WriteString(a.edit.notes.View())
	b.WriteString("\n\n")

	check := "[ ]"
	if a.edit.aiReview {
		check = "[x]"
	}
	b.WriteString(check + " AI review of my request\n")

	if a.err != nil {
		b.WriteString("\n" + styleError.Render(a.err.Error()) + "\n")
	}
	b.WriteString(styleHelp.Render(helpLine(keys.Next, keys.Prev, keys.ToggleAI, keys.Advance, keys.Quit)))
	return b.String()
}

func label(text string, focused bool) string {
	if focused {
		return styleFocused.Render("> " + text)
	}
	return styleLabel.Render("  " + text)
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " | ")
}
