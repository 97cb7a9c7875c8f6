package tui

import "fmt"

func (a *App) renderSubmitted() string {
	return styleTitle.Render("Ticket submitted") + "\n" +
		fmt.Sprintf("Reference: %s\n", a.ctrl.SubmissionID()) +
		styleHelp.Render(helpLine(keys.Quit))
}
