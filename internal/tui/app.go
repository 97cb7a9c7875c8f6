// Package tui is the terminal front end of the intake form.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/spec-kit/support-intake/internal/domain"
	"github.com/spec-kit/support-intake/internal/intake"
)

const (
	assessTimeout = 30 * time.Second
	submitTimeout = 30 * time.Second
)

type view int

const (
	viewEdit view = iota
	viewSummary
	viewSubmitted
)

type assessedMsg struct {
	assessment domain.AIAssessment
	err        error
}

type submittedMsg struct {
	err error
}

// App is the Bubble Tea model wrapping an intake.Controller.
type App struct {
	ctrl       *intake.Controller
	logger     *zap.Logger
	screenshot string

	width  int
	height int
	view   view

	edit    *editForm
	summary *summaryForm

	busy      bool
	assessing bool
	status    string
	err      error
	quitting bool
}

// NewApp builds the model. screenshot is the base64 image attached to the ticket, if any.
func NewApp(ctrl *intake.Controller, screenshot string, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		ctrl:       ctrl,
		logger:     logger,
		screenshot: screenshot,
		view:       viewEdit,
		edit:       newEditForm(ctrl.AIReviewEnabled()),
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(tea.WindowSize(), textinput.Blink, textarea.Blink)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case assessedMsg:
		return a, a.handleAssessed(msg)

	case submittedMsg:
		a.busy = false
		if msg.err != nil {
			a.err = msg.err
			a.status = ""
			return a, nil
		}
		a.view = viewSubmitted
		a.err = nil
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			a.quitting = true
			return a, tea.Quit
		}
		if a.busy && !(a.assessing && key.Matches(msg, keys.Back)) {
			return a, nil
		}
		switch a.view {
		case viewEdit:
			return a, a.updateEdit(msg)
		case viewSummary:
			return a, a.updateSummary(msg)
		}
	}
	return a, nil
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}
	switch a.view {
	case viewSummary:
		return a.renderSummary()
	case viewSubmitted:
		return a.renderSubmitted()
	default:
		return a.renderEdit()
	}
}

func (a *App) updateEdit(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Next):
		return a.edit.move(1)
	case key.Matches(msg, keys.Prev):
		return a.edit.move(-1)
	case key.Matches(msg, keys.ToggleAI):
		a.edit.aiReview = !a.edit.aiReview
		return nil
	case key.Matches(msg, keys.Advance):
		return a.advance()
	}
	return a.edit.update(msg)
}

func (a *App) advance() tea.Cmd {
	ticket := a.edit.ticket()
	ticket.ScreenshotBase64 = a.screenshot
	if err := a.ctrl.SetAIReview(a.edit.aiReview); err != nil {
		a.err = err
		return nil
	}
	if err := a.ctrl.SetTicket(ticket); err != nil {
		a.err = err
		return nil
	}
	if err := a.ctrl.Advance(); err != nil {
		a.err = err
		return nil
	}

	a.err = nil
	a.view = viewSummary
	a.summary = newSummaryForm()
	if !a.ctrl.AIReviewEnabled() {
		assessment, _ := a.ctrl.Assessment()
		a.summary.load(assessment)
		return nil
	}

	a.busy = true
	a.assessing = true
	a.status = "Reviewing your request..."
	ctrl := a.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), assessTimeout)
		defer cancel()
		assessment, err := ctrl.Assess(ctx)
		return assessedMsg{assessment: assessment, err: err}
	}
}

func (a *App) handleAssessed(msg assessedMsg) tea.Cmd {
	if errors.Is(msg.err, intake.ErrStaleAssessment) || errors.Is(msg.err, intake.ErrAssessmentInFlight) {
		return nil
	}
	a.busy = false
	a.assessing = false
	a.status = ""
	assessment, ok := a.ctrl.Assessment()
	if !ok {
		return nil
	}
	a.summary.load(assessment)
	a.summary.proxySuspected = a.ctrl.ProxySuspected()
	if msg.err != nil {
		a.logger.Warn("AI questions unavailable", zap.Error(msg.err))
		a.status = "AI questions unavailable. You can still submit your ticket."
	}
	return a.summary.focusCurrent()
}

func (a *App) updateSummary(msg tea.KeyMsg) tea.Cmd {
	s := a.summary
	switch {
	case key.Matches(msg, keys.Next):
		return s.move(1)
	case key.Matches(msg, keys.Prev):
		return s.move(-1)
	case key.Matches(msg, keys.Back):
		if err := a.ctrl.Back(); err != nil {
			a.err = err
			return nil
		}
		a.view = viewEdit
		a.busy = false
		a.assessing = false
		a.status = ""
		a.err = nil
		return a.edit.focusCurrent()
	case key.Matches(msg, keys.ConfirmUrg):
		a.setErr(a.ctrl.ConfirmUrgency())
		if a.err == nil {
			s.urgencyStatus = "Urgency confirmed"
		}
		return nil
	case key.Matches(msg, keys.AdjustUrg):
		s.adjusting = true
		s.adjustLevel = nextLevel(s.adjustLevel)
		return s.focusNote()
	case s.adjusting && key.Matches(msg, keys.ApplyAdjusted):
		a.setErr(a.ctrl.AdjustUrgency(s.adjustLevel, s.note.Value()))
		if a.err == nil {
			s.adjusting = false
			if assessment, ok := a.ctrl.Assessment(); ok {
				s.assessment = assessment
			}
			s.urgencyStatus = "Adjusted to " + string(s.adjustLevel)
		}
		return nil
	case key.Matches(msg, keys.ProxyYes):
		a.setErr(a.ctrl.ConfirmProxy(true))
		s.proxyConfirmed = a.err == nil
		return s.focusCurrent()
	case key.Matches(msg, keys.ProxyNo):
		a.setErr(a.ctrl.ConfirmProxy(false))
		s.proxyConfirmed = false
		return s.focusCurrent()
	case key.Matches(msg, keys.Submit):
		return a.submit()
	}
	return s.update(msg)
}

func (a *App) submit() tea.Cmd {
	s := a.summary
	for i, input := range s.answers {
		if err := a.ctrl.SetAnswer(i, input.Value()); err != nil {
			a.err = err
			return nil
		}
	}
	if s.proxyConfirmed {
		if err := a.ctrl.SetProxyInfo(s.proxyInfo()); err != nil {
			a.err = err
			return nil
		}
	}

	a.busy = true
	a.err = nil
	a.status = "Submitting ticket..."
	ctrl := a.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		return submittedMsg{err: ctrl.Submit(ctx)}
	}
}

func (a *App) setErr(err error) {
	a.err = err
}

func nextLevel(level domain.UrgencyLevel) domain.UrgencyLevel {
	switch level {
	case domain.UrgencyHigh:
		return domain.UrgencyMedium
	case domain.UrgencyMedium:
		return domain.UrgencyLow
	default:
		return domain.UrgencyHigh
	}
}
