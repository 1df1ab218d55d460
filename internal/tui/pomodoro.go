package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studytracker/internal/store"
	"github.com/sadopc/studytracker/internal/timer"
)

type pomodoroModel struct {
	store  *store.Store
	timer  *timer.Timer
	width  int
	height int
}

func newPomodoroModel(s *store.Store, t *timer.Timer) pomodoroModel {
	return pomodoroModel{store: s, timer: t}
}

func (m *pomodoroModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		completed, err := m.timer.Tick()
		if err != nil {
			return m, func() tea.Msg { return errorStatus(err) }
		}
		if completed {
			text := "Break over — ready for the next focus session. \a"
			if m.timer.Mode() != timer.ModeFocus {
				text = "Focus session complete! Time for a break. \a"
			}
			return m, func() tea.Msg { return statusMsg{text: text} }
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			m.timer.Start()
		case key.Matches(msg, keys.Pause):
			m.timer.Pause()
		case key.Matches(msg, keys.Reset):
			m.timer.Reset()
		}
	}
	return m, nil
}

func (m pomodoroModel) view() string {
	w := m.width - 4

	title := titleStyle.Render("Pomodoro Timer")

	display := m.timer.Display()
	var timeDisplay, modeLabel string
	switch m.timer.Mode() {
	case timer.ModeFocus:
		timeDisplay = timerStyle.Width(w - 6).Render(display)
		modeLabel = accentStyle.Bold(true).Render(m.timer.ModeLabel())
	case timer.ModeShortBreak:
		timeDisplay = successStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(display)
		modeLabel = successStyle.Bold(true).Render(m.timer.ModeLabel())
	case timer.ModeLongBreak:
		timeDisplay = highlightStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(display)
		modeLabel = highlightStyle.Bold(true).Render(m.timer.ModeLabel())
	}

	state := mutedStyle.Render("paused")
	if m.timer.Running() {
		state = successStyle.Render("● running")
	}

	hours, minutes := m.timer.TodayStudyTime()
	stats := mutedStyle.Render(fmt.Sprintf(
		"sessions: %d   streak: %d days   studied: %dh %dm",
		m.store.PomodoroCount(), m.store.StudyStreak(), hours, minutes,
	))

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		timeDisplay,
		modeLabel,
		state,
		"",
		m.renderProgressBar(w-10),
		"",
		stats,
		"",
		mutedStyle.Render("s: start  space: pause  r: reset"),
	)

	return panelStyle.Width(w).Render(content)
}

// renderProgressBar draws the elapsed fraction of the current session.
func (m pomodoroModel) renderProgressBar(width int) string {
	if width < 10 {
		width = 10
	}
	filled := int(m.timer.Progress() * float64(width))
	filled = min(filled, width)

	fillStyle := accentStyle
	if m.timer.Mode() != timer.ModeFocus {
		fillStyle = successStyle
	}
	return fillStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
}
