package tui

import tea "github.com/charmbracelet/bubbletea"

// ProgramNotifier delivers reminders into the running Bubble Tea program.
// It is safe to call from the alert scheduler's goroutine.
type ProgramNotifier struct {
	program *tea.Program
}

func NewProgramNotifier(p *tea.Program) *ProgramNotifier {
	return &ProgramNotifier{program: p}
}

func (n *ProgramNotifier) Notify(title, body string) {
	n.program.Send(notificationMsg{title: title, body: body})
}
