package tui

import "github.com/charmbracelet/lipgloss"

// Color palette, matching the default accent and subject colors.
var (
	colorPrimary   = lipgloss.Color("#3b82f6")
	colorAccent    = lipgloss.Color("#8b5cf6")
	colorMuted     = lipgloss.Color("#666666")
	colorSuccess   = lipgloss.Color("#22c55e")
	colorWarning   = lipgloss.Color("#f59e0b")
	colorError     = lipgloss.Color("#ef4444")
	colorFg        = lipgloss.Color("#e5e7eb")
	colorSubtle    = lipgloss.Color("#374151")
	colorHighlight = lipgloss.Color("#60a5fa")
)

// Priority colors for task and subject rows.
var priorityColors = map[string]lipgloss.Color{
	"low":    colorSuccess,
	"medium": colorWarning,
	"high":   colorError,
}

// Styles
var (
	// Tabs
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 1)

	// Panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(1, 2)

	// Timer
	timerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Align(lipgloss.Center)

	// Text
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	accentStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	doneItemStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Strikethrough(true)
)

func priorityDot(priority string) string {
	c, ok := priorityColors[priority]
	if !ok {
		c = colorMuted
	}
	return lipgloss.NewStyle().Foreground(c).Render("●")
}

func subjectDot(color string) string {
	if color == "" {
		return mutedStyle.Render("●")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}
