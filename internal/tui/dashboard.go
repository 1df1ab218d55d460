package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studytracker/internal/store"
)

type dashboardModel struct {
	store  *store.Store
	width  int
	height int

	stats     store.TaskStats
	upcoming  []store.Task
	today     []store.Schedule
	streak    int
	pomodoros int
}

func newDashboardModel(s *store.Store) dashboardModel {
	return dashboardModel{store: s}
}

func (m dashboardModel) Init() tea.Cmd {
	return m.refresh()
}

func (m *dashboardModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m dashboardModel) refresh() tea.Cmd {
	return func() tea.Msg {
		stats, _ := m.store.TaskStats()
		upcoming, _ := m.store.UpcomingTasks(5)
		today, _ := m.store.TodaySchedules()
		return dashboardDataMsg{
			stats:     stats,
			upcoming:  upcoming,
			today:     today,
			streak:    m.store.StudyStreak(),
			pomodoros: m.store.PomodoroCount(),
		}
	}
}

func (m dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(dashboardDataMsg); ok {
		m.stats = msg.stats
		m.upcoming = msg.upcoming
		m.today = msg.today
		m.streak = msg.streak
		m.pomodoros = msg.pomodoros
	}
	return m, nil
}

func (m dashboardModel) view() string {
	if m.width < 20 {
		return "Terminal too small"
	}
	w := m.width - 4

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderStatsPanel(w),
		m.renderUpcomingPanel(w),
		m.renderTodayPanel(w),
	)
}

func (m dashboardModel) renderStatsPanel(w int) string {
	title := titleStyle.Render("Overview")

	progress := fmt.Sprintf("%.0f%%", m.stats.Percentage)
	line := fmt.Sprintf("  %s tasks   %s done   %s pending   %s complete",
		highlightStyle.Render(fmt.Sprintf("%d", m.stats.Total)),
		successStyle.Render(fmt.Sprintf("%d", m.stats.Completed)),
		warningStyle.Render(fmt.Sprintf("%d", m.stats.Pending)),
		accentStyle.Render(progress),
	)
	studied := m.pomodoros * 25
	counters := mutedStyle.Render(fmt.Sprintf("  🍅 %d sessions   🔥 %d day streak   📚 %dh %dm studied",
		m.pomodoros, m.streak, studied/60, studied%60))

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, line, counters),
	)
}

func (m dashboardModel) renderUpcomingPanel(w int) string {
	title := titleStyle.Render("Upcoming Tasks")
	if len(m.upcoming) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("Nothing due. Add tasks in the Tasks tab.")),
		)
	}

	var rows []string
	rows = append(rows, title)
	for _, t := range m.upcoming {
		rows = append(rows, fmt.Sprintf("  %s %-32s %-14s %s",
			priorityDot(t.Priority), t.Title, t.Subject, mutedStyle.Render("due "+t.DueDate),
		))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m dashboardModel) renderTodayPanel(w int) string {
	title := titleStyle.Render("Today's Schedule")
	if len(m.today) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("No sessions planned today.")),
		)
	}

	var rows []string
	rows = append(rows, title)
	for _, e := range m.today {
		rows = append(rows, fmt.Sprintf("  %s–%s  %-30s %s",
			e.StartTime, e.EndTime, e.Title, mutedStyle.Render(e.Subject),
		))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
