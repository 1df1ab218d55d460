package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studytracker/internal/store"
)

// reportsModel charts the pending workload (estimated hours per due date,
// stacked by subject) for a 7-day window.
type reportsModel struct {
	store  *store.Store
	width  int
	height int

	loads    []store.DayLoad
	subjects []store.Subject
	stats    store.TaskStats
	offset   int // 7-day blocks back from today (0 = current)

	chart barchart.Model
}

func newReportsModel(s *store.Store) reportsModel {
	return reportsModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (m *reportsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m reportsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		from, to := m.dateRange()
		loads, _ := m.store.WeeklyLoad(from.Format(store.DateFormat), to.Format(store.DateFormat))
		subjects, _ := m.store.ListSubjects()
		stats, _ := m.store.TaskStats()
		return reportsDataMsg{loads: loads, subjects: subjects, stats: stats}
	}
}

func (m reportsModel) dateRange() (time.Time, time.Time) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	start := today.AddDate(0, 0, -7*m.offset)
	return start, start.AddDate(0, 0, 7)
}

func (m reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		m.loads = msg.loads
		m.subjects = msg.subjects
		m.stats = msg.stats
		m.buildChart()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			m.offset++
			return m, m.refresh()
		case key.Matches(msg, keys.Right):
			if m.offset > 0 {
				m.offset--
			}
			return m, m.refresh()
		}
	}
	return m, nil
}

func (m *reportsModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if m.height > 30 {
		chartHeight = 16
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	from, to := m.dateRange()

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format(store.DateFormat)
		label := d.Format("Mon 02")

		var values []barchart.BarValue
		for _, l := range m.loads {
			if l.Date == dateStr {
				style := lipgloss.NewStyle().Foreground(lipgloss.Color(l.SubjectColor))
				values = append(values, barchart.BarValue{
					Name:  l.Subject,
					Value: l.Hours,
					Style: style,
				})
			}
		}

		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: values,
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m reportsModel) view() string {
	w := m.width - 4

	from, to := m.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s — %s", from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Workload"), "  ", dateLabel,
	)

	summary := mutedStyle.Render(fmt.Sprintf("  %d tasks, %d pending, %.0f%% complete",
		m.stats.Total, m.stats.Pending, m.stats.Percentage))

	nav := mutedStyle.Render("  ←/→: navigate weeks")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", m.chart.View(), "", m.renderSubjectTable(w), "", summary, nav,
		),
	)
}

// renderSubjectTable compares each subject's pending hours in the window
// against its weekly target.
func (m reportsModel) renderSubjectTable(w int) string {
	if len(m.subjects) == 0 {
		return mutedStyle.Render("  No subjects")
	}

	pending := make(map[string]float64)
	for _, l := range m.loads {
		pending[l.Subject] += l.Hours
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-20s %10s %10s", "Subject", "Planned", "Target")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", max(10, min(w-6, 42)))))

	for _, sub := range m.subjects {
		planned := pending[sub.Name]
		plannedCell := formatHours(planned)
		if planned > sub.TargetHours && sub.TargetHours > 0 {
			plannedCell = warningStyle.Render(plannedCell)
		}
		rows = append(rows, fmt.Sprintf("  %s %-18s %10s %10s",
			subjectDot(sub.Color), sub.Name, plannedCell, formatHours(sub.TargetHours),
		))
	}

	return strings.Join(rows, "\n")
}
