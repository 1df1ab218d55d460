package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studytracker/internal/store"
	"github.com/sadopc/studytracker/internal/timer"
)

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	timer  *timer.Timer
	width  int
	height int

	activeView viewState
	showHelp   bool

	dashboard dashboardModel
	tasks     tasksModel
	schedule  scheduleModel
	subjects  subjectsModel
	pomodoro  pomodoroModel
	reports   reportsModel
	settings  settingsModel

	help   help.Model
	status string
}

func NewApp(s *store.Store, t *timer.Timer) App {
	h := help.New()
	h.ShowAll = false

	return App{
		store:      s,
		timer:      t,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(s),
		tasks:      newTasksModel(s),
		schedule:   newScheduleModel(s),
		subjects:   newSubjectsModel(s),
		pomodoro:   newPomodoroModel(s, t),
		reports:    newReportsModel(s),
		settings:   newSettingsModel(s),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.Init(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.tasks.setSize(a.width, contentHeight)
		a.schedule.setSize(a.width, contentHeight)
		a.subjects.setSize(a.width, contentHeight)
		a.pomodoro.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDashboard
			return a, a.dashboard.refresh()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewTasks
			return a, a.tasks.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewSchedule
			return a, a.schedule.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSubjects
			return a, a.subjects.refresh()
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewPomodoro
			return a, nil
		case key.Matches(msg, keys.Tab6):
			a.activeView = viewReports
			return a, a.reports.refresh()
		case key.Matches(msg, keys.Tab7):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewCount
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		cmds = append(cmds, tickCmd())
		// The session timer keeps counting regardless of the visible tab.
		var cmd tea.Cmd
		a.pomodoro, cmd = a.pomodoro.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		return a, nil

	case notificationMsg:
		a.status = msg.title + " — " + msg.body + "\a"
		return a, nil

	case settingsSavedMsg:
		a.timer.ReloadSettings()
		a.status = "Settings saved"
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		return a, nil

	case importDoneMsg:
		a.timer.ReloadSettings()
		a.status = "Backup imported"
		return a, tea.Batch(a.settings.refresh(), a.dashboard.refresh())

	case resetDoneMsg:
		a.timer.ReloadSettings()
		a.timer.Reset()
		a.status = "All data reset to defaults"
		return a, tea.Batch(a.settings.refresh(), a.dashboard.refresh())
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewTasks:
		a.tasks, cmd = a.tasks.update(msg)
	case viewSchedule:
		a.schedule, cmd = a.schedule.update(msg)
	case viewSubjects:
		a.subjects, cmd = a.subjects.update(msg)
	case viewPomodoro:
		a.pomodoro, cmd = a.pomodoro.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTasks:
		return a.tasks.formActive
	case viewSchedule:
		return a.schedule.formActive
	case viewSubjects:
		return a.subjects.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.refresh()
	case viewTasks:
		return a.tasks.refresh()
	case viewSchedule:
		return a.schedule.refresh()
	case viewSubjects:
		return a.subjects.refresh()
	case viewReports:
		return a.reports.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewTasks:
		content = a.tasks.view()
	case viewSchedule:
		content = a.schedule.view()
	case viewSubjects:
		content = a.subjects.view()
	case viewPomodoro:
		content = a.pomodoro.view()
	case viewReports:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("studytracker")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Session indicator stays visible from every tab.
	timerInfo := ""
	if a.timer.Running() {
		timerInfo = successStyle.Render(" ● " + a.timer.Display())
		if a.timer.Mode() != timer.ModeFocus {
			timerInfo = highlightStyle.Render(" ☕ " + a.timer.Display())
		}
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}
