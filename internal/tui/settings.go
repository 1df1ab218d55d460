package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studytracker/internal/export"
	"github.com/sadopc/studytracker/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form
	formType   string // "settings", "import", "reset1", "reset2"

	// Form values as pointers (survive value copies)
	theme         *string
	accentColor   *string
	notifications *bool
	alertLead     *string
	focusMin      *string
	shortBreak    *string
	longBreak     *string
	weekStart     *string
	importPath    *string
	confirmFlag   *bool
}

func newSettingsModel(s *store.Store) settingsModel {
	th, ac, al, fm, sb, lb, ws, ip := "", "", "", "", "", "", "", ""
	notif, confirm := true, false
	return settingsModel{
		store:         s,
		theme:         &th,
		accentColor:   &ac,
		notifications: &notif,
		alertLead:     &al,
		focusMin:      &fm,
		shortBreak:    &sb,
		longBreak:     &lb,
		weekStart:     &ws,
		importPath:    &ip,
		confirmFlag:   &confirm,
	}
}

func (m *settingsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := m.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (m settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		m.settings = msg.settings
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return m.showSettingsForm()
		case key.Matches(msg, keys.Export):
			return m, m.doExportJSON()
		case key.Matches(msg, keys.Complete):
			return m, m.doExportCSV()
		case key.Matches(msg, keys.Import):
			return m.showImportForm()
		case key.Matches(msg, keys.Reset):
			return m.showResetConfirm(1)
		}
	}
	return m, nil
}

func (m settingsModel) getVal(k, fallback string) string {
	v, err := m.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (m settingsModel) showSettingsForm() (settingsModel, tea.Cmd) {
	*m.theme = m.getVal(store.KeyTheme, "dark")
	*m.accentColor = m.getVal(store.KeyAccentColor, "#3b82f6")
	*m.notifications = m.store.SettingBool(store.KeyNotifications, true)
	*m.alertLead = m.getVal(store.KeyAlertLeadMin, "30")
	*m.focusMin = m.getVal(store.KeyFocusMin, "25")
	*m.shortBreak = m.getVal(store.KeyShortBreakMin, "5")
	*m.longBreak = m.getVal(store.KeyLongBreakMin, "15")
	*m.weekStart = m.getVal(store.KeyWeekStart, "monday")

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Theme").
				Options(
					huh.NewOption("Dark", "dark"),
					huh.NewOption("Light", "light"),
					huh.NewOption("Auto", "auto"),
				).Value(m.theme),
			huh.NewInput().Title("Accent color").Value(m.accentColor),
			huh.NewConfirm().Title("Desktop reminders").Value(m.notifications),
			huh.NewInput().Title("Alert lead time (min)").Value(m.alertLead),
		).Title("General"),
		huh.NewGroup(
			huh.NewInput().Title("Focus length (min)").Value(m.focusMin),
			huh.NewInput().Title("Short break (min)").Value(m.shortBreak),
			huh.NewInput().Title("Long break (min)").Value(m.longBreak),
			huh.NewSelect[string]().Title("Week starts on").
				Options(
					huh.NewOption("Monday", "monday"),
					huh.NewOption("Sunday", "sunday"),
				).Value(m.weekStart),
		).Title("Timer"),
	).WithShowHelp(true).WithShowErrors(true)

	m.formType = "settings"
	m.formActive = true
	return m, m.form.Init()
}

func (m settingsModel) showImportForm() (settingsModel, tea.Cmd) {
	path, _ := export.DefaultBackupPath()
	*m.importPath = path
	*m.confirmFlag = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Backup file").Value(m.importPath),
			huh.NewConfirm().
				Title("Replace all current data?").
				Description("Import replaces every task, schedule, subject and setting.").
				Affirmative("Replace").
				Negative("Cancel").
				Value(m.confirmFlag),
		),
	)

	m.formType = "import"
	m.formActive = true
	return m, m.form.Init()
}

// showResetConfirm runs the two-step reset confirmation; stage is 1 or 2.
func (m settingsModel) showResetConfirm(stage int) (settingsModel, tea.Cmd) {
	*m.confirmFlag = false

	title := "Delete ALL data?"
	desc := "Tasks, schedules, subjects and settings will be deleted. This cannot be undone."
	if stage == 2 {
		title = "Are you absolutely sure?"
		desc = "This will permanently delete everything."
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(desc).
				Affirmative("Delete").
				Negative("Keep my data").
				Value(m.confirmFlag),
		),
	)

	m.formType = fmt.Sprintf("reset%d", stage)
	m.formActive = true
	return m, m.form.Init()
}

func (m settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		switch m.formType {
		case "settings":
			m.saveSettings()
			return m, tea.Batch(m.refresh(), func() tea.Msg { return settingsSavedMsg{} })
		case "import":
			if *m.confirmFlag {
				return m, m.doImport(*m.importPath)
			}
			return m, nil
		case "reset1":
			if *m.confirmFlag {
				return m.showResetConfirm(2)
			}
			return m, nil
		case "reset2":
			if *m.confirmFlag {
				return m, m.doReset()
			}
			return m, nil
		}
	}

	return m, cmd
}

func (m settingsModel) saveSettings() {
	m.store.SetSetting(store.KeyTheme, *m.theme)
	m.store.SetSetting(store.KeyAccentColor, *m.accentColor)
	notif := "0"
	if *m.notifications {
		notif = "1"
	}
	m.store.SetSetting(store.KeyNotifications, notif)
	m.store.SetSetting(store.KeyAlertLeadMin, numericOr(*m.alertLead, "30"))
	m.store.SetSetting(store.KeyFocusMin, numericOr(*m.focusMin, "25"))
	m.store.SetSetting(store.KeyShortBreakMin, numericOr(*m.shortBreak, "5"))
	m.store.SetSetting(store.KeyLongBreakMin, numericOr(*m.longBreak, "15"))
	m.store.SetSetting(store.KeyWeekStart, *m.weekStart)
}

func numericOr(v, fallback string) string {
	if _, err := strconv.Atoi(v); err != nil {
		return fallback
	}
	return v
}

func (m settingsModel) doExportJSON() tea.Cmd {
	return func() tea.Msg {
		b, err := export.Collect(m.store)
		if err != nil {
			return errorStatus(err)
		}
		path, err := export.DefaultBackupPath()
		if err != nil {
			return errorStatus(err)
		}
		if err := export.WriteJSON(b, path); err != nil {
			return errorStatus(err)
		}
		return exportDoneMsg{path: path}
	}
}

func (m settingsModel) doExportCSV() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.store.ListTasks(store.TaskFilter{})
		if err != nil {
			return errorStatus(err)
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return errorStatus(err)
		}
		path := filepath.Join(home, fmt.Sprintf("studytracker-tasks-%s.csv", time.Now().Format(store.DateFormat)))
		if err := export.TasksToCSV(tasks, path); err != nil {
			return errorStatus(err)
		}
		return exportDoneMsg{path: path}
	}
}

func (m settingsModel) doImport(path string) tea.Cmd {
	return func() tea.Msg {
		b, err := export.ReadJSON(path)
		if err != nil {
			// Nothing was mutated; surface the parse failure.
			return errorStatus(err)
		}
		if err := export.Restore(m.store, b); err != nil {
			return errorStatus(err)
		}
		return importDoneMsg{}
	}
}

func (m settingsModel) doReset() tea.Cmd {
	return func() tea.Msg {
		if err := m.store.ResetAll(); err != nil {
			return errorStatus(err)
		}
		return resetDoneMsg{}
	}
}

func (m settingsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Settings"))
	rows = append(rows, "")

	for _, setting := range m.settings {
		label := lipgloss.NewStyle().Width(20).Render(setting.Key)
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(setting.Value)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("enter: edit  x: export backup  c: export tasks csv  i: import  r: reset all data"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
