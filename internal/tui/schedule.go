package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studytracker/internal/store"
)

type scheduleModel struct {
	store  *store.Store
	width  int
	height int

	date    string // selected date, store.DateFormat
	entries []store.Schedule
	cursor  int

	formActive bool
	form       *huh.Form
	formType   string // "entry", "edit_entry", "conflict"
	editingID  int64

	// Form field pointers (survive value copies)
	formTitle   *string
	formSubject *string
	formStart   *string
	formEnd     *string
	formNotes   *string

	// Held while the conflict confirmation is open.
	pendingInput    store.ScheduleInput
	pendingEditID   int64
	confirmOverride *bool
}

func newScheduleModel(s *store.Store) scheduleModel {
	title, subj, start, end, notes := "", "", "", "", ""
	override := false
	return scheduleModel{
		store:           s,
		date:            time.Now().Format(store.DateFormat),
		formTitle:       &title,
		formSubject:     &subj,
		formStart:       &start,
		formEnd:         &end,
		formNotes:       &notes,
		confirmOverride: &override,
	}
}

func (m *scheduleModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m scheduleModel) refresh() tea.Cmd {
	return func() tea.Msg {
		entries, _ := m.store.SchedulesOn(m.date)
		return scheduleDataMsg{date: m.date, entries: entries}
	}
}

func (m scheduleModel) update(msg tea.Msg) (scheduleModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case scheduleDataMsg:
		if msg.date != m.date {
			return m, nil
		}
		m.entries = msg.entries
		if m.cursor >= len(m.entries) {
			m.cursor = max(0, len(m.entries)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Left):
			m.date = shiftDate(m.date, -1)
			return m, m.refresh()
		case key.Matches(msg, keys.Right):
			m.date = shiftDate(m.date, 1)
			return m, m.refresh()
		case key.Matches(msg, keys.Today):
			m.date = time.Now().Format(store.DateFormat)
			return m, m.refresh()
		case key.Matches(msg, keys.New):
			return m.showEntryForm(nil)
		case key.Matches(msg, keys.Edit):
			if len(m.entries) > 0 {
				e := m.entries[m.cursor]
				return m.showEntryForm(&e)
			}
		case key.Matches(msg, keys.Delete):
			if len(m.entries) > 0 {
				if err := m.store.DeleteSchedule(m.entries[m.cursor].ID); err != nil {
					return m, func() tea.Msg { return errorStatus(err) }
				}
				return m, m.refresh()
			}
		}
	}
	return m, nil
}

func (m scheduleModel) showEntryForm(editing *store.Schedule) (scheduleModel, tea.Cmd) {
	if editing != nil {
		*m.formTitle = editing.Title
		*m.formSubject = editing.Subject
		*m.formStart = editing.StartTime
		*m.formEnd = editing.EndTime
		*m.formNotes = editing.Notes
		m.formType = "edit_entry"
		m.editingID = editing.ID
	} else {
		*m.formTitle = ""
		*m.formSubject = ""
		*m.formStart = ""
		*m.formEnd = ""
		*m.formNotes = ""
		m.formType = "entry"
	}

	options := []huh.Option[string]{huh.NewOption("(none)", "")}
	subjects, _ := m.store.ListSubjects()
	for _, s := range subjects {
		options = append(options, huh.NewOption(s.Name, s.Name))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle),
			huh.NewSelect[string]().Title("Subject").Options(options...).Value(m.formSubject),
			huh.NewInput().Title("Start (HH:MM)").Value(m.formStart),
			huh.NewInput().Title("End (HH:MM)").Value(m.formEnd),
			huh.NewInput().Title("Notes").Value(m.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

// showConflictConfirm asks the user whether to keep an overlapping entry.
// The conflict check is advisory only.
func (m scheduleModel) showConflictConfirm() (scheduleModel, tea.Cmd) {
	*m.confirmOverride = false
	m.formType = "conflict"
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Time conflict").
				Description("This entry overlaps an existing one on the same day. Add it anyway?").
				Affirmative("Add anyway").
				Negative("Discard").
				Value(m.confirmOverride),
		),
	)
	m.formActive = true
	return m, m.form.Init()
}

func (m scheduleModel) updateForm(msg tea.Msg) (scheduleModel, tea.Cmd) {
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

		if m.formType == "conflict" {
			if *m.confirmOverride {
				return m.commitPending()
			}
			return m, m.refresh()
		}

		in := store.ScheduleInput{
			Title:     *m.formTitle,
			Date:      m.date,
			Subject:   *m.formSubject,
			StartTime: *m.formStart,
			EndTime:   *m.formEnd,
			Notes:     *m.formNotes,
		}
		// Missing required fields silently abandon the submission.
		if strings.TrimSpace(in.Title) == "" || in.StartTime == "" || in.EndTime == "" {
			return m, m.refresh()
		}

		editID := int64(0)
		if m.formType == "edit_entry" {
			editID = m.editingID
		}
		candidate := store.Schedule{
			ID:        editID,
			Date:      in.Date,
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
		}
		conflict, err := m.store.CheckConflict(candidate)
		if err != nil {
			return m, func() tea.Msg { return errorStatus(err) }
		}
		m.pendingInput = in
		m.pendingEditID = editID
		if conflict {
			return m.showConflictConfirm()
		}
		return m.commitPending()
	}

	return m, cmd
}

func (m scheduleModel) commitPending() (scheduleModel, tea.Cmd) {
	var err error
	if m.pendingEditID != 0 {
		err = m.store.UpdateSchedule(m.pendingEditID, m.pendingInput)
	} else {
		_, err = m.store.CreateSchedule(m.pendingInput)
	}
	if err != nil {
		return m, func() tea.Msg { return errorStatus(err) }
	}
	return m, m.refresh()
}

func (m scheduleModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Entry — " + prettyDate(m.date))
		switch m.formType {
		case "edit_entry":
			title = titleStyle.Render("Edit Entry — " + prettyDate(m.date))
		case "conflict":
			title = warningStyle.Bold(true).Render("Schedule Conflict")
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	title := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Schedule"), "  ",
		highlightStyle.Render(prettyDate(m.date)),
	)

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	if len(m.entries) == 0 {
		rows = append(rows, mutedStyle.Render("Nothing planned. Press n to add an entry."))
	} else {
		for i, e := range m.entries {
			cursor := "  "
			style := normalItemStyle
			if i == m.cursor {
				cursor = "> "
				style = selectedItemStyle
			}
			span := fmt.Sprintf("%s–%s", e.StartTime, e.EndTime)
			row := style.Render(fmt.Sprintf("%s%-13s %-30s %-14s", cursor, span, e.Title, e.Subject))
			if e.Notes != "" {
				row += mutedStyle.Render("  " + e.Notes)
			}
			rows = append(rows, row)
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ←/→: day  t: today  n: new  e: edit  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
