package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studytracker/internal/store"
)

var subjectColors = []string{"#ef4444", "#22c55e", "#3b82f6", "#f59e0b", "#8b5cf6", "#ec4899", "#14b8a6", "#64748b"}

type subjectsModel struct {
	store  *store.Store
	width  int
	height int

	subjects []store.Subject
	counts   map[string]int // subject name -> referencing task count
	cursor   int

	formActive bool
	form       *huh.Form
	editingID  int64 // 0 while creating

	// Form field pointers (survive value copies)
	formName        *string
	formCode        *string
	formPriority    *string
	formColor       *string
	formDescription *string
	formTarget      *string
}

func newSubjectsModel(s *store.Store) subjectsModel {
	name, code, prio, color, desc, target := "", "", store.PriorityMedium, subjectColors[2], "", ""
	return subjectsModel{
		store:           s,
		formName:        &name,
		formCode:        &code,
		formPriority:    &prio,
		formColor:       &color,
		formDescription: &desc,
		formTarget:      &target,
	}
}

func (m *subjectsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m subjectsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		subjects, _ := m.store.ListSubjects()
		counts := make(map[string]int, len(subjects))
		for _, s := range subjects {
			n, _ := m.store.SubjectTaskCount(s.Name)
			counts[s.Name] = n
		}
		return subjectsDataMsg{subjects: subjects, counts: counts}
	}
}

func (m subjectsModel) update(msg tea.Msg) (subjectsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case subjectsDataMsg:
		m.subjects = msg.subjects
		m.counts = msg.counts
		if m.cursor >= len(m.subjects) {
			m.cursor = max(0, len(m.subjects)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.subjects)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			return m.showSubjectForm(nil)
		case key.Matches(msg, keys.Edit):
			if len(m.subjects) > 0 {
				sub := m.subjects[m.cursor]
				return m.showSubjectForm(&sub)
			}
		case key.Matches(msg, keys.Delete):
			// Tasks and schedules keep their subject name; references go
			// dangling rather than cascading.
			if len(m.subjects) > 0 {
				if err := m.store.DeleteSubject(m.subjects[m.cursor].ID); err != nil {
					return m, func() tea.Msg { return errorStatus(err) }
				}
				return m, m.refresh()
			}
		}
	}
	return m, nil
}

func (m subjectsModel) showSubjectForm(editing *store.Subject) (subjectsModel, tea.Cmd) {
	if editing != nil {
		*m.formName = editing.Name
		*m.formCode = editing.Code
		*m.formPriority = editing.Priority
		*m.formColor = editing.Color
		*m.formDescription = editing.Description
		*m.formTarget = strconv.FormatFloat(editing.TargetHours, 'f', -1, 64)
		m.editingID = editing.ID
	} else {
		*m.formName = ""
		*m.formCode = ""
		*m.formPriority = store.PriorityMedium
		*m.formColor = subjectColors[2]
		*m.formDescription = ""
		*m.formTarget = ""
		m.editingID = 0
	}

	colorOptions := make([]huh.Option[string], len(subjectColors))
	for i, c := range subjectColors {
		colorOptions[i] = huh.NewOption(fmt.Sprintf("● %s", c), c)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(m.formName),
			huh.NewInput().Title("Code (blank = first 4 letters)").Value(m.formCode),
			huh.NewSelect[string]().Title("Priority").Options(priorityOptions()...).Value(m.formPriority),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(m.formColor),
			huh.NewInput().Title("Description").Value(m.formDescription),
			huh.NewInput().Title("Weekly target hours").Value(m.formTarget),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m subjectsModel) updateForm(msg tea.Msg) (subjectsModel, tea.Cmd) {
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
		if strings.TrimSpace(*m.formName) == "" {
			return m, m.refresh()
		}

		target, _ := strconv.ParseFloat(*m.formTarget, 64)
		in := store.SubjectInput{
			Name:        *m.formName,
			Code:        *m.formCode,
			Priority:    *m.formPriority,
			Color:       *m.formColor,
			Description: *m.formDescription,
			TargetHours: target,
		}
		if m.editingID != 0 {
			m.store.UpdateSubject(m.editingID, in)
		} else {
			m.store.CreateSubject(in)
		}
		return m, m.refresh()
	}

	return m, cmd
}

func (m subjectsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Subject")
		if m.editingID != 0 {
			title = titleStyle.Render("Edit Subject")
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	title := titleStyle.Render("Subjects")

	if len(m.subjects) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No subjects. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-3s %-20s %-6s %-9s %-10s %-6s", "", "Name", "Code", "Priority", "Target", "Tasks"))
	rows = append(rows, header)

	for i, sub := range m.subjects {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := style.Render(fmt.Sprintf("%s%s %-20s %-6s %-9s %-10s %-6d",
			cursor, subjectDot(sub.Color), sub.Name, sub.Code, sub.Priority,
			formatHours(sub.TargetHours), m.counts[sub.Name],
		))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
