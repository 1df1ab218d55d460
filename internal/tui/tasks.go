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

var statusFilterCycle = []string{"all", store.StatusPending, store.StatusCompleted}

type tasksModel struct {
	store  *store.Store
	width  int
	height int

	tasks  []store.Task
	cursor int
	filter store.TaskFilter

	formActive bool
	form       *huh.Form
	formType   string // "task", "edit_task", "quick"
	editingID  int64

	// Form field pointers (survive value copies)
	formTitle       *string
	formDescription *string
	formSubject     *string
	formPriority    *string
	formDueDate     *string
	formEstimated   *string
}

func newTasksModel(s *store.Store) tasksModel {
	title, desc, subj, prio, due, est := "", "", "", store.PriorityMedium, "", ""
	return tasksModel{
		store:           s,
		filter:          store.TaskFilter{Status: "all"},
		formTitle:       &title,
		formDescription: &desc,
		formSubject:     &subj,
		formPriority:    &prio,
		formDueDate:     &due,
		formEstimated:   &est,
	}
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m tasksModel) refresh() tea.Cmd {
	return func() tea.Msg {
		tasks, _ := m.store.ListTasks(m.filter)
		return tasksDataMsg{tasks: tasks}
	}
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		m.tasks = msg.tasks
		if m.cursor >= len(m.tasks) {
			m.cursor = max(0, len(m.tasks)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			return m.showTaskForm(nil)
		case key.Matches(msg, keys.QuickAdd):
			return m.showQuickAddForm()
		case key.Matches(msg, keys.Edit):
			if len(m.tasks) > 0 {
				t := m.tasks[m.cursor]
				return m.showTaskForm(&t)
			}
		case key.Matches(msg, keys.Complete):
			if len(m.tasks) > 0 {
				if err := m.store.CompleteTask(m.tasks[m.cursor].ID); err != nil {
					return m, func() tea.Msg { return errorStatus(err) }
				}
				return m, m.refresh()
			}
		case key.Matches(msg, keys.Delete):
			if len(m.tasks) > 0 {
				if err := m.store.DeleteTask(m.tasks[m.cursor].ID); err != nil {
					return m, func() tea.Msg { return errorStatus(err) }
				}
				return m, m.refresh()
			}
		case key.Matches(msg, keys.Filter):
			m.filter.Status = nextStatusFilter(m.filter.Status)
			return m, m.refresh()
		}
	}
	return m, nil
}

func nextStatusFilter(current string) string {
	for i, s := range statusFilterCycle {
		if s == current {
			return statusFilterCycle[(i+1)%len(statusFilterCycle)]
		}
	}
	return statusFilterCycle[0]
}

func (m tasksModel) subjectOptions() []huh.Option[string] {
	options := []huh.Option[string]{huh.NewOption("(none)", "")}
	subjects, _ := m.store.ListSubjects()
	for _, s := range subjects {
		options = append(options, huh.NewOption(s.Name, s.Name))
	}
	return options
}

func priorityOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("Low", store.PriorityLow),
		huh.NewOption("Medium", store.PriorityMedium),
		huh.NewOption("High", store.PriorityHigh),
	}
}

func (m tasksModel) showTaskForm(editing *store.Task) (tasksModel, tea.Cmd) {
	if editing != nil {
		*m.formTitle = editing.Title
		*m.formDescription = editing.Description
		*m.formSubject = editing.Subject
		*m.formPriority = editing.Priority
		*m.formDueDate = editing.DueDate
		*m.formEstimated = strconv.FormatFloat(editing.EstimatedHours, 'f', -1, 64)
		m.formType = "edit_task"
		m.editingID = editing.ID
	} else {
		*m.formTitle = ""
		*m.formDescription = ""
		*m.formSubject = ""
		*m.formPriority = store.PriorityMedium
		*m.formDueDate = ""
		*m.formEstimated = ""
		m.formType = "task"
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle),
			huh.NewInput().Title("Description").Value(m.formDescription),
			huh.NewSelect[string]().Title("Subject").Options(m.subjectOptions()...).Value(m.formSubject),
			huh.NewSelect[string]().Title("Priority").Options(priorityOptions()...).Value(m.formPriority),
			huh.NewInput().Title("Due date (YYYY-MM-DD)").Value(m.formDueDate),
			huh.NewInput().Title("Estimated hours").Value(m.formEstimated),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) showQuickAddForm() (tasksModel, tea.Cmd) {
	*m.formTitle = ""
	*m.formSubject = ""
	*m.formPriority = store.PriorityMedium
	m.formType = "quick"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle),
			huh.NewSelect[string]().Title("Subject").Options(m.subjectOptions()...).Value(m.formSubject),
			huh.NewSelect[string]().Title("Priority").Options(priorityOptions()...).Value(m.formPriority),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
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
		// An empty title silently abandons the submission.
		if strings.TrimSpace(*m.formTitle) == "" {
			return m, m.refresh()
		}

		switch m.formType {
		case "quick":
			m.store.QuickAddTask(*m.formTitle, *m.formSubject, *m.formPriority)
		case "task", "edit_task":
			estimated, _ := strconv.ParseFloat(*m.formEstimated, 64)
			in := store.TaskInput{
				Title:          *m.formTitle,
				Description:    *m.formDescription,
				Subject:        *m.formSubject,
				Priority:       *m.formPriority,
				DueDate:        *m.formDueDate,
				EstimatedHours: estimated,
			}
			if m.formType == "edit_task" {
				m.store.UpdateTask(m.editingID, in)
			} else {
				m.store.CreateTask(in)
			}
		}
		return m, m.refresh()
	}

	return m, cmd
}

func (m tasksModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Task")
		switch m.formType {
		case "edit_task":
			title = titleStyle.Render("Edit Task")
		case "quick":
			title = titleStyle.Render("Quick Add")
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	filterLabel := mutedStyle.Render(fmt.Sprintf("filter: %s", m.filter.Status))
	title := lipgloss.JoinHorizontal(lipgloss.Bottom, titleStyle.Render("Tasks"), "  ", filterLabel)

	if len(m.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks. Press n for a new task or a for quick add."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-3s %-32s %-14s %-12s %-8s", "", "Title", "Subject", "Due", "Est."))
	rows = append(rows, header)

	for i, t := range m.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		titleCell := t.Title
		if t.Status == store.StatusCompleted {
			style = doneItemStyle
			titleCell = "✓ " + titleCell
		}
		row := style.Render(fmt.Sprintf("%s%s %-32s %-14s %-12s %-8s",
			cursor, priorityDot(t.Priority), titleCell, t.Subject, t.DueDate, formatHours(t.EstimatedHours),
		))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  a: quick add  e: edit  c: complete  d: delete  f: filter"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
