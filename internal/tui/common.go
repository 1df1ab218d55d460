package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/studytracker/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewTasks
	viewSchedule
	viewSubjects
	viewPomodoro
	viewReports
	viewSettings
)

var viewNames = []string{"Dashboard", "Tasks", "Schedule", "Subjects", "Pomodoro", "Reports", "Settings"}

const viewCount = 7

// --- Messages ---

type tickMsg time.Time

type statusMsg struct {
	text    string
	isError bool
}

// notificationMsg is a reminder delivered by the alert scheduler, possibly
// from outside the Bubble Tea loop.
type notificationMsg struct {
	title string
	body  string
}

type dashboardDataMsg struct {
	stats     store.TaskStats
	upcoming  []store.Task
	today     []store.Schedule
	streak    int
	pomodoros int
}

type tasksDataMsg struct {
	tasks []store.Task
}

type scheduleDataMsg struct {
	date    string
	entries []store.Schedule
}

type subjectsDataMsg struct {
	subjects []store.Subject
	counts   map[string]int
}

type reportsDataMsg struct {
	loads    []store.DayLoad
	subjects []store.Subject
	stats    store.TaskStats
}

type settingsDataMsg struct {
	settings []store.Setting
}

// settingsSavedMsg tells the app to propagate new durations to the timer.
type settingsSavedMsg struct{}

type exportDoneMsg struct {
	path string
}

type importDoneMsg struct{}

type resetDoneMsg struct{}

// --- Helpers ---

func errorStatus(err error) statusMsg {
	return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
}

func formatHours(h float64) string {
	return fmt.Sprintf("%.1fh", h)
}

func shiftDate(date string, days int) string {
	d, err := time.ParseInLocation(store.DateFormat, date, time.Local)
	if err != nil {
		return date
	}
	return d.AddDate(0, 0, days).Format(store.DateFormat)
}

func prettyDate(date string) string {
	d, err := time.ParseInLocation(store.DateFormat, date, time.Local)
	if err != nil {
		return date
	}
	return d.Format("Mon, Jan 2 2006")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
