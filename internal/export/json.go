package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sadopc/studytracker/internal/store"
)

// Backup is the JSON backup document: every collection, the settings map,
// the counters and an export timestamp.
type Backup struct {
	Tasks         []taskJSON        `json:"tasks"`
	Schedules     []scheduleJSON    `json:"schedules"`
	Subjects      []subjectJSON     `json:"subjects"`
	Settings      map[string]string `json:"settings"`
	PomodoroCount int               `json:"pomodoroCount"`
	StudyStreak   int               `json:"studyStreak"`
	LastStudyDate string            `json:"lastStudyDate,omitempty"`
	ExportDate    string            `json:"exportDate"`
}

type taskJSON struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description,omitempty"`
	Subject        string  `json:"subject,omitempty"`
	Priority       string  `json:"priority"`
	Status         string  `json:"status"`
	DueDate        string  `json:"dueDate"`
	EstimatedHours float64 `json:"estimatedTime"`
	CreatedAt      string  `json:"createdAt"`
}

type scheduleJSON struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	Subject   string `json:"subject,omitempty"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"createdAt"`
}

type subjectJSON struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Priority    string  `json:"priority"`
	Color       string  `json:"color"`
	Description string  `json:"description,omitempty"`
	TargetHours float64 `json:"targetHours"`
	CreatedAt   string  `json:"createdAt"`
}

// counterKeys live in the settings table but travel as top-level backup
// fields, matching the shape of the exported document.
var counterKeys = map[string]bool{
	store.KeyPomodoroCount: true,
	store.KeyStudyStreak:   true,
	store.KeyLastStudyDate: true,
}

// Collect snapshots the whole store into a backup document.
func Collect(s *store.Store) (*Backup, error) {
	tasks, err := s.ListTasks(store.TaskFilter{})
	if err != nil {
		return nil, err
	}

	var schedules []store.Schedule
	// Schedules are date-indexed; pull every date present.
	dates, err := s.ScheduleDates()
	if err != nil {
		return nil, err
	}
	for _, d := range dates {
		onDate, err := s.SchedulesOn(d)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, onDate...)
	}

	subjects, err := s.ListSubjects()
	if err != nil {
		return nil, err
	}
	settings, err := s.GetAllSettings()
	if err != nil {
		return nil, err
	}

	b := &Backup{
		Settings:      make(map[string]string),
		PomodoroCount: s.PomodoroCount(),
		StudyStreak:   s.StudyStreak(),
		LastStudyDate: s.LastStudyDate(),
		ExportDate:    time.Now().UTC().Format(time.RFC3339),
	}
	for _, st := range settings {
		if counterKeys[st.Key] {
			continue
		}
		b.Settings[st.Key] = st.Value
	}
	for _, t := range tasks {
		b.Tasks = append(b.Tasks, taskJSON{
			ID: t.ID, Title: t.Title, Description: t.Description, Subject: t.Subject,
			Priority: t.Priority, Status: t.Status, DueDate: t.DueDate,
			EstimatedHours: t.EstimatedHours, CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	for _, e := range schedules {
		b.Schedules = append(b.Schedules, scheduleJSON{
			ID: e.ID, Title: e.Title, Date: e.Date, Subject: e.Subject,
			StartTime: e.StartTime, EndTime: e.EndTime, Notes: e.Notes,
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	for _, sub := range subjects {
		b.Subjects = append(b.Subjects, subjectJSON{
			ID: sub.ID, Name: sub.Name, Code: sub.Code, Priority: sub.Priority,
			Color: sub.Color, Description: sub.Description, TargetHours: sub.TargetHours,
			CreatedAt: sub.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return b, nil
}

// WriteJSON writes the backup document, indented, to path.
func WriteJSON(b *Backup, path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal backup: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write backup file: %w", err)
	}
	return nil
}

// ReadJSON parses a backup document. Malformed input returns an error and
// nothing else happens; the caller's store is untouched.
func ReadJSON(path string) (*Backup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backup file: %w", err)
	}
	var b Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse backup: %w", err)
	}
	return &b, nil
}

// Restore replaces the store's contents wholesale with the backup document.
// Missing settings and an empty subject list fall back to defaults inside
// the store's transactional replace.
func Restore(s *store.Store, b *Backup) error {
	var tasks []store.Task
	for _, t := range b.Tasks {
		created, _ := time.Parse(time.RFC3339, t.CreatedAt)
		tasks = append(tasks, store.Task{
			ID: t.ID, Title: t.Title, Description: t.Description, Subject: t.Subject,
			Priority: t.Priority, Status: t.Status, DueDate: t.DueDate,
			EstimatedHours: t.EstimatedHours, CreatedAt: created,
		})
	}
	var schedules []store.Schedule
	for _, e := range b.Schedules {
		created, _ := time.Parse(time.RFC3339, e.CreatedAt)
		schedules = append(schedules, store.Schedule{
			ID: e.ID, Title: e.Title, Date: e.Date, Subject: e.Subject,
			StartTime: e.StartTime, EndTime: e.EndTime, Notes: e.Notes, CreatedAt: created,
		})
	}
	var subjects []store.Subject
	for _, sub := range b.Subjects {
		created, _ := time.Parse(time.RFC3339, sub.CreatedAt)
		subjects = append(subjects, store.Subject{
			ID: sub.ID, Name: sub.Name, Code: sub.Code, Priority: sub.Priority,
			Color: sub.Color, Description: sub.Description, TargetHours: sub.TargetHours,
			CreatedAt: created,
		})
	}

	settings := make(map[string]string, len(b.Settings)+3)
	for k, v := range b.Settings {
		settings[k] = v
	}
	settings[store.KeyPomodoroCount] = fmt.Sprintf("%d", b.PomodoroCount)
	settings[store.KeyStudyStreak] = fmt.Sprintf("%d", b.StudyStreak)
	settings[store.KeyLastStudyDate] = b.LastStudyDate

	return s.ReplaceAll(tasks, schedules, subjects, settings)
}

// DefaultBackupPath returns ~/smart-tracker-backup-<YYYY-MM-DD>.json.
func DefaultBackupPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("smart-tracker-backup-%s.json", time.Now().Format(store.DateFormat))
	return filepath.Join(home, name), nil
}
