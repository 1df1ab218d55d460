package store

import (
	"errors"
	"time"
)

// Date and clock formats used across the store. Schedule conflict checks and
// deadline alerts combine DateFormat + ClockFormat in the local time zone.
const (
	DateFormat  = "2006-01-02"
	ClockFormat = "15:04"
)

// Priorities and task statuses are plain strings in the database.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	StatusPending   = "pending"
	StatusCompleted = "completed"
)

var (
	ErrTitleRequired = errors.New("title is required")
	ErrNameRequired  = errors.New("name is required")
	ErrTimesRequired = errors.New("date, start time and end time are required")
)

type Task struct {
	ID             int64
	Title          string
	Description    string
	Subject        string // subject name, not enforced as a foreign key
	Priority       string
	Status         string
	DueDate        string // DateFormat
	EstimatedHours float64
	CreatedAt      time.Time
}

type Schedule struct {
	ID        int64
	Title     string
	Date      string // DateFormat
	Subject   string
	StartTime string // ClockFormat
	EndTime   string // ClockFormat
	Notes     string
	CreatedAt time.Time
}

type Subject struct {
	ID          int64
	Name        string
	Code        string
	Priority    string
	Color       string
	Description string
	TargetHours float64
	CreatedAt   time.Time
}

type Setting struct {
	Key   string
	Value string
}

// TaskInput is the validated data-entry shape for creating or updating tasks.
type TaskInput struct {
	Title          string
	Description    string
	Subject        string
	Priority       string
	DueDate        string
	EstimatedHours float64
}

type ScheduleInput struct {
	Title     string
	Date      string
	Subject   string
	StartTime string
	EndTime   string
	Notes     string
}

type SubjectInput struct {
	Name        string
	Code        string
	Priority    string
	Color       string
	Description string
	TargetHours float64
}

// TaskFilter narrows ListTasks. Empty or "all" fields apply no restriction.
type TaskFilter struct {
	Subject  string
	Status   string
	Priority string
}

type TaskStats struct {
	Total      int
	Completed  int
	Pending    int
	Percentage float64
}

// DayLoad aggregates pending estimated hours per due date per subject,
// used for the weekly workload chart.
type DayLoad struct {
	Date         string
	Subject      string
	SubjectColor string
	Hours        float64
	TaskCount    int
}
