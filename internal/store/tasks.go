package store

import (
	"fmt"
	"strings"
	"time"
)

// normalizeTaskInput applies creation defaults: due date one week out,
// estimated time of one hour, medium priority.
func normalizeTaskInput(in *TaskInput) {
	in.Title = strings.TrimSpace(in.Title)
	if in.DueDate == "" {
		in.DueDate = time.Now().AddDate(0, 0, 7).Format(DateFormat)
	}
	if in.EstimatedHours <= 0 {
		in.EstimatedHours = 1
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
}

func (s *Store) CreateTask(in TaskInput) (*Task, error) {
	normalizeTaskInput(&in)
	if in.Title == "" {
		return nil, ErrTitleRequired
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO tasks (title, description, subject, priority, status, due_date, estimated_hours, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Title, in.Description, in.Subject, in.Priority, StatusPending, in.DueDate, in.EstimatedHours, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetTask(id)
}

// QuickAddTask creates a pending task from just a title, subject and
// priority, defaulting everything else.
func (s *Store) QuickAddTask(title, subject, priority string) (*Task, error) {
	return s.CreateTask(TaskInput{Title: title, Subject: subject, Priority: priority})
}

func (s *Store) GetTask(id int64) (*Task, error) {
	t := &Task{}
	var createdAt string
	err := s.db.QueryRow(
		`SELECT id, title, description, subject, priority, status, due_date, estimated_hours, created_at
		 FROM tasks WHERE id = ?`, id,
	).Scan(&t.ID, &t.Title, &t.Description, &t.Subject, &t.Priority, &t.Status, &t.DueDate, &t.EstimatedHours, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return t, nil
}

func (f TaskFilter) restricts(v string) bool {
	return v != "" && v != "all"
}

// ListTasks returns tasks matching the filter, sorted by due date ascending.
func (s *Store) ListTasks(f TaskFilter) ([]Task, error) {
	query := `SELECT id, title, description, subject, priority, status, due_date, estimated_hours, created_at
	          FROM tasks WHERE 1=1`
	var args []any

	if f.restricts(f.Subject) {
		query += ` AND subject = ?`
		args = append(args, f.Subject)
	}
	if f.restricts(f.Status) {
		query += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.restricts(f.Priority) {
		query += ` AND priority = ?`
		args = append(args, f.Priority)
	}
	query += ` ORDER BY due_date, id`

	return s.queryTasks(query, args...)
}

// UpcomingTasks returns up to limit pending tasks, soonest due first.
func (s *Store) UpcomingTasks(limit int) ([]Task, error) {
	return s.queryTasks(
		`SELECT id, title, description, subject, priority, status, due_date, estimated_hours, created_at
		 FROM tasks WHERE status = ? ORDER BY due_date, id LIMIT ?`,
		StatusPending, limit,
	)
}

func (s *Store) queryTasks(query string, args ...any) ([]Task, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		var createdAt string
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Subject, &t.Priority, &t.Status, &t.DueDate, &t.EstimatedHours, &createdAt); err != nil {
			return nil, err
		}
		t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTask rewrites the editable fields of a task. Status is untouched.
func (s *Store) UpdateTask(id int64, in TaskInput) error {
	normalizeTaskInput(&in)
	if in.Title == "" {
		return ErrTitleRequired
	}
	_, err := s.db.Exec(
		`UPDATE tasks SET title = ?, description = ?, subject = ?, priority = ?, due_date = ?, estimated_hours = ?
		 WHERE id = ?`,
		in.Title, in.Description, in.Subject, in.Priority, in.DueDate, in.EstimatedHours, id,
	)
	return err
}

// CompleteTask marks a task completed. Completing an already completed task
// is a no-op.
func (s *Store) CompleteTask(id int64) error {
	_, err := s.db.Exec(`UPDATE tasks SET status = ? WHERE id = ?`, StatusCompleted, id)
	return err
}

func (s *Store) DeleteTask(id int64) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	return err
}

func (s *Store) TaskStats() (TaskStats, error) {
	var st TaskStats
	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(status = 'completed'), 0),
		       COALESCE(SUM(status = 'pending'), 0)
		FROM tasks`,
	).Scan(&st.Total, &st.Completed, &st.Pending)
	if err != nil {
		return st, fmt.Errorf("task stats: %w", err)
	}
	if st.Total > 0 {
		st.Percentage = float64(st.Completed) / float64(st.Total) * 100
	}
	return st, nil
}

func (s *Store) SubjectTaskCount(subjectName string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM tasks WHERE subject = ?`, subjectName).Scan(&n)
	return n, err
}

// WeeklyLoad aggregates pending estimated hours per due date per subject
// over [from, to), joining subject colors for the chart.
func (s *Store) WeeklyLoad(from, to string) ([]DayLoad, error) {
	rows, err := s.db.Query(`
		SELECT t.due_date, t.subject, COALESCE(sub.color, '#666666'),
		       COALESCE(SUM(t.estimated_hours), 0), COUNT(*)
		FROM tasks t
		LEFT JOIN subjects sub ON sub.name = t.subject
		WHERE t.status = 'pending'
		  AND t.due_date >= ? AND t.due_date < ?
		GROUP BY t.due_date, t.subject
		ORDER BY t.due_date, t.subject`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("weekly load: %w", err)
	}
	defer rows.Close()

	var loads []DayLoad
	for rows.Next() {
		var dl DayLoad
		if err := rows.Scan(&dl.Date, &dl.Subject, &dl.SubjectColor, &dl.Hours, &dl.TaskCount); err != nil {
			return nil, err
		}
		loads = append(loads, dl)
	}
	return loads, rows.Err()
}
