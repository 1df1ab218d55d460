package store

import (
	"fmt"
	"time"
)

// ReplaceAll swaps every persisted collection for the given data in one
// transaction. Counters travel inside the settings map. Settings keys absent
// from the map fall back to defaults; an empty subject list falls back to the
// starter catalog. Used by import: nothing is mutated unless the whole
// replace succeeds.
func (s *Store) ReplaceAll(tasks []Task, schedules []Schedule, subjects []Subject, settings map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"tasks", "schedules", "subjects", "settings"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, t := range tasks {
		if _, err := tx.Exec(
			`INSERT INTO tasks (id, title, description, subject, priority, status, due_date, estimated_hours, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Title, t.Description, t.Subject, t.Priority, t.Status, t.DueDate, t.EstimatedHours,
			t.CreatedAt.UTC().Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("restore task %d: %w", t.ID, err)
		}
	}

	for _, e := range schedules {
		if _, err := tx.Exec(
			`INSERT INTO schedules (id, title, date, subject, start_time, end_time, notes, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Title, e.Date, e.Subject, e.StartTime, e.EndTime, e.Notes,
			e.CreatedAt.UTC().Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("restore schedule %d: %w", e.ID, err)
		}
	}

	if len(subjects) == 0 {
		if _, err := tx.Exec(seedSubjectsSQL); err != nil {
			return fmt.Errorf("reseed subjects: %w", err)
		}
	}
	for _, sub := range subjects {
		if _, err := tx.Exec(
			`INSERT INTO subjects (id, name, code, priority, color, description, target_hours, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			sub.ID, sub.Name, sub.Code, sub.Priority, sub.Color, sub.Description, sub.TargetHours,
			sub.CreatedAt.UTC().Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("restore subject %d: %w", sub.ID, err)
		}
	}

	for key, value := range settings {
		if _, err := tx.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)`, key, value); err != nil {
			return fmt.Errorf("restore setting %q: %w", key, err)
		}
	}
	if _, err := tx.Exec(seedSettingsSQL); err != nil {
		return fmt.Errorf("reseed settings: %w", err)
	}

	return tx.Commit()
}

// ResetAll clears every collection and counter and restores the seeded
// defaults. Irreversible; callers gate it behind confirmation.
func (s *Store) ResetAll() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"tasks", "schedules", "subjects", "settings"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if _, err := tx.Exec(seedSettingsSQL); err != nil {
		return fmt.Errorf("reseed settings: %w", err)
	}
	if _, err := tx.Exec(seedSubjectsSQL); err != nil {
		return fmt.Errorf("reseed subjects: %w", err)
	}

	return tx.Commit()
}
