package store

import (
	"fmt"
	"strings"
	"time"
)

// defaultSubjectCode derives a code from the subject name: first four
// characters, uppercased.
func defaultSubjectCode(name string) string {
	runes := []rune(name)
	if len(runes) > 4 {
		runes = runes[:4]
	}
	return strings.ToUpper(string(runes))
}

func (s *Store) CreateSubject(in SubjectInput) (*Subject, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, ErrNameRequired
	}
	if in.Code == "" {
		in.Code = defaultSubjectCode(in.Name)
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO subjects (name, code, priority, color, description, target_hours, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.Name, in.Code, in.Priority, in.Color, in.Description, in.TargetHours, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert subject: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetSubject(id)
}

func (s *Store) GetSubject(id int64) (*Subject, error) {
	sub := &Subject{}
	var createdAt string
	err := s.db.QueryRow(
		`SELECT id, name, code, priority, color, description, target_hours, created_at
		 FROM subjects WHERE id = ?`, id,
	).Scan(&sub.ID, &sub.Name, &sub.Code, &sub.Priority, &sub.Color, &sub.Description, &sub.TargetHours, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get subject %d: %w", id, err)
	}
	sub.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return sub, nil
}

// ListSubjects returns the catalog in creation order.
func (s *Store) ListSubjects() ([]Subject, error) {
	rows, err := s.db.Query(
		`SELECT id, name, code, priority, color, description, target_hours, created_at
		 FROM subjects ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []Subject
	for rows.Next() {
		var sub Subject
		var createdAt string
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Code, &sub.Priority, &sub.Color, &sub.Description, &sub.TargetHours, &createdAt); err != nil {
			return nil, err
		}
		sub.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		subjects = append(subjects, sub)
	}
	return subjects, rows.Err()
}

func (s *Store) UpdateSubject(id int64, in SubjectInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return ErrNameRequired
	}
	if in.Code == "" {
		in.Code = defaultSubjectCode(in.Name)
	}
	_, err := s.db.Exec(
		`UPDATE subjects SET name = ?, code = ?, priority = ?, color = ?, description = ?, target_hours = ?
		 WHERE id = ?`,
		in.Name, in.Code, in.Priority, in.Color, in.Description, in.TargetHours, id,
	)
	return err
}

// DeleteSubject removes a subject. Tasks and schedules referencing the
// subject by name keep their now-dangling references.
func (s *Store) DeleteSubject(id int64) error {
	_, err := s.db.Exec(`DELETE FROM subjects WHERE id = ?`, id)
	return err
}
