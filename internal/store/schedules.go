package store

import (
	"fmt"
	"strings"
	"time"
)

func (s *Store) CreateSchedule(in ScheduleInput) (*Schedule, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, ErrTitleRequired
	}
	if in.Date == "" || in.StartTime == "" || in.EndTime == "" {
		return nil, ErrTimesRequired
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO schedules (title, date, subject, start_time, end_time, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.Title, in.Date, in.Subject, in.StartTime, in.EndTime, in.Notes, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert schedule: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetSchedule(id)
}

func (s *Store) GetSchedule(id int64) (*Schedule, error) {
	e := &Schedule{}
	var createdAt string
	err := s.db.QueryRow(
		`SELECT id, title, date, subject, start_time, end_time, notes, created_at
		 FROM schedules WHERE id = ?`, id,
	).Scan(&e.ID, &e.Title, &e.Date, &e.Subject, &e.StartTime, &e.EndTime, &e.Notes, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get schedule %d: %w", id, err)
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return e, nil
}

// SchedulesOn returns all entries for a date, sorted by start time.
func (s *Store) SchedulesOn(date string) ([]Schedule, error) {
	rows, err := s.db.Query(
		`SELECT id, title, date, subject, start_time, end_time, notes, created_at
		 FROM schedules WHERE date = ? ORDER BY start_time, id`, date,
	)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	var entries []Schedule
	for rows.Next() {
		var e Schedule
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Title, &e.Date, &e.Subject, &e.StartTime, &e.EndTime, &e.Notes, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ScheduleDates returns the distinct dates that have entries, ascending.
func (s *Store) ScheduleDates() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT date FROM schedules ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("schedule dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (s *Store) TodaySchedules() ([]Schedule, error) {
	return s.SchedulesOn(time.Now().Format(DateFormat))
}

func (s *Store) UpdateSchedule(id int64, in ScheduleInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return ErrTitleRequired
	}
	if in.Date == "" || in.StartTime == "" || in.EndTime == "" {
		return ErrTimesRequired
	}
	_, err := s.db.Exec(
		`UPDATE schedules SET title = ?, date = ?, subject = ?, start_time = ?, end_time = ?, notes = ?
		 WHERE id = ?`,
		in.Title, in.Date, in.Subject, in.StartTime, in.EndTime, in.Notes, id,
	)
	return err
}

func (s *Store) DeleteSchedule(id int64) error {
	_, err := s.db.Exec(`DELETE FROM schedules WHERE id = ?`, id)
	return err
}

// CheckConflict reports whether the candidate overlaps any existing entry on
// the same date, excluding the entry with the candidate's own ID so edits can
// be checked in place. Intervals are half-open: [start, end) entries that
// merely touch do not conflict. The check is advisory; callers decide whether
// to override.
func (s *Store) CheckConflict(candidate Schedule) (bool, error) {
	candStart, candEnd, err := parseSpan(candidate.Date, candidate.StartTime, candidate.EndTime)
	if err != nil {
		return false, err
	}

	entries, err := s.SchedulesOn(candidate.Date)
	if err != nil {
		return false, err
	}

	for _, e := range entries {
		if e.ID == candidate.ID {
			continue
		}
		start, end, err := parseSpan(e.Date, e.StartTime, e.EndTime)
		if err != nil {
			return false, err
		}
		if candStart.Before(end) && candEnd.After(start) {
			return true, nil
		}
	}
	return false, nil
}

// parseSpan combines a DateFormat date with two ClockFormat times in the
// local zone.
func parseSpan(date, startClock, endClock string) (start, end time.Time, err error) {
	layout := DateFormat + " " + ClockFormat
	start, err = time.ParseInLocation(layout, date+" "+startClock, time.Local)
	if err != nil {
		return start, end, fmt.Errorf("parse start %q %q: %w", date, startClock, err)
	}
	end, err = time.ParseInLocation(layout, date+" "+endClock, time.Local)
	if err != nil {
		return start, end, fmt.Errorf("parse end %q %q: %w", date, endClock, err)
	}
	return start, end, nil
}
