package store

import "strconv"

// Counter keys, stored in the settings table alongside config.
const (
	KeyPomodoroCount = "pomodoro_count"
	KeyStudyStreak   = "study_streak"
	KeyLastStudyDate = "last_study_date"
)

// PomodoroCount returns the cumulative number of completed focus sessions.
func (s *Store) PomodoroCount() int {
	return s.SettingInt(KeyPomodoroCount, 0)
}

// IncrementPomodoroCount bumps the focus session counter and returns the new
// value.
func (s *Store) IncrementPomodoroCount() (int, error) {
	n := s.PomodoroCount() + 1
	if err := s.SetSetting(KeyPomodoroCount, strconv.Itoa(n)); err != nil {
		return 0, err
	}
	return n, nil
}

// StudyStreak returns the consecutive-day study counter.
func (s *Store) StudyStreak() int {
	return s.SettingInt(KeyStudyStreak, 0)
}

// LastStudyDate returns the DateFormat date of the last streak increment, or
// empty when the streak has never been touched.
func (s *Store) LastStudyDate() string {
	v, err := s.GetSetting(KeyLastStudyDate)
	if err != nil {
		return ""
	}
	return v
}

// TouchStudyStreak bumps the streak for the given date, at most once per
// calendar day and only after at least one focus session has ever completed.
// Returns whether the streak was incremented.
func (s *Store) TouchStudyStreak(today string) (bool, error) {
	if s.LastStudyDate() == today {
		return false, nil
	}
	if s.PomodoroCount() == 0 {
		return false, nil
	}
	if err := s.SetSetting(KeyStudyStreak, strconv.Itoa(s.StudyStreak()+1)); err != nil {
		return false, err
	}
	if err := s.SetSetting(KeyLastStudyDate, today); err != nil {
		return false, err
	}
	return true, nil
}
