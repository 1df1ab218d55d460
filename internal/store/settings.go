package store

import (
	"fmt"
	"strconv"
)

// Setting keys. Counters live in the same table (see counters.go).
const (
	KeyTheme         = "theme"
	KeyAccentColor   = "accent_color"
	KeyNotifications = "notifications"
	KeyAlertLeadMin  = "alert_lead_min"
	KeyFocusMin      = "focus_min"
	KeyShortBreakMin = "short_break_min"
	KeyLongBreakMin  = "long_break_min"
	KeyWeekStart     = "week_start"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var st Setting
		if err := rows.Scan(&st.Key, &st.Value); err != nil {
			return nil, err
		}
		settings = append(settings, st)
	}
	return settings, rows.Err()
}

// SettingInt reads a numeric setting, returning fallback when the key is
// absent or not a number.
func (s *Store) SettingInt(key string, fallback int) int {
	v, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// SettingBool treats "1" and "true" as true, anything else as false.
func (s *Store) SettingBool(key string, fallback bool) bool {
	v, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	return v == "1" || v == "true"
}
