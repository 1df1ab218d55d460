package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS tasks (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		title           TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		subject         TEXT NOT NULL DEFAULT '',
		priority        TEXT NOT NULL DEFAULT 'medium',
		status          TEXT NOT NULL DEFAULT 'pending',
		due_date        TEXT NOT NULL,
		estimated_hours REAL NOT NULL DEFAULT 1,
		created_at      TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_due    ON tasks(due_date);
	CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);

	CREATE TABLE IF NOT EXISTS schedules (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       TEXT NOT NULL,
		date        TEXT NOT NULL,
		subject     TEXT NOT NULL DEFAULT '',
		start_time  TEXT NOT NULL,
		end_time    TEXT NOT NULL,
		notes       TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_schedules_date ON schedules(date);

	CREATE TABLE IF NOT EXISTS subjects (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		name         TEXT NOT NULL UNIQUE,
		code         TEXT NOT NULL DEFAULT '',
		priority     TEXT NOT NULL DEFAULT 'medium',
		color        TEXT NOT NULL DEFAULT '#3b82f6',
		description  TEXT NOT NULL DEFAULT '',
		target_hours REAL NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	return s.seedDefaults()
}

// Seed statements. INSERT OR IGNORE keeps them safe to run on a populated
// database; reset and import reuse them inside their transactions.
const (
	seedSettingsSQL = `
	INSERT OR IGNORE INTO settings (key, value) VALUES
		('theme',           'dark'),
		('accent_color',    '#3b82f6'),
		('notifications',   '1'),
		('alert_lead_min',  '30'),
		('focus_min',       '25'),
		('short_break_min', '5'),
		('long_break_min',  '15'),
		('week_start',      'monday'),
		('pomodoro_count',  '0'),
		('study_streak',    '0'),
		('last_study_date', '');
	`

	seedSubjectsSQL = `
	INSERT OR IGNORE INTO subjects (name, code, priority, color, description, target_hours) VALUES
		('Mathematics', 'MATH', 'high',   '#ef4444', 'Mathematics and related topics',    8),
		('Science',     'SCI',  'high',   '#22c55e', 'Science subjects',                  6),
		('English',     'ENG',  'medium', '#3b82f6', 'English language and literature',   4),
		('History',     'HIST', 'medium', '#f59e0b', 'History and social studies',        3),
		('Programming', 'PROG', 'high',   '#8b5cf6', 'Computer programming and coding',  10);
	`
)

func (s *Store) seedDefaults() error {
	if _, err := s.db.Exec(seedSettingsSQL); err != nil {
		return err
	}
	_, err := s.db.Exec(seedSubjectsSQL)
	return err
}

// DefaultDBPath returns ~/.config/studytracker/studytracker.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "studytracker", "studytracker.db"), nil
}
