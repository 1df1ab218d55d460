package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sadopc/studytracker/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedStore populates a store with one of everything.
func seedStore(t *testing.T, s *store.Store) {
	t.Helper()
	if _, err := s.CreateTask(store.TaskInput{Title: "Read chapter", Subject: "English", Priority: store.PriorityHigh, DueDate: "2026-09-10", EstimatedHours: 2}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateSchedule(store.ScheduleInput{Title: "Study block", Date: "2026-09-05", Subject: "English", StartTime: "09:00", EndTime: "10:30", Notes: "library"}); err != nil {
		t.Fatal(err)
	}
	s.SetSetting(store.KeyTheme, "light")
	s.IncrementPomodoroCount()
	s.IncrementPomodoroCount()
	s.TouchStudyStreak("2026-08-31")
}

// ============================================================
// Collect
// ============================================================

func TestCollect(t *testing.T) {
	s := newTestStore(t)
	seedStore(t, s)

	b, err := Collect(s)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Tasks) != 1 || b.Tasks[0].Title != "Read chapter" {
		t.Fatalf("unexpected tasks: %+v", b.Tasks)
	}
	if len(b.Schedules) != 1 || b.Schedules[0].StartTime != "09:00" {
		t.Fatalf("unexpected schedules: %+v", b.Schedules)
	}
	if len(b.Subjects) != 5 {
		t.Fatalf("expected the 5 starter subjects, got %d", len(b.Subjects))
	}
	if b.PomodoroCount != 2 || b.StudyStreak != 1 || b.LastStudyDate != "2026-08-31" {
		t.Fatalf("unexpected counters: %+v", b)
	}
	if b.Settings[store.KeyTheme] != "light" {
		t.Fatalf("unexpected settings: %+v", b.Settings)
	}
	if b.ExportDate == "" {
		t.Fatal("export date should be stamped")
	}
}

func TestCollectExcludesCountersFromSettings(t *testing.T) {
	s := newTestStore(t)
	s.IncrementPomodoroCount()

	b, err := Collect(s)
	if err != nil {
		t.Fatal(err)
	}
	// Counters travel as top-level fields, not in the settings map.
	for _, key := range []string{store.KeyPomodoroCount, store.KeyStudyStreak, store.KeyLastStudyDate} {
		if _, ok := b.Settings[key]; ok {
			t.Fatalf("counter %q should not appear in settings map", key)
		}
	}
}

// ============================================================
// JSON round trip
// ============================================================

func TestJSONRoundTrip(t *testing.T) {
	src := newTestStore(t)
	seedStore(t, src)

	path := filepath.Join(t.TempDir(), "backup.json")
	b, err := Collect(src)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteJSON(b, path); err != nil {
		t.Fatal(err)
	}

	restored, err := ReadJSON(path)
	if err != nil {
		t.Fatal(err)
	}

	dst := newTestStore(t)
	if err := Restore(dst, restored); err != nil {
		t.Fatal(err)
	}

	tasks, _ := dst.ListTasks(store.TaskFilter{})
	if len(tasks) != 1 || tasks[0].Title != "Read chapter" || tasks[0].EstimatedHours != 2 {
		t.Fatalf("tasks did not survive round trip: %+v", tasks)
	}
	entries, _ := dst.SchedulesOn("2026-09-05")
	if len(entries) != 1 || entries[0].Notes != "library" {
		t.Fatalf("schedules did not survive round trip: %+v", entries)
	}
	subjects, _ := dst.ListSubjects()
	if len(subjects) != 5 {
		t.Fatalf("subjects did not survive round trip: %d", len(subjects))
	}
	if dst.PomodoroCount() != 2 || dst.StudyStreak() != 1 {
		t.Fatalf("counters did not survive round trip: %d, %d", dst.PomodoroCount(), dst.StudyStreak())
	}
	theme, _ := dst.GetSetting(store.KeyTheme)
	if theme != "light" {
		t.Fatalf("settings did not survive round trip: %s", theme)
	}
}

func TestJSONDocumentShape(t *testing.T) {
	s := newTestStore(t)
	seedStore(t, s)

	path := filepath.Join(t.TempDir(), "backup.json")
	b, _ := Collect(s)
	if err := WriteJSON(b, path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(data)
	for _, key := range []string{`"tasks"`, `"schedules"`, `"subjects"`, `"settings"`, `"pomodoroCount"`, `"studyStreak"`, `"exportDate"`, `"dueDate"`, `"estimatedTime"`, `"startTime"`, `"targetHours"`} {
		if !strings.Contains(doc, key) {
			t.Fatalf("document missing %s", key)
		}
	}
}

func TestReadJSONMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte("{not json"), 0o644)

	if _, err := ReadJSON(path); err == nil {
		t.Fatal("expected error for malformed backup")
	}
}

func TestReadJSONMissingFile(t *testing.T) {
	if _, err := ReadJSON(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestRestoreEmptyBackupReseeds(t *testing.T) {
	dst := newTestStore(t)
	dst.CreateTask(store.TaskInput{Title: "Doomed"})

	// Minimal document: no collections, no settings.
	if err := Restore(dst, &Backup{}); err != nil {
		t.Fatal(err)
	}

	tasks, _ := dst.ListTasks(store.TaskFilter{})
	if tasks != nil {
		t.Fatal("restore should clear existing tasks")
	}
	subjects, _ := dst.ListSubjects()
	if len(subjects) != 5 {
		t.Fatalf("empty backup should reseed subjects, got %d", len(subjects))
	}
	focus, _ := dst.GetSetting(store.KeyFocusMin)
	if focus != "25" {
		t.Fatalf("missing settings should fall back to defaults, got %s", focus)
	}
}

func TestDefaultBackupPath(t *testing.T) {
	path, err := DefaultBackupPath()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(filepath.Base(path), "smart-tracker-backup-") {
		t.Fatalf("unexpected backup name: %s", path)
	}
	if !strings.HasSuffix(path, ".json") {
		t.Fatalf("expected .json suffix: %s", path)
	}
}

// ============================================================
// CSV
// ============================================================

func TestTasksToCSV(t *testing.T) {
	s := newTestStore(t)
	s.CreateTask(store.TaskInput{Title: "Essay, final", Subject: "English", DueDate: "2026-09-10", EstimatedHours: 2.5})
	tasks, _ := s.ListTasks(store.TaskFilter{})

	path := filepath.Join(t.TempDir(), "tasks.csv")
	if err := TasksToCSV(tasks, path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d records", len(records))
	}
	if records[0][0] != "ID" || records[0][6] != "Estimated (h)" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	// Commas in titles survive quoting.
	if records[1][1] != "Essay, final" || records[1][6] != "2.5" {
		t.Fatalf("unexpected row: %v", records[1])
	}
}

func TestTasksToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := TasksToCSV(nil, path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(data), "ID,Title") {
		t.Fatal("header should be written even with no tasks")
	}
}
