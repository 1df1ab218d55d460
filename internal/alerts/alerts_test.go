package alerts

import (
	"testing"
	"time"

	"github.com/sadopc/studytracker/internal/store"
)

type fakeNotifier struct {
	calls []string
}

func (f *fakeNotifier) Notify(title, body string) {
	f.calls = append(f.calls, title)
}

func newTestScheduler(t *testing.T, now time.Time) (*Scheduler, *store.Store, *fakeNotifier) {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	n := &fakeNotifier{}
	sched := New(s, n)
	sched.now = func() time.Time { return now }
	return sched, s, n
}

// addTask inserts a pending task due on the given date.
func addTask(t *testing.T, s *store.Store, title, due string) {
	t.Helper()
	if _, err := s.CreateTask(store.TaskInput{Title: title, DueDate: due}); err != nil {
		t.Fatalf("create task: %v", err)
	}
}

func TestDeadlineAlertFiresInsideWindow(t *testing.T) {
	// 10 minutes before local midnight of Sept 1st, default 30 minute lead.
	now := time.Date(2026, 8, 31, 23, 50, 0, 0, time.Local)
	sched, s, n := newTestScheduler(t, now)
	addTask(t, s, "Submit essay", "2026-09-01")

	if err := sched.CheckDeadlineAlerts(); err != nil {
		t.Fatal(err)
	}
	if len(n.calls) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(n.calls))
	}
	if n.calls[0] != "Task Due Soon: Submit essay" {
		t.Fatalf("unexpected title: %s", n.calls[0])
	}
}

func TestDeadlineAlertOutsideWindow(t *testing.T) {
	// 40 minutes out is beyond the 30 minute lead.
	now := time.Date(2026, 8, 31, 23, 20, 0, 0, time.Local)
	sched, s, n := newTestScheduler(t, now)
	addTask(t, s, "Submit essay", "2026-09-01")

	sched.CheckDeadlineAlerts()
	if len(n.calls) != 0 {
		t.Fatalf("expected no notifications, got %d", len(n.calls))
	}
}

func TestDeadlineAlertRespectsLeadSetting(t *testing.T) {
	now := time.Date(2026, 8, 31, 23, 20, 0, 0, time.Local)
	sched, s, n := newTestScheduler(t, now)
	s.SetSetting(store.KeyAlertLeadMin, "60")
	addTask(t, s, "Submit essay", "2026-09-01")

	sched.CheckDeadlineAlerts()
	if len(n.calls) != 1 {
		t.Fatalf("40 minutes out with a 60 minute lead should fire, got %d", len(n.calls))
	}
}

func TestDeadlineAlertSkipsPastDue(t *testing.T) {
	// Already past the due instant; the window is (0, lead].
	now := time.Date(2026, 9, 1, 0, 10, 0, 0, time.Local)
	sched, s, n := newTestScheduler(t, now)
	addTask(t, s, "Overdue", "2026-09-01")

	sched.CheckDeadlineAlerts()
	if len(n.calls) != 0 {
		t.Fatal("past-due tasks should not notify")
	}
}

func TestDeadlineAlertSkipsCompleted(t *testing.T) {
	now := time.Date(2026, 8, 31, 23, 50, 0, 0, time.Local)
	sched, s, n := newTestScheduler(t, now)
	task, _ := s.CreateTask(store.TaskInput{Title: "Done already", DueDate: "2026-09-01"})
	s.CompleteTask(task.ID)

	sched.CheckDeadlineAlerts()
	if len(n.calls) != 0 {
		t.Fatal("completed tasks should not notify")
	}
}

func TestDeadlineAlertDisabled(t *testing.T) {
	now := time.Date(2026, 8, 31, 23, 50, 0, 0, time.Local)
	sched, s, n := newTestScheduler(t, now)
	s.SetSetting(store.KeyNotifications, "0")
	addTask(t, s, "Silent", "2026-09-01")

	if err := sched.CheckDeadlineAlerts(); err != nil {
		t.Fatal(err)
	}
	if len(n.calls) != 0 {
		t.Fatal("disabled notifications should suppress alerts")
	}
}

func TestDeadlineAlertRefiresEveryScan(t *testing.T) {
	now := time.Date(2026, 8, 31, 23, 50, 0, 0, time.Local)
	sched, s, n := newTestScheduler(t, now)
	addTask(t, s, "Nagging", "2026-09-01")

	sched.CheckDeadlineAlerts()
	sched.CheckDeadlineAlerts()
	if len(n.calls) != 2 {
		t.Fatalf("a task still inside the window re-notifies, got %d calls", len(n.calls))
	}
}

func TestCheckDailyStreak(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)
	sched, s, _ := newTestScheduler(t, now)
	s.IncrementPomodoroCount()

	bumped, err := sched.CheckDailyStreak()
	if err != nil {
		t.Fatal(err)
	}
	if !bumped || s.StudyStreak() != 1 {
		t.Fatalf("expected streak bump, streak=%d", s.StudyStreak())
	}

	// Second check the same day is a no-op.
	bumped, _ = sched.CheckDailyStreak()
	if bumped {
		t.Fatal("same-day streak check should not bump again")
	}
}

func TestStartStop(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)
	sched, s, n := newTestScheduler(t, now)
	addTask(t, s, "Due soon", "2026-09-01")
	s.SetSetting(store.KeyAlertLeadMin, "1440")

	if err := sched.Start(); err != nil {
		t.Fatal(err)
	}
	defer sched.Stop()

	// Start runs the deadline scan once immediately.
	if len(n.calls) != 1 {
		t.Fatalf("expected immediate scan on start, got %d calls", len(n.calls))
	}
}
