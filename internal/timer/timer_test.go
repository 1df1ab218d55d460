package timer

import (
	"testing"
	"time"

	"github.com/sadopc/studytracker/internal/store"
)

func newTestTimer(t *testing.T) (*Timer, *store.Store) {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return New(s), s
}

// tickUntilComplete drives the timer to the end of the current session.
func tickUntilComplete(t *testing.T, tm *Timer, maxTicks int) {
	t.Helper()
	for i := 0; i < maxTicks; i++ {
		completed, err := tm.Tick()
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if completed {
			return
		}
	}
	t.Fatalf("session did not complete within %d ticks", maxTicks)
}

func TestNewLoadsSettings(t *testing.T) {
	s, err := store.NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	s.SetSetting(store.KeyFocusMin, "50")

	tm := New(s)
	if tm.Mode() != ModeFocus {
		t.Fatalf("expected focus mode, got %s", tm.Mode())
	}
	if tm.Remaining() != 50*60 {
		t.Fatalf("expected 3000s remaining, got %d", tm.Remaining())
	}
	if tm.Running() {
		t.Fatal("new timer should be paused")
	}
}

func TestNewDefaults(t *testing.T) {
	tm, _ := newTestTimer(t)
	if tm.Remaining() != 25*60 {
		t.Fatalf("expected 1500s, got %d", tm.Remaining())
	}
	if tm.Display() != "25:00" {
		t.Fatalf("expected 25:00, got %s", tm.Display())
	}
}

func TestTickWhilePaused(t *testing.T) {
	tm, _ := newTestTimer(t)
	completed, err := tm.Tick()
	if err != nil {
		t.Fatal(err)
	}
	if completed {
		t.Fatal("paused timer should not complete")
	}
	if tm.Remaining() != 25*60 {
		t.Fatal("paused timer should not count down")
	}
}

func TestStartAndTick(t *testing.T) {
	tm, _ := newTestTimer(t)
	tm.Start()
	if !tm.Running() {
		t.Fatal("expected running")
	}

	tm.Tick()
	if tm.Remaining() != 25*60-1 {
		t.Fatalf("expected one second gone, got %d", tm.Remaining())
	}
	if tm.Display() != "24:59" {
		t.Fatalf("expected 24:59, got %s", tm.Display())
	}
}

func TestDoubleStartIsNoOp(t *testing.T) {
	tm, _ := newTestTimer(t)
	tm.Start()
	tm.Tick()
	remaining := tm.Remaining()

	tm.Start()
	if tm.Remaining() != remaining {
		t.Fatal("second start should not reset the countdown")
	}
}

func TestPausePreservesRemaining(t *testing.T) {
	tm, _ := newTestTimer(t)
	tm.Start()
	tm.Tick()
	tm.Tick()
	tm.Pause()

	remaining := tm.Remaining()
	tm.Tick()
	if tm.Remaining() != remaining {
		t.Fatal("remaining should be frozen while paused")
	}

	tm.Start()
	tm.Tick()
	if tm.Remaining() != remaining-1 {
		t.Fatal("resume should continue from the pause point")
	}
}

func TestFocusCompletionStartsShortBreak(t *testing.T) {
	tm, s := newTestTimer(t)
	tm.Start()
	tickUntilComplete(t, tm, 25*60)

	if tm.Mode() != ModeShortBreak {
		t.Fatalf("expected short break, got %s", tm.Mode())
	}
	if tm.Remaining() != 5*60 {
		t.Fatalf("expected 300s break, got %d", tm.Remaining())
	}
	if tm.Running() {
		t.Fatal("completion should pause the timer")
	}
	if s.PomodoroCount() != 1 {
		t.Fatalf("expected 1 session recorded, got %d", s.PomodoroCount())
	}
}

func TestFocusCompletionTouchesStreak(t *testing.T) {
	tm, s := newTestTimer(t)
	tm.Start()
	tickUntilComplete(t, tm, 25*60)

	if s.StudyStreak() != 1 {
		t.Fatalf("expected streak 1 after first session, got %d", s.StudyStreak())
	}
	if s.LastStudyDate() != time.Now().Format(store.DateFormat) {
		t.Fatalf("expected today as last study date, got %s", s.LastStudyDate())
	}
}

func TestEveryFourthSessionEarnsLongBreak(t *testing.T) {
	tm, s := newTestTimer(t)
	// Three sessions already on record; the next completion is the 4th.
	s.IncrementPomodoroCount()
	s.IncrementPomodoroCount()
	s.IncrementPomodoroCount()

	tm.Start()
	tickUntilComplete(t, tm, 25*60)

	if tm.Mode() != ModeLongBreak {
		t.Fatalf("expected long break on 4th session, got %s", tm.Mode())
	}
	if tm.Remaining() != 15*60 {
		t.Fatalf("expected 900s long break, got %d", tm.Remaining())
	}
}

func TestBreakCompletionReturnsToFocus(t *testing.T) {
	tm, _ := newTestTimer(t)
	tm.Start()
	tickUntilComplete(t, tm, 25*60) // focus -> short break

	tm.Start()
	tickUntilComplete(t, tm, 5*60) // short break -> focus

	if tm.Mode() != ModeFocus {
		t.Fatalf("expected focus after break, got %s", tm.Mode())
	}
	if tm.Remaining() != 25*60 {
		t.Fatalf("expected full focus session, got %d", tm.Remaining())
	}
}

func TestResetReturnsToFullFocus(t *testing.T) {
	tm, _ := newTestTimer(t)
	tm.Start()
	tickUntilComplete(t, tm, 25*60) // now in short break
	tm.Start()
	tm.Tick()

	tm.Reset()
	if tm.Mode() != ModeFocus || tm.Running() {
		t.Fatal("reset should return to a paused focus session")
	}
	if tm.Remaining() != 25*60 {
		t.Fatalf("expected full focus duration, got %d", tm.Remaining())
	}
}

func TestSetFocusMinutesSnapsWhenIdle(t *testing.T) {
	tm, _ := newTestTimer(t)
	tm.SetFocusMinutes(50)
	if tm.Remaining() != 50*60 {
		t.Fatalf("idle focus timer should snap to new duration, got %d", tm.Remaining())
	}
}

func TestSetFocusMinutesKeepsRunningCountdown(t *testing.T) {
	tm, _ := newTestTimer(t)
	tm.Start()
	tm.Tick()
	remaining := tm.Remaining()

	tm.SetFocusMinutes(50)
	if tm.Remaining() != remaining {
		t.Fatal("running countdown should not be disturbed")
	}
}

func TestReloadSettings(t *testing.T) {
	tm, s := newTestTimer(t)
	s.SetSetting(store.KeyFocusMin, "45")
	s.SetSetting(store.KeyShortBreakMin, "10")

	tm.ReloadSettings()
	if tm.Remaining() != 45*60 {
		t.Fatalf("expected reloaded focus duration, got %d", tm.Remaining())
	}

	// Short break duration applies to the next break.
	tm.Start()
	tickUntilComplete(t, tm, 45*60)
	if tm.Remaining() != 10*60 {
		t.Fatalf("expected 600s break, got %d", tm.Remaining())
	}
}

func TestProgress(t *testing.T) {
	tm, _ := newTestTimer(t)
	if tm.Progress() != 0 {
		t.Fatalf("fresh timer should report 0 progress, got %v", tm.Progress())
	}

	tm.Start()
	for i := 0; i < 750; i++ {
		tm.Tick()
	}
	p := tm.Progress()
	if p < 0.49 || p > 0.51 {
		t.Fatalf("expected ~0.5 progress, got %v", p)
	}
}

func TestTodayStudyTime(t *testing.T) {
	tm, s := newTestTimer(t)
	s.IncrementPomodoroCount()
	s.IncrementPomodoroCount()
	s.IncrementPomodoroCount()

	hours, minutes := tm.TodayStudyTime()
	if hours != 1 || minutes != 15 {
		t.Fatalf("expected 1h 15m for 3 sessions, got %dh %dm", hours, minutes)
	}
}
