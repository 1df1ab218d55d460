// Package timer implements the Pomodoro countdown state machine. The timer
// is tick-driven: the UI owns the 1-second clock and calls Tick, so the
// machine itself is deterministic and synchronous. Countdown state is not
// persisted; only the cumulative session counter and streak survive a
// restart, through the store.
package timer

import (
	"fmt"
	"time"

	"github.com/sadopc/studytracker/internal/store"
)

type Mode string

const (
	ModeFocus      Mode = "focus"
	ModeShortBreak Mode = "shortBreak"
	ModeLongBreak  Mode = "longBreak"
)

var modeLabels = map[Mode]string{
	ModeFocus:      "Focus Time",
	ModeShortBreak: "Short Break",
	ModeLongBreak:  "Long Break",
}

// Timer is the Pomodoro state machine. A completed focus session increments
// the persisted pomodoro count and touches the daily streak; every 4th
// session earns a long break.
type Timer struct {
	store *store.Store

	mode      Mode
	remaining int // seconds
	running   bool

	focusMin      int
	shortBreakMin int
	longBreakMin  int
}

// New builds a timer in focus mode with durations loaded from settings.
func New(s *store.Store) *Timer {
	t := &Timer{store: s, mode: ModeFocus}
	t.focusMin = s.SettingInt(store.KeyFocusMin, 25)
	t.shortBreakMin = s.SettingInt(store.KeyShortBreakMin, 5)
	t.longBreakMin = s.SettingInt(store.KeyLongBreakMin, 15)
	t.remaining = t.focusMin * 60
	return t
}

// Start begins the countdown. No-op while already running, which keeps a
// repeated start from stacking duplicate countdowns.
func (t *Timer) Start() {
	if t.running {
		return
	}
	t.running = true
}

// Pause stops the countdown, preserving the remaining time exactly.
func (t *Timer) Pause() {
	t.running = false
}

// Reset pauses and forces the machine back to a full focus session,
// discarding any in-progress break.
func (t *Timer) Reset() {
	t.Pause()
	t.mode = ModeFocus
	t.remaining = t.focusMin * 60
}

// Tick advances the countdown by one second. When the countdown reaches
// zero the session completes; Tick reports whether that happened so the
// caller can surface it.
func (t *Timer) Tick() (completed bool, err error) {
	if !t.running {
		return false, nil
	}
	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining <= 0 {
		return true, t.completeSession()
	}
	return false, nil
}

func (t *Timer) completeSession() error {
	t.Pause()

	if t.mode == ModeFocus {
		count, err := t.store.IncrementPomodoroCount()
		if err != nil {
			return fmt.Errorf("record focus session: %w", err)
		}
		if _, err := t.store.TouchStudyStreak(time.Now().Format(store.DateFormat)); err != nil {
			return fmt.Errorf("touch streak: %w", err)
		}

		if count%4 == 0 {
			t.mode = ModeLongBreak
			t.remaining = t.longBreakMin * 60
		} else {
			t.mode = ModeShortBreak
			t.remaining = t.shortBreakMin * 60
		}
		return nil
	}

	t.mode = ModeFocus
	t.remaining = t.focusMin * 60
	return nil
}

// SetFocusMinutes updates the focus duration. When the timer is idle in
// focus mode the displayed remaining time snaps to the new duration.
func (t *Timer) SetFocusMinutes(minutes int) {
	t.focusMin = minutes
	if t.mode == ModeFocus && !t.running {
		t.remaining = minutes * 60
	}
}

// SetShortBreakMinutes updates the short break duration. Does not affect a
// countdown already on screen.
func (t *Timer) SetShortBreakMinutes(minutes int) {
	t.shortBreakMin = minutes
}

func (t *Timer) SetLongBreakMinutes(minutes int) {
	t.longBreakMin = minutes
}

// ReloadSettings re-reads the configured durations from the store, applying
// the same idle-focus snap as SetFocusMinutes.
func (t *Timer) ReloadSettings() {
	t.SetFocusMinutes(t.store.SettingInt(store.KeyFocusMin, 25))
	t.SetShortBreakMinutes(t.store.SettingInt(store.KeyShortBreakMin, 5))
	t.SetLongBreakMinutes(t.store.SettingInt(store.KeyLongBreakMin, 15))
}

func (t *Timer) Mode() Mode     { return t.mode }
func (t *Timer) Running() bool  { return t.running }
func (t *Timer) Remaining() int { return t.remaining }

func (t *Timer) ModeLabel() string {
	return modeLabels[t.mode]
}

// Display renders the remaining time as MM:SS.
func (t *Timer) Display() string {
	return fmt.Sprintf("%02d:%02d", t.remaining/60, t.remaining%60)
}

// Progress reports the elapsed fraction of the current session, 0 through 1.
func (t *Timer) Progress() float64 {
	total := t.sessionSeconds()
	if total == 0 {
		return 0
	}
	return float64(total-t.remaining) / float64(total)
}

func (t *Timer) sessionSeconds() int {
	switch t.mode {
	case ModeShortBreak:
		return t.shortBreakMin * 60
	case ModeLongBreak:
		return t.longBreakMin * 60
	default:
		return t.focusMin * 60
	}
}

// TodayStudyTime derives studied time from the pomodoro counter at 25
// minutes per completed session.
func (t *Timer) TodayStudyTime() (hours, minutes int) {
	studied := t.store.PomodoroCount() * 25
	return studied / 60, studied % 60
}
