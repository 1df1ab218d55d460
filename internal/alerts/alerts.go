// Package alerts owns the recurring deadline scan and the daily streak
// check. The scan runs on its own cron clock, independent of user actions;
// it reads state and notifies but never mutates tasks. A task inside the
// lead-time window is re-notified on every scan until it leaves the window.
package alerts

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sadopc/studytracker/internal/store"
)

// ScanInterval is how often the deadline scan wakes up.
const ScanInterval = 30 * time.Minute

// Notifier delivers a reminder to the user. Best effort; delivery failures
// are not reported back.
type Notifier interface {
	Notify(title, body string)
}

type Scheduler struct {
	store    *store.Store
	notifier Notifier
	cron     *cron.Cron

	now func() time.Time // stubbed in tests
}

func New(s *store.Store, n Notifier) *Scheduler {
	return &Scheduler{
		store:    s,
		notifier: n,
		cron:     cron.New(),
		now:      time.Now,
	}
}

// Start runs both checks once immediately, then schedules the deadline scan
// every ScanInterval.
func (s *Scheduler) Start() error {
	if err := s.CheckDeadlineAlerts(); err != nil {
		return err
	}
	if _, err := s.CheckDailyStreak(); err != nil {
		return err
	}

	spec := fmt.Sprintf("@every %ds", int(ScanInterval.Seconds()))
	if _, err := s.cron.AddFunc(spec, func() {
		s.CheckDeadlineAlerts()
	}); err != nil {
		return fmt.Errorf("schedule deadline scan: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for a running scan to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// CheckDeadlineAlerts notifies for every non-completed task whose due
// instant lies within (0, lead] of now. No-op when notifications are
// disabled. Due dates resolve to local midnight of the stored date.
func (s *Scheduler) CheckDeadlineAlerts() error {
	if !s.store.SettingBool(store.KeyNotifications, true) {
		return nil
	}

	lead := time.Duration(s.store.SettingInt(store.KeyAlertLeadMin, 30)) * time.Minute
	tasks, err := s.store.ListTasks(store.TaskFilter{})
	if err != nil {
		return err
	}

	now := s.now()
	for _, t := range tasks {
		if t.Status == store.StatusCompleted {
			continue
		}
		due, err := time.ParseInLocation(store.DateFormat, t.DueDate, time.Local)
		if err != nil {
			continue
		}
		diff := due.Sub(now)
		if diff > 0 && diff <= lead {
			s.notifier.Notify(
				"Task Due Soon: "+t.Title,
				"Due on "+due.Format("Jan 2, 2006"),
			)
		}
	}
	return nil
}

// CheckDailyStreak bumps the study streak at most once per calendar day,
// provided at least one focus session has ever completed.
func (s *Scheduler) CheckDailyStreak() (bool, error) {
	return s.store.TouchStudyStreak(s.now().Format(store.DateFormat))
}
