// Package cron runs the reminder watcher: a scheduler that periodically
// finds due reminders and delivers their notifications.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/nekyl/twob"
	"github.com/robfig/cron/v3"
)

// checkSpec runs the due-reminder sweep once a minute.
const checkSpec = "* * * * *"

// Watcher periodically sweeps for due reminders and notifies.
type Watcher struct {
	reminders twob.ReminderService
	notifier  twob.Notifier
	logger    *slog.Logger
	cron      *cron.Cron

	// Now is the clock used to decide what is due. Tests override it.
	Now func() time.Time
}

// NewWatcher creates a new Watcher.
func NewWatcher(reminders twob.ReminderService, notifier twob.Notifier, logger *slog.Logger) *Watcher {
	return &Watcher{
		reminders: reminders,
		notifier:  notifier,
		logger:    logger,
		cron:      cron.New(),
		Now:       time.Now,
	}
}

// Start registers the minutely sweep and starts the scheduler loop. An
// immediate sweep runs first so reminders that came due while the watcher
// was down are not delayed another minute.
func (w *Watcher) Start(ctx context.Context) error {
	if _, err := w.Sweep(ctx); err != nil {
		return err
	}
	if _, err := w.cron.AddFunc(checkSpec, func() {
		if _, err := w.Sweep(ctx); err != nil {
			w.logger.Error("reminder sweep failed", "err", err)
		}
	}); err != nil {
		return twob.Errorf(twob.EINTERNAL, "could not schedule reminder sweep: %v", err)
	}
	w.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (w *Watcher) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
}

// Sweep finds due, undone, unnotified reminders, notifies each, and marks
// them notified. Returns how many notifications were delivered. A failed
// delivery leaves the reminder unnotified so the next sweep retries it.
func (w *Watcher) Sweep(ctx context.Context) (int, error) {
	now := w.Now()
	pending := false
	reminders, err := w.reminders.FindReminders(ctx, twob.ReminderFilter{
		Done:      &pending,
		Notified:  &pending,
		DueBefore: &now,
	})
	if err != nil {
		return 0, err
	}

	notified := 0
	for _, reminder := range reminders {
		if err := w.notifier.Notify("🔔 Reminder from 2B", reminder.Task); err != nil {
			w.logger.Warn("notification delivery failed",
				"reminder_id", reminder.ID,
				"err", err,
			)
			continue
		}
		if err := w.reminders.MarkNotified(ctx, reminder.ID); err != nil {
			w.logger.Warn("could not mark reminder notified",
				"reminder_id", reminder.ID,
				"err", err,
			)
			continue
		}
		notified++
		w.logger.Info("reminder notified",
			"reminder_id", reminder.ID,
			"due", reminder.NotifyAt,
		)
	}
	return notified, nil
}
