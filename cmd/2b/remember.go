package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/nekyl/twob"
)

// Run executes the remember add command.
func (c *RememberAddCmd) Run(deps *Dependencies) error {
	_ = deps.History.AddEntry(deps.Ctx, twob.RoleUser, "Add reminder: " + c.Text)

	parsed, err := deps.Parser.ParseReminder(deps.Ctx, c.Text)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", twob.ErrorMessage(err))
		return err
	}

	reminder := &twob.Reminder{
		OriginalRequest: parsed.OriginalRequest,
		Task:            parsed.Task,
		NotifyAt:        parsed.NotifyAt,
	}

	scheduledPart := ""
	if reminder.NotifyAt != nil {
		// A due time that has already passed (or is about to) is kept as a
		// plain note rather than scheduled.
		if reminder.NotifyAt.Before(deps.Now().Add(time.Minute)) {
			scheduledPart = fmt.Sprintf(". That time (%s) has already passed or is too close, so I saved it unscheduled. 🕰️",
				reminder.NotifyAt.Format("02/01/2006 15:04"))
			reminder.NotifyAt = nil
		} else {
			scheduledPart = fmt.Sprintf(" and scheduled a notification for %s.", reminder.NotifyAt.Format("02/01/2006 15:04"))
		}
	}

	if err := deps.Reminders.CreateReminder(deps.Ctx, reminder); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", twob.ErrorMessage(err))
		return err
	}

	msg := fmt.Sprintf("Noted! Reminder #%d: %q%s", reminder.ID, reminder.Task, scheduledPart)
	deps.Printer.Success("%s", msg)
	_ = deps.History.AddEntry(deps.Ctx, twob.RoleAssistant, msg)
	_ = deps.History.AddEntry(deps.Ctx, twob.RoleSystemEvent, fmt.Sprintf("Reminder added: ID %d, Task: %q, Scheduled: %v", reminder.ID, reminder.Task, reminder.NotifyAt))
	return nil
}

// Run executes the remember ls command.
func (c *RememberLsCmd) Run(deps *Dependencies) error {
	reminders, err := deps.Reminders.FindReminders(deps.Ctx, twob.ReminderFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", twob.ErrorMessage(err))
		return err
	}
	if len(reminders) == 0 {
		deps.Printer.Info("You have no reminders saved.")
		return nil
	}

	var pending, done []*twob.Reminder
	for _, r := range reminders {
		if r.Done {
			done = append(done, r)
		} else {
			pending = append(pending, r)
		}
	}
	if len(pending) == 0 && !c.All {
		deps.Printer.Info("No pending reminders. ✨")
		if len(done) > 0 {
			deps.Printer.Info("(use '2b remember ls --all' to see completed ones)")
		}
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTASK\tSTATUS\tCREATED\tSCHEDULED")
	for _, r := range pending {
		fmt.Fprintf(w, "%d\t%s\t⏳ pending\t%s\t%s\n",
			r.ID, r.Task, r.CreatedAt.Format("02/01/06 15:04"), scheduleColumn(r))
	}
	if c.All {
		for _, r := range done {
			fmt.Fprintf(w, "%d\t%s\t✔ done\t%s\t-\n", r.ID, r.Task, r.CreatedAt.Format("02/01/06 15:04"))
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if !c.All && len(done) > 0 {
		deps.Printer.Info("(use '2b remember ls --all' to see completed ones)")
	}
	return nil
}

func scheduleColumn(r *twob.Reminder) string {
	if r.NotifyAt == nil {
		return "-"
	}
	s := r.NotifyAt.Format("02/01/06 15:04")
	if r.Notified {
		s += " 🔔"
	}
	return s
}

// Run executes the remember done command.
func (c *RememberDoneCmd) Run(deps *Dependencies) error {
	_ = deps.History.AddEntry(deps.Ctx, twob.RoleUser, fmt.Sprintf("Mark reminder done: ID %d", c.ID))

	existing, err := deps.Reminders.FindReminderByID(deps.Ctx, c.ID)
	if err != nil {
		msg := fmt.Sprintf("I could not find a reminder with ID %d. 😢", c.ID)
		deps.Printer.Error("%s", msg)
		_ = deps.History.AddEntry(deps.Ctx, twob.RoleAssistant, msg)
		return err
	}
	if existing.Done {
		msg := fmt.Sprintf("Reminder %d (%q) was already done. 😉", c.ID, existing.Task)
		deps.Printer.Info("%s", msg)
		_ = deps.History.AddEntry(deps.Ctx, twob.RoleAssistant, msg)
		return nil
	}

	updated, err := deps.Reminders.MarkDone(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", twob.ErrorMessage(err))
		return err
	}
	msg := fmt.Sprintf("Marked reminder %d (%q) as done. ✅", updated.ID, updated.Task)
	deps.Printer.Success("%s", msg)
	_ = deps.History.AddEntry(deps.Ctx, twob.RoleAssistant, msg)
	_ = deps.History.AddEntry(deps.Ctx, twob.RoleSystemEvent, fmt.Sprintf("Reminder marked done: ID %d", c.ID))
	return nil
}

// Run executes the remember rm command.
func (c *RememberRmCmd) Run(deps *Dependencies) error {
	_ = deps.History.AddEntry(deps.Ctx, twob.RoleUser, "Delete reminder(s): " + c.Target)

	var msg string
	switch strings.ToLower(c.Target) {
	case "all":
		n, err := deps.Reminders.DeleteAllReminders(deps.Ctx)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", twob.ErrorMessage(err))
			return err
		}
		if n == 0 {
			deps.Printer.Info("You already had no reminders! 😊")
			return nil
		}
		msg = "All your reminders were deleted. 🧹"

	case "done":
		n, err := deps.Reminders.DeleteDoneReminders(deps.Ctx)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", twob.ErrorMessage(err))
			return err
		}
		if n == 0 {
			deps.Printer.Info("No completed reminders to delete. 💖")
			return nil
		}
		msg = fmt.Sprintf("%d completed reminder(s) deleted. ✨", n)

	default:
		var id int
		if _, err := fmt.Sscanf(c.Target, "%d", &id); err != nil {
			deps.Printer.Error("give me a reminder ID, 'all', or 'done'")
			return twob.Errorf(twob.EINVALID, "invalid target %q", c.Target)
		}
		existing, err := deps.Reminders.FindReminderByID(deps.Ctx, id)
		if err != nil {
			msg := fmt.Sprintf("I could not find a reminder with ID %d to delete. 😕", id)
			deps.Printer.Error("%s", msg)
			_ = deps.History.AddEntry(deps.Ctx, twob.RoleAssistant, msg)
			return err
		}
		if err := deps.Reminders.DeleteReminder(deps.Ctx, id); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", twob.ErrorMessage(err))
			return err
		}
		msg = fmt.Sprintf("Reminder %d (%q) deleted! 🗑️", id, existing.Task)
	}

	deps.Printer.Success("%s", msg)
	_ = deps.History.AddEntry(deps.Ctx, twob.RoleAssistant, msg)
	_ = deps.History.AddEntry(deps.Ctx, twob.RoleSystemEvent, fmt.Sprintf("Reminder(s) deleted: criterion %q.", c.Target))
	return nil
}

// Run executes the remember watch command. It keeps a minutely sweep
// running until interrupted.
func (c *RememberWatchCmd) Run(deps *Dependencies) error {
	ctx, stop := signal.NotifyContext(deps.Ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := deps.Watcher.Start(ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", twob.ErrorMessage(err))
		return err
	}
	deps.Printer.Info("watching for due reminders; press Ctrl-C to stop")

	<-ctx.Done()
	deps.Watcher.Stop()
	deps.Printer.Info("stopped watching")
	return nil
}
