package twob

import (
	"context"
	"time"
)

// Reminder represents a stored note with an optional due time.
type Reminder struct {
	// User-facing numeric ID. IDs are re-sequenced after deletions so the
	// list always reads 1..N.
	ID int `json:"id"`

	// The exact text the user typed.
	OriginalRequest string `json:"originalRequest"`

	// The notification message phrased by the assistant.
	Task string `json:"task"`

	CreatedAt time.Time `json:"createdAt"`

	// NotifyAt is nil for plain notes without a due time.
	NotifyAt *time.Time `json:"notifyAt,omitempty"`

	Done bool `json:"done"`

	// Notified reports whether a due notification has already fired.
	Notified bool `json:"notified"`
}

// Validate returns an error if the reminder contains invalid fields.
func (r *Reminder) Validate() error {
	if r.OriginalRequest == "" {
		return Errorf(EINVALID, "reminder text required")
	}
	return nil
}

// Due reports whether the reminder is due at the given time.
// Reminders without a due time are never due.
func (r *Reminder) Due(now time.Time) bool {
	return r.NotifyAt != nil && !r.NotifyAt.After(now)
}

// ReminderFilter represents a filter for FindReminders.
type ReminderFilter struct {
	ID   *int  `json:"id"`
	Done *bool `json:"done"`

	// DueBefore selects reminders whose NotifyAt is at or before the given
	// time. Reminders without a due time never match.
	DueBefore *time.Time `json:"dueBefore"`

	// Notified filters on whether the due notification already fired.
	Notified *bool `json:"notified"`
}

// ReminderService represents a service for managing reminders.
type ReminderService interface {
	// CreateReminder creates a new reminder and assigns its ID.
	CreateReminder(ctx context.Context, reminder *Reminder) error

	// FindReminderByID retrieves a reminder by ID.
	// Returns ENOTFOUND if the reminder does not exist.
	FindReminderByID(ctx context.Context, id int) (*Reminder, error)

	// FindReminders retrieves reminders matching the filter, ordered by ID.
	FindReminders(ctx context.Context, filter ReminderFilter) ([]*Reminder, error)

	// MarkDone marks a reminder as completed.
	// Returns ENOTFOUND if the reminder does not exist.
	MarkDone(ctx context.Context, id int) (*Reminder, error)

	// MarkNotified records that the due notification fired.
	MarkNotified(ctx context.Context, id int) error

	// DeleteReminder removes a reminder and re-sequences remaining IDs.
	// Returns ENOTFOUND if the reminder does not exist.
	DeleteReminder(ctx context.Context, id int) error

	// DeleteAllReminders removes every reminder. Returns the number removed.
	DeleteAllReminders(ctx context.Context) (int, error)

	// DeleteDoneReminders removes completed reminders and re-sequences the
	// remaining IDs. Returns the number removed.
	DeleteDoneReminders(ctx context.Context) (int, error)
}

// ParsedReminder is the scheduling information extracted from free-form
// reminder text.
type ParsedReminder struct {
	// Task is the notification message, phrased in the current personality.
	Task string `json:"task"`

	// NotifyAt is nil when no date could be extracted.
	NotifyAt *time.Time `json:"notifyAt"`

	OriginalRequest string `json:"originalRequest"`
}

// ReminderParser extracts scheduling details from natural-language text.
type ReminderParser interface {
	// ParseReminder interprets relative dates ("tomorrow at 10", "in two
	// hours") against the current time. A parse that finds no date returns
	// a ParsedReminder with a nil NotifyAt rather than an error.
	ParseReminder(ctx context.Context, text string) (*ParsedReminder, error)
}
