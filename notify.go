package twob

// Notifier delivers local notifications for due reminders.
type Notifier interface {
	// Notify shows a notification with the given title and message.
	Notify(title, message string) error
}
