// Package beeep delivers desktop notifications for due reminders.
package beeep

import (
	"github.com/gen2brain/beeep"
	"github.com/nekyl/twob"
)

// Ensure Notifier implements twob.Notifier at compile time.
var _ twob.Notifier = (*Notifier)(nil)

// Notifier implements twob.Notifier using the platform notification system.
type Notifier struct{}

// NewNotifier creates a new Notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Notify shows a desktop notification with the given title and message.
func (n *Notifier) Notify(title, message string) error {
	if err := beeep.Notify(title, message, ""); err != nil {
		return twob.Errorf(twob.EUNAVAILABLE, "could not deliver notification: %v", err)
	}
	return nil
}
