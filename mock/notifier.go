package mock

import "github.com/nekyl/twob"

var _ twob.Notifier = (*Notifier)(nil)

// Notifier is a mock implementation of twob.Notifier.
type Notifier struct {
	NotifyFn func(title, message string) error
}

func (n *Notifier) Notify(title, message string) error {
	return n.NotifyFn(title, message)
}
