package mock

import (
	"context"

	"github.com/nekyl/twob"
)

var _ twob.Dispatcher = (*Dispatcher)(nil)

// Dispatcher is a mock implementation of twob.Dispatcher.
type Dispatcher struct {
	DispatchFn func(ctx context.Context, query string) (twob.Decision, error)
}

func (d *Dispatcher) Dispatch(ctx context.Context, query string) (twob.Decision, error) {
	return d.DispatchFn(ctx, query)
}
