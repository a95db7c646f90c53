package mock

import (
	"context"

	"github.com/nekyl/twob"
)

var _ twob.Completer = (*Completer)(nil)

// Completer is a mock implementation of twob.Completer.
type Completer struct {
	CompleteFn func(ctx context.Context, req twob.CompletionRequest) (string, error)
}

func (c *Completer) Complete(ctx context.Context, req twob.CompletionRequest) (string, error) {
	return c.CompleteFn(ctx, req)
}
