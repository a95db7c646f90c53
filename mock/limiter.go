package mock

import (
	"context"

	"github.com/nekyl/twob"
)

var _ twob.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of twob.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
