package search

import (
	"context"
	"sync"

	"github.com/nekyl/twob"
	"golang.org/x/time/rate"
)

// DefaultHostRPS paces page fetches at one request per second per host.
// Results from one query frequently cluster on a handful of sites
// (stackoverflow.com, github.com), and scraped hosts throttle or block
// anything faster.
const DefaultHostRPS = 1.0

var _ twob.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter paces the pipeline's concurrent page fetches per host.
// Fetches to different hosts proceed in parallel; fetches to the same host
// queue behind a strict no-burst token bucket, so a result set dominated by
// one site degrades to sequential reads instead of hammering it.
type DomainLimiter struct {
	hosts sync.Map // host -> *rate.Limiter
	rps   float64
}

// NewDomainLimiter returns a limiter allowing rps requests per second to
// each host. DefaultHostRPS is the tuning the search pipeline uses.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{rps: rps}
}

// Wait blocks until a fetch to host is allowed, or until ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	limiter, ok := d.hosts.Load(host)
	if !ok {
		// Burst of 1: the first fetch to a host is immediate, every
		// later one waits out the full interval.
		limiter, _ = d.hosts.LoadOrStore(host, rate.NewLimiter(rate.Limit(d.rps), 1))
	}
	return limiter.(*rate.Limiter).Wait(ctx)
}
