package whttp

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// MinPace is the smallest delay allowed between paced requests.
const MinPace = 500 * time.Millisecond

// Pacer spaces sequential requests to the same server by a fixed delay.
// The first Wait returns immediately. Calling Done after a request restarts
// the delay from the moment the response was handled.
type Pacer struct {
	limiter *rate.Limiter
	delay   time.Duration
}

// NewPacer returns a Pacer for the given delay, floored at MinPace.
func NewPacer(delay time.Duration) *Pacer {
	if delay < MinPace {
		delay = MinPace
	}
	return &Pacer{
		limiter: rate.NewLimiter(rate.Every(delay), 1),
		delay:   delay,
	}
}

// Wait blocks until the next request may be sent.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Done marks the end of the current request. The next Wait blocks for the
// full delay counted from now.
func (p *Pacer) Done() {
	p.limiter = rate.NewLimiter(rate.Every(p.delay), 1)
	p.limiter.Allow()
}

// Delay reports the effective inter-request delay.
func (p *Pacer) Delay() time.Duration {
	return p.delay
}
