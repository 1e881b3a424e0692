package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a minimum spacing between outbound calls to one provider.
// It is safe for concurrent use: waiters are served one interval apart.
type Pacer struct {
	lim      *rate.Limiter
	interval time.Duration
}

// NewPacer returns a pacer allowing one call per interval. A zero interval
// disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{lim: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{lim: rate.NewLimiter(rate.Every(interval), 1), interval: interval}
}

// Wait blocks until the next call slot or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := p.lim.Wait(ctx); err != nil {
		return fmt.Errorf("pacer wait: %w", err)
	}
	return nil
}

func (p *Pacer) Interval() time.Duration { return p.interval }
