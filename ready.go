package chessperm

import (
	"context"
	"math/rand"
	"time"
)

const (
	ReadyInitialInterval   = 2 * time.Second
	ReadyMaxBackoff        = 30 * time.Second
	ReadyBackoffMultiplier = 1.5
	ReadyJitterFactor      = 0.3
)

// WaitReady polls the service health endpoint until it reports ok or ctx
// ends. The first check is immediate. After each failure the interval grows
// by ReadyBackoffMultiplier up to ReadyMaxBackoff, with jitter. A zero
// interval uses ReadyInitialInterval.
func (c *Client) WaitReady(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = ReadyInitialInterval
	}

	backoff := interval
	for {
		err := c.Health(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		timer := time.NewTimer(readyWait(backoff))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		backoff = time.Duration(float64(backoff) * ReadyBackoffMultiplier)
		if backoff > ReadyMaxBackoff {
			backoff = ReadyMaxBackoff
		}
	}
}

func readyWait(interval time.Duration) time.Duration {
	jitter := time.Duration(rand.Float64() * ReadyJitterFactor * float64(interval))
	return interval + jitter
}
