// Package health aggregates component liveness for the storage
// subsystem. Components expose HealthPing; the checker fans a bounded
// ping out to each and caches the combined verdict.
package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/rs/zerolog"
)

// HealthPinger is implemented by components that can verify their own
// connectivity. HealthPing returns nil when the component is healthy.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}

// Component is a named pinger registered with the checker.
type Component struct {
	Name   string
	Pinger HealthPinger
}

// Checker pings registered components and caches the last verdict.
type Checker struct {
	components []Component
	timeout    time.Duration
	healthy    atomic.Bool
	log        zerolog.Logger
}

func NewChecker(log zerolog.Logger, timeout time.Duration, components ...Component) *Checker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Checker{components: components, timeout: timeout, log: log}
}

// IsHealthy returns the cached verdict of the last CheckNow.
func (c *Checker) IsHealthy() bool { return c.healthy.Load() }

// CheckNow pings every component within the configured timeout and
// returns the first failure. State transitions are logged once.
func (c *Checker) CheckNow(ctx context.Context) error {
	var failed error
	for _, comp := range c.components {
		pctx, cancel := context.WithTimeout(ctx, c.timeout)
		err := comp.Pinger.HealthPing(pctx)
		cancel()
		if err != nil {
			failed = goerr.Wrap(err, "component unhealthy", goerr.V("component", comp.Name))
			break
		}
	}

	prev := c.healthy.Swap(failed == nil)
	if failed == nil && !prev {
		c.log.Info().Msg("storage health: UP")
	}
	if failed != nil && prev {
		c.log.Error().Err(failed).Msg("storage health: DOWN")
	}
	return failed
}

// Start re-evaluates health on the given interval until ctx is done.
// The first check runs immediately.
func (c *Checker) Start(ctx context.Context, interval time.Duration) {
	_ = c.CheckNow(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = c.CheckNow(ctx)
		}
	}
}
