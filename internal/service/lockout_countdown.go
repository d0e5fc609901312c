package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/vault-gate/internal/logger"
	"github.com/MKhiriev/vault-gate/models"
)

// DefaultCountdownInterval is used when Start gets a non-positive interval.
const DefaultCountdownInterval = time.Second

type lockoutCountdown struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewLockoutCountdown creates an idle countdown. Nothing runs until Start is
// called.
func NewLockoutCountdown() LockoutCountdown {
	return &lockoutCountdown{}
}

// Start implements LockoutCountdown. The goroutine exits when ctx is
// cancelled, Stop is called, a poll fails or the session is no longer
// locked out.
func (c *lockoutCountdown) Start(ctx context.Context, session AuthSessionController, interval time.Duration, onTick func(models.SubmitResult)) <-chan error {
	if interval <= 0 {
		interval = DefaultCountdownInterval
	}

	c.Stop()

	c.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	c.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		defer c.wg.Done()
		defer close(done)
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				res, err := session.Poll(jobCtx)
				if err != nil {
					logger.FromContext(jobCtx).Debug().Err(err).Str("func", "lockoutCountdown.Start").Msg("countdown stopped")
					done <- err
					return
				}
				if onTick != nil {
					onTick(res)
				}
				if res.State != models.StateLockedOut {
					return
				}
			}
		}
	}()

	return done
}

// Stop implements LockoutCountdown. Safe to call when nothing is running.
func (c *lockoutCountdown) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
}
