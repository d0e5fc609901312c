// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/vault-gate/internal/logger"
	"github.com/MKhiriev/vault-gate/internal/service"
)

// DefaultAuditPruneInterval is used when the configured interval is not
// positive.
const DefaultAuditPruneInterval = time.Hour

// AuditPruner drops audit entries past the retention period, once when it
// starts and then every interval.
type AuditPruner struct {
	audit    service.AuditLog
	clock    service.Clock
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewAuditPruner(audit service.AuditLog, clock service.Clock, interval time.Duration) *AuditPruner {
	if interval <= 0 {
		interval = DefaultAuditPruneInterval
	}
	return &AuditPruner{audit: audit, clock: clock, interval: interval}
}

// Run implements Worker. A second Run restarts the pruner.
func (p *AuditPruner) Run(ctx context.Context) {
	p.Stop()

	p.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		t := time.NewTicker(p.interval)
		defer t.Stop()

		p.prune(jobCtx)
		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				p.prune(jobCtx)
			}
		}
	}()
}

// Stop implements Worker.
func (p *AuditPruner) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

func (p *AuditPruner) prune(ctx context.Context) {
	log := logger.FromContext(ctx)

	removed, err := p.audit.Prune(ctx, p.clock.Now())
	if err != nil {
		log.Err(err).Str("func", "AuditPruner.prune").Msg("failed to prune audit log")
		return
	}
	if removed > 0 {
		log.Info().Str("func", "AuditPruner.prune").Int("removed", removed).Msg("pruned audit log")
	}
}
