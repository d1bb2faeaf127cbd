// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-budget-keeper/internal/adapter"
	"github.com/MKhiriev/go-budget-keeper/internal/logger"
)

const defaultProbeInterval = 30 * time.Second

type connectivityProbe struct {
	remote   adapter.RemoteStore
	engine   SyncEngine
	interval time.Duration

	logger *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewConnectivityProbe creates a probe that pings the remote store's health
// endpoint and feeds the result into engine.SetOnline. If interval is zero or
// negative it defaults to 30 seconds. The probe is idle until Start is called.
//
// The engine deduplicates flag flips, so a long offline stretch produces one
// offline event, not one per ping.
func NewConnectivityProbe(remote adapter.RemoteStore, engine SyncEngine, interval time.Duration, logger *logger.Logger) ConnectivityProbe {
	if interval <= 0 {
		interval = defaultProbeInterval
	}

	return &connectivityProbe{remote: remote, engine: engine, interval: interval, logger: logger}
}

// Start implements ConnectivityProbe. It stops any previous probe, checks
// connectivity once right away, then re-checks every interval until ctx is
// cancelled or Stop is called.
func (p *connectivityProbe) Start(ctx context.Context) {
	p.Stop()

	p.mu.Lock()
	probeCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		t := time.NewTicker(p.interval)
		defer t.Stop()

		p.check(probeCtx)
		for {
			select {
			case <-probeCtx.Done():
				return
			case <-t.C:
				p.check(probeCtx)
			}
		}
	}()
}

func (p *connectivityProbe) check(ctx context.Context) {
	err := p.remote.Health(ctx)
	if err != nil && ctx.Err() != nil {
		return // прерван остановкой, состояние не трогаем
	}

	if err != nil {
		p.logger.Debug().Err(err).
			Str("func", "connectivityProbe.check").
			Msg("health probe failed")
	}

	p.engine.SetOnline(ctx, err == nil)
}

// Stop implements ConnectivityProbe. It cancels the background goroutine's
// context and blocks until the goroutine has fully exited. Safe to call when
// the probe is not running (no-op in that case).
func (p *connectivityProbe) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}
