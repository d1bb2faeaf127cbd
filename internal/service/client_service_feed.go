// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync"

	"github.com/MKhiriev/go-budget-keeper/internal/adapter"
	"github.com/MKhiriev/go-budget-keeper/internal/logger"
	"github.com/MKhiriev/go-budget-keeper/models"
)

type changeFeedWorker struct {
	feed   adapter.ChangeFeed
	engine SyncEngine

	logger *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewChangeFeedWorker creates a worker that subscribes to the server's change
// feed and applies every received change through engine.ApplyRemoteChange.
// Reconnecting after transport failures is the feed's job; the worker only
// owns the goroutine lifecycle. Idle until Start is called.
func NewChangeFeedWorker(feed adapter.ChangeFeed, engine SyncEngine, logger *logger.Logger) ChangeFeedWorker {
	return &changeFeedWorker{feed: feed, engine: engine, logger: logger}
}

// Start implements ChangeFeedWorker. It stops any previous subscription, then
// launches a background goroutine that blocks inside the feed subscription.
// The goroutine exits when ctx is cancelled or Stop is called.
func (w *changeFeedWorker) Start(ctx context.Context) {
	w.Stop()

	w.mu.Lock()
	feedCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()

		err := w.feed.Subscribe(feedCtx, func(change models.RemoteChange) {
			if applyErr := w.engine.ApplyRemoteChange(feedCtx, change); applyErr != nil {
				w.logger.Warn().Err(applyErr).
					Str("collection", change.Collection.String()).
					Str("record_id", change.Record.ID).
					Str("func", "changeFeedWorker.Start").
					Msg("apply remote change failed")
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Warn().Err(err).
				Str("func", "changeFeedWorker.Start").
				Msg("change feed subscription ended")
		}
	}()
}

// Stop implements ChangeFeedWorker. It cancels the background goroutine's
// context and blocks until the goroutine has fully exited. Safe to call when
// the worker is not running (no-op in that case).
func (w *changeFeedWorker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}
