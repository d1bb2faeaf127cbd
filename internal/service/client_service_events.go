// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"sync"

	"github.com/MKhiriev/go-budget-keeper/internal/logger"
	"github.com/MKhiriev/go-budget-keeper/models"
)

// eventBus fans sync engine events out to subscribed listeners and retains a
// bounded tail for late subscribers. Dispatch is synchronous and isolated per
// listener.
type eventBus struct {
	logger *logger.Logger

	mu        sync.Mutex
	listeners map[int]func(models.SyncEvent)
	nextID    int
	ring      []models.SyncEvent
	ringSize  int
}

func newEventBus(ringSize int, logger *logger.Logger) *eventBus {
	if ringSize <= 0 {
		ringSize = 64
	}

	return &eventBus{
		logger:    logger,
		listeners: make(map[int]func(models.SyncEvent)),
		ringSize:  ringSize,
	}
}

// subscribe registers listener and returns its unsubscribe function.
// Unsubscribing twice is a no-op.
func (b *eventBus) subscribe(listener func(models.SyncEvent)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = listener
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

// publish appends event to the replay ring and delivers it to every listener
// registered at the time of the call.
func (b *eventBus) publish(event models.SyncEvent) {
	b.mu.Lock()
	b.ring = append(b.ring, event)
	if len(b.ring) > b.ringSize {
		trimmed := make([]models.SyncEvent, b.ringSize)
		copy(trimmed, b.ring[len(b.ring)-b.ringSize:])
		b.ring = trimmed
	}

	listeners := make([]func(models.SyncEvent), 0, len(b.listeners))
	for _, listener := range b.listeners {
		listeners = append(listeners, listener)
	}
	b.mu.Unlock()

	for _, listener := range listeners {
		b.dispatch(listener, event)
	}
}

// dispatch delivers one event to one listener, recovering a panic so a broken
// subscriber cannot break the sync loop.
func (b *eventBus) dispatch(listener func(models.SyncEvent), event models.SyncEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Interface("panic", r).
				Str("event_type", string(event.Type)).
				Str("func", "eventBus.dispatch").
				Msg("sync event listener panicked")
		}
	}()

	listener(event)
}

// recent returns a copy of the retained event tail, oldest first.
func (b *eventBus) recent() []models.SyncEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]models.SyncEvent, len(b.ring))
	copy(out, b.ring)
	return out
}
