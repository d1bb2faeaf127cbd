// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package hub fans committed record changes out to connected change feed
// subscribers. Subscribers are grouped by owner scope, so a change written
// by one household member reaches the other members' devices and nobody
// else's.
package hub

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-budget-keeper/internal/logger"
	"github.com/MKhiriev/go-budget-keeper/models"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const (
	// changeBuffer bounds the publish queue. A full queue drops the change
	// instead of blocking the write path; clients recover the missed state
	// on their next full drain.
	changeBuffer = 128

	// writeTimeout bounds a single frame delivery to one subscriber.
	writeTimeout = 5 * time.Second
)

type scopedChange struct {
	scopeID string
	change  models.RemoteChange
}

// Hub delivers committed record changes to subscribed WebSocket clients.
//
// The HTTP layer upgrades a change feed request and hands the connection to
// [Hub.Attach]; record handlers report committed writes via [Hub.Publish].
// From attach until [Hub.Stop] the hub owns the connection: it keeps it
// alive, delivers the scope's changes as JSON frames and closes it on read
// or write failure.
type Hub struct {
	logger *logger.Logger

	mu     sync.RWMutex
	scopes map[string]map[*websocket.Conn]struct{}

	changes chan scopedChange

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	runOnce  sync.Once
	stopOnce sync.Once
}

// NewHub constructs a Hub. Call [Hub.Run] to start the broadcast loop.
func NewHub(logger *logger.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		logger:  logger,
		scopes:  make(map[string]map[*websocket.Conn]struct{}),
		changes: make(chan scopedChange, changeBuffer),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Run starts the broadcast loop. Subsequent calls are no-ops.
func (h *Hub) Run() {
	h.runOnce.Do(func() {
		h.wg.Add(1)
		go h.broadcastLoop()
	})
}

// Attach registers conn as a subscriber of scopeID and takes ownership of
// the connection. The caller must not use conn afterwards.
func (h *Hub) Attach(scopeID string, conn *websocket.Conn) {
	if h.ctx.Err() != nil {
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	h.mu.Lock()
	subs, ok := h.scopes[scopeID]
	if !ok {
		subs = make(map[*websocket.Conn]struct{})
		h.scopes[scopeID] = subs
	}
	subs[conn] = struct{}{}
	count := len(subs)
	h.mu.Unlock()

	h.logger.Debug().Str("func", "Hub.Attach").Str("scopeID", scopeID).Int("subscribers", count).Msg("change feed subscriber attached")

	h.wg.Add(1)
	go h.readLoop(scopeID, conn)
}

// Publish enqueues change for delivery to scopeID's subscribers.
// It never blocks.
func (h *Hub) Publish(scopeID string, change models.RemoteChange) {
	select {
	case h.changes <- scopedChange{scopeID: scopeID, change: change}:
	case <-h.ctx.Done():
	default:
		h.logger.Warn().Str("func", "Hub.Publish").Str("scopeID", scopeID).Msg("change queue full, dropping broadcast")
	}
}

// Stop terminates the broadcast loop, closes every subscriber connection
// and waits for the hub's goroutines to finish. Subsequent calls are no-ops.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		h.cancel()

		h.mu.Lock()
		for scopeID, subs := range h.scopes {
			for conn := range subs {
				_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
			}
			delete(h.scopes, scopeID)
		}
		h.mu.Unlock()

		h.wg.Wait()
	})
}

// SubscriberCount reports the number of connections attached under scopeID.
func (h *Hub) SubscriberCount(scopeID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.scopes[scopeID])
}

func (h *Hub) broadcastLoop() {
	defer h.wg.Done()

	for {
		select {
		case <-h.ctx.Done():
			return
		case sc := <-h.changes:
			h.deliver(sc.scopeID, sc.change)
		}
	}
}

// deliver writes the change to every subscriber of the scope. The subscriber
// set is snapshotted first so a slow connection never blocks Attach.
func (h *Hub) deliver(scopeID string, change models.RemoteChange) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.scopes[scopeID]))
	for conn := range h.scopes[scopeID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		writeCtx, cancel := context.WithTimeout(h.ctx, writeTimeout)
		err := wsjson.Write(writeCtx, conn, change)
		cancel()

		if err != nil {
			h.logger.Debug().Err(err).Str("func", "Hub.deliver").Str("scopeID", scopeID).Msg("subscriber write failed, detaching")
			h.detach(scopeID, conn, websocket.StatusNormalClosure)
		}
	}
}

// readLoop drains inbound frames to notice disconnects early; subscribers
// are not expected to send anything.
func (h *Hub) readLoop(scopeID string, conn *websocket.Conn) {
	defer h.wg.Done()

	for {
		if _, _, err := conn.Read(h.ctx); err != nil {
			h.detach(scopeID, conn, websocket.StatusNormalClosure)
			return
		}
	}
}

func (h *Hub) detach(scopeID string, conn *websocket.Conn, code websocket.StatusCode) {
	h.mu.Lock()
	subs, ok := h.scopes[scopeID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, exists := subs[conn]; !exists {
		h.mu.Unlock()
		return
	}

	delete(subs, conn)
	if len(subs) == 0 {
		delete(h.scopes, scopeID)
	}
	count := len(subs)
	h.mu.Unlock()

	_ = conn.Close(code, "")
	h.logger.Debug().Str("func", "Hub.detach").Str("scopeID", scopeID).Int("subscribers", count).Msg("change feed subscriber detached")
}
