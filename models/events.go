// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SyncEventType enumerates the discrete notifications the sync engine emits
// for presentation layers.
type SyncEventType string

const (
	// EventOnline fires when connectivity to the remote store is regained.
	EventOnline SyncEventType = "online"

	// EventOffline fires when connectivity to the remote store is lost.
	EventOffline SyncEventType = "offline"

	// EventSyncStart fires when a queue drain pass begins.
	EventSyncStart SyncEventType = "syncStart"

	// EventSyncComplete fires when a drain pass finishes, regardless of
	// whether individual entries failed.
	EventSyncComplete SyncEventType = "syncComplete"

	// EventSyncError fires when a drain pass aborts as a whole.
	EventSyncError SyncEventType = "syncError"

	// EventConflictDetected fires when a version conflict could not be
	// auto-resolved and the entry was marked for manual resolution.
	EventConflictDetected SyncEventType = "conflictDetected"

	// EventConflictResolved fires when a conflict was resolved, automatically
	// or by an explicit resolution command.
	EventConflictResolved SyncEventType = "conflictResolved"

	// EventRemoteUpdateApplied fires when an inbound remote change was
	// applied directly to the local cache.
	EventRemoteUpdateApplied SyncEventType = "remoteUpdateApplied"
)

// SyncEvent is a timestamped notification with a minimal payload.
// Events are delivered to each subscriber in isolation: a panicking listener
// is recovered and logged, never allowed to disturb the sync pass.
type SyncEvent struct {
	// Type is the notification class.
	Type SyncEventType `json:"type"`

	// At is when the event was emitted.
	At time.Time `json:"at"`

	// Collection and RecordID identify the affected record, when one exists.
	Collection Collection `json:"collection,omitempty"`
	RecordID   string     `json:"record_id,omitempty"`

	// PendingChangeID references the queue entry involved, when one exists.
	PendingChangeID int64 `json:"pending_change_id,omitempty"`

	// Message carries human-readable context (error text, decision summary).
	Message string `json:"message,omitempty"`
}
