// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// SyncStatus reflects how a locally cached record relates to the
// authoritative remote store.
type SyncStatus string

const (
	// SyncStatusSynced means the local copy matches the last confirmed remote state.
	SyncStatusSynced SyncStatus = "synced"

	// SyncStatusPending means the record carries local changes that have not yet
	// been confirmed by the remote store.
	SyncStatusPending SyncStatus = "pending"

	// SyncStatusConflict means a remote version conflict was detected and the
	// record is frozen for manual resolution. The record stays readable.
	SyncStatusConflict SyncStatus = "conflict"
)

// Record is a versioned domain entity shared within an owner scope:
// a transaction, an asset, or a preference document.
//
// The identifier is stable across the local cache and the remote store.
// Version starts at 1 and increases by exactly 1 on every accepted mutation,
// local or remote; a record is never mutated without a version increment.
type Record struct {
	// ID is the unique identifier of the record, stable across devices.
	ID string `json:"id"`

	// ScopeID is the sharing boundary (household) the record belongs to.
	ScopeID string `json:"scope_id"`

	// Collection names the logical group the record belongs to.
	Collection Collection `json:"collection"`

	// Payload is the type-specific document body. Top-level fields of the
	// payload are the unit of conflict detection and field-level merge.
	Payload map[string]any `json:"payload"`

	// Version is the optimistic concurrency counter, ≥ 1 once stored.
	Version int64 `json:"version"`

	// UpdatedAt is the wall-clock time of the last accepted mutation.
	// Used by timestamp-based conflict strategies.
	UpdatedAt time.Time `json:"updated_at"`

	// Deleted marks a soft-deleted record for collections whose policy
	// preserves rows (assets). Physically deleted records never carry it.
	Deleted bool `json:"deleted,omitempty"`

	// SyncStatus is the local reconciliation state. Not sent to the server.
	SyncStatus SyncStatus `json:"sync_status,omitempty"`
}

// TableName returns the name of the database table
// associated with the Record model.
func (r Record) TableName() string {
	return "records"
}

// ClonePayload returns a deep copy of the record's payload so mutators and
// resolver inputs never alias cached state. Returns nil for a nil payload.
func (r Record) ClonePayload() map[string]any {
	return ClonePayload(r.Payload)
}

// ClonePayload deep-copies a payload document via a JSON round trip.
// Payloads are JSON documents by construction, so the round trip is lossless
// for every value the cache can hold.
func ClonePayload(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return map[string]any{}
	}

	copied := make(map[string]any, len(payload))
	if err := json.Unmarshal(raw, &copied); err != nil {
		return map[string]any{}
	}

	return copied
}
