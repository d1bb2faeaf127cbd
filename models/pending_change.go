// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// ChangeKind classifies a queued mutation intent.
type ChangeKind string

const (
	// ChangeCreate introduces a record the remote store has never seen.
	ChangeCreate ChangeKind = "create"

	// ChangeUpdate modifies an existing record at a known base version.
	ChangeUpdate ChangeKind = "update"

	// ChangeDelete removes a record (physically or via soft-delete,
	// depending on the collection policy).
	ChangeDelete ChangeKind = "delete"
)

// PendingChange is a durable mutation intent awaiting confirmation by the
// remote store. It is created in the same transaction as the local cache
// mutation it mirrors, and its payload snapshot is never modified afterwards:
// resolution either discards the entry or supersedes it.
type PendingChange struct {
	// ID is the locally assigned, monotonically increasing queue position.
	ID int64 `json:"id"`

	// Kind is the mutation class: create, update, or delete.
	Kind ChangeKind `json:"kind"`

	// Collection is the target collection of the mutation.
	Collection Collection `json:"collection"`

	// RecordID is the target record identifier.
	RecordID string `json:"record_id"`

	// ScopeID is the owner scope of the target record.
	ScopeID string `json:"scope_id"`

	// Payload is the snapshot of the record body as mutated locally.
	// Nil for delete intents.
	Payload map[string]any `json:"payload,omitempty"`

	// BaseVersion is the remote version the intent expects to supersede:
	// the record's version before the local mutation, 0 for creates.
	BaseVersion int64 `json:"base_version"`

	// CreatedAt orders the queue (FIFO per scope).
	CreatedAt time.Time `json:"created_at"`

	// RetryCount counts failed remote applications. Entries past the
	// configured ceiling stop retrying automatically but stay queued.
	RetryCount int `json:"retry_count"`

	// LastError describes the most recent failure, for operator visibility.
	LastError string `json:"last_error,omitempty"`

	// Synced marks the entry as confirmed; it awaits garbage collection.
	Synced bool `json:"synced"`

	// Conflict is populated when a remote version mismatch could not be
	// auto-resolved; the entry then needs manual resolution.
	Conflict *ChangeConflict `json:"conflict,omitempty"`
}

// ChangeConflict captures the remote side of an unresolved version conflict
// so both sides stay presentable until a human decides.
type ChangeConflict struct {
	// RemoteVersion is the version currently stored remotely.
	RemoteVersion int64 `json:"remote_version"`

	// RemoteData is the payload currently stored remotely.
	RemoteData map[string]any `json:"remote_data"`
}

// TableName returns the name of the database table
// associated with the PendingChange model.
func (p PendingChange) TableName() string {
	return "pending_changes"
}

// InConflict reports whether the entry awaits manual resolution.
func (p PendingChange) InConflict() bool {
	return p.Conflict != nil
}
