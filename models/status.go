package models

import "time"

// SyncStatusReport is the point-in-time status surface exposed to
// presentation layers.
type SyncStatusReport struct {
	// Online reports current connectivity to the remote store.
	Online bool `json:"online"`

	// Syncing reports whether a drain pass is running right now.
	Syncing bool `json:"syncing"`

	// PendingCount is the number of queued intents awaiting confirmation,
	// conflicted entries included.
	PendingCount int `json:"pending_count"`

	// ConflictCount is the number of queued intents awaiting manual
	// resolution.
	ConflictCount int `json:"conflict_count"`

	// LastSyncTime is when the last drain pass completed. Zero before the
	// first completed pass.
	LastSyncTime time.Time `json:"last_sync_time,omitzero"`
}
