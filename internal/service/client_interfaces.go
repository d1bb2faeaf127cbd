// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-budget-keeper/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_service_mock.go -package=mock

// ClientRecordService is the local query and command surface presentation
// layers work against. Reads come straight from the cache; mutations go
// through the version contract and stage a pending change for the sync
// engine in the same transaction. No method ever talks to the network.
type ClientRecordService interface {
	// Get returns one locally cached record, including soft-deleted ones.
	Get(ctx context.Context, collection models.Collection, recordID string) (models.Record, error)

	// List returns the owner scope's records of one collection, narrowed by
	// filter and ordered by last modification, newest first.
	List(ctx context.Context, collection models.Collection, filter models.RecordFilter) ([]models.Record, error)

	// Create stores a new record under a generated identifier and stages a
	// create intent. The returned record carries version 1.
	Create(ctx context.Context, collection models.Collection, payload map[string]any) (models.Record, error)

	// Update merges fields into the record's payload under the version
	// contract and stages an update intent; fields not named keep their
	// value. Returns [store.ErrVersionConflict] without staging anything
	// when expectedVersion is stale.
	Update(ctx context.Context, collection models.Collection, recordID string, expectedVersion int64, fields map[string]any) (models.Record, error)

	// Delete removes the record by the collection's delete policy and
	// stages a delete intent. Returns [store.ErrVersionConflict] without
	// staging anything when expectedVersion is stale.
	Delete(ctx context.Context, collection models.Collection, recordID string, expectedVersion int64) error
}

// ConflictResolver decides between a local and a remote version of the same
// record. Implementations are pure: they never touch storage or the network,
// which keeps every strategy unit-testable in isolation.
type ConflictResolver interface {
	// Resolve compares both payloads field by field and applies strategy.
	// The decision either carries a payload to adopt (Resolved) or reports
	// that a human has to decide (RequiresManual). Record metadata such as
	// versions and timestamps is never part of the field comparison.
	Resolve(input models.ConflictInput, strategy models.ConflictStrategy) models.ConflictDecision
}

// SyncEngine coordinates the offline-first reconciliation loop of one owner
// scope: draining the pending change queue to the remote store, resolving
// version conflicts, applying inbound remote changes, and notifying
// presentation layers about progress.
//
// Engines are constructed explicitly per scope and hold no global state.
type SyncEngine interface {
	// ProcessPendingChanges drains the pending change queue against the
	// remote store in queue order. The call is a guarded no-op while the
	// engine is offline or another drain pass is already running. Entries
	// that fail on the network stay queued with an incremented retry count;
	// entries whose conflicts need a human are marked and skipped. The pass
	// aborts as a whole only on local storage failures.
	ProcessPendingChanges(ctx context.Context) error

	// SetOnline flips the connectivity flag. Regaining connectivity emits
	// [models.EventOnline] and immediately drains the queue; losing it emits
	// [models.EventOffline]. Setting the current value again is a no-op.
	SetOnline(ctx context.Context, online bool)

	// Online reports the current connectivity flag.
	Online() bool

	// Status summarizes the engine for presentation: connectivity, whether a
	// drain pass is running, queue depth including conflicted entries, the
	// conflicted entry count, and the time of the last successful pass.
	Status(ctx context.Context) (models.SyncStatusReport, error)

	// Conflicts returns the queue entries awaiting manual resolution, oldest
	// first, each carrying both the local payload and the remote state
	// captured when the conflict was detected.
	Conflicts(ctx context.Context) ([]models.PendingChange, error)

	// ResolveConflict settles a conflicted queue entry by explicit command:
	// useRemote installs the captured remote state into the cache, otherwise
	// the local payload is re-staged to supersede the remote version on the
	// next drain pass. Emits [models.EventConflictResolved].
	ResolveConflict(ctx context.Context, changeID int64, useRemote bool) error

	// ApplyRemoteChange installs one inbound change from the server feed
	// into the local cache. If unconfirmed local changes exist for the same
	// record the change is deferred: the next drain pass reconciles through
	// the version contract instead of overwriting local intent.
	ApplyRemoteChange(ctx context.Context, change models.RemoteChange) error

	// Subscribe registers a listener for engine events and returns its
	// unsubscribe function. Listeners run synchronously on the emitting
	// goroutine and in isolation: a panicking listener is recovered and
	// logged, never allowed to disturb the sync pass.
	Subscribe(listener func(models.SyncEvent)) func()

	// Recent returns the retained tail of emitted events, oldest first, so a
	// late-attaching listener can catch up on what it missed.
	Recent() []models.SyncEvent
}

// ClientSyncJob periodically drains the pending change queue in the
// background. The job is idle until Start is called.
type ClientSyncJob interface {
	// Start stops any previously running job, then launches a background
	// goroutine that drains the queue on a ticker. The goroutine exits when
	// ctx is cancelled or Stop is called.
	Start(ctx context.Context)

	// Stop cancels the background goroutine and blocks until it has fully
	// exited. Safe to call when the job is not running.
	Stop()
}

// ConnectivityProbe watches the remote store's health endpoint and flips the
// sync engine between online and offline.
type ConnectivityProbe interface {
	// Start stops any previous probe, checks connectivity once immediately,
	// then re-checks on a ticker until ctx is cancelled or Stop is called.
	Start(ctx context.Context)

	// Stop cancels the background goroutine and blocks until it has fully
	// exited. Safe to call when the probe is not running.
	Stop()
}

// ChangeFeedWorker pumps the server's live change feed into the sync engine.
type ChangeFeedWorker interface {
	// Start launches a background goroutine that subscribes to the change
	// feed and applies every received change. The subscription reconnects on
	// its own; the goroutine exits when ctx is cancelled or Stop is called.
	Start(ctx context.Context)

	// Stop cancels the background goroutine and blocks until it has fully
	// exited. Safe to call when the worker is not running.
	Stop()
}
