// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-budget-keeper/internal/adapter"
	"github.com/MKhiriev/go-budget-keeper/internal/config"
	"github.com/MKhiriev/go-budget-keeper/internal/logger"
	"github.com/MKhiriev/go-budget-keeper/internal/store"
	"github.com/MKhiriev/go-budget-keeper/models"
)

// engineState is the lifecycle phase of a drain pass. Connectivity is tracked
// separately because it can flip at any time, including mid-pass.
type engineState int

const (
	stateIdle engineState = iota
	stateSyncing
	stateError
)

type syncEngine struct {
	cache    store.RecordCache
	queue    store.PendingChangeQueue
	remote   adapter.RemoteStore
	resolver ConflictResolver

	scopeID    string
	strategy   models.ConflictStrategy
	retryLimit int

	logger *logger.Logger
	events *eventBus

	mu           sync.Mutex
	state        engineState
	online       bool
	lastSyncTime time.Time
}

// NewSyncEngine constructs a [SyncEngine] for the owner scope configured in
// syncCfg. The engine starts offline and idle; the connectivity probe is
// expected to flip it online, which triggers the first drain pass.
func NewSyncEngine(cache store.RecordCache, queue store.PendingChangeQueue, remote adapter.RemoteStore, resolver ConflictResolver, syncCfg config.ClientSync, logger *logger.Logger) SyncEngine {
	return &syncEngine{
		cache:      cache,
		queue:      queue,
		remote:     remote,
		resolver:   resolver,
		scopeID:    syncCfg.ScopeID,
		strategy:   syncCfg.Strategy,
		retryLimit: syncCfg.RetryLimit,
		logger:     logger,
		events:     newEventBus(syncCfg.EventBufferSize, logger),
	}
}

// ProcessPendingChanges implements [SyncEngine].
func (e *syncEngine) ProcessPendingChanges(ctx context.Context) error {
	e.mu.Lock()
	if !e.online || e.state == stateSyncing {
		e.mu.Unlock()
		return nil
	}
	e.state = stateSyncing
	e.mu.Unlock()

	e.emit(models.SyncEvent{Type: models.EventSyncStart})

	err := e.drainQueue(ctx)

	e.mu.Lock()
	if err != nil {
		e.state = stateError
	} else {
		e.state = stateIdle
		e.lastSyncTime = time.Now().UTC()
	}
	e.mu.Unlock()

	if err != nil {
		e.emit(models.SyncEvent{Type: models.EventSyncError, Message: err.Error()})
		return err
	}

	e.emit(models.SyncEvent{Type: models.EventSyncComplete})
	return nil
}

// drainQueue walks the pending queue oldest first. Entries targeting a record
// whose earlier entry did not get confirmed are skipped in this pass, so the
// per-record order of application is never violated. A failure of one entry
// never blocks entries of other records.
//
// The snapshot taken by ListPending can go stale mid-pass: resolving a
// conflict settles every queued entry of that record at once. Each entry is
// therefore re-read right before it is pushed, and entries that are no longer
// live are skipped instead of re-imposing a payload the resolution already
// discarded.
func (e *syncEngine) drainQueue(ctx context.Context) error {
	entries, err := e.queue.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("list pending changes: %w", err)
	}

	blocked := make(map[string]struct{})
	for _, snapshot := range entries {
		if err = ctx.Err(); err != nil {
			return err
		}

		key := recordKey(snapshot.Collection, snapshot.RecordID)
		if _, ok := blocked[key]; ok {
			continue
		}

		entry, liveErr := e.queue.GetByID(ctx, snapshot.ID)
		switch {
		case errors.Is(liveErr, store.ErrPendingChangeNotFound):
			continue
		case liveErr != nil:
			return fmt.Errorf("reload change %d: %w", snapshot.ID, liveErr)
		case entry.Synced, entry.InConflict():
			continue
		}

		if e.retryLimit > 0 && entry.RetryCount >= e.retryLimit {
			e.logger.Warn().
				Int64("change_id", entry.ID).
				Int("retry_count", entry.RetryCount).
				Str("func", "syncEngine.drainQueue").
				Msgf("%v, change needs operator attention", ErrRetryLimitExceeded)
			blocked[key] = struct{}{}
			continue
		}

		if err = e.applyChange(ctx, entry); err != nil {
			switch {
			case errors.Is(err, ErrNetworkFailure):
				if retryErr := e.queue.IncrementRetry(ctx, entry.ID, err.Error()); retryErr != nil {
					return fmt.Errorf("increment retry for change %d: %w", entry.ID, retryErr)
				}
				blocked[key] = struct{}{}

			case errors.Is(err, ErrManualResolutionRequired):
				blocked[key] = struct{}{}

			case errors.Is(err, store.ErrVersionConflict):
				// remote advanced between detection and resolution push;
				// the next pass resolves against the fresh state
				blocked[key] = struct{}{}

			default:
				return fmt.Errorf("apply change %d: %w", entry.ID, err)
			}
		}
	}

	if _, err = e.queue.GarbageCollectSynced(ctx); err != nil {
		return fmt.Errorf("garbage collect synced changes: %w", err)
	}

	return nil
}

func (e *syncEngine) applyChange(ctx context.Context, entry models.PendingChange) error {
	switch entry.Kind {
	case models.ChangeDelete:
		return e.pushDelete(ctx, entry)
	case models.ChangeCreate, models.ChangeUpdate:
		return e.pushWrite(ctx, entry)
	default:
		return fmt.Errorf("unknown change kind %q for change %d", entry.Kind, entry.ID)
	}
}

// pushDelete applies a queued delete intent remotely. Deletes run outside the
// version contract, so an already-absent remote record counts as success.
func (e *syncEngine) pushDelete(ctx context.Context, entry models.PendingChange) error {
	err := e.remote.Delete(ctx, entry.Collection, entry.RecordID)
	if err != nil && !errors.Is(err, adapter.ErrNotFound) {
		return mapAdapterError(err)
	}

	if err = e.queue.MarkSynced(ctx, entry.ID); err != nil {
		return fmt.Errorf("mark change %d synced: %w", entry.ID, err)
	}

	e.confirmRecordSynced(ctx, entry.Collection, entry.RecordID)
	return nil
}

// pushWrite applies a queued create or update intent remotely under the
// version contract. A version conflict goes through the resolver; a record
// that vanished remotely is surfaced as a manual conflict with no remote
// payload, so resolution can re-create or drop it.
func (e *syncEngine) pushWrite(ctx context.Context, entry models.PendingChange) error {
	record := models.Record{
		ID:         entry.RecordID,
		ScopeID:    entry.ScopeID,
		Collection: entry.Collection,
		Payload:    entry.Payload,
		UpdatedAt:  entry.CreatedAt,
	}

	_, err := e.remote.SetIfVersion(ctx, record, entry.BaseVersion)
	if err == nil {
		if err = e.queue.MarkSynced(ctx, entry.ID); err != nil {
			return fmt.Errorf("mark change %d synced: %w", entry.ID, err)
		}
		e.confirmRecordSynced(ctx, entry.Collection, entry.RecordID)
		return nil
	}

	var conflictErr *adapter.VersionConflictError
	switch {
	case errors.As(err, &conflictErr):
		return e.resolveRemoteConflict(ctx, entry, conflictErr)
	case errors.Is(err, adapter.ErrNotFound):
		return e.markManualConflict(ctx, entry, models.ChangeConflict{}, "record was deleted remotely")
	default:
		return mapAdapterError(err)
	}
}

// resolveRemoteConflict runs the configured strategy over the current local
// record and the remote state captured in the 409 response. An automatic
// decision is applied right away; otherwise the entry is frozen for manual
// resolution.
func (e *syncEngine) resolveRemoteConflict(ctx context.Context, entry models.PendingChange, remote *adapter.VersionConflictError) error {
	local, err := e.cache.Get(ctx, entry.Collection, entry.RecordID)
	if err != nil {
		return fmt.Errorf("load local record %s for resolution: %w", entry.RecordID, err)
	}

	input := models.ConflictInput{
		Collection:      entry.Collection,
		RecordID:        entry.RecordID,
		Local:           local.Payload,
		LocalTimestamp:  local.UpdatedAt,
		LocalVersion:    local.Version,
		Remote:          remote.CurrentPayload,
		RemoteTimestamp: remote.CurrentUpdatedAt,
		RemoteVersion:   remote.CurrentVersion,
	}

	decision := e.resolver.Resolve(input, e.strategy)
	if decision.RequiresManual {
		reason := fmt.Sprintf("%d field(s) in conflict, severity %s", len(decision.ConflictingFields), decision.Severity)
		return e.markManualConflict(ctx, entry, models.ChangeConflict{
			RemoteVersion: remote.CurrentVersion,
			RemoteData:    remote.CurrentPayload,
		}, reason)
	}

	if decision.Version > remote.CurrentVersion {
		return e.pushResolved(ctx, entry, local, decision)
	}

	return e.adoptRemote(ctx, entry, local, remote, decision)
}

// pushResolved writes the automatically resolved payload over the remote
// state it superseded. The push itself runs under the version contract, so a
// racing write on another device surfaces as one more conflict.
func (e *syncEngine) pushResolved(ctx context.Context, entry models.PendingChange, local models.Record, decision models.ConflictDecision) error {
	record := models.Record{
		ID:         entry.RecordID,
		ScopeID:    local.ScopeID,
		Collection: entry.Collection,
		Payload:    decision.Data,
		UpdatedAt:  time.Now().UTC(),
	}

	stored, err := e.remote.SetIfVersion(ctx, record, decision.Version-1)
	if err != nil {
		var again *adapter.VersionConflictError
		switch {
		case errors.As(err, &again):
			return store.ErrVersionConflict
		case errors.Is(err, adapter.ErrNotFound):
			return e.markManualConflict(ctx, entry, models.ChangeConflict{}, "record was deleted remotely")
		default:
			return mapAdapterError(err)
		}
	}

	if err = e.settleRecord(ctx, entry, stored); err != nil {
		return err
	}

	e.emit(models.SyncEvent{
		Type:            models.EventConflictResolved,
		Collection:      entry.Collection,
		RecordID:        entry.RecordID,
		PendingChangeID: entry.ID,
		Message:         fmt.Sprintf("resolved by %s at version %d", e.strategy, stored.Version),
	})
	return nil
}

// adoptRemote installs the remote side as the confirmed local state. Nothing
// is pushed: the remote store already holds the winning version.
func (e *syncEngine) adoptRemote(ctx context.Context, entry models.PendingChange, local models.Record, remote *adapter.VersionConflictError, decision models.ConflictDecision) error {
	adopted := models.Record{
		ID:         entry.RecordID,
		ScopeID:    local.ScopeID,
		Collection: entry.Collection,
		Payload:    decision.Data,
		Version:    decision.Version,
		UpdatedAt:  remote.CurrentUpdatedAt,
		Deleted:    remote.Deleted,
	}

	if err := e.settleRecord(ctx, entry, adopted); err != nil {
		return err
	}

	e.emit(models.SyncEvent{
		Type:            models.EventConflictResolved,
		Collection:      entry.Collection,
		RecordID:        entry.RecordID,
		PendingChangeID: entry.ID,
		Message:         fmt.Sprintf("resolved by %s, remote version %d adopted", e.strategy, decision.Version),
	})
	return nil
}

// settleRecord finishes an automatic resolution: every unsynced queue entry of
// the record is superseded by the resolved state, and the cache receives that
// state as confirmed.
func (e *syncEngine) settleRecord(ctx context.Context, entry models.PendingChange, confirmed models.Record) error {
	pending, err := e.queue.PendingForRecord(ctx, entry.Collection, entry.RecordID)
	if err != nil {
		return fmt.Errorf("list pending changes for record %s: %w", entry.RecordID, err)
	}
	for _, change := range pending {
		if err = e.queue.MarkSynced(ctx, change.ID); err != nil {
			return fmt.Errorf("mark change %d synced: %w", change.ID, err)
		}
	}

	confirmed.SyncStatus = models.SyncStatusSynced
	if err = e.cache.Put(ctx, confirmed); err != nil {
		return fmt.Errorf("install resolved record %s: %w", entry.RecordID, err)
	}

	return nil
}

// markManualConflict freezes entry for manual resolution and reports
// [ErrManualResolutionRequired] so the drain pass moves on to other records.
func (e *syncEngine) markManualConflict(ctx context.Context, entry models.PendingChange, conflict models.ChangeConflict, reason string) error {
	if err := e.queue.MarkConflict(ctx, entry.ID, conflict); err != nil {
		return fmt.Errorf("mark change %d conflicted: %w", entry.ID, err)
	}

	e.emit(models.SyncEvent{
		Type:            models.EventConflictDetected,
		Collection:      entry.Collection,
		RecordID:        entry.RecordID,
		PendingChangeID: entry.ID,
		Message:         reason,
	})

	return ErrManualResolutionRequired
}

// confirmRecordSynced flips the record to synced once no unsynced queue entry
// targets it anymore. Physically deleted records are simply gone, which is
// fine. The flip is best effort: a failure leaves the record pending and is
// retried implicitly by the next pass.
func (e *syncEngine) confirmRecordSynced(ctx context.Context, collection models.Collection, recordID string) {
	pending, err := e.queue.PendingForRecord(ctx, collection, recordID)
	if err != nil {
		e.logger.Warn().Err(err).
			Str("record_id", recordID).
			Str("func", "syncEngine.confirmRecordSynced").
			Msg("list pending changes for record failed")
		return
	}
	if len(pending) > 0 {
		return
	}

	err = e.cache.SetSyncStatus(ctx, collection, recordID, models.SyncStatusSynced)
	if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		e.logger.Warn().Err(err).
			Str("record_id", recordID).
			Str("func", "syncEngine.confirmRecordSynced").
			Msg("set record sync status failed")
	}
}

// SetOnline implements [SyncEngine].
func (e *syncEngine) SetOnline(ctx context.Context, online bool) {
	e.mu.Lock()
	changed := e.online != online
	e.online = online
	e.mu.Unlock()

	if !changed {
		return
	}

	if !online {
		e.emit(models.SyncEvent{Type: models.EventOffline})
		return
	}

	e.emit(models.SyncEvent{Type: models.EventOnline})

	if err := e.ProcessPendingChanges(ctx); err != nil {
		e.logger.Warn().Err(err).
			Str("func", "syncEngine.SetOnline").
			Msg("drain after regaining connectivity failed")
	}
}

// Online implements [SyncEngine].
func (e *syncEngine) Online() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.online
}

// Status implements [SyncEngine].
func (e *syncEngine) Status(ctx context.Context) (models.SyncStatusReport, error) {
	pendingCount, err := e.queue.CountPending(ctx)
	if err != nil {
		return models.SyncStatusReport{}, fmt.Errorf("count pending changes: %w", err)
	}
	conflictCount, err := e.queue.CountConflicts(ctx)
	if err != nil {
		return models.SyncStatusReport{}, fmt.Errorf("count conflicted changes: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return models.SyncStatusReport{
		Online:        e.online,
		Syncing:       e.state == stateSyncing,
		PendingCount:  pendingCount + conflictCount,
		ConflictCount: conflictCount,
		LastSyncTime:  e.lastSyncTime,
	}, nil
}

// Conflicts implements [SyncEngine].
func (e *syncEngine) Conflicts(ctx context.Context) ([]models.PendingChange, error) {
	return e.queue.ListConflicts(ctx)
}

// ResolveConflict implements [SyncEngine].
func (e *syncEngine) ResolveConflict(ctx context.Context, changeID int64, useRemote bool) error {
	change, err := e.queue.GetByID(ctx, changeID)
	if err != nil {
		return err
	}

	if err = e.queue.ResolveConflict(ctx, changeID, useRemote); err != nil {
		return err
	}

	side := "local"
	if useRemote {
		side = "remote"
	}
	e.emit(models.SyncEvent{
		Type:            models.EventConflictResolved,
		Collection:      change.Collection,
		RecordID:        change.RecordID,
		PendingChangeID: changeID,
		Message:         "manually resolved keeping " + side + " state",
	})

	return nil
}

// ApplyRemoteChange implements [SyncEngine].
func (e *syncEngine) ApplyRemoteChange(ctx context.Context, change models.RemoteChange) error {
	pending, err := e.queue.PendingForRecord(ctx, change.Collection, change.Record.ID)
	if err != nil {
		return fmt.Errorf("list pending changes for record %s: %w", change.Record.ID, err)
	}
	if len(pending) > 0 {
		e.logger.Debug().
			Str("collection", change.Collection.String()).
			Str("record_id", change.Record.ID).
			Str("func", "syncEngine.ApplyRemoteChange").
			Msg("remote change deferred, local changes pending")
		return nil
	}

	switch change.Kind {
	case models.RemoteChangeDelete:
		if err = e.applyRemoteDelete(ctx, change); err != nil {
			return err
		}
	case models.RemoteChangeUpsert:
		record := change.Record
		record.Collection = change.Collection
		record.SyncStatus = models.SyncStatusSynced
		if err = e.cache.Put(ctx, record); err != nil {
			return fmt.Errorf("apply remote upsert %s: %w", change.Record.ID, err)
		}
	default:
		return fmt.Errorf("unknown remote change kind %q", change.Kind)
	}

	e.emit(models.SyncEvent{
		Type:       models.EventRemoteUpdateApplied,
		Collection: change.Collection,
		RecordID:   change.Record.ID,
	})
	return nil
}

func (e *syncEngine) applyRemoteDelete(ctx context.Context, change models.RemoteChange) error {
	if models.PolicyFor(change.Collection).Delete == models.DeleteSoft {
		tombstone := change.Record
		tombstone.Collection = change.Collection
		tombstone.Deleted = true
		tombstone.SyncStatus = models.SyncStatusSynced
		if err := e.cache.Put(ctx, tombstone); err != nil {
			return fmt.Errorf("apply remote delete %s: %w", change.Record.ID, err)
		}
		return nil
	}

	if err := e.cache.Remove(ctx, change.Collection, change.Record.ID); err != nil {
		return fmt.Errorf("apply remote delete %s: %w", change.Record.ID, err)
	}
	return nil
}

// Subscribe implements [SyncEngine].
func (e *syncEngine) Subscribe(listener func(models.SyncEvent)) func() {
	return e.events.subscribe(listener)
}

// Recent implements [SyncEngine].
func (e *syncEngine) Recent() []models.SyncEvent {
	return e.events.recent()
}

func (e *syncEngine) emit(event models.SyncEvent) {
	event.At = time.Now().UTC()
	e.events.publish(event)
}

func recordKey(collection models.Collection, recordID string) string {
	return collection.String() + "/" + recordID
}
