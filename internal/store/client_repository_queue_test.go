// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-budget-keeper/models"
)

func testChange(recordID string) models.PendingChange {
	return models.PendingChange{
		Kind:        models.ChangeCreate,
		Collection:  models.CollectionTransactions,
		RecordID:    recordID,
		ScopeID:     "scope-1",
		Payload:     map[string]any{"amount": 10.0},
		BaseVersion: 0,
	}
}

func TestClientQueueEnqueue(t *testing.T) {
	ctx := testContext()
	_, queue := newClientStores(t)

	// Act
	first, err := queue.Enqueue(ctx, testChange("rec-1"))
	require.NoError(t, err)
	second, err := queue.Enqueue(ctx, testChange("rec-2"))
	require.NoError(t, err)

	// Assert: queue positions are assigned in arrival order
	assert.Positive(t, first.ID)
	assert.Greater(t, second.ID, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	got, err := queue.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ChangeCreate, got.Kind)
	assert.Equal(t, "rec-1", got.RecordID)
	assert.Equal(t, "scope-1", got.ScopeID)
	assert.Equal(t, map[string]any{"amount": 10.0}, got.Payload)
	assert.Equal(t, int64(0), got.BaseVersion)
	assert.Equal(t, 0, got.RetryCount)
	assert.Empty(t, got.LastError)
	assert.False(t, got.Synced)
	assert.Nil(t, got.Conflict)
	assert.WithinDuration(t, first.CreatedAt, got.CreatedAt, time.Second)

	pending, err := queue.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "rec-1", pending[0].RecordID)
	assert.Equal(t, "rec-2", pending[1].RecordID)

	t.Run("unknown collection is rejected", func(t *testing.T) {
		change := testChange("rec-3")
		change.Collection = models.Collection("wallets")
		_, err := queue.Enqueue(ctx, change)
		assert.ErrorIs(t, err, ErrUnknownCollection)
	})

	t.Run("missing entry", func(t *testing.T) {
		_, err := queue.GetByID(ctx, 9000)
		assert.ErrorIs(t, err, ErrPendingChangeNotFound)
	})
}

func TestClientQueuePendingForRecord(t *testing.T) {
	ctx := testContext()
	_, queue := newClientStores(t)

	first, err := queue.Enqueue(ctx, testChange("rec-1"))
	require.NoError(t, err)

	update := testChange("rec-1")
	update.Kind = models.ChangeUpdate
	update.BaseVersion = 1
	second, err := queue.Enqueue(ctx, update)
	require.NoError(t, err)

	_, err = queue.Enqueue(ctx, testChange("rec-2"))
	require.NoError(t, err)

	got, err := queue.PendingForRecord(ctx, models.CollectionTransactions, "rec-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)

	// synced entries drop out of the record's pending set
	require.NoError(t, queue.MarkSynced(ctx, first.ID))

	got, err = queue.PendingForRecord(ctx, models.CollectionTransactions, "rec-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, second.ID, got[0].ID)
}

func TestClientQueueMarkSyncedAndGC(t *testing.T) {
	ctx := testContext()
	_, queue := newClientStores(t)

	first, err := queue.Enqueue(ctx, testChange("rec-1"))
	require.NoError(t, err)
	second, err := queue.Enqueue(ctx, testChange("rec-2"))
	require.NoError(t, err)

	require.NoError(t, queue.MarkSynced(ctx, first.ID))

	pending, err := queue.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)

	// marking twice and marking the unknown are both no-ops
	require.NoError(t, queue.MarkSynced(ctx, first.ID))
	require.NoError(t, queue.MarkSynced(ctx, 9000))

	removed, err := queue.GarbageCollectSynced(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	removed, err = queue.GarbageCollectSynced(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)

	_, err = queue.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, ErrPendingChangeNotFound)
}

func TestClientQueueMarkConflict(t *testing.T) {
	ctx := testContext()
	cache, queue := newClientStores(t)

	_, err := cache.CreateOrUpdate(ctx, models.CollectionTransactions, "rec-1", "scope-1", 0, setPayload(map[string]any{"amount": 10.0}))
	require.NoError(t, err)

	pending, err := queue.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	changeID := pending[0].ID

	remote := map[string]any{"amount": 999.0}

	// Act
	require.NoError(t, queue.MarkConflict(ctx, changeID, models.ChangeConflict{RemoteVersion: 4, RemoteData: remote}))

	// Assert: the entry carries the marker and the record flips to conflict
	entry, err := queue.GetByID(ctx, changeID)
	require.NoError(t, err)
	require.True(t, entry.InConflict())
	assert.Equal(t, int64(4), entry.Conflict.RemoteVersion)
	assert.Equal(t, remote, entry.Conflict.RemoteData)

	record, err := cache.Get(ctx, models.CollectionTransactions, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusConflict, record.SyncStatus)

	// conflicted entries leave the drain queue but stay countable
	pending, err = queue.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	conflicts, err := queue.ListConflicts(ctx)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, changeID, conflicts[0].ID)

	pendingCount, err := queue.CountPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, pendingCount)

	conflictCount, err := queue.CountConflicts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, conflictCount)

	t.Run("missing entry", func(t *testing.T) {
		err := queue.MarkConflict(ctx, 9000, models.ChangeConflict{RemoteVersion: 2})
		assert.ErrorIs(t, err, ErrPendingChangeNotFound)
	})

	t.Run("already synced entry", func(t *testing.T) {
		extra, enqErr := queue.Enqueue(ctx, testChange("rec-2"))
		require.NoError(t, enqErr)
		require.NoError(t, queue.MarkSynced(ctx, extra.ID))

		err := queue.MarkConflict(ctx, extra.ID, models.ChangeConflict{RemoteVersion: 2})
		assert.ErrorIs(t, err, ErrPendingChangeNotFound)
	})
}

func TestClientQueueResolveConflictUseRemote(t *testing.T) {
	ctx := testContext()
	cache, queue := newClientStores(t)

	_, err := cache.CreateOrUpdate(ctx, models.CollectionTransactions, "rec-1", "scope-1", 0, setPayload(map[string]any{"amount": 10.0}))
	require.NoError(t, err)

	pending, err := queue.ListPending(ctx)
	require.NoError(t, err)
	changeID := pending[0].ID

	remote := map[string]any{"amount": 999.0, "category": "rent"}
	require.NoError(t, queue.MarkConflict(ctx, changeID, models.ChangeConflict{RemoteVersion: 4, RemoteData: remote}))

	// Act
	require.NoError(t, queue.ResolveConflict(ctx, changeID, true))

	// Assert: the cache now mirrors the remote side
	record, err := cache.Get(ctx, models.CollectionTransactions, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, remote, record.Payload)
	assert.Equal(t, int64(4), record.Version)
	assert.Equal(t, models.SyncStatusSynced, record.SyncStatus)
	assert.False(t, record.Deleted)

	// the entry is finished and ready for garbage collection
	entry, err := queue.GetByID(ctx, changeID)
	require.NoError(t, err)
	assert.True(t, entry.Synced)
	assert.Nil(t, entry.Conflict)

	conflicts, err := queue.ListConflicts(ctx)
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	removed, err := queue.GarbageCollectSynced(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestClientQueueResolveConflictKeepLocal(t *testing.T) {
	ctx := testContext()
	cache, queue := newClientStores(t)

	local := map[string]any{"amount": 10.0}
	_, err := cache.CreateOrUpdate(ctx, models.CollectionTransactions, "rec-1", "scope-1", 0, setPayload(local))
	require.NoError(t, err)

	pending, err := queue.ListPending(ctx)
	require.NoError(t, err)
	changeID := pending[0].ID

	require.NoError(t, queue.IncrementRetry(ctx, changeID, "version conflict"))
	require.NoError(t, queue.MarkConflict(ctx, changeID, models.ChangeConflict{RemoteVersion: 4, RemoteData: map[string]any{"amount": 999.0}}))

	// Act
	require.NoError(t, queue.ResolveConflict(ctx, changeID, false))

	// Assert: the entry is re-staged against the remote version
	entry, err := queue.GetByID(ctx, changeID)
	require.NoError(t, err)
	assert.False(t, entry.Synced)
	assert.Nil(t, entry.Conflict)
	assert.Equal(t, int64(4), entry.BaseVersion)
	assert.Equal(t, 0, entry.RetryCount)
	assert.Empty(t, entry.LastError)
	assert.Equal(t, local, entry.Payload)

	pending, err = queue.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, changeID, pending[0].ID)

	// the local payload survives and the record returns to pending
	record, err := cache.Get(ctx, models.CollectionTransactions, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, local, record.Payload)
	assert.Equal(t, models.SyncStatusPending, record.SyncStatus)
}

func TestClientQueueResolveConflictRemoteDeletion(t *testing.T) {
	ctx := testContext()

	t.Run("physical delete policy drops the cached record", func(t *testing.T) {
		cache, queue := newClientStores(t)

		_, err := cache.CreateOrUpdate(ctx, models.CollectionTransactions, "rec-1", "scope-1", 0, setPayload(map[string]any{"amount": 10.0}))
		require.NoError(t, err)

		pending, err := queue.ListPending(ctx)
		require.NoError(t, err)
		changeID := pending[0].ID

		require.NoError(t, queue.MarkConflict(ctx, changeID, models.ChangeConflict{RemoteVersion: 3}))
		require.NoError(t, queue.ResolveConflict(ctx, changeID, true))

		_, err = cache.Get(ctx, models.CollectionTransactions, "rec-1")
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("soft delete policy keeps a tombstone", func(t *testing.T) {
		cache, queue := newClientStores(t)

		_, err := cache.CreateOrUpdate(ctx, models.CollectionAssets, "asset-1", "scope-1", 0, setPayload(map[string]any{"name": "family car"}))
		require.NoError(t, err)

		pending, err := queue.ListPending(ctx)
		require.NoError(t, err)
		changeID := pending[0].ID

		require.NoError(t, queue.MarkConflict(ctx, changeID, models.ChangeConflict{RemoteVersion: 3}))
		require.NoError(t, queue.ResolveConflict(ctx, changeID, true))

		record, err := cache.Get(ctx, models.CollectionAssets, "asset-1")
		require.NoError(t, err)
		assert.True(t, record.Deleted)
		assert.Equal(t, int64(3), record.Version)
		assert.Equal(t, models.SyncStatusSynced, record.SyncStatus)
	})
}

func TestClientQueueResolveConflictErrors(t *testing.T) {
	ctx := testContext()
	_, queue := newClientStores(t)

	entry, err := queue.Enqueue(ctx, testChange("rec-1"))
	require.NoError(t, err)

	assert.ErrorIs(t, queue.ResolveConflict(ctx, entry.ID, true), ErrChangeNotInConflict)
	assert.ErrorIs(t, queue.ResolveConflict(ctx, 9000, true), ErrPendingChangeNotFound)
}

func TestClientQueueIncrementRetry(t *testing.T) {
	ctx := testContext()
	_, queue := newClientStores(t)

	entry, err := queue.Enqueue(ctx, testChange("rec-1"))
	require.NoError(t, err)

	require.NoError(t, queue.IncrementRetry(ctx, entry.ID, "connection refused"))
	require.NoError(t, queue.IncrementRetry(ctx, entry.ID, "gateway timeout"))

	got, err := queue.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.RetryCount)
	assert.Equal(t, "gateway timeout", got.LastError)

	assert.ErrorIs(t, queue.IncrementRetry(ctx, 9000, "lost"), ErrPendingChangeNotFound)
}
