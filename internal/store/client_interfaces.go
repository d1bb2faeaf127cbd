package store

import (
	"context"

	"github.com/MKhiriev/go-budget-keeper/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// Mutator transforms the current payload of a record into its next state.
// The map passed in is a deep copy of the cached payload (nil when the record
// is being created), so implementations may modify it in place and return it.
type Mutator func(current map[string]any) (map[string]any, error)

// RecordPredicate reports whether a record should be kept in a query result.
// A nil predicate keeps everything.
type RecordPredicate func(record models.Record) bool

// RecordLess orders two records in a query result. A nil comparator leaves
// the scan order untouched.
type RecordLess func(a, b models.Record) bool

// RecordCache is the durable local view of scoped records, backed by SQLite.
//
// Versioned mutations (CreateOrUpdate, Delete) enforce the optimistic locking
// contract and append the matching intent to the pending change queue inside
// the same database transaction, so the cache and the queue can never drift
// apart. Put and Remove are unversioned appliers reserved for the sync engine:
// they install confirmed remote state without touching the queue.
type RecordCache interface {
	// Get returns the record stored under collection and recordID, including
	// soft-deleted records. Returns [ErrRecordNotFound] when absent.
	Get(ctx context.Context, collection models.Collection, recordID string) (models.Record, error)

	// CreateOrUpdate applies a local mutation under the version contract.
	// An expectedVersion of 0 creates the record (version 1); otherwise the
	// stored version must equal expectedVersion and is incremented by 1.
	// The mutated record is marked pending and a create/update intent is
	// enqueued atomically. Returns [ErrVersionConflict] on a version mismatch
	// and [ErrRecordNotFound] when expectedVersion > 0 targets a missing record.
	CreateOrUpdate(ctx context.Context, collection models.Collection, recordID, scopeID string, expectedVersion int64, mutate Mutator) (models.Record, error)

	// Delete removes a record under the version contract, honouring the
	// collection's delete policy (physical drop or soft-delete flag), and
	// enqueues a delete intent atomically.
	Delete(ctx context.Context, collection models.Collection, recordID string, expectedVersion int64) error

	// Query returns every record of the collection within the owner scope,
	// then applies keep and less in memory. Scoped data sets are small enough
	// that a full scan per query stays cheap.
	Query(ctx context.Context, collection models.Collection, scopeID string, keep RecordPredicate, less RecordLess) ([]models.Record, error)

	// Put installs a confirmed record state verbatim, bypassing the version
	// contract and the queue. Sync engine only.
	Put(ctx context.Context, record models.Record) error

	// Remove physically drops a record, bypassing the version contract and
	// the queue. Removing an absent record is a no-op. Sync engine only.
	Remove(ctx context.Context, collection models.Collection, recordID string) error

	// SetSyncStatus flips the local reconciliation state of a record.
	// Returns [ErrRecordNotFound] when the record is absent.
	SetSyncStatus(ctx context.Context, collection models.Collection, recordID string, status models.SyncStatus) error
}

// PendingChangeQueue is the durable FIFO of mutation intents awaiting
// confirmation by the remote store, backed by the same SQLite database as
// [RecordCache].
type PendingChangeQueue interface {
	// Enqueue appends a change intent and returns it with the assigned queue
	// position. Versioned cache mutations enqueue transactionally on their
	// own; this method serves requeue paths and tests.
	Enqueue(ctx context.Context, change models.PendingChange) (models.PendingChange, error)

	// GetByID returns a single queue entry.
	// Returns [ErrPendingChangeNotFound] when absent.
	GetByID(ctx context.Context, changeID int64) (models.PendingChange, error)

	// ListPending returns unsynced, unconflicted entries in queue order
	// (oldest first).
	ListPending(ctx context.Context) ([]models.PendingChange, error)

	// ListConflicts returns unsynced entries carrying a conflict marker,
	// oldest first.
	ListConflicts(ctx context.Context) ([]models.PendingChange, error)

	// PendingForRecord returns unsynced entries targeting one record, oldest
	// first. Used to decide whether an incoming remote change disagrees with
	// local intent.
	PendingForRecord(ctx context.Context, collection models.Collection, recordID string) ([]models.PendingChange, error)

	// MarkSynced marks an entry as confirmed by the remote store. Marking an
	// already-synced or missing entry is a no-op.
	MarkSynced(ctx context.Context, changeID int64) error

	// MarkConflict attaches a conflict marker to an entry and flips the
	// target record to conflict status in the same transaction.
	MarkConflict(ctx context.Context, changeID int64, conflict models.ChangeConflict) error

	// ResolveConflict settles a conflicted entry. With useRemote the remote
	// side is installed into the cache and the entry is discarded; otherwise
	// the entry is re-staged to push the local payload over the remote
	// version (base version advanced, retries reset). Cache and queue are
	// adjusted in one transaction.
	ResolveConflict(ctx context.Context, changeID int64, useRemote bool) error

	// IncrementRetry bumps the retry counter after a failed remote
	// application and stores the failure description.
	IncrementRetry(ctx context.Context, changeID int64, lastError string) error

	// GarbageCollectSynced deletes confirmed entries and reports how many
	// were removed.
	GarbageCollectSynced(ctx context.Context) (int64, error)

	// CountPending returns the number of unsynced, unconflicted entries.
	CountPending(ctx context.Context) (int, error)

	// CountConflicts returns the number of entries awaiting manual resolution.
	CountConflicts(ctx context.Context) (int, error)
}
