// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-budget-keeper/internal/logger"
	"github.com/MKhiriev/go-budget-keeper/models"
)

// clientQueueRepository is the SQLite-backed implementation of
// [PendingChangeQueue]. It shares the database connection with the record
// cache, so conflict bookkeeping can adjust both tables in one transaction.
type clientQueueRepository struct {
	*DB
	logger *logger.Logger
}

// NewPendingChangeQueue constructs a [PendingChangeQueue] backed by the
// provided local database connection and logger.
func NewPendingChangeQueue(db *DB, logger *logger.Logger) PendingChangeQueue {
	return &clientQueueRepository{
		DB:     db,
		logger: logger,
	}
}

// Enqueue appends a change intent and returns it with the assigned queue
// position.
func (q *clientQueueRepository) Enqueue(ctx context.Context, change models.PendingChange) (models.PendingChange, error) {
	log := logger.FromContext(ctx)

	if !change.Collection.IsValid() {
		log.Warn().
			Str("func", "clientQueueRepository.Enqueue").
			Str("collection", change.Collection.String()).
			Msg("unknown collection")
		return models.PendingChange{}, ErrUnknownCollection
	}

	if change.CreatedAt.IsZero() {
		change.CreatedAt = time.Now().UTC()
	}

	payloadJSON, err := encodeNullablePayload(change.Payload)
	if err != nil {
		log.Err(err).
			Str("func", "clientQueueRepository.Enqueue").
			Str("collection", change.Collection.String()).
			Str("record_id", change.RecordID).
			Msg("failed to encode change payload")
		return models.PendingChange{}, err
	}

	err = q.DB.QueryRowContext(ctx, insertPendingChange,
		change.Kind,
		change.Collection,
		change.RecordID,
		change.ScopeID,
		payloadJSON,
		change.BaseVersion,
		change.CreatedAt,
	).Scan(&change.ID)
	if err != nil {
		log.Err(err).
			Str("func", "clientQueueRepository.Enqueue").
			Str("collection", change.Collection.String()).
			Str("record_id", change.RecordID).
			Msg("failed to enqueue pending change")
		return models.PendingChange{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return change, nil
}

// GetByID returns a single queue entry.
func (q *clientQueueRepository) GetByID(ctx context.Context, changeID int64) (models.PendingChange, error) {
	log := logger.FromContext(ctx)

	change, err := scanPendingChange(q.DB.QueryRowContext(ctx, getPendingChange, changeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PendingChange{}, ErrPendingChangeNotFound
		}

		log.Err(err).
			Str("func", "clientQueueRepository.GetByID").
			Int64("change_id", changeID).
			Msg("failed to get pending change")
		return models.PendingChange{}, err
	}

	return change, nil
}

// ListPending returns unsynced, unconflicted entries in queue order.
func (q *clientQueueRepository) ListPending(ctx context.Context) ([]models.PendingChange, error) {
	return q.queryChanges(ctx, "clientQueueRepository.ListPending", listPendingChanges)
}

// ListConflicts returns unsynced entries carrying a conflict marker.
func (q *clientQueueRepository) ListConflicts(ctx context.Context) ([]models.PendingChange, error) {
	return q.queryChanges(ctx, "clientQueueRepository.ListConflicts", listConflictChanges)
}

// PendingForRecord returns unsynced entries targeting one record.
func (q *clientQueueRepository) PendingForRecord(ctx context.Context, collection models.Collection, recordID string) ([]models.PendingChange, error) {
	return q.queryChanges(ctx, "clientQueueRepository.PendingForRecord", listPendingChangesForRecord, collection, recordID)
}

// MarkSynced marks an entry as confirmed by the remote store. Marking an
// already-synced or missing entry is a no-op.
func (q *clientQueueRepository) MarkSynced(ctx context.Context, changeID int64) error {
	log := logger.FromContext(ctx)

	result, err := q.DB.ExecContext(ctx, markPendingChangeSynced, changeID)
	if err != nil {
		log.Err(err).
			Str("func", "clientQueueRepository.MarkSynced").
			Int64("change_id", changeID).
			Msg("failed to mark pending change as synced")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).
			Str("func", "clientQueueRepository.MarkSynced").
			Int64("change_id", changeID).
			Msg("failed to get affected rows")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		// already synced or garbage collected
		log.Debug().
			Str("func", "clientQueueRepository.MarkSynced").
			Int64("change_id", changeID).
			Msg("pending change already synced or missing")
	}

	return nil
}

// MarkConflict attaches a conflict marker to an entry and flips the target
// record to conflict status in the same transaction.
func (q *clientQueueRepository) MarkConflict(ctx context.Context, changeID int64, conflict models.ChangeConflict) error {
	log := logger.FromContext(ctx)

	tx, err := q.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "clientQueueRepository.MarkConflict").
			Int64("change_id", changeID).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	entry, err := scanPendingChange(tx.QueryRowContext(ctx, getPendingChange, changeID))
	if errors.Is(err, sql.ErrNoRows) {
		log.Warn().
			Str("func", "clientQueueRepository.MarkConflict").
			Int64("change_id", changeID).
			Msg("pending change not found")
		return ErrPendingChangeNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "clientQueueRepository.MarkConflict").
			Int64("change_id", changeID).
			Msg("failed to load pending change")
		return err
	}
	if entry.Synced {
		return ErrPendingChangeNotFound
	}

	remoteData, err := encodeNullablePayload(conflict.RemoteData)
	if err != nil {
		log.Err(err).
			Str("func", "clientQueueRepository.MarkConflict").
			Int64("change_id", changeID).
			Msg("failed to encode remote payload")
		return err
	}

	if _, err := tx.ExecContext(ctx, markPendingChangeConflict, conflict.RemoteVersion, remoteData, changeID); err != nil {
		log.Err(err).
			Str("func", "clientQueueRepository.MarkConflict").
			Int64("change_id", changeID).
			Msg("failed to mark pending change as conflicted")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if _, err := tx.ExecContext(ctx, setRecordSyncStatus, models.SyncStatusConflict, entry.Collection, entry.RecordID); err != nil {
		log.Err(err).
			Str("func", "clientQueueRepository.MarkConflict").
			Int64("change_id", changeID).
			Str("collection", entry.Collection.String()).
			Str("record_id", entry.RecordID).
			Msg("failed to flip record to conflict status")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "clientQueueRepository.MarkConflict").
			Int64("change_id", changeID).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	log.Info().
		Str("func", "clientQueueRepository.MarkConflict").
		Int64("change_id", changeID).
		Str("collection", entry.Collection.String()).
		Str("record_id", entry.RecordID).
		Int64("remote_version", conflict.RemoteVersion).
		Msg("pending change marked as conflicted")

	return nil
}

// ResolveConflict settles a conflicted entry, adjusting the cache and the
// queue in one transaction.
//
// With useRemote the remote side wins: the remote payload and version are
// installed into the cache (a nil remote payload applies the collection's
// delete policy) and the entry is marked synced for garbage collection.
// Without useRemote the local side wins: the entry is re-staged against the
// remote version with a fresh retry budget, and the record returns to
// pending status so the next drain pushes it.
func (q *clientQueueRepository) ResolveConflict(ctx context.Context, changeID int64, useRemote bool) error {
	log := logger.FromContext(ctx)

	tx, err := q.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "clientQueueRepository.ResolveConflict").
			Int64("change_id", changeID).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	entry, err := scanPendingChange(tx.QueryRowContext(ctx, getPendingChange, changeID))
	if errors.Is(err, sql.ErrNoRows) {
		log.Warn().
			Str("func", "clientQueueRepository.ResolveConflict").
			Int64("change_id", changeID).
			Msg("pending change not found")
		return ErrPendingChangeNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "clientQueueRepository.ResolveConflict").
			Int64("change_id", changeID).
			Msg("failed to load pending change")
		return err
	}
	if entry.Synced || !entry.InConflict() {
		log.Warn().
			Str("func", "clientQueueRepository.ResolveConflict").
			Int64("change_id", changeID).
			Msg("pending change carries no conflict marker")
		return ErrChangeNotInConflict
	}

	if useRemote {
		err = q.adoptRemoteTx(ctx, tx, entry)
	} else {
		err = q.restageLocalTx(ctx, tx, entry)
	}
	if err != nil {
		return err
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "clientQueueRepository.ResolveConflict").
			Int64("change_id", changeID).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	log.Info().
		Str("func", "clientQueueRepository.ResolveConflict").
		Int64("change_id", changeID).
		Str("collection", entry.Collection.String()).
		Str("record_id", entry.RecordID).
		Bool("use_remote", useRemote).
		Msg("conflict resolved")

	return nil
}

// adoptRemoteTx installs the remote side of a conflict into the cache and
// marks the entry synced.
func (q *clientQueueRepository) adoptRemoteTx(ctx context.Context, tx *sql.Tx, entry models.PendingChange) error {
	log := logger.FromContext(ctx)

	conflict := entry.Conflict
	now := time.Now().UTC()

	var err error
	switch {
	case conflict.RemoteData == nil && models.PolicyFor(entry.Collection).Delete == models.DeleteSoft:
		// remote side is a deletion
		_, err = tx.ExecContext(ctx, markRecordDeleted,
			conflict.RemoteVersion,
			now,
			models.SyncStatusSynced,
			entry.Collection,
			entry.RecordID,
		)
	case conflict.RemoteData == nil:
		_, err = tx.ExecContext(ctx, deleteRecord, entry.Collection, entry.RecordID)
	default:
		var payloadJSON []byte
		payloadJSON, err = encodePayload(conflict.RemoteData)
		if err != nil {
			break
		}

		_, err = tx.ExecContext(ctx, upsertRecord,
			entry.Collection,
			entry.RecordID,
			entry.ScopeID,
			payloadJSON,
			conflict.RemoteVersion,
			now,
			false,
			models.SyncStatusSynced,
			payloadAttr(conflict.RemoteData, "date"),
			payloadAttr(conflict.RemoteData, "category"),
		)
	}
	if err != nil {
		log.Err(err).
			Str("func", "clientQueueRepository.adoptRemoteTx").
			Int64("change_id", entry.ID).
			Str("collection", entry.Collection.String()).
			Str("record_id", entry.RecordID).
			Msg("failed to install remote state into local cache")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if _, err := tx.ExecContext(ctx, markPendingChangeSynced, entry.ID); err != nil {
		log.Err(err).
			Str("func", "clientQueueRepository.adoptRemoteTx").
			Int64("change_id", entry.ID).
			Msg("failed to mark pending change as synced")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// restageLocalTx re-stages a conflicted entry to push the local payload over
// the remote version and returns the record to pending status.
func (q *clientQueueRepository) restageLocalTx(ctx context.Context, tx *sql.Tx, entry models.PendingChange) error {
	log := logger.FromContext(ctx)

	if _, err := tx.ExecContext(ctx, restagePendingChange, entry.Conflict.RemoteVersion, entry.ID); err != nil {
		log.Err(err).
			Str("func", "clientQueueRepository.restageLocalTx").
			Int64("change_id", entry.ID).
			Msg("failed to re-stage pending change")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if _, err := tx.ExecContext(ctx, setRecordSyncStatus, models.SyncStatusPending, entry.Collection, entry.RecordID); err != nil {
		log.Err(err).
			Str("func", "clientQueueRepository.restageLocalTx").
			Int64("change_id", entry.ID).
			Str("collection", entry.Collection.String()).
			Str("record_id", entry.RecordID).
			Msg("failed to return record to pending status")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// IncrementRetry bumps the retry counter after a failed remote application.
func (q *clientQueueRepository) IncrementRetry(ctx context.Context, changeID int64, lastError string) error {
	log := logger.FromContext(ctx)

	result, err := q.DB.ExecContext(ctx, incrementPendingChangeRetry, lastError, changeID)
	if err != nil {
		log.Err(err).
			Str("func", "clientQueueRepository.IncrementRetry").
			Int64("change_id", changeID).
			Msg("failed to increment retry count")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).
			Str("func", "clientQueueRepository.IncrementRetry").
			Int64("change_id", changeID).
			Msg("failed to get affected rows")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrPendingChangeNotFound
	}

	return nil
}

// GarbageCollectSynced deletes confirmed entries and reports how many were
// removed.
func (q *clientQueueRepository) GarbageCollectSynced(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := q.DB.ExecContext(ctx, gcSyncedPendingChanges)
	if err != nil {
		log.Err(err).
			Str("func", "clientQueueRepository.GarbageCollectSynced").
			Msg("failed to garbage collect synced changes")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		log.Err(err).
			Str("func", "clientQueueRepository.GarbageCollectSynced").
			Msg("failed to get affected rows")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if removed > 0 {
		log.Debug().
			Str("func", "clientQueueRepository.GarbageCollectSynced").
			Int64("removed", removed).
			Msg("synced changes garbage collected")
	}

	return removed, nil
}

// CountPending returns the number of unsynced, unconflicted entries.
func (q *clientQueueRepository) CountPending(ctx context.Context) (int, error) {
	return q.countChanges(ctx, "clientQueueRepository.CountPending", countPendingChanges)
}

// CountConflicts returns the number of entries awaiting manual resolution.
func (q *clientQueueRepository) CountConflicts(ctx context.Context) (int, error) {
	return q.countChanges(ctx, "clientQueueRepository.CountConflicts", countConflictChanges)
}

func (q *clientQueueRepository) queryChanges(ctx context.Context, funcName, query string, args ...any) ([]models.PendingChange, error) {
	log := logger.FromContext(ctx)

	rows, err := q.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", funcName).
			Msg("failed to execute query for listing pending changes")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	changes := make([]models.PendingChange, 0, 50)

	for rows.Next() {
		change, scanErr := scanPendingChange(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", funcName).
				Msg("failed to scan pending change row")
			return nil, scanErr
		}

		changes = append(changes, change)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", funcName).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return changes, nil
}

func (q *clientQueueRepository) countChanges(ctx context.Context, funcName, query string) (int, error) {
	log := logger.FromContext(ctx)

	var count int
	if err := q.DB.QueryRowContext(ctx, query).Scan(&count); err != nil {
		log.Err(err).
			Str("func", funcName).
			Msg("failed to count pending changes")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count, nil
}

func scanPendingChange(row recordScanner) (models.PendingChange, error) {
	var change models.PendingChange
	var payloadJSON sql.NullString
	var lastError sql.NullString
	var conflictVersion sql.NullInt64
	var conflictData sql.NullString

	if err := row.Scan(
		&change.ID,
		&change.Kind,
		&change.Collection,
		&change.RecordID,
		&change.ScopeID,
		&payloadJSON,
		&change.BaseVersion,
		&change.CreatedAt,
		&change.RetryCount,
		&lastError,
		&change.Synced,
		&conflictVersion,
		&conflictData,
	); err != nil {
		return models.PendingChange{}, err
	}

	change.CreatedAt = change.CreatedAt.UTC()
	change.LastError = lastError.String

	if payloadJSON.Valid {
		payload, err := decodePayload([]byte(payloadJSON.String))
		if err != nil {
			return models.PendingChange{}, err
		}
		change.Payload = payload
	}

	if conflictVersion.Valid {
		conflict := &models.ChangeConflict{RemoteVersion: conflictVersion.Int64}
		if conflictData.Valid {
			remoteData, err := decodePayload([]byte(conflictData.String))
			if err != nil {
				return models.PendingChange{}, err
			}
			conflict.RemoteData = remoteData
		}
		change.Conflict = conflict
	}

	return change, nil
}
