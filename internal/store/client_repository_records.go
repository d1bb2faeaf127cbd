// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/MKhiriev/go-budget-keeper/internal/logger"
	"github.com/MKhiriev/go-budget-keeper/models"
)

// clientRecordRepository is the SQLite-backed implementation of [RecordCache].
//
// Versioned mutations write the records table and the pending_changes table
// inside one transaction, which is what keeps the cache and the queue in
// lockstep across crashes: either both sides of a local edit are durable or
// neither is.
//
// Every public method obtains a context-scoped logger via [logger.FromContext]
// so that all database interactions are traced with structured fields
// (collection, record_id, versions).
type clientRecordRepository struct {
	*DB
	logger *logger.Logger
}

// NewRecordCache constructs a [RecordCache] backed by the provided local
// database connection and logger.
func NewRecordCache(db *DB, logger *logger.Logger) RecordCache {
	return &clientRecordRepository{
		DB:     db,
		logger: logger,
	}
}

// Get returns the cached record stored under collection and recordID,
// including soft-deleted records.
func (c *clientRecordRepository) Get(ctx context.Context, collection models.Collection, recordID string) (models.Record, error) {
	log := logger.FromContext(ctx)

	record, err := scanRecord(c.DB.QueryRowContext(ctx, getRecord, collection, recordID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Record{}, ErrRecordNotFound
		}

		log.Err(err).
			Str("func", "clientRecordRepository.Get").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Msg("failed to get record from local cache")
		return models.Record{}, err
	}

	return record, nil
}

// CreateOrUpdate applies a local mutation under the version contract and
// enqueues the matching change intent in the same transaction.
//
// The mutator receives a deep copy of the current payload (nil on create) and
// returns the next payload. When the version check or the mutator fails,
// nothing is persisted and nothing is enqueued.
func (c *clientRecordRepository) CreateOrUpdate(ctx context.Context, collection models.Collection, recordID, scopeID string, expectedVersion int64, mutate Mutator) (models.Record, error) {
	log := logger.FromContext(ctx)

	if !collection.IsValid() {
		log.Warn().
			Str("func", "clientRecordRepository.CreateOrUpdate").
			Str("collection", collection.String()).
			Msg("unknown collection")
		return models.Record{}, ErrUnknownCollection
	}

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "clientRecordRepository.CreateOrUpdate").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Msg("failed to begin transaction")
		return models.Record{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	current, err := scanRecord(tx.QueryRowContext(ctx, getRecord, collection, recordID))
	exists := true
	switch {
	case errors.Is(err, sql.ErrNoRows):
		exists = false
	case err != nil:
		log.Err(err).
			Str("func", "clientRecordRepository.CreateOrUpdate").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Msg("failed to load current record state")
		return models.Record{}, err
	}

	// optimistic locking against the local copy
	if !exists && expectedVersion != 0 {
		log.Warn().
			Str("func", "clientRecordRepository.CreateOrUpdate").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Int64("provided_version", expectedVersion).
			Msg("record not found")
		return models.Record{}, ErrRecordNotFound
	}
	if exists && current.Version != expectedVersion {
		log.Error().
			Str("func", "clientRecordRepository.CreateOrUpdate").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Int64("db_version", current.Version).
			Int64("provided_version", expectedVersion).
			Msg("optimistic lock failed: version mismatch on update")
		return models.Record{}, ErrVersionConflict
	}

	nextPayload, err := mutate(current.ClonePayload())
	if err != nil {
		log.Err(err).
			Str("func", "clientRecordRepository.CreateOrUpdate").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Msg("payload mutator failed")
		return models.Record{}, fmt.Errorf("payload mutator failed: %w", err)
	}

	now := time.Now().UTC()
	next := models.Record{
		ID:         recordID,
		ScopeID:    scopeID,
		Collection: collection,
		Payload:    nextPayload,
		Version:    expectedVersion + 1,
		UpdatedAt:  now,
		Deleted:    false,
		SyncStatus: models.SyncStatusPending,
	}
	if exists {
		next.ScopeID = current.ScopeID
	}

	payloadJSON, err := encodePayload(next.Payload)
	if err != nil {
		log.Err(err).
			Str("func", "clientRecordRepository.CreateOrUpdate").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Msg("failed to encode payload")
		return models.Record{}, err
	}

	if exists {
		_, err = tx.ExecContext(ctx, updateRecord,
			payloadJSON,
			next.Version,
			next.UpdatedAt,
			next.Deleted,
			next.SyncStatus,
			payloadAttr(next.Payload, "date"),
			payloadAttr(next.Payload, "category"),
			collection,
			recordID,
		)
	} else {
		_, err = tx.ExecContext(ctx, insertRecord,
			collection,
			recordID,
			next.ScopeID,
			payloadJSON,
			next.Version,
			next.UpdatedAt,
			next.Deleted,
			next.SyncStatus,
			payloadAttr(next.Payload, "date"),
			payloadAttr(next.Payload, "category"),
		)
	}
	if err != nil {
		log.Err(err).
			Str("func", "clientRecordRepository.CreateOrUpdate").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Msg("failed to write record to local cache")
		return models.Record{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	kind := models.ChangeUpdate
	if !exists {
		kind = models.ChangeCreate
	}
	change := models.PendingChange{
		Kind:        kind,
		Collection:  collection,
		RecordID:    recordID,
		ScopeID:     next.ScopeID,
		Payload:     next.Payload,
		BaseVersion: expectedVersion,
		CreatedAt:   now,
	}
	if err := insertPendingChangeTx(ctx, tx, change); err != nil {
		log.Err(err).
			Str("func", "clientRecordRepository.CreateOrUpdate").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Msg("failed to enqueue pending change")
		return models.Record{}, err
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "clientRecordRepository.CreateOrUpdate").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Msg("failed to commit transaction")
		return models.Record{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	log.Debug().
		Str("func", "clientRecordRepository.CreateOrUpdate").
		Str("collection", collection.String()).
		Str("record_id", recordID).
		Int64("version", next.Version).
		Str("kind", string(kind)).
		Msg("record mutated and change enqueued")

	return next, nil
}

// Delete removes a record under the version contract, honouring the
// collection's delete policy, and enqueues a delete intent in the same
// transaction.
func (c *clientRecordRepository) Delete(ctx context.Context, collection models.Collection, recordID string, expectedVersion int64) error {
	log := logger.FromContext(ctx)

	if !collection.IsValid() {
		log.Warn().
			Str("func", "clientRecordRepository.Delete").
			Str("collection", collection.String()).
			Msg("unknown collection")
		return ErrUnknownCollection
	}

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "clientRecordRepository.Delete").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	current, err := scanRecord(tx.QueryRowContext(ctx, getRecord, collection, recordID))
	if errors.Is(err, sql.ErrNoRows) {
		log.Warn().
			Str("func", "clientRecordRepository.Delete").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Msg("record not found")
		return ErrRecordNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "clientRecordRepository.Delete").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Msg("failed to load current record state")
		return err
	}

	if current.Version != expectedVersion {
		log.Error().
			Str("func", "clientRecordRepository.Delete").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Int64("db_version", current.Version).
			Int64("provided_version", expectedVersion).
			Msg("optimistic lock failed: version mismatch on delete")
		return ErrVersionConflict
	}

	now := time.Now().UTC()

	if models.PolicyFor(collection).Delete == models.DeleteSoft {
		_, err = tx.ExecContext(ctx, markRecordDeleted,
			expectedVersion+1,
			now,
			models.SyncStatusPending,
			collection,
			recordID,
		)
	} else {
		_, err = tx.ExecContext(ctx, deleteRecord, collection, recordID)
	}
	if err != nil {
		log.Err(err).
			Str("func", "clientRecordRepository.Delete").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Msg("failed to delete record from local cache")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	change := models.PendingChange{
		Kind:        models.ChangeDelete,
		Collection:  collection,
		RecordID:    recordID,
		ScopeID:     current.ScopeID,
		BaseVersion: expectedVersion,
		CreatedAt:   now,
	}
	if err := insertPendingChangeTx(ctx, tx, change); err != nil {
		log.Err(err).
			Str("func", "clientRecordRepository.Delete").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Msg("failed to enqueue pending change")
		return err
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "clientRecordRepository.Delete").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	log.Debug().
		Str("func", "clientRecordRepository.Delete").
		Str("collection", collection.String()).
		Str("record_id", recordID).
		Msg("record deleted and change enqueued")

	return nil
}

// Query scans every record of the collection within the owner scope, then
// applies the keep predicate and the less comparator in memory.
func (c *clientRecordRepository) Query(ctx context.Context, collection models.Collection, scopeID string, keep RecordPredicate, less RecordLess) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	rows, err := c.DB.QueryContext(ctx, getRecordsByScope, collection, scopeID)
	if err != nil {
		log.Err(err).
			Str("func", "clientRecordRepository.Query").
			Str("collection", collection.String()).
			Str("scope_id", scopeID).
			Msg("failed to execute query for getting scoped records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records := make([]models.Record, 0, 50)

	for rows.Next() {
		record, scanErr := scanRecord(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "clientRecordRepository.Query").
				Str("collection", collection.String()).
				Str("scope_id", scopeID).
				Msg("failed to scan record row")
			return nil, scanErr
		}

		if keep == nil || keep(record) {
			records = append(records, record)
		}
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "clientRecordRepository.Query").
			Str("collection", collection.String()).
			Str("scope_id", scopeID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	if less != nil {
		sort.SliceStable(records, func(i, j int) bool { return less(records[i], records[j]) })
	}

	return records, nil
}

// Put installs a confirmed record state verbatim, bypassing the version
// contract and the queue.
func (c *clientRecordRepository) Put(ctx context.Context, record models.Record) error {
	log := logger.FromContext(ctx)

	payloadJSON, err := encodePayload(record.Payload)
	if err != nil {
		log.Err(err).
			Str("func", "clientRecordRepository.Put").
			Str("collection", record.Collection.String()).
			Str("record_id", record.ID).
			Msg("failed to encode payload")
		return err
	}

	_, err = c.DB.ExecContext(ctx, upsertRecord,
		record.Collection,
		record.ID,
		record.ScopeID,
		payloadJSON,
		record.Version,
		record.UpdatedAt.UTC(),
		record.Deleted,
		record.SyncStatus,
		payloadAttr(record.Payload, "date"),
		payloadAttr(record.Payload, "category"),
	)
	if err != nil {
		log.Err(err).
			Str("func", "clientRecordRepository.Put").
			Str("collection", record.Collection.String()).
			Str("record_id", record.ID).
			Int64("version", record.Version).
			Msg("failed to put record into local cache")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// Remove physically drops a record, bypassing the version contract and the
// queue. Removing an absent record is a no-op.
func (c *clientRecordRepository) Remove(ctx context.Context, collection models.Collection, recordID string) error {
	log := logger.FromContext(ctx)

	_, err := c.DB.ExecContext(ctx, deleteRecord, collection, recordID)
	if err != nil {
		log.Err(err).
			Str("func", "clientRecordRepository.Remove").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Msg("failed to remove record from local cache")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// SetSyncStatus flips the local reconciliation state of a record.
func (c *clientRecordRepository) SetSyncStatus(ctx context.Context, collection models.Collection, recordID string, status models.SyncStatus) error {
	log := logger.FromContext(ctx)

	result, err := c.DB.ExecContext(ctx, setRecordSyncStatus, status, collection, recordID)
	if err != nil {
		log.Err(err).
			Str("func", "clientRecordRepository.SetSyncStatus").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Msg("failed to update record sync status")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).
			Str("func", "clientRecordRepository.SetSyncStatus").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Msg("failed to get affected rows")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// insertPendingChangeTx appends a change intent inside an open transaction.
// Used by versioned cache mutations to keep the cache and the queue atomic.
func insertPendingChangeTx(ctx context.Context, tx *sql.Tx, change models.PendingChange) error {
	payloadJSON, err := encodeNullablePayload(change.Payload)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, insertPendingChange,
		change.Kind,
		change.Collection,
		change.RecordID,
		change.ScopeID,
		payloadJSON,
		change.BaseVersion,
		change.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// recordScanner abstracts over *sql.Row and *sql.Rows.
type recordScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row recordScanner) (models.Record, error) {
	var record models.Record
	var payloadJSON []byte

	if err := row.Scan(
		&record.Collection,
		&record.ID,
		&record.ScopeID,
		&payloadJSON,
		&record.Version,
		&record.UpdatedAt,
		&record.Deleted,
		&record.SyncStatus,
	); err != nil {
		return models.Record{}, err
	}

	payload, err := decodePayload(payloadJSON)
	if err != nil {
		return models.Record{}, err
	}
	record.Payload = payload
	record.UpdatedAt = record.UpdatedAt.UTC()

	return record, nil
}

// encodePayload serialises a payload document for the NOT NULL payload column.
// A nil payload encodes as an empty document.
func encodePayload(payload map[string]any) ([]byte, error) {
	if payload == nil {
		return []byte("{}"), nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodingPayload, err)
	}

	return raw, nil
}

// encodeNullablePayload serialises a payload document for nullable columns.
// A nil payload encodes as SQL NULL (delete intents carry no payload).
func encodeNullablePayload(payload map[string]any) (sql.NullString, error) {
	if payload == nil {
		return sql.NullString{}, nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("%w: %w", ErrEncodingPayload, err)
	}

	return sql.NullString{String: string(raw), Valid: true}, nil
}

func decodePayload(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodingPayload, err)
	}

	return payload, nil
}

// payloadAttr extracts a payload field into its denormalised attribute
// column, used by the scope+date and scope+category indexes.
func payloadAttr(payload map[string]any, key string) sql.NullString {
	if payload == nil {
		return sql.NullString{}
	}

	value, ok := payload[key].(string)
	if !ok || value == "" {
		return sql.NullString{}
	}

	return sql.NullString{String: value, Valid: true}
}
