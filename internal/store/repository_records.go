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

// recordRepository is the PostgreSQL-backed implementation of
// [RecordRepository]. It executes all record CRUD operations directly against
// the "records" table using the embedded [*DB] connection, and is the single
// place where the version contract is enforced for remote writers.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced with
// structured fields (collection, record_id, versions).
type recordRepository struct {
	*DB
	logger *logger.Logger
}

// NewRecordRepository constructs a [RecordRepository] backed by the provided
// database connection and logger.
//
// The logger parameter is stored for fallback logging; most methods prefer
// the context-scoped logger obtained via [logger.FromContext].
func NewRecordRepository(db *DB, logger *logger.Logger) RecordRepository {
	return &recordRepository{
		DB:     db,
		logger: logger,
	}
}

// Get retrieves a single record by collection and id, including soft-deleted
// records.
func (p *recordRepository) Get(ctx context.Context, collection models.Collection, recordID string) (models.Record, error) {
	log := logger.FromContext(ctx)

	record, err := scanServerRecord(p.DB.QueryRowContext(ctx, getServerRecord, collection, recordID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Record{}, ErrRecordNotFound
		}

		log.Err(err).
			Str("func", "recordRepository.Get").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Msg("failed to get record")
		return models.Record{}, err
	}

	return record, nil
}

// List retrieves the scope's records of one collection, narrowed by the
// optional secondary-attribute filter.
//
// Returns an empty slice when no records match.
func (p *recordRepository) List(ctx context.Context, scopeID string, collection models.Collection, filter models.RecordFilter) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListRecordsQuery(scopeID, collection, filter)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.List").
			Str("scope_id", scopeID).
			Str("collection", collection.String()).
			Msg("failed to create query")
		return nil, err
	}

	rows, queryErr := p.DB.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "recordRepository.List").
			Str("scope_id", scopeID).
			Str("collection", collection.String()).
			Msg("failed to execute query for listing scoped records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	results := make([]models.Record, 0, 50)

	for rows.Next() {
		record, scanErr := scanServerRecord(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "recordRepository.List").
				Str("scope_id", scopeID).
				Str("collection", collection.String()).
				Msg("failed to scan record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		results = append(results, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "recordRepository.List").
			Str("scope_id", scopeID).
			Str("collection", collection.String()).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return results, nil
}

// SetIfVersion applies a versioned write.
//
// Routing strategy:
//   - expectedVersion == 0 → [createRecord] (INSERT … ON CONFLICT DO NOTHING).
//   - expectedVersion > 0 → [updateRecord] (CTE-based optimistic update).
//
// On [ErrVersionConflict] the returned record is the current authoritative
// state, fetched in the same call so HTTP handlers can build the conflict
// response without a second round trip of their own.
func (p *recordRepository) SetIfVersion(ctx context.Context, record models.Record, expectedVersion int64) (models.Record, error) {
	if expectedVersion == 0 {
		return p.createRecord(ctx, record)
	}

	return p.updateRecord(ctx, record, expectedVersion)
}

// createRecord inserts a brand-new record at version 1. A concurrent or
// earlier creation under the same id surfaces as [ErrVersionConflict]
// together with the current state.
func (p *recordRepository) createRecord(ctx context.Context, record models.Record) (models.Record, error) {
	log := logger.FromContext(ctx)

	payloadJSON, err := encodePayload(record.Payload)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.createRecord").
			Str("collection", record.Collection.String()).
			Str("record_id", record.ID).
			Msg("failed to encode payload")
		return models.Record{}, err
	}

	updatedAt := record.UpdatedAt.UTC()
	if record.UpdatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	var version int64
	queryRowErr := p.DB.QueryRowContext(ctx, insertServerRecord,
		record.Collection,
		record.ID,
		record.ScopeID,
		payloadJSON,
		updatedAt,
	).Scan(&version)

	if errors.Is(queryRowErr, sql.ErrNoRows) {
		// insert skipped -> the id is already taken
		current, getErr := p.Get(ctx, record.Collection, record.ID)
		if getErr != nil {
			log.Err(getErr).
				Str("func", "recordRepository.createRecord").
				Str("collection", record.Collection.String()).
				Str("record_id", record.ID).
				Msg("failed to load current state after rejected create")
			return models.Record{}, getErr
		}

		log.Error().
			Str("func", "recordRepository.createRecord").
			Str("collection", record.Collection.String()).
			Str("record_id", record.ID).
			Int64("db_version", current.Version).
			Msg("optimistic lock failed: record already exists")
		return current, ErrVersionConflict
	}
	if queryRowErr != nil {
		log.Err(queryRowErr).
			Str("func", "recordRepository.createRecord").
			Str("collection", record.Collection.String()).
			Str("record_id", record.ID).
			Str("pg_code", postgresError(queryRowErr)).
			Msg("failed to insert record")
		return models.Record{}, fmt.Errorf("%w: %w", ErrExecutingQuery, queryRowErr)
	}

	stored := record
	stored.Version = version
	stored.UpdatedAt = updatedAt
	stored.Deleted = false

	log.Info().
		Str("func", "recordRepository.createRecord").
		Str("collection", record.Collection.String()).
		Str("record_id", record.ID).
		Msg("successfully created record")

	return stored, nil
}

// updateRecord applies an optimistic-locking update via the CTE query
// ([updateServerRecord]) that returns both the updated version and the
// current database version, enabling the caller to distinguish between
// "not found" (both NULL) and "version conflict" (updated NULL, current
// non-NULL).
func (p *recordRepository) updateRecord(ctx context.Context, record models.Record, expectedVersion int64) (models.Record, error) {
	log := logger.FromContext(ctx)

	payloadJSON, err := encodePayload(record.Payload)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.updateRecord").
			Str("collection", record.Collection.String()).
			Str("record_id", record.ID).
			Msg("failed to encode payload")
		return models.Record{}, err
	}

	updatedAt := record.UpdatedAt.UTC()
	if record.UpdatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	var updatedVersion *int64
	var currentDBVersion *int64

	queryRowErr := p.DB.QueryRowContext(ctx, updateServerRecord,
		record.Collection,
		record.ID,
		payloadJSON,
		updatedAt,
		expectedVersion,
	).Scan(&updatedVersion, &currentDBVersion)
	if queryRowErr != nil {
		log.Err(queryRowErr).
			Str("func", "recordRepository.updateRecord").
			Str("collection", record.Collection.String()).
			Str("record_id", record.ID).
			Str("pg_code", postgresError(queryRowErr)).
			Msg("failed to execute versioned update query")
		return models.Record{}, fmt.Errorf("%w: %w", ErrExecutingQuery, queryRowErr)
	}

	// not found: target_record empty -> both NULL
	if currentDBVersion == nil {
		log.Warn().
			Str("func", "recordRepository.updateRecord").
			Str("collection", record.Collection.String()).
			Str("record_id", record.ID).
			Msg("record not found")
		return models.Record{}, ErrRecordNotFound
	}

	// found but not updated -> version mismatch
	if updatedVersion == nil {
		current, getErr := p.Get(ctx, record.Collection, record.ID)
		if getErr != nil {
			log.Err(getErr).
				Str("func", "recordRepository.updateRecord").
				Str("collection", record.Collection.String()).
				Str("record_id", record.ID).
				Msg("failed to load current state after rejected update")
			return models.Record{}, getErr
		}

		log.Error().
			Str("func", "recordRepository.updateRecord").
			Str("collection", record.Collection.String()).
			Str("record_id", record.ID).
			Int64("db_version", *currentDBVersion).
			Int64("provided_version", expectedVersion).
			Msg("optimistic lock failed: version mismatch on update")
		return current, ErrVersionConflict
	}

	stored := record
	stored.Version = *updatedVersion
	stored.UpdatedAt = updatedAt
	stored.Deleted = false

	log.Info().
		Str("func", "recordRepository.updateRecord").
		Str("collection", record.Collection.String()).
		Str("record_id", record.ID).
		Int64("version", stored.Version).
		Msg("successfully updated record")

	return stored, nil
}

// Delete removes a record according to the collection's delete policy.
//
// Soft-delete sets the "deleted" flag and bumps the version, preserving the
// record so that clients can detect the deletion during sync. Physical delete
// drops the row and reports its last known scope and version for change
// broadcasting. Both variants are idempotent: a missing (or already
// soft-deleted) record reports found=false without error.
func (p *recordRepository) Delete(ctx context.Context, collection models.Collection, recordID string) (models.Record, bool, error) {
	if models.PolicyFor(collection).Delete == models.DeleteSoft {
		return p.softDeleteRecord(ctx, collection, recordID)
	}

	return p.deleteRecord(ctx, collection, recordID)
}

func (p *recordRepository) softDeleteRecord(ctx context.Context, collection models.Collection, recordID string) (models.Record, bool, error) {
	log := logger.FromContext(ctx)

	var payloadJSON []byte
	record := models.Record{
		ID:         recordID,
		Collection: collection,
		Deleted:    true,
	}

	queryRowErr := p.DB.QueryRowContext(ctx, softDeleteServerRecord, collection, recordID).
		Scan(&record.ScopeID, &payloadJSON, &record.Version, &record.UpdatedAt)
	if errors.Is(queryRowErr, sql.ErrNoRows) {
		log.Debug().
			Str("func", "recordRepository.softDeleteRecord").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Msg("record missing or already soft-deleted")
		return models.Record{}, false, nil
	}
	if queryRowErr != nil {
		log.Err(queryRowErr).
			Str("func", "recordRepository.softDeleteRecord").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Str("pg_code", postgresError(queryRowErr)).
			Msg("failed to execute soft delete query")
		return models.Record{}, false, fmt.Errorf("%w: %w", ErrExecutingQuery, queryRowErr)
	}

	payload, err := decodePayload(payloadJSON)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.softDeleteRecord").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Msg("failed to decode payload")
		return models.Record{}, false, err
	}
	record.Payload = payload
	record.UpdatedAt = record.UpdatedAt.UTC()

	log.Info().
		Str("func", "recordRepository.softDeleteRecord").
		Str("collection", collection.String()).
		Str("record_id", recordID).
		Int64("version", record.Version).
		Msg("successfully soft-deleted record")

	return record, true, nil
}

func (p *recordRepository) deleteRecord(ctx context.Context, collection models.Collection, recordID string) (models.Record, bool, error) {
	log := logger.FromContext(ctx)

	record := models.Record{
		ID:         recordID,
		Collection: collection,
		Deleted:    true,
	}

	queryRowErr := p.DB.QueryRowContext(ctx, deleteServerRecord, collection, recordID).
		Scan(&record.ScopeID, &record.Version)
	if errors.Is(queryRowErr, sql.ErrNoRows) {
		log.Debug().
			Str("func", "recordRepository.deleteRecord").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Msg("record not found")
		return models.Record{}, false, nil
	}
	if queryRowErr != nil {
		log.Err(queryRowErr).
			Str("func", "recordRepository.deleteRecord").
			Str("collection", collection.String()).
			Str("record_id", recordID).
			Str("pg_code", postgresError(queryRowErr)).
			Msg("failed to execute delete query")
		return models.Record{}, false, fmt.Errorf("%w: %w", ErrExecutingQuery, queryRowErr)
	}

	log.Info().
		Str("func", "recordRepository.deleteRecord").
		Str("collection", collection.String()).
		Str("record_id", recordID).
		Msg("successfully deleted record")

	return record, true, nil
}

func scanServerRecord(row recordScanner) (models.Record, error) {
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
