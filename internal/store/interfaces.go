package store

import (
	"context"

	"github.com/MKhiriev/go-budget-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// RecordRepository is the authoritative server-side store of scoped records,
// backed by PostgreSQL. It owns the version contract on behalf of every
// connected device.
type RecordRepository interface {
	// Get returns the record stored under collection and recordID, including
	// soft-deleted records. Returns [ErrRecordNotFound] when absent.
	Get(ctx context.Context, collection models.Collection, recordID string) (models.Record, error)

	// List returns the scope's records of one collection, narrowed by the
	// optional secondary-attribute filter, oldest update first.
	List(ctx context.Context, scopeID string, collection models.Collection, filter models.RecordFilter) ([]models.Record, error)

	// SetIfVersion applies a versioned write. An expectedVersion of 0 creates
	// the record at version 1; otherwise the stored version must equal
	// expectedVersion and is incremented by 1. On [ErrVersionConflict] the
	// returned record is the current authoritative state, so callers can
	// hand it straight back to the losing writer.
	SetIfVersion(ctx context.Context, record models.Record, expectedVersion int64) (models.Record, error)

	// Delete removes a record according to the collection's delete policy.
	// Remote deletes are unversioned and idempotent: deleting an absent (or
	// already soft-deleted) record reports found=false without error. The
	// returned record describes the resulting state for change broadcasting.
	Delete(ctx context.Context, collection models.Collection, recordID string) (models.Record, bool, error)
}
