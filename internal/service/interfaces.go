package service

import (
	"context"

	"github.com/MKhiriev/go-budget-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// RecordService is the server-side business layer over the authoritative
// record store. It validates requests and retries transient database
// failures; the version contract itself lives in the repository.
type RecordService interface {
	GetRecord(ctx context.Context, collection models.Collection, recordID string) (models.Record, error)

	ListRecords(ctx context.Context, scopeID string, collection models.Collection, filter models.RecordFilter) ([]models.Record, error)

	// WriteRecord applies a versioned write and returns the stored record.
	// On [store.ErrVersionConflict] the returned record is the current
	// authoritative state for the conflict response.
	WriteRecord(ctx context.Context, record models.Record, expectedVersion int64) (models.Record, error)

	// DeleteRecord removes a record by the collection's delete policy and
	// reports whether anything was there to delete.
	DeleteRecord(ctx context.Context, collection models.Collection, recordID string) (models.Record, bool, error)
}

// RecordServiceWrapper defines middleware composition for RecordService.
// Implementations wrap an existing RecordService to add behavior such as
// logging or validating.
type RecordServiceWrapper interface {
	Wrap(RecordService) RecordService // returns a decorated RecordService applying additional behavior
}
