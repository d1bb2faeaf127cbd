package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-budget-keeper/internal/validators"
	"github.com/MKhiriev/go-budget-keeper/models"
)

// RecordValidationService decorates a RecordService with input validation.
// Malformed requests are rejected with [ErrInvalidDataProvided] before the
// wrapped implementation, and therefore the database, is reached.
type RecordValidationService struct {
	inner     RecordService
	validator validators.Validator
}

// NewRecordValidationService constructs the validation decorator. The
// service it screens is supplied later via Wrap.
func NewRecordValidationService() RecordServiceWrapper {
	return &RecordValidationService{
		validator: validators.NewRecordValidator(),
	}
}

// Wrap stores the decorated service and returns the decorator itself.
func (v *RecordValidationService) Wrap(inner RecordService) RecordService {
	v.inner = inner
	return v
}

func (v *RecordValidationService) GetRecord(ctx context.Context, collection models.Collection, recordID string) (models.Record, error) {
	if err := v.validateTarget(ctx, collection, recordID); err != nil {
		return models.Record{}, err
	}

	return v.inner.GetRecord(ctx, collection, recordID)
}

func (v *RecordValidationService) ListRecords(ctx context.Context, scopeID string, collection models.Collection, filter models.RecordFilter) ([]models.Record, error) {
	target := models.Record{ScopeID: scopeID, Collection: collection}
	if err := v.validator.Validate(ctx, target, validators.FieldCollection, validators.FieldScopeID); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	if err := v.validator.Validate(ctx, filter); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return v.inner.ListRecords(ctx, scopeID, collection, filter)
}

func (v *RecordValidationService) WriteRecord(ctx context.Context, record models.Record, expectedVersion int64) (models.Record, error) {
	if err := v.validator.Validate(ctx, record); err != nil {
		return models.Record{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	precondition := models.WriteRequest{ExpectedVersion: expectedVersion}
	if err := v.validator.Validate(ctx, precondition, validators.FieldExpectedVersion); err != nil {
		return models.Record{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return v.inner.WriteRecord(ctx, record, expectedVersion)
}

func (v *RecordValidationService) DeleteRecord(ctx context.Context, collection models.Collection, recordID string) (models.Record, bool, error) {
	if err := v.validateTarget(ctx, collection, recordID); err != nil {
		return models.Record{}, false, err
	}

	return v.inner.DeleteRecord(ctx, collection, recordID)
}

// validateTarget checks the (collection, id) pair every single-record
// operation addresses.
func (v *RecordValidationService) validateTarget(ctx context.Context, collection models.Collection, recordID string) error {
	target := models.Record{ID: recordID, Collection: collection}
	if err := v.validator.Validate(ctx, target, validators.FieldCollection, validators.FieldRecordID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return nil
}
