package validators

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-budget-keeper/models"
)

// Field name constants used to specify which fields should be validated.
// These constants are passed to Validate or internal validation methods
// to restrict validation to a subset of fields (field-level scoping).
const (
	// FieldRecordID targets the stable unique identifier of a record.
	FieldRecordID = "record_id"

	// FieldScopeID targets the owner-scope (household) identifier.
	FieldScopeID = "scope_id"

	// FieldCollection targets the logical collection name of a record.
	FieldCollection = "collection"

	// FieldPayload targets the document body of a record or write request.
	FieldPayload = "payload"

	// FieldVersion targets the optimistic concurrency version of a record.
	FieldVersion = "version"

	// FieldExpectedVersion targets the version precondition of a
	// versioned write. Zero means the caller is creating the record.
	FieldExpectedVersion = "expected_version"

	// FieldDateRange targets the date bounds of a record filter.
	FieldDateRange = "date_range"
)

// RecordValidator implements the Validator interface for the record domain
// models: Record, WriteRequest, and RecordFilter.
//
// It supports both value and pointer receivers for every model type
// and allows optional field-level scoping via variadic field name arguments.
type RecordValidator struct {
}

// NewRecordValidator constructs a new RecordValidator
// and returns it as the Validator interface.
func NewRecordValidator() Validator {
	return &RecordValidator{}
}

// Validate dispatches validation to the appropriate type-specific method
// based on the dynamic type of obj. Both value and pointer forms of each
// supported model are accepted.
//
// Supported types:
//   - models.Record / *models.Record
//   - models.WriteRequest / *models.WriteRequest
//   - models.RecordFilter / *models.RecordFilter
//
// Returns ErrUnsupportedType if obj does not match any known model.
// Optional fields restrict validation to the named subset; when omitted,
// a sensible default set of fields is validated.
func (v *RecordValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Record:
		return v.validateRecord(ctx, value, fields...)
	case *models.Record:
		return v.validateRecord(ctx, *value, fields...)

	case models.WriteRequest:
		return v.validateWriteRequest(ctx, value, fields...)
	case *models.WriteRequest:
		return v.validateWriteRequest(ctx, *value, fields...)

	case models.RecordFilter:
		return v.validateRecordFilter(ctx, value, fields...)
	case *models.RecordFilter:
		return v.validateRecordFilter(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// validateRecord validates a single Record model.
//
// Default validated fields (when none specified):
// RecordID, ScopeID, Collection, Payload, Version.
//
// Returns the first encountered validation error or nil.
func (v *RecordValidator) validateRecord(ctx context.Context, record models.Record, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldRecordID, FieldScopeID, FieldCollection, FieldPayload, FieldVersion}
	}

	for _, f := range fields {
		switch f {
		case FieldRecordID:
			if record.ID == "" {
				return ErrInvalidRecordID
			}
		case FieldScopeID:
			if record.ScopeID == "" {
				return ErrInvalidScopeID
			}
		case FieldCollection:
			if !record.Collection.IsValid() {
				return fmt.Errorf("%w: %q", ErrUnknownCollection, record.Collection)
			}
		case FieldPayload:
			if len(record.Payload) == 0 {
				return ErrEmptyPayload
			}
		case FieldVersion:
			if record.Version < 0 {
				return ErrInvalidVersion
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateWriteRequest validates a WriteRequest, the body of a versioned
// write against the record store.
//
// Default validated fields: Payload, ExpectedVersion.
func (v *RecordValidator) validateWriteRequest(ctx context.Context, request models.WriteRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldPayload, FieldExpectedVersion}
	}

	for _, f := range fields {
		switch f {
		case FieldPayload:
			if len(request.Payload) == 0 {
				return ErrEmptyPayload
			}
		case FieldExpectedVersion:
			if request.ExpectedVersion < 0 {
				return ErrInvalidExpectedVersion
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateRecordFilter validates a RecordFilter.
//
// Default validated fields: DateRange.
//
// Filter dates are ISO-8601 strings, so chronological order is string order:
// a range whose start sorts after its end can never match anything and is
// rejected rather than silently returning an empty result.
func (v *RecordValidator) validateRecordFilter(ctx context.Context, filter models.RecordFilter, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldDateRange}
	}

	for _, f := range fields {
		switch f {
		case FieldDateRange:
			if filter.DateFrom != "" && filter.DateTo != "" && filter.DateFrom > filter.DateTo {
				return fmt.Errorf("%w: %q > %q", ErrInvalidDateRange, filter.DateFrom, filter.DateTo)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
