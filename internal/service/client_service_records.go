package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-budget-keeper/internal/logger"
	"github.com/MKhiriev/go-budget-keeper/internal/store"
	"github.com/MKhiriev/go-budget-keeper/internal/utils"
	"github.com/MKhiriev/go-budget-keeper/internal/validators"
	"github.com/MKhiriev/go-budget-keeper/models"
)

type clientRecordService struct {
	cache     store.RecordCache
	scopeID   string
	ids       *utils.UUIDGenerator
	validator validators.Validator

	logger *logger.Logger
}

func NewClientRecordService(cache store.RecordCache, scopeID string, logger *logger.Logger) ClientRecordService {
	return &clientRecordService{
		cache:     cache,
		scopeID:   scopeID,
		ids:       utils.NewUUIDGenerator(),
		validator: validators.NewRecordValidator(),
		logger:    logger,
	}
}

func (s *clientRecordService) Get(ctx context.Context, collection models.Collection, recordID string) (models.Record, error) {
	if err := s.validateTarget(ctx, collection, recordID); err != nil {
		return models.Record{}, err
	}

	record, err := s.cache.Get(ctx, collection, recordID)
	if err != nil {
		return models.Record{}, fmt.Errorf("get record from cache: %w", err)
	}

	return record, nil
}

func (s *clientRecordService) List(ctx context.Context, collection models.Collection, filter models.RecordFilter) ([]models.Record, error) {
	scope := models.Record{ScopeID: s.scopeID, Collection: collection}
	if err := s.validator.Validate(ctx, scope, validators.FieldCollection, validators.FieldScopeID); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if err := s.validator.Validate(ctx, filter); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	records, err := s.cache.Query(ctx, collection, s.scopeID, keepByFilter(filter), byLastModified)
	if err != nil {
		return nil, fmt.Errorf("query records from cache: %w", err)
	}

	return records, nil
}

func (s *clientRecordService) Create(ctx context.Context, collection models.Collection, payload map[string]any) (models.Record, error) {
	draft := models.Record{
		ID:         s.ids.Generate(),
		ScopeID:    s.scopeID,
		Collection: collection,
		Payload:    payload,
	}
	if err := s.validator.Validate(ctx, draft); err != nil {
		return models.Record{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	created, err := s.cache.CreateOrUpdate(ctx, collection, draft.ID, s.scopeID, 0, func(_ map[string]any) (map[string]any, error) {
		// клон отвязывает кеш от карты вызывающего кода
		return models.ClonePayload(payload), nil
	})
	if err != nil {
		return models.Record{}, fmt.Errorf("create record in cache: %w", err)
	}

	s.logger.Debug().
		Str("collection", collection.String()).
		Str("record_id", created.ID).
		Msg("record created locally")

	return created, nil
}

func (s *clientRecordService) Update(ctx context.Context, collection models.Collection, recordID string, expectedVersion int64, fields map[string]any) (models.Record, error) {
	if err := s.validateTarget(ctx, collection, recordID); err != nil {
		return models.Record{}, err
	}
	if len(fields) == 0 {
		return models.Record{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, validators.ErrEmptyPayload)
	}
	if expectedVersion < 1 {
		// нулевая версия означала бы создание, а не правку существующей записи
		return models.Record{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, validators.ErrInvalidExpectedVersion)
	}

	patch := models.ClonePayload(fields)
	updated, err := s.cache.CreateOrUpdate(ctx, collection, recordID, s.scopeID, expectedVersion, func(current map[string]any) (map[string]any, error) {
		if current == nil {
			current = make(map[string]any, len(patch))
		}
		for name, value := range patch {
			current[name] = value
		}
		return current, nil
	})
	if err != nil {
		return models.Record{}, fmt.Errorf("update record in cache: %w", err)
	}

	s.logger.Debug().
		Str("collection", collection.String()).
		Str("record_id", recordID).
		Int64("version", updated.Version).
		Msg("record updated locally")

	return updated, nil
}

func (s *clientRecordService) Delete(ctx context.Context, collection models.Collection, recordID string, expectedVersion int64) error {
	if err := s.validateTarget(ctx, collection, recordID); err != nil {
		return err
	}
	if expectedVersion < 1 {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, validators.ErrInvalidExpectedVersion)
	}

	if err := s.cache.Delete(ctx, collection, recordID, expectedVersion); err != nil {
		return fmt.Errorf("delete record in cache: %w", err)
	}

	s.logger.Debug().
		Str("collection", collection.String()).
		Str("record_id", recordID).
		Msg("record deleted locally")

	return nil
}

func (s *clientRecordService) validateTarget(ctx context.Context, collection models.Collection, recordID string) error {
	target := models.Record{ID: recordID, Collection: collection}
	if err := s.validator.Validate(ctx, target, validators.FieldCollection, validators.FieldRecordID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return nil
}

// keepByFilter translates a filter into a cache predicate over the payload
// "date" and "category" fields and the soft-delete flag. A zero filter maps
// to a nil predicate so the cache skips the in-memory pass entirely.
func keepByFilter(filter models.RecordFilter) store.RecordPredicate {
	if filter.IsZero() {
		return nil
	}

	return func(record models.Record) bool {
		if filter.ActiveOnly && record.Deleted {
			return false
		}
		if filter.Category != "" && payloadString(record.Payload, "category") != filter.Category {
			return false
		}
		if filter.DateFrom != "" || filter.DateTo != "" {
			date := payloadString(record.Payload, "date")
			if date == "" {
				return false
			}
			if filter.DateFrom != "" && date < filter.DateFrom {
				return false
			}
			if filter.DateTo != "" && date > filter.DateTo {
				return false
			}
		}
		return true
	}
}

// byLastModified orders records newest first.
func byLastModified(a, b models.Record) bool {
	return a.UpdatedAt.After(b.UpdatedAt)
}

func payloadString(payload map[string]any, field string) string {
	value, ok := payload[field].(string)
	if !ok {
		return ""
	}
	return value
}
