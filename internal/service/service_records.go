package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-budget-keeper/internal/logger"
	"github.com/MKhiriev/go-budget-keeper/internal/store"
	"github.com/MKhiriev/go-budget-keeper/models"
	"github.com/sethvargo/go-retry"
)

const (
	dbRetryAttempts = 3
	dbRetryBase     = 100 * time.Millisecond
)

// recordService is the repository-backed RecordService. Inputs are screened
// upstream by [RecordValidationService], so this type only orchestrates the
// repository and retries transient database failures.
type recordService struct {
	records    store.RecordRepository
	classifier store.ErrorClassificator

	logger *logger.Logger
}

func NewRecordService(records store.RecordRepository, logger *logger.Logger) RecordService {
	return &recordService{
		records:    records,
		classifier: store.NewPostgresErrorClassifier(),
		logger:     logger,
	}
}

func (s *recordService) GetRecord(ctx context.Context, collection models.Collection, recordID string) (models.Record, error) {
	var record models.Record
	err := s.withRetry(ctx, func(ctx context.Context) error {
		var getErr error
		record, getErr = s.records.Get(ctx, collection, recordID)
		return getErr
	})
	return record, err
}

func (s *recordService) ListRecords(ctx context.Context, scopeID string, collection models.Collection, filter models.RecordFilter) ([]models.Record, error) {
	var records []models.Record
	err := s.withRetry(ctx, func(ctx context.Context) error {
		var listErr error
		records, listErr = s.records.List(ctx, scopeID, collection, filter)
		return listErr
	})
	return records, err
}

func (s *recordService) WriteRecord(ctx context.Context, record models.Record, expectedVersion int64) (models.Record, error) {
	var stored models.Record
	err := s.withRetry(ctx, func(ctx context.Context) error {
		var writeErr error
		stored, writeErr = s.records.SetIfVersion(ctx, record, expectedVersion)
		return writeErr
	})
	return stored, err
}

func (s *recordService) DeleteRecord(ctx context.Context, collection models.Collection, recordID string) (models.Record, bool, error) {
	var (
		record models.Record
		found  bool
	)
	err := s.withRetry(ctx, func(ctx context.Context) error {
		var delErr error
		record, found, delErr = s.records.Delete(ctx, collection, recordID)
		return delErr
	})
	return record, found, err
}

// withRetry runs op, retrying with exponential backoff when the error is a
// transient database failure (connection loss, deadlock, serialization).
// Business errors such as a version conflict are returned immediately.
func (s *recordService) withRetry(ctx context.Context, op func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(dbRetryAttempts, retry.NewExponential(dbRetryBase))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := op(ctx)
		if err == nil {
			return nil
		}

		if s.classifier.Classify(err) == store.Retryable {
			s.logger.Warn().Err(err).
				Str("func", "recordService.withRetry").
				Msg("transient database error, retrying")
			return retry.RetryableError(err)
		}

		return err
	})
}
