package service

import (
	"github.com/MKhiriev/go-budget-keeper/internal/logger"
	"github.com/MKhiriev/go-budget-keeper/internal/store"
)

type Services struct {
	RecordService RecordService
}

func NewServices(storages *store.Storages, logger *logger.Logger) *Services {
	records := NewRecordService(storages.RecordRepository, logger)

	return &Services{
		RecordService: NewRecordValidationService().Wrap(records),
	}
}
