package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-budget-keeper/internal/config"
	"github.com/MKhiriev/go-budget-keeper/internal/logger"
)

// Storages groups all server-side repositories into a single value that can
// be passed around the service layer.
type Storages struct {
	// RecordRepository is the authoritative record store.
	RecordRepository RecordRepository
}

// NewStorages initialises the server storage layer: connects to PostgreSQL,
// runs pending schema migrations, and wires the repositories over the shared
// connection.
func NewStorages(ctx context.Context, cfg config.ServerDB, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectPostgres(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		RecordRepository: NewRecordRepository(db, logger),
	}, nil
}
