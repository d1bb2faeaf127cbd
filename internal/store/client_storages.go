package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-budget-keeper/internal/config"
	"github.com/MKhiriev/go-budget-keeper/internal/logger"
)

// ClientStorages groups all client-side storage repositories into a single
// value that can be passed around the service layer. The cache and the queue
// share one SQLite connection, which is what makes their combined
// transactions possible.
type ClientStorages struct {
	// RecordCache is the durable local view of scoped records.
	RecordCache RecordCache

	// PendingChangeQueue is the durable FIFO of unconfirmed mutation intents.
	PendingChangeQueue PendingChangeQueue
}

// NewClientStorages initialises the client storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens an SQLite connection to the file path specified in
//     cfg.Cache.Path, creating the database file if it does not yet exist.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Constructs and returns a [ClientStorages] value wired to a fresh
//     [RecordCache] and [PendingChangeQueue] over the shared connection.
//
// Returns an error if the database connection cannot be established or if
// migration fails.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.Cache, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		RecordCache:        NewRecordCache(db, logger),
		PendingChangeQueue: NewPendingChangeQueue(db, logger),
	}, nil
}
