package store

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3/database"

	"github.com/MKhiriev/go-budget-keeper/internal/logger"
	"github.com/MKhiriev/go-budget-keeper/migrations"
)

type DB struct {
	*sql.DB
	dialect            database.Dialect
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Migrate(ctx, db.DB, db.dialect)
}
