// Package migrations embeds the versioned schema migrations for both storage
// backends: the server's PostgreSQL store and the client's SQLite cache.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

//go:embed postgres/*.sql
var postgresMigrations embed.FS

//go:embed sqlite/*.sql
var sqliteMigrations embed.FS

// Migrate brings the database schema up to the latest version using the
// embedded migration set for the given dialect.
func Migrate(ctx context.Context, db *sql.DB, dialect database.Dialect) error {
	var embedded embed.FS
	var dir string

	switch dialect {
	case database.DialectPostgres:
		embedded, dir = postgresMigrations, "postgres"
	case database.DialectSQLite3:
		embedded, dir = sqliteMigrations, "sqlite"
	default:
		return fmt.Errorf("unsupported migration dialect: %s", dialect)
	}

	fsys, err := fs.Sub(embedded, dir)
	if err != nil {
		return fmt.Errorf("migration error opening embedded set: %w", err)
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("migration error creating provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
