package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-budget-keeper/models"
)

const (
	getServerRecord = `SELECT collection, id, scope_id, payload, version, updated_at, deleted
    FROM records
    WHERE collection = $1 AND id = $2;`

	insertServerRecord = `INSERT INTO records (collection, id, scope_id, payload, version, updated_at, deleted)
    VALUES ($1, $2, $3, $4, 1, $5, FALSE)
    ON CONFLICT (collection, id) DO NOTHING
    RETURNING version;`

	updateServerRecord = `
       WITH target_record AS (
          SELECT version
          FROM records
          WHERE collection = $1 AND id = $2
       ),
       updated_record AS (
          UPDATE records
          SET payload = $3,
              updated_at = $4,
              version = version + 1,
              deleted = FALSE
          WHERE collection = $1
            AND id = $2
            AND version = $5
          RETURNING version
       )
       SELECT
          (SELECT version FROM updated_record)  AS updated_version,
          (SELECT version FROM target_record)   AS current_db_version;`

	softDeleteServerRecord = `UPDATE records
    SET deleted = TRUE, version = version + 1, updated_at = NOW()
    WHERE collection = $1 AND id = $2 AND deleted = FALSE
    RETURNING scope_id, payload, version, updated_at;`

	deleteServerRecord = `DELETE FROM records
    WHERE collection = $1 AND id = $2
    RETURNING scope_id, version;`
)

// serverRecordColumns is the scan order shared by every server-side read.
var serverRecordColumns = []string{
	"collection", "id", "scope_id", "payload", "version", "updated_at", "deleted",
}

// buildListRecordsQuery builds the scope list query, narrowing by the
// secondary payload attributes when the filter asks for it.
func buildListRecordsQuery(scopeID string, collection models.Collection, filter models.RecordFilter) (string, []any, error) {
	builder := sq.Select(serverRecordColumns...).
		From("records").
		Where(sq.Eq{"scope_id": scopeID}).
		Where(sq.Eq{"collection": collection}).
		PlaceholderFormat(sq.Dollar)

	// Добавляем фильтры по вторичным атрибутам
	if filter.DateFrom != "" {
		builder = builder.Where(sq.GtOrEq{"payload->>'date'": filter.DateFrom})
	}
	if filter.DateTo != "" {
		builder = builder.Where(sq.LtOrEq{"payload->>'date'": filter.DateTo})
	}
	if filter.Category != "" {
		builder = builder.Where(sq.Eq{"payload->>'category'": filter.Category})
	}
	if filter.ActiveOnly {
		builder = builder.Where(sq.Eq{"deleted": false})
	}

	query, args, err := builder.
		OrderBy("updated_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
