// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

const (
	getRecord = `
		SELECT
			collection,
			id,
			scope_id,
			payload,
			version,
			updated_at,
			deleted,
			sync_status
		FROM records
		WHERE collection = $1 AND id = $2;`

	getRecordsByScope = `
		SELECT
			collection,
			id,
			scope_id,
			payload,
			version,
			updated_at,
			deleted,
			sync_status
		FROM records
		WHERE collection = $1 AND scope_id = $2
		ORDER BY updated_at ASC, id ASC;`

	insertRecord = `
		INSERT INTO records (
			collection,
			id,
			scope_id,
			payload,
			version,
			updated_at,
			deleted,
			sync_status,
			attr_date,
			attr_category
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`

	upsertRecord = `
		INSERT INTO records (
			collection,
			id,
			scope_id,
			payload,
			version,
			updated_at,
			deleted,
			sync_status,
			attr_date,
			attr_category
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (collection, id) DO UPDATE SET
			scope_id      = excluded.scope_id,
			payload       = excluded.payload,
			version       = excluded.version,
			updated_at    = excluded.updated_at,
			deleted       = excluded.deleted,
			sync_status   = excluded.sync_status,
			attr_date     = excluded.attr_date,
			attr_category = excluded.attr_category;`

	updateRecord = `
		UPDATE records SET
			payload       = $1,
			version       = $2,
			updated_at    = $3,
			deleted       = $4,
			sync_status   = $5,
			attr_date     = $6,
			attr_category = $7
		WHERE collection = $8 AND id = $9;`

	markRecordDeleted = `
		UPDATE records SET
			deleted     = TRUE,
			version     = $1,
			updated_at  = $2,
			sync_status = $3
		WHERE collection = $4 AND id = $5;`

	deleteRecord = `
		DELETE FROM records
		WHERE collection = $1 AND id = $2;`

	setRecordSyncStatus = `
		UPDATE records SET
			sync_status = $1
		WHERE collection = $2 AND id = $3;`
)

const (
	insertPendingChange = `
		INSERT INTO pending_changes (
			kind,
			collection,
			record_id,
			scope_id,
			payload,
			base_version,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;`

	getPendingChange = `
		SELECT
			id,
			kind,
			collection,
			record_id,
			scope_id,
			payload,
			base_version,
			created_at,
			retry_count,
			last_error,
			synced,
			conflict_remote_version,
			conflict_remote_data
		FROM pending_changes
		WHERE id = $1;`

	listPendingChanges = `
		SELECT
			id,
			kind,
			collection,
			record_id,
			scope_id,
			payload,
			base_version,
			created_at,
			retry_count,
			last_error,
			synced,
			conflict_remote_version,
			conflict_remote_data
		FROM pending_changes
		WHERE synced = FALSE AND conflict_remote_version IS NULL
		ORDER BY id ASC;`

	listConflictChanges = `
		SELECT
			id,
			kind,
			collection,
			record_id,
			scope_id,
			payload,
			base_version,
			created_at,
			retry_count,
			last_error,
			synced,
			conflict_remote_version,
			conflict_remote_data
		FROM pending_changes
		WHERE synced = FALSE AND conflict_remote_version IS NOT NULL
		ORDER BY id ASC;`

	listPendingChangesForRecord = `
		SELECT
			id,
			kind,
			collection,
			record_id,
			scope_id,
			payload,
			base_version,
			created_at,
			retry_count,
			last_error,
			synced,
			conflict_remote_version,
			conflict_remote_data
		FROM pending_changes
		WHERE synced = FALSE AND collection = $1 AND record_id = $2
		ORDER BY id ASC;`

	markPendingChangeSynced = `
		UPDATE pending_changes SET
			synced                  = TRUE,
			conflict_remote_version = NULL,
			conflict_remote_data    = NULL
		WHERE id = $1 AND synced = FALSE;`

	markPendingChangeConflict = `
		UPDATE pending_changes SET
			conflict_remote_version = $1,
			conflict_remote_data    = $2
		WHERE id = $3 AND synced = FALSE;`

	restagePendingChange = `
		UPDATE pending_changes SET
			base_version            = $1,
			retry_count             = 0,
			last_error              = '',
			conflict_remote_version = NULL,
			conflict_remote_data    = NULL
		WHERE id = $2;`

	incrementPendingChangeRetry = `
		UPDATE pending_changes SET
			retry_count = retry_count + 1,
			last_error  = $1
		WHERE id = $2 AND synced = FALSE;`

	gcSyncedPendingChanges = `
		DELETE FROM pending_changes
		WHERE synced = TRUE;`

	countPendingChanges = `
		SELECT COUNT(*)
		FROM pending_changes
		WHERE synced = FALSE AND conflict_remote_version IS NULL;`

	countConflictChanges = `
		SELECT COUNT(*)
		FROM pending_changes
		WHERE synced = FALSE AND conflict_remote_version IS NOT NULL;`
)
