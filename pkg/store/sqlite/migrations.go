package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL migration groups. Each entry runs in
// one transaction; the version number is the 1-based index into this slice.
var migrations = [][]string{
	// Migration 1: contacts and sync jobs
	{
		`CREATE TABLE contacts (
			id TEXT PRIMARY KEY,
			location_id TEXT NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			company_name TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '[]',
			date_added TEXT NOT NULL DEFAULT '',
			raw TEXT NOT NULL DEFAULT '{}',
			synced_at TEXT NOT NULL
		)`,
		`CREATE INDEX idx_contacts_location ON contacts(location_id)`,

		`CREATE TABLE sync_jobs (
			id TEXT PRIMARY KEY,
			job_type TEXT NOT NULL,
			location_id TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			total_items INTEGER NOT NULL DEFAULT 0,
			succeeded_items INTEGER NOT NULL DEFAULT 0,
			failed_items INTEGER NOT NULL DEFAULT 0,
			metadata TEXT NOT NULL DEFAULT '{}',
			started_at TEXT NOT NULL,
			completed_at TEXT,
			duration_ms INTEGER
		)`,
		`CREATE INDEX idx_sync_jobs_location ON sync_jobs(location_id, started_at)`,
	},
}

const upsertContactSQL = `INSERT INTO contacts (
	id, location_id, first_name, last_name, email, phone, company_name,
	source, tags, date_added, raw, synced_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	location_id = excluded.location_id,
	first_name = excluded.first_name,
	last_name = excluded.last_name,
	email = excluded.email,
	phone = excluded.phone,
	company_name = excluded.company_name,
	source = excluded.source,
	tags = excluded.tags,
	date_added = excluded.date_added,
	raw = excluded.raw,
	synced_at = excluded.synced_at`

const listContactsSQL = `SELECT id, location_id, first_name, last_name, email, phone,
	company_name, source, tags, date_added, raw, synced_at
FROM contacts
WHERE location_id = ?
ORDER BY id`

const createSyncJobSQL = `INSERT INTO sync_jobs
	(id, job_type, location_id, status, total_items, metadata, started_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

const completeSyncJobSQL = `UPDATE sync_jobs SET
	status = ?,
	succeeded_items = ?,
	failed_items = ?,
	total_items = MAX(total_items, ?),
	completed_at = ?,
	duration_ms = ?
WHERE id = ?`

const getSyncJobSQL = `SELECT id, job_type, location_id, status, total_items,
	succeeded_items, failed_items, metadata, started_at, completed_at, duration_ms
FROM sync_jobs
WHERE id = ?`

// Migrate runs all pending schema migrations inside a transaction. Migrations
// are tracked in the schema_migrations table by version number.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for i, stmts := range migrations {
		version := i + 1

		var exists int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("check migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", version, err)
		}

		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d: %w", version, err)
			}
		}

		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", version, err)
		}
	}

	return nil
}
