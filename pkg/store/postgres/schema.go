package postgres

const schemaSQL = `
CREATE TABLE IF NOT EXISTS contacts (
	id           TEXT PRIMARY KEY,
	location_id  TEXT NOT NULL,
	first_name   TEXT,
	last_name    TEXT,
	email        TEXT,
	phone        TEXT,
	company_name TEXT,
	source       TEXT,
	tags         TEXT[] NOT NULL DEFAULT '{}',
	date_added   TEXT,
	raw          JSONB NOT NULL DEFAULT '{}'::jsonb,
	synced_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_contacts_location ON contacts(location_id);

CREATE TABLE IF NOT EXISTS sync_jobs (
	id              UUID PRIMARY KEY,
	job_type        TEXT NOT NULL,
	location_id     TEXT,
	status          TEXT NOT NULL,
	total_items     INTEGER NOT NULL DEFAULT 0,
	succeeded_items INTEGER NOT NULL DEFAULT 0,
	failed_items    INTEGER NOT NULL DEFAULT 0,
	metadata        JSONB NOT NULL DEFAULT '{}'::jsonb,
	started_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	completed_at    TIMESTAMPTZ,
	duration_ms     BIGINT
);

CREATE INDEX IF NOT EXISTS idx_sync_jobs_location ON sync_jobs(location_id, started_at);
`

const upsertContactSQL = `
INSERT INTO contacts (
	id, location_id, first_name, last_name, email, phone, company_name,
	source, tags, date_added, raw, synced_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb, $12)
ON CONFLICT (id) DO UPDATE SET
	location_id  = EXCLUDED.location_id,
	first_name   = EXCLUDED.first_name,
	last_name    = EXCLUDED.last_name,
	email        = EXCLUDED.email,
	phone        = EXCLUDED.phone,
	company_name = EXCLUDED.company_name,
	source       = EXCLUDED.source,
	tags         = EXCLUDED.tags,
	date_added   = EXCLUDED.date_added,
	raw          = EXCLUDED.raw,
	synced_at    = EXCLUDED.synced_at`

const listContactsSQL = `
SELECT id, location_id, first_name, last_name, email, phone, company_name,
	source, tags, date_added, raw::text, synced_at
FROM contacts
WHERE location_id = $1
ORDER BY id`

const createSyncJobSQL = `
INSERT INTO sync_jobs (id, job_type, location_id, status, total_items, metadata, started_at)
VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7)`

const completeSyncJobSQL = `
UPDATE sync_jobs SET
	status          = $1,
	succeeded_items = $2,
	failed_items    = $3,
	total_items     = GREATEST(total_items, $2 + $3),
	completed_at    = $4,
	duration_ms     = (EXTRACT(EPOCH FROM ($4 - started_at)) * 1000)::BIGINT
WHERE id = $5`

const getSyncJobSQL = `
SELECT id, job_type, location_id, status, total_items, succeeded_items, failed_items,
	metadata::text, started_at, completed_at, duration_ms
FROM sync_jobs
WHERE id = $1`
