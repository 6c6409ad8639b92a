// Package sqlite is a pure Go store.Store backed by modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/natserract/highlevel/pkg/store"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// DB implements store.Store on a single SQLite connection.
type DB struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ store.Store = (*DB)(nil)

// Open opens a SQLite database at the given DSN and configures it for
// production use: WAL mode, foreign keys enabled, busy timeout of 5s.
func Open(dsn string, logger *zap.Logger) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single connection for SQLite to avoid locking issues.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("SQLite database opened", zap.String("dsn", dsn))

	return &DB{db: db, logger: logger}, nil
}

// Close closes the database.
func (s *DB) Close() error {
	return s.db.Close()
}

// InitSchema runs all pending migrations.
func (s *DB) InitSchema(ctx context.Context) error {
	s.logger.Info("Initializing database schema")
	if err := Migrate(ctx, s.db); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	s.logger.Info("Database schema initialized successfully")
	return nil
}

// SaveContacts upserts contacts inside one transaction.
func (s *DB) SaveContacts(ctx context.Context, contacts []store.ContactRecord) error {
	if len(contacts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertContactSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range contacts {
		tags, err := json.Marshal(nonNil(c.Tags))
		if err != nil {
			return fmt.Errorf("failed to encode tags of contact %s: %w", c.ID, err)
		}
		raw := string(c.Raw)
		if raw == "" {
			raw = "{}"
		}
		syncedAt := c.SyncedAt
		if syncedAt.IsZero() {
			syncedAt = time.Now().UTC()
		}

		if _, err := stmt.ExecContext(ctx,
			c.ID, c.LocationID, c.FirstName, c.LastName, c.Email, c.Phone,
			c.CompanyName, c.Source, string(tags), c.DateAdded, raw,
			syncedAt.UTC().Format(time.RFC3339Nano),
		); err != nil {
			s.logger.Error("Failed to save contact",
				zap.String("contact_id", c.ID),
				zap.Error(err))
			return fmt.Errorf("failed to save contact %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Debug("Saved contacts batch", zap.Int("count", len(contacts)))
	return nil
}

// ListContacts returns the contacts of a location ordered by id.
func (s *DB) ListContacts(ctx context.Context, locationID string) ([]store.ContactRecord, error) {
	rows, err := s.db.QueryContext(ctx, listContactsSQL, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	var out []store.ContactRecord
	for rows.Next() {
		var c store.ContactRecord
		var tags, raw, syncedAt string
		if err := rows.Scan(&c.ID, &c.LocationID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
			&c.CompanyName, &c.Source, &tags, &c.DateAdded, &raw, &syncedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &c.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags of contact %s: %w", c.ID, err)
		}
		c.Raw = []byte(raw)
		c.SyncedAt, err = time.Parse(time.RFC3339Nano, syncedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse synced_at of contact %s: %w", c.ID, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateSyncJob inserts a running sync job.
func (s *DB) CreateSyncJob(ctx context.Context, job store.SyncJob) (store.SyncJob, error) {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.Status == "" {
		job.Status = store.JobStatusRunning
	}
	if job.StartedAt.IsZero() {
		job.StartedAt = time.Now().UTC()
	}
	if len(job.Metadata) == 0 {
		job.Metadata = []byte("{}")
	}

	_, err := s.db.ExecContext(ctx, createSyncJobSQL,
		job.ID.String(), job.JobType, job.LocationID, job.Status, job.TotalItems,
		string(job.Metadata), job.StartedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return store.SyncJob{}, fmt.Errorf("failed to create sync job: %w", err)
	}
	return job, nil
}

// CompleteSyncJob records the final status, counts and duration of a job.
func (s *DB) CompleteSyncJob(ctx context.Context, id uuid.UUID, status string, succeeded, failed int) error {
	var startedAt string
	err := s.db.QueryRowContext(ctx, "SELECT started_at FROM sync_jobs WHERE id = ?", id.String()).Scan(&startedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("sync job %s not found", id)
	}
	if err != nil {
		return fmt.Errorf("failed to load sync job %s: %w", id, err)
	}
	started, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return fmt.Errorf("failed to parse started_at of sync job %s: %w", id, err)
	}

	completed := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, completeSyncJobSQL,
		status, succeeded, failed, succeeded+failed,
		completed.Format(time.RFC3339Nano), completed.Sub(started).Milliseconds(),
		id.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to complete sync job %s: %w", id, err)
	}
	return nil
}

// GetSyncJob loads a sync job by id.
func (s *DB) GetSyncJob(ctx context.Context, id uuid.UUID) (store.SyncJob, error) {
	var (
		job         store.SyncJob
		rawID       string
		metadata    string
		startedAt   string
		completedAt sql.NullString
		durationMs  sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, getSyncJobSQL, id.String()).Scan(
		&rawID, &job.JobType, &job.LocationID, &job.Status, &job.TotalItems,
		&job.SucceededItems, &job.FailedItems, &metadata, &startedAt, &completedAt, &durationMs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return store.SyncJob{}, fmt.Errorf("sync job %s not found", id)
	}
	if err != nil {
		return store.SyncJob{}, fmt.Errorf("failed to load sync job %s: %w", id, err)
	}

	if job.ID, err = uuid.Parse(rawID); err != nil {
		return store.SyncJob{}, fmt.Errorf("invalid sync job id %q: %w", rawID, err)
	}
	job.Metadata = []byte(metadata)
	if job.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return store.SyncJob{}, fmt.Errorf("failed to parse started_at of sync job %s: %w", id, err)
	}
	if completedAt.Valid {
		if job.CompletedAt, err = time.Parse(time.RFC3339Nano, completedAt.String); err != nil {
			return store.SyncJob{}, fmt.Errorf("failed to parse completed_at of sync job %s: %w", id, err)
		}
	}
	if durationMs.Valid {
		job.DurationMs = durationMs.Int64
	}
	return job, nil
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
