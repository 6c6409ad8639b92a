package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/natserract/highlevel/pkg/store"
	"go.uber.org/zap"
)

// DB wraps the pgx connection pool and implements store.Store
type DB struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

var _ store.Store = (*DB)(nil)

// Config holds database configuration
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// NewConfig creates a new database config from environment variables
func NewConfig() (*Config, error) {
	port := 5432
	if value := os.Getenv("DB_PORT"); value != "" {
		p, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("DB_PORT is invalid: %w", err)
		}
		port = p
	}

	return &Config{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            port,
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		Database:        getEnv("DB_NAME", "highlevel"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 30 * time.Minute,
	}, nil
}

// DSN returns the connection string for cfg.
func (cfg *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)
}

// New creates a new database connection pool using pgx
func New(ctx context.Context, cfg *Config, logger *zap.Logger) (*DB, error) {
	config, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	config.MaxConns = cfg.MaxConns
	config.MinConns = cfg.MinConns
	config.MaxConnLifetime = cfg.MaxConnLifetime
	config.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	db := &DB{
		pool:   pool,
		logger: logger,
	}

	// Test the connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection pool established",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database),
		zap.Int32("max_conns", cfg.MaxConns))

	return db, nil
}

// Close closes the database connection pool
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// InitSchema creates the contacts and sync_jobs tables
func (db *DB) InitSchema(ctx context.Context) error {
	db.logger.Info("Initializing database schema")

	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	db.logger.Info("Database schema initialized successfully")
	return nil
}

// SaveContacts upserts contacts in one batch inside a transaction
func (db *DB) SaveContacts(ctx context.Context, contacts []store.ContactRecord) error {
	if len(contacts) == 0 {
		return nil
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, c := range contacts {
		batch.Queue(upsertContactSQL, contactArgs(c, time.Now().UTC())...)
	}

	results := tx.SendBatch(ctx, batch)
	for _, c := range contacts {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			db.logger.Error("Failed to save contact",
				zap.String("contact_id", c.ID),
				zap.Error(err))
			return fmt.Errorf("failed to save contact %s: %w", c.ID, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	db.logger.Debug("Saved contacts batch", zap.Int("count", len(contacts)))
	return nil
}

// contactArgs maps a record onto the parameters of upsertContactSQL. Empty
// strings become NULL, a missing raw document becomes {} and a zero sync time
// becomes now.
func contactArgs(c store.ContactRecord, now time.Time) []any {
	raw := string(c.Raw)
	if raw == "" {
		raw = "{}"
	}
	syncedAt := c.SyncedAt
	if syncedAt.IsZero() {
		syncedAt = now
	}
	return []any{
		c.ID,
		c.LocationID,
		text(c.FirstName),
		text(c.LastName),
		text(c.Email),
		text(c.Phone),
		text(c.CompanyName),
		text(c.Source),
		tags(c.Tags),
		text(c.DateAdded),
		raw,
		syncedAt,
	}
}

// ListContacts returns the contacts of a location ordered by id
func (db *DB) ListContacts(ctx context.Context, locationID string) ([]store.ContactRecord, error) {
	rows, err := db.pool.Query(ctx, listContactsSQL, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	var out []store.ContactRecord
	for rows.Next() {
		var c store.ContactRecord
		var firstName, lastName, email, phone, company, src, added pgtype.Text
		var raw string
		if err := rows.Scan(&c.ID, &c.LocationID, &firstName, &lastName, &email, &phone,
			&company, &src, &c.Tags, &added, &raw, &c.SyncedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		c.FirstName = firstName.String
		c.LastName = lastName.String
		c.Email = email.String
		c.Phone = phone.String
		c.CompanyName = company.String
		c.Source = src.String
		c.DateAdded = added.String
		c.Raw = []byte(raw)
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateSyncJob inserts a running sync job
func (db *DB) CreateSyncJob(ctx context.Context, job store.SyncJob) (store.SyncJob, error) {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.Status == "" {
		job.Status = store.JobStatusRunning
	}
	if job.StartedAt.IsZero() {
		job.StartedAt = time.Now().UTC()
	}
	metadata := job.Metadata
	if len(metadata) == 0 {
		metadata = []byte("{}")
	}

	_, err := db.pool.Exec(ctx, createSyncJobSQL,
		job.ID,
		job.JobType,
		text(job.LocationID),
		job.Status,
		int32(job.TotalItems),
		string(metadata),
		job.StartedAt,
	)
	if err != nil {
		return store.SyncJob{}, fmt.Errorf("failed to create sync job: %w", err)
	}
	job.Metadata = metadata
	return job, nil
}

// CompleteSyncJob records the final status, counts and duration of a job
func (db *DB) CompleteSyncJob(ctx context.Context, id uuid.UUID, status string, succeeded, failed int) error {
	tag, err := db.pool.Exec(ctx, completeSyncJobSQL,
		status,
		int32(succeeded),
		int32(failed),
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete sync job %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sync job %s not found", id)
	}
	return nil
}

// GetSyncJob loads a sync job by id
func (db *DB) GetSyncJob(ctx context.Context, id uuid.UUID) (store.SyncJob, error) {
	var (
		job         store.SyncJob
		locationID  pgtype.Text
		total       int32
		succeeded   int32
		failed      int32
		metadata    string
		completedAt pgtype.Timestamptz
		durationMs  pgtype.Int8
	)
	err := db.pool.QueryRow(ctx, getSyncJobSQL, id).Scan(
		&job.ID, &job.JobType, &locationID, &job.Status, &total, &succeeded, &failed,
		&metadata, &job.StartedAt, &completedAt, &durationMs,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.SyncJob{}, fmt.Errorf("sync job %s not found", id)
	}
	if err != nil {
		return store.SyncJob{}, fmt.Errorf("failed to load sync job %s: %w", id, err)
	}

	job.LocationID = locationID.String
	job.TotalItems = int(total)
	job.SucceededItems = int(succeeded)
	job.FailedItems = int(failed)
	job.Metadata = []byte(metadata)
	if completedAt.Valid {
		job.CompletedAt = completedAt.Time
	}
	if durationMs.Valid {
		job.DurationMs = durationMs.Int64
	}
	return job, nil
}

func text(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func tags(t []string) []string {
	if t == nil {
		return []string{}
	}
	return t
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
