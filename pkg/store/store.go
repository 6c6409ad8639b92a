// Package store persists CRM data synchronized from HighLevel.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/natserract/highlevel/pkg/highlevel"
)

// Sync job statuses.
const (
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// JobTypeContactSync is the job type recorded for one location's contact sync.
const JobTypeContactSync = "contact_sync"

// ContactRecord is the stored form of a contact. Raw holds the full exported
// field mapping, including fields without a dedicated column.
type ContactRecord struct {
	ID          string
	LocationID  string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	CompanyName string
	Source      string
	Tags        []string
	DateAdded   string
	Raw         []byte
	SyncedAt    time.Time
}

// SyncJob tracks one synchronization run.
type SyncJob struct {
	ID             uuid.UUID
	JobType        string
	LocationID     string
	Status         string
	TotalItems     int
	SucceededItems int
	FailedItems    int
	Metadata       []byte
	StartedAt      time.Time
	CompletedAt    time.Time
	DurationMs     int64
}

// Store is implemented by the postgres and sqlite backends.
type Store interface {
	// InitSchema creates the tables if they do not exist.
	InitSchema(ctx context.Context) error
	// SaveContacts upserts contacts by id.
	SaveContacts(ctx context.Context, contacts []ContactRecord) error
	// ListContacts returns the stored contacts of a location ordered by id.
	ListContacts(ctx context.Context, locationID string) ([]ContactRecord, error)
	// CreateSyncJob records a running job. A nil ID is replaced by a new one.
	CreateSyncJob(ctx context.Context, job SyncJob) (SyncJob, error)
	// CompleteSyncJob stores the final status and counts of a job.
	CompleteSyncJob(ctx context.Context, id uuid.UUID, status string, succeeded, failed int) error
	// GetSyncJob loads a job by id.
	GetSyncJob(ctx context.Context, id uuid.UUID) (SyncJob, error)
	Close() error
}

// NewContactRecord converts a contact fetched from the API.
func NewContactRecord(c *highlevel.Contact) (ContactRecord, error) {
	if c.ID == "" {
		return ContactRecord{}, fmt.Errorf("contact has no id")
	}
	raw, err := json.Marshal(c.ExportData())
	if err != nil {
		return ContactRecord{}, fmt.Errorf("failed to marshal contact %s: %w", c.ID, err)
	}

	locationID := c.LocationID
	if locationID == "" {
		locationID = c.Credentials().LocationID
	}

	return ContactRecord{
		ID:          c.ID,
		LocationID:  locationID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Phone:       c.Phone,
		CompanyName: c.CompanyName,
		Source:      c.Source,
		Tags:        append([]string(nil), c.Tags...),
		DateAdded:   c.DateAdded,
		Raw:         raw,
		SyncedAt:    time.Now().UTC(),
	}, nil
}
