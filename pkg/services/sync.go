package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/natserract/highlevel/pkg/highlevel"
	"github.com/natserract/highlevel/pkg/store"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

const (
	defaultBatchSize     = 100
	defaultMaxGoroutines = 5
)

// SyncMetrics tracks the overall sync operation metrics
type SyncMetrics struct {
	LocationsSucceeded int
	LocationsFailed    int
	ContactsSucceeded  int
	ContactsFailed     int
	mu                 sync.Mutex
}

// AddLocationSuccess increments the locations succeeded count
func (m *SyncMetrics) AddLocationSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LocationsSucceeded++
}

// AddLocationFailure increments the locations failed count
func (m *SyncMetrics) AddLocationFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LocationsFailed++
}

// AddContacts adds the results of one contact batch
func (m *SyncMetrics) AddContacts(succeeded, failed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ContactsSucceeded += succeeded
	m.ContactsFailed += failed
}

// TotalSucceeded returns the total number of succeeded operations
func (m *SyncMetrics) TotalSucceeded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LocationsSucceeded + m.ContactsSucceeded
}

// TotalFailed returns the total number of failed operations
func (m *SyncMetrics) TotalFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LocationsFailed + m.ContactsFailed
}

// SyncService copies contacts from HighLevel into a store, tracking each
// location's run as a sync job.
type SyncService struct {
	client *highlevel.Client
	store  store.Store
	logger *zap.Logger

	// BatchSize is the number of contacts saved per store call.
	BatchSize int
	// MaxGoroutines bounds the number of locations synced concurrently.
	MaxGoroutines int
}

// NewSyncService creates a new sync service
func NewSyncService(client *highlevel.Client, st store.Store, logger *zap.Logger) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{
		client:        client,
		store:         st,
		logger:        logger,
		BatchSize:     defaultBatchSize,
		MaxGoroutines: defaultMaxGoroutines,
	}
}

// SyncAgency syncs the contacts of every location of the agency. Each location
// is synced with its own location token. A failing location is counted and
// logged and does not stop the others.
func (s *SyncService) SyncAgency(ctx context.Context, agency *highlevel.Agency) (*SyncMetrics, error) {
	startTime := time.Now()
	s.logger.Info("Starting agency sync", zap.String("company_id", agency.ID))

	metrics := &SyncMetrics{}

	cursor, err := agency.GetLocations(ctx, nil)
	if err != nil {
		return metrics, fmt.Errorf("failed to fetch locations: %w", err)
	}

	locationPool := pool.New().WithMaxGoroutines(s.maxGoroutines()).WithErrors()
	for loc, err := range cursor.All(ctx) {
		if err != nil {
			_ = locationPool.Wait()
			return metrics, fmt.Errorf("failed to fetch locations: %w", err)
		}
		locationPool.Go(func() error {
			creds, err := agency.LocationToken(ctx, loc.ID)
			if err != nil {
				metrics.AddLocationFailure()
				s.logger.Error("Failed to obtain location token",
					zap.String("location_id", loc.ID),
					zap.String("location_name", loc.Name),
					zap.Error(err))
				return fmt.Errorf("failed to obtain token for location %s: %w", loc.ID, err)
			}

			location := highlevel.NewLocation(s.client, creds, loc.ID)
			location.Name = loc.Name
			if err := s.SyncLocation(ctx, location, metrics); err != nil {
				metrics.AddLocationFailure()
				return err
			}
			metrics.AddLocationSuccess()
			return nil
		})
	}

	if err := locationPool.Wait(); err != nil {
		s.logger.Warn("Some locations failed to sync", zap.Error(err))
	}

	s.logger.Info("Completed agency sync",
		zap.Duration("duration", time.Since(startTime)),
		zap.Int("locations_succeeded", metrics.LocationsSucceeded),
		zap.Int("locations_failed", metrics.LocationsFailed),
		zap.Int("contacts_succeeded", metrics.ContactsSucceeded),
		zap.Int("contacts_failed", metrics.ContactsFailed),
		zap.Int("total_succeeded", metrics.TotalSucceeded()),
		zap.Int("total_failed", metrics.TotalFailed()))

	return metrics, nil
}

// SyncLocation walks the contacts of location and saves them in batches.
// The run is recorded as a sync job that ends completed, or failed when the
// listing breaks off or any contact could not be saved.
func (s *SyncService) SyncLocation(ctx context.Context, location *highlevel.Location, metrics *SyncMetrics) error {
	startTime := time.Now()
	if metrics == nil {
		metrics = &SyncMetrics{}
	}

	metadata, _ := json.Marshal(map[string]any{
		"location_id":   location.ID,
		"location_name": location.Name,
		"operation":     store.JobTypeContactSync,
	})
	job, err := s.store.CreateSyncJob(ctx, store.SyncJob{
		JobType:    store.JobTypeContactSync,
		LocationID: location.ID,
		Status:     store.JobStatusRunning,
		Metadata:   metadata,
	})
	if err != nil {
		return fmt.Errorf("failed to create sync job for location %s: %w", location.ID, err)
	}
	s.logger.Info("Created sync job",
		zap.String("job_id", job.ID.String()),
		zap.String("location_id", location.ID))

	succeeded, failed, syncErr := s.syncContacts(ctx, location, metrics)

	status := store.JobStatusCompleted
	if syncErr != nil || failed > 0 {
		status = store.JobStatusFailed
	}
	if err := s.store.CompleteSyncJob(ctx, job.ID, status, succeeded, failed); err != nil {
		s.logger.Warn("Failed to complete sync job",
			zap.String("job_id", job.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("Completed location sync",
		zap.String("job_id", job.ID.String()),
		zap.String("location_id", location.ID),
		zap.String("status", status),
		zap.Int("succeeded", succeeded),
		zap.Int("failed", failed),
		zap.Duration("duration", time.Since(startTime)))

	if syncErr != nil {
		return fmt.Errorf("failed to sync contacts of location %s: %w", location.ID, syncErr)
	}
	return nil
}

func (s *SyncService) syncContacts(ctx context.Context, location *highlevel.Location, metrics *SyncMetrics) (int, int, error) {
	cursor, err := location.Contacts(ctx, nil)
	if err != nil {
		return 0, 0, err
	}

	succeeded, failed := 0, 0
	batch := make([]store.ContactRecord, 0, s.batchSize())

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := s.store.SaveContacts(ctx, batch); err != nil {
			s.logger.Error("Failed to save contacts batch",
				zap.String("location_id", location.ID),
				zap.Int("count", len(batch)),
				zap.Error(err))
			failed += len(batch)
			metrics.AddContacts(0, len(batch))
		} else {
			succeeded += len(batch)
			metrics.AddContacts(len(batch), 0)
		}
		batch = batch[:0]
	}

	for contact, err := range cursor.All(ctx) {
		if err != nil {
			flush()
			return succeeded, failed, err
		}
		record, err := store.NewContactRecord(contact)
		if err != nil {
			s.logger.Warn("Skipping contact",
				zap.String("location_id", location.ID),
				zap.Error(err))
			failed++
			metrics.AddContacts(0, 1)
			continue
		}
		if record.LocationID == "" {
			record.LocationID = location.ID
		}
		batch = append(batch, record)
		if len(batch) >= s.batchSize() {
			flush()
		}
	}
	flush()

	return succeeded, failed, nil
}

func (s *SyncService) batchSize() int {
	if s.BatchSize <= 0 {
		return defaultBatchSize
	}
	return s.BatchSize
}

func (s *SyncService) maxGoroutines() int {
	if s.MaxGoroutines <= 0 {
		return defaultMaxGoroutines
	}
	return s.MaxGoroutines
}
