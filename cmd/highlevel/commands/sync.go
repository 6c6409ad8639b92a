package commands

import (
	"context"
	"fmt"

	"github.com/natserract/highlevel/pkg/highlevel"
	"github.com/natserract/highlevel/pkg/services"
	"github.com/natserract/highlevel/pkg/store"
	"github.com/natserract/highlevel/pkg/store/postgres"
	"github.com/natserract/highlevel/pkg/store/sqlite"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewSyncCommand creates the sync command
func NewSyncCommand() *cobra.Command {
	var (
		backend       string
		sqlitePath    string
		batchSize     int
		maxGoroutines int
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror contacts into a database",
		Long: `Copy contacts into Postgres or SQLite.

With --company (or an agency token carrying a company id) every location of
the agency is synced using per-location tokens. Otherwise only the configured
location is synced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			defer func() { _ = s.logger.Sync() }()

			ctx := context.Background()
			st, err := openStore(ctx, backend, sqlitePath, s.logger)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.InitSchema(ctx); err != nil {
				return err
			}

			svc := services.NewSyncService(s.client, st, s.logger)
			svc.BatchSize = batchSize
			svc.MaxGoroutines = maxGoroutines

			metrics := &services.SyncMetrics{}
			if s.creds.CompanyID != "" {
				agency, err := highlevel.NewAgency(s.client, s.creds, "")
				if err != nil {
					return err
				}
				if metrics, err = svc.SyncAgency(ctx, agency); err != nil {
					return err
				}
			} else {
				location, err := s.location()
				if err != nil {
					return err
				}
				if err := svc.SyncLocation(ctx, location, metrics); err != nil {
					return err
				}
				metrics.AddLocationSuccess()
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Synced %d contacts from %d locations (%d contacts failed, %d locations failed)\n",
				metrics.ContactsSucceeded, metrics.LocationsSucceeded,
				metrics.ContactsFailed, metrics.LocationsFailed)
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "store", "sqlite", "storage backend (postgres, sqlite)")
	cmd.Flags().StringVar(&sqlitePath, "sqlite-path", "highlevel.db", "SQLite database file")
	cmd.Flags().IntVar(&batchSize, "batch-size", 100, "contacts saved per batch")
	cmd.Flags().IntVar(&maxGoroutines, "concurrency", 5, "locations synced concurrently")

	return cmd
}

func openStore(ctx context.Context, backend, sqlitePath string, logger *zap.Logger) (store.Store, error) {
	switch backend {
	case "postgres":
		cfg, err := postgres.NewConfig()
		if err != nil {
			return nil, err
		}
		db, err := postgres.New(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return db, nil
	case "sqlite":
		db, err := sqlite.Open(sqlitePath, logger)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown store %q (want postgres or sqlite)", backend)
	}
}
