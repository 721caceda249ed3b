// Package app wires configuration into the report pipeline shared by the service and the CLI.
package app

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/idp-analytics/identity-reports/internal/archive"
	"github.com/idp-analytics/identity-reports/internal/core/config"
	"github.com/idp-analytics/identity-reports/internal/core/storage/postgres"
	"github.com/idp-analytics/identity-reports/internal/dashboard"
	"github.com/idp-analytics/identity-reports/internal/loader"
	"github.com/idp-analytics/identity-reports/internal/migrations"
)

// ErrNoStore is returned when archiving is requested without a configured database.
var ErrNoStore = errors.New("no fragment store configured")

// App holds the constructed components. DB and Store are nil unless the configuration
// needs a database.
type App struct {
	Config    *config.Config
	DB        *sql.DB
	Store     *postgres.FragmentStore
	Source    loader.Fetcher
	Loader    *loader.Loader
	Dashboard *dashboard.Service
}

// New builds every component cfg enables. Call Close when done.
func New(cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	if cfg.NeedsDatabase() {
		db, err := postgres.Open(cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.DB = db

		if err := migrations.RunMigrations(db, cfg.Database.AutoMigrate); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}

		store, err := postgres.NewFragmentStore(db)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize fragment store: %w", err)
		}
		a.Store = store
	}

	a.Source = a.sourceFetcher()

	var fetcher loader.Fetcher = a.Source
	if cfg.Reports.CacheSize > 0 {
		fetcher = loader.NewCachingFetcher(a.Source, cfg.Reports.CacheSize)
	}
	a.Loader = loader.New(fetcher, cfg.Reports.MaxConcurrency)
	a.Dashboard = dashboard.NewService(a.Loader, cfg.Definition, cfg.Reports.Env)

	slog.Info("[App] Report pipeline initialized",
		"source", cfg.Reports.Source,
		"env", cfg.Reports.Env,
		"max_concurrency", cfg.Reports.MaxConcurrency,
		"cache_size", cfg.Reports.CacheSize,
		"database", a.DB != nil,
	)
	return a, nil
}

func (a *App) sourceFetcher() loader.Fetcher {
	switch a.Config.Reports.Source {
	case config.SourceFileSystem:
		return loader.NewFileSystemFetcher(a.Config.Reports.RootDir)
	case config.SourcePostgres:
		return a.Store
	default:
		return loader.NewHTTPFetcher(a.Config.Reports.BaseURL, nil, a.Config.Reports.FetchTimeout)
	}
}

// ArchiveJob builds the job copying the configured reports from the source into the store.
func (a *App) ArchiveJob() (*archive.Job, error) {
	if a.Store == nil {
		return nil, ErrNoStore
	}
	return archive.NewJob(a.Source, a.Store, a.Config.Archive.Reports, a.Config.Reports.Env, a.Config.Reports.MaxConcurrency)
}

// Close releases the store and the database.
func (a *App) Close() error {
	var errs []error
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
