package vehicle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory-sync/core/events"
	"inventory-sync/core/feed"
	"inventory-sync/core/metrics"
	"inventory-sync/core/reconcile"
	"inventory-sync/core/storage"
	"inventory-sync/feature/vehicle/models"
	"inventory-sync/feature/vehicle/normalize"
	vehiclereconcile "inventory-sync/feature/vehicle/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoDatabase is returned when the service is used without a database connection.
var ErrNoDatabase = errors.New("database is not connected")

// Deps are the collaborators of the vehicle service. Only DB is required.
type Deps struct {
	DB     *gorm.DB
	Feed   feed.Config
	Logger *zap.Logger

	// Storage receives imported images. Nil disables image import.
	Storage storage.Client
	Bucket  string
	Prefix  string

	// Source overrides the HTTP feed source, e.g. with a feed.FileSource.
	Source reconcile.Source

	Metrics *metrics.Registry
	Events  events.Publisher
}

// Status is the state of the sync engine as reported to operators.
type Status struct {
	State       reconcile.State  `json:"state"`
	Feed        string           `json:"feed"`
	Format      string           `json:"format"`
	AutoSync    bool             `json:"auto_sync"`
	Interval    string           `json:"interval"`
	LastSuccess *time.Time       `json:"last_success,omitempty"`
	Vehicles    map[string]int64 `json:"vehicles"`
}

// Service runs vehicle feed syncs and reads their history.
type Service struct {
	cfg     feed.Config
	logger  *zap.Logger
	db      *gorm.DB
	stores  vehiclereconcile.Stores
	runner  *reconcile.Runner
	metrics *metrics.Registry
	events  events.Publisher
}

// NewService wires the stores, the adapters and the engine.
func NewService(d Deps) (*Service, error) {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Events == nil {
		d.Events = events.NopPublisher{}
	}
	s := &Service{cfg: d.Feed, logger: d.Logger, db: d.DB, metrics: d.Metrics, events: d.Events}
	if d.DB == nil {
		return s, nil
	}

	var overrides *normalize.Overrides
	if d.Feed.FieldMapFile != "" {
		o, err := normalize.LoadOverrides(d.Feed.FieldMapFile)
		if err != nil {
			return nil, err
		}
		overrides = o
	}

	source := d.Source
	if source == nil {
		source = feed.NewHTTPSource(d.Feed.FetchTimeout, d.Feed.MaxBytes)
	}

	s.stores = vehiclereconcile.NewStores(d.DB, d.Feed.HistoryLimit)
	var images *vehiclereconcile.Importer
	if d.Storage != nil {
		images = vehiclereconcile.NewImporter(vehiclereconcile.ImporterConfig{
			Client:  d.Storage,
			Bucket:  d.Bucket,
			Prefix:  d.Prefix,
			Timeout: d.Feed.ImageTimeout,
			Rate:    d.Feed.ImageRate,
		}, s.stores.Images)
	}

	engine := reconcile.NewEngine(s.stores.Components(source, normalize.New(overrides), images), d.Logger)
	s.runner = reconcile.NewRunner(engine)
	return s, nil
}

// Migrate creates the inventory tables.
func (s *Service) Migrate() error {
	if s.db == nil {
		return ErrNoDatabase
	}
	return models.Migrate(s.db)
}

// Spec builds the run spec from the feed configuration.
func (s *Service) Spec() (reconcile.Spec, error) {
	format, err := feed.ParseFormat(s.cfg.Format)
	if err != nil {
		return reconcile.Spec{}, err
	}
	return reconcile.Spec{
		FeedURL:         s.cfg.URL,
		Format:          format,
		DownloadImages:  s.cfg.DownloadImages,
		CheckpointEvery: s.cfg.CheckpointEvery,
		PruneBatchSize:  s.cfg.PruneBatchSize,
	}, nil
}

// Sync runs the configured feed. It is the single entry point of the CLI, the HTTP
// trigger and the scheduler.
func (s *Service) Sync(ctx context.Context) (*reconcile.Summary, error) {
	if s.runner == nil {
		return nil, ErrNoDatabase
	}
	spec, err := s.Spec()
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, spec)
}

// Run executes one sync with an explicit spec. Concurrent calls for the same feed
// share one run.
func (s *Service) Run(ctx context.Context, spec reconcile.Spec) (*reconcile.Summary, error) {
	if s.runner == nil {
		return nil, ErrNoDatabase
	}
	sum, shared, err := s.runner.Run(ctx, spec)
	if shared {
		s.logger.Info("Joined sync already in progress", zap.String("feed", spec.FeedURL))
		return sum, err
	}
	if sum != nil {
		s.observe(ctx, sum)
	}
	return sum, err
}

func (s *Service) observe(ctx context.Context, sum *reconcile.Summary) {
	if s.metrics != nil {
		s.metrics.ObserveRun(metrics.RunOutcome{
			Status:         sum.Status,
			Created:        sum.Imported,
			Updated:        sum.Updated,
			Skipped:        sum.Skipped,
			Errors:         sum.Errors,
			Retired:        sum.Pruned,
			ImagesAttached: sum.ImagesAttached,
			ImageErrors:    sum.ImageErrors,
			Duration:       sum.Duration,
			FinishedAt:     sum.FinishedAt,
		})
	}

	err := s.events.Publish(context.WithoutCancel(ctx), events.RunEvent{
		RunID:      sum.RunID,
		Feed:       sum.Feed,
		Status:     sum.Status,
		Imported:   sum.Imported,
		Updated:    sum.Updated,
		Skipped:    sum.Skipped,
		Errors:     sum.Errors,
		Pruned:     sum.Pruned,
		DurationMS: sum.Duration.Milliseconds(),
		Message:    sum.Message,
		Timestamp:  sum.FinishedAt,
	})
	if err != nil {
		s.logger.Warn("Failed to publish run event", zap.String("run_id", sum.RunID), zap.Error(err))
	}
}

// Logs returns the sync history, newest first.
func (s *Service) Logs(ctx context.Context) ([]reconcile.LogEntry, error) {
	if s.runner == nil {
		return nil, ErrNoDatabase
	}
	return s.stores.History.List(ctx)
}

// Status reports the engine state, the last successful sync and vehicle counts.
func (s *Service) Status(ctx context.Context) (*Status, error) {
	if s.runner == nil {
		return nil, ErrNoDatabase
	}
	st := &Status{
		State:    s.runner.State(),
		Feed:     s.cfg.URL,
		Format:   s.cfg.Format,
		AutoSync: s.cfg.AutoSync,
		Interval: s.cfg.SyncInterval,
	}
	last, ok, err := s.stores.History.LastSuccess(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		st.LastSuccess = &last
	}
	counts, err := s.stores.Inventory.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory status: %w", err)
	}
	st.Vehicles = counts
	return st, nil
}
