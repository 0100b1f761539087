package vehicle

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"inventory-sync/core/database"
	"inventory-sync/core/events"
	"inventory-sync/core/feed"
	"inventory-sync/core/metrics"
	"inventory-sync/core/reconcile"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testFeed = "StockNo,VIN,Make,Model,ManuYear\nS1,VIN1,Toyota,Corolla,2020\nS2,VIN2,Mazda,CX-5,2021\n"

type feedSource struct {
	mu   sync.Mutex
	body map[string]string
}

func (s *feedSource) Fetch(_ context.Context, url string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.body[url]
	if !ok {
		return nil, fmt.Errorf("feed %s unreachable", url)
	}
	return []byte(body), nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.RunEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.RunEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type fixture struct {
	service   *Service
	source    *feedSource
	metrics   *metrics.Registry
	publisher *recordingPublisher
}

func newFixture(t *testing.T, cfg feed.Config) *fixture {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	if cfg.URL == "" {
		cfg.URL = "http://dealer.test/feed.csv"
	}
	if cfg.Format == "" {
		cfg.Format = "csv"
	}
	f := &fixture{
		source:    &feedSource{body: map[string]string{cfg.URL: testFeed}},
		metrics:   metrics.NewRegistry(),
		publisher: &recordingPublisher{},
	}
	f.service, err = NewService(Deps{
		DB:      db,
		Feed:    cfg,
		Logger:  zap.NewNop(),
		Source:  f.source,
		Metrics: f.metrics,
		Events:  f.publisher,
	})
	require.NoError(t, err)
	require.NoError(t, f.service.Migrate())
	return f
}

func TestService_Sync(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, feed.Config{})

	sum, err := f.service.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Imported)
	assert.Equal(t, reconcile.StatusSuccess, sum.Status)

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Runs.WithLabelValues("success")))
	assert.Equal(t, float64(2), testutil.ToFloat64(f.metrics.Records.WithLabelValues("created")))
	require.Equal(t, 1, f.publisher.count())
	assert.Equal(t, sum.RunID, f.publisher.events[0].RunID)

	entries, err := f.service.Logs(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].Imported)

	st, err := f.service.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, reconcile.StateIdle, st.State)
	require.NotNil(t, st.LastSuccess)
	assert.WithinDuration(t, time.Now(), *st.LastSuccess, time.Minute)
	assert.Equal(t, int64(2), st.Vehicles["active"])
}

func TestService_SyncFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, feed.Config{})
	f.source.body = map[string]string{}

	sum, err := f.service.Sync(ctx)
	require.Error(t, err)
	assert.Equal(t, reconcile.StatusError, sum.Status)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Runs.WithLabelValues("error")))

	st, err := f.service.Status(ctx)
	require.NoError(t, err)
	assert.Nil(t, st.LastSuccess)
}

func TestService_InvalidFormat(t *testing.T) {
	f := newFixture(t, feed.Config{Format: "yaml"})

	_, err := f.service.Sync(context.Background())
	assert.ErrorIs(t, err, feed.ErrUnsupportedFormat)
	assert.Equal(t, 0, f.publisher.count())
}

func TestService_NoDatabase(t *testing.T) {
	svc, err := NewService(Deps{})
	require.NoError(t, err)

	_, err = svc.Sync(context.Background())
	assert.ErrorIs(t, err, ErrNoDatabase)
	_, err = svc.Logs(context.Background())
	assert.ErrorIs(t, err, ErrNoDatabase)
	_, err = svc.Status(context.Background())
	assert.ErrorIs(t, err, ErrNoDatabase)
	assert.ErrorIs(t, svc.Migrate(), ErrNoDatabase)
}

func TestService_MissingFieldMap(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	_, err = NewService(Deps{DB: db, Feed: feed.Config{FieldMapFile: "/does/not/exist.yaml"}})
	assert.Error(t, err)
}
