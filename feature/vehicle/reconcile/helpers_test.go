package reconcile

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"inventory-sync/core/database"
	"inventory-sync/core/feed"
	"inventory-sync/core/reconcile"
	"inventory-sync/feature/vehicle/models"
	"inventory-sync/feature/vehicle/normalize"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return db
}

// memSource serves feed documents by URL.
type memSource map[string][]byte

func (m memSource) Fetch(_ context.Context, url string) ([]byte, error) {
	body, ok := m[url]
	if !ok {
		return nil, fmt.Errorf("feed %s unreachable", url)
	}
	return body, nil
}

type harness struct {
	db     *gorm.DB
	stores Stores
	source memSource
	engine *reconcile.Engine
}

func newHarness(t *testing.T, images *Importer) *harness {
	t.Helper()
	db := newTestDB(t)
	h := &harness{db: db, stores: NewStores(db, 0), source: memSource{}}
	h.engine = reconcile.NewEngine(h.stores.Components(h.source, normalize.New(nil), images), zap.NewNop())
	return h
}

func (h *harness) sync(t *testing.T, format feed.Format, body string) *reconcile.Summary {
	t.Helper()
	h.source["feed"] = []byte(body)
	sum, err := h.engine.Run(context.Background(), reconcile.Spec{FeedURL: "feed", Format: format, DownloadImages: true})
	require.NoError(t, err)
	return sum
}

func (h *harness) vehicle(t *testing.T, identity string) models.Vehicle {
	t.Helper()
	var v models.Vehicle
	require.NoError(t, h.db.Preload("Attributes").Where("identity = ?", identity).Take(&v).Error)
	return v
}

func attrMap(v models.Vehicle) map[string]string {
	out := make(map[string]string, len(v.Attributes))
	for _, a := range v.Attributes {
		out[a.Name] = a.Value
	}
	return out
}

// csvFeed builds a feed with the given header and rows.
func csvFeed(header string, rows ...string) string {
	return header + "\n" + strings.Join(rows, "\n") + "\n"
}
