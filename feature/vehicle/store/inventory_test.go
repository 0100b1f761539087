package store

import (
	"context"
	"testing"

	"inventory-sync/core/reconcile"
	"inventory-sync/feature/vehicle/models"
	"inventory-sync/feature/vehicle/normalize"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestInventory_CreateFindUpdate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	inv := NewInventory(db, NewTaxonomy(db))

	id, err := inv.Create(ctx, "VIN1", "2020 Toyota Corolla", "desc", map[string]string{"vin": "VIN1", "stock_number": "S1", "price": "100"})
	require.NoError(t, err)

	got, ok, err := inv.FindByIdentity(ctx, "VIN1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	got, ok, err = inv.FindByAttribute(ctx, "stock_number", "S1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, ok, err = inv.FindByIdentity(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, inv.Update(ctx, id, "New Title", "", map[string]string{"stock_number": "S1", "price": "90"}, []string{"vin"}))

	v, err := inv.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "VIN1", v.Identity)
	assert.Equal(t, "New Title", v.Title)
	assert.Equal(t, models.StatusActive, v.Status)

	attrs, err := inv.Attributes(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"stock_number": "S1", "price": "90"}, attrs)
}

func TestInventory_UpdateMissing(t *testing.T) {
	db := newTestDB(t)
	inv := NewInventory(db, NewTaxonomy(db))

	err := inv.Update(context.Background(), 42, "t", "", nil, nil)
	assert.Error(t, err)
}

func TestInventory_EachActive(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	inv := NewInventory(db, NewTaxonomy(db))

	for _, vin := range []string{"A", "B", "C", "D", "E"} {
		_, err := inv.Create(ctx, vin, vin, "", map[string]string{"vin": vin, "price": "1"})
		require.NoError(t, err)
	}
	_, err := inv.Create(ctx, "legacy", "legacy", "", map[string]string{"price": "1"})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Vehicle{}).Where("identity = ?", "E").Update("status", models.StatusRetired).Error)

	var batches [][]reconcile.StoredRecord
	err = inv.EachActive(ctx, 2, func(b []reconcile.StoredRecord) error {
		batches = append(batches, b)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, batches, 3)
	var identities []string
	for _, b := range batches {
		for _, r := range b {
			if id, ok := normalize.ResolveIdentity(r.Attributes); ok {
				identities = append(identities, id)
			}
			_, hasPrice := r.Attributes["price"]
			assert.False(t, hasPrice)
		}
	}
	assert.Equal(t, []string{"A", "B", "C", "D"}, identities)
}

func TestInventory_RetireBatch(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tax := NewTaxonomy(db)
	inv := NewInventory(db, tax)

	a, err := inv.Create(ctx, "A", "A", "", map[string]string{"vin": "A"})
	require.NoError(t, err)
	b, err := inv.Create(ctx, "B", "B", "", map[string]string{"vin": "B"})
	require.NoError(t, err)

	used, err := tax.FindOrCreateTerm(ctx, models.TaxonomyCondition, "Used")
	require.NoError(t, err)
	require.NoError(t, tax.AttachTerm(ctx, b, models.TaxonomyCondition, used))

	require.NoError(t, inv.RetireBatch(ctx, []uint{b}))

	v, err := inv.Get(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRetired, v.Status)

	attrs, err := inv.Attributes(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, "sold", attrs["status_badge"])

	terms, err := tax.TermsOf(ctx, b)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Used", "Sold"}, terms[models.TaxonomyCondition])

	v, err = inv.Get(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, v.Status)

	// Retiring again is harmless.
	require.NoError(t, inv.Retire(ctx, b))

	counts, err := inv.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[models.StatusActive])
	assert.Equal(t, int64(1), counts[models.StatusRetired])
}

func TestInventory_FindByIdentity_DBError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT `id` FROM `vehicles`").WillReturnError(assert.AnError)

	inv := NewInventory(db, NewTaxonomy(db))
	_, _, err = inv.FindByIdentity(context.Background(), "VIN1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to find vehicle VIN1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventory_UpdateDropsSoldTag(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tax := NewTaxonomy(db)
	inv := NewInventory(db, tax)

	id, err := inv.Create(ctx, "A", "A", "", map[string]string{"vin": "A"})
	require.NoError(t, err)
	used, err := tax.FindOrCreateTerm(ctx, models.TaxonomyCondition, "Used")
	require.NoError(t, err)
	require.NoError(t, tax.AttachTerm(ctx, id, models.TaxonomyCondition, used))
	require.NoError(t, inv.RetireBatch(ctx, []uint{id}))

	require.NoError(t, inv.Update(ctx, id, "A", "", map[string]string{"vin": "A"}, []string{normalize.AttrStatusBadge}))

	v, err := inv.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, v.Status)

	terms, err := tax.TermsOf(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Used"}, terms[models.TaxonomyCondition])
}
