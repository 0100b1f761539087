package store

import (
	"context"
	"testing"

	"inventory-sync/feature/vehicle/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImages_PrimaryIsUnique(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	inv := NewInventory(db, NewTaxonomy(db))
	images := NewImages(db)

	id, err := inv.Create(ctx, "VIN1", "t", "", map[string]string{"vin": "VIN1"})
	require.NoError(t, err)

	identity, err := images.Identity(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "VIN1", identity)

	first := &models.VehicleImage{VehicleID: id, SourceURL: "http://x/1.jpg", ObjectKey: "vehicles/VIN1/a.jpg", Position: 0}
	second := &models.VehicleImage{VehicleID: id, SourceURL: "http://x/2.jpg", ObjectKey: "vehicles/VIN1/b.jpg", Position: 1}
	require.NoError(t, images.AddImage(ctx, second))
	require.NoError(t, images.AddImage(ctx, first))

	require.NoError(t, images.SetPrimary(ctx, id, second.ID))
	require.NoError(t, images.SetPrimary(ctx, id, first.ID))

	rows, err := images.ImagesOf(ctx, id)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "http://x/1.jpg", rows[0].SourceURL)
	assert.True(t, rows[0].IsPrimary)
	assert.False(t, rows[1].IsPrimary)
}

func TestImages_IdentityMissing(t *testing.T) {
	_, err := NewImages(newTestDB(t)).Identity(context.Background(), 99)
	assert.Error(t, err)
}

func TestImages_ArrangeGallery(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	inv := NewInventory(db, NewTaxonomy(db))
	images := NewImages(db)

	id, err := inv.Create(ctx, "VIN1", "t", "", map[string]string{"vin": "VIN1"})
	require.NoError(t, err)
	other, err := inv.Create(ctx, "VIN2", "t", "", map[string]string{"vin": "VIN2"})
	require.NoError(t, err)

	a := &models.VehicleImage{VehicleID: id, SourceURL: "http://x/a.jpg", ObjectKey: "k/a", Position: 0}
	b := &models.VehicleImage{VehicleID: id, SourceURL: "http://x/b.jpg", ObjectKey: "k/b", Position: 1}
	c := &models.VehicleImage{VehicleID: id, SourceURL: "http://x/c.jpg", ObjectKey: "k/c", Position: 2}
	foreign := &models.VehicleImage{VehicleID: other, SourceURL: "http://x/a.jpg", ObjectKey: "k/z", Position: 0}
	for _, img := range []*models.VehicleImage{a, b, c, foreign} {
		require.NoError(t, images.AddImage(ctx, img))
	}

	require.NoError(t, images.ArrangeGallery(ctx, id, []uint{c.ID, a.ID}))

	rows, err := images.ImagesOf(ctx, id)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, c.ID, rows[0].ID)
	assert.Equal(t, 0, rows[0].Position)
	assert.Equal(t, a.ID, rows[1].ID)
	assert.Equal(t, 1, rows[1].Position)

	rows, err = images.ImagesOf(ctx, other)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	require.NoError(t, images.ArrangeGallery(ctx, id, nil))
	rows, err = images.ImagesOf(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
