package reconcile

import (
	"context"
	"errors"
	"testing"

	"inventory-sync/feature/vehicle/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTaxonomyStore struct {
	mock.Mock
}

func (m *mockTaxonomyStore) FindOrCreateTerm(ctx context.Context, taxonomy, label string) (uint, error) {
	args := m.Called(ctx, taxonomy, label)
	return args.Get(0).(uint), args.Error(1)
}

func (m *mockTaxonomyStore) AttachTerm(ctx context.Context, vehicleID uint, taxonomy string, termID uint) error {
	return m.Called(ctx, vehicleID, taxonomy, termID).Error(0)
}

func (m *mockTaxonomyStore) SetParent(ctx context.Context, modelTermID, makeTermID uint) error {
	return m.Called(ctx, modelTermID, makeTermID).Error(0)
}

func TestResolver_MakeModelHierarchy(t *testing.T) {
	ctx := context.Background()
	stores := NewStores(newTestDB(t), 0)
	r := NewResolver(stores.Taxonomy)

	require.NoError(t, r.Attach(ctx, 1, map[string]string{"make": "Toyota", "model": "Corolla", "color": "Red"}))

	terms, err := stores.Taxonomy.TermsOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Toyota"}, terms[models.TaxonomyMake])
	assert.Equal(t, []string{"Corolla"}, terms[models.TaxonomyModel])
	assert.Equal(t, []string{"Red"}, terms[models.TaxonomyColor])

	toyota, err := stores.Taxonomy.FindOrCreateTerm(ctx, models.TaxonomyMake, "Toyota")
	require.NoError(t, err)
	corolla, err := stores.Taxonomy.FindOrCreateTerm(ctx, models.TaxonomyModel, "Corolla")
	require.NoError(t, err)
	parent, ok, err := stores.Taxonomy.GetParent(ctx, corolla)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, toyota, parent)

	// The parent link follows the latest feed.
	require.NoError(t, r.Attach(ctx, 2, map[string]string{"make": "Lexus", "model": "COROLLA"}))
	lexus, err := stores.Taxonomy.FindOrCreateTerm(ctx, models.TaxonomyMake, "Lexus")
	require.NoError(t, err)
	parent, _, err = stores.Taxonomy.GetParent(ctx, corolla)
	require.NoError(t, err)
	assert.Equal(t, lexus, parent)
}

func TestResolver_ModelWithoutMakeIsIgnored(t *testing.T) {
	ctx := context.Background()
	stores := NewStores(newTestDB(t), 0)
	r := NewResolver(stores.Taxonomy)

	require.NoError(t, r.Attach(ctx, 1, map[string]string{"model": "Corolla"}))

	terms, err := stores.Taxonomy.TermsOf(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, terms[models.TaxonomyModel])
}

func TestResolver_CollectsFailures(t *testing.T) {
	ctx := context.Background()
	m := new(mockTaxonomyStore)
	m.On("FindOrCreateTerm", ctx, models.TaxonomyColor, "Red").Return(uint(0), errors.New("db down"))
	m.On("FindOrCreateTerm", ctx, models.TaxonomyCondition, "Used").Return(uint(3), nil)
	m.On("AttachTerm", ctx, uint(7), models.TaxonomyCondition, uint(3)).Return(nil)
	m.On("FindOrCreateTerm", ctx, models.TaxonomyMake, "Toyota").Return(uint(1), nil)
	m.On("AttachTerm", ctx, uint(7), models.TaxonomyMake, uint(1)).Return(nil)
	m.On("FindOrCreateTerm", ctx, models.TaxonomyModel, "Corolla").Return(uint(2), nil)
	m.On("SetParent", ctx, uint(2), uint(1)).Return(errors.New("locked"))

	err := NewResolver(m).Attach(ctx, 7, map[string]string{
		"make":      "Toyota",
		"model":     "Corolla",
		"color":     "Red",
		"condition": "Used",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), `color "Red": db down`)
	assert.Contains(t, err.Error(), `model "Corolla": locked`)
	m.AssertExpectations(t)
	m.AssertNotCalled(t, "AttachTerm", ctx, uint(7), models.TaxonomyModel, uint(2))
}
