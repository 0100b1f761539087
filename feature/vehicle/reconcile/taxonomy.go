package reconcile

import (
	"context"
	"fmt"

	"inventory-sync/feature/vehicle/models"

	"go.uber.org/multierr"
)

// TaxonomyStore is the term side of the store.
type TaxonomyStore interface {
	FindOrCreateTerm(ctx context.Context, taxonomy, label string) (uint, error)
	AttachTerm(ctx context.Context, vehicleID uint, taxonomy string, termID uint) error
	SetParent(ctx context.Context, modelTermID, makeTermID uint) error
}

// FlatTaxonomies are the single-valued classifications without hierarchy, in attach order.
var FlatTaxonomies = []string{
	models.TaxonomyBodyType,
	models.TaxonomyFuelType,
	models.TaxonomyTransmission,
	models.TaxonomyDriveType,
	models.TaxonomyColor,
	models.TaxonomyCondition,
}

// Resolver implements reconcile.TaxonomyAttacher.
type Resolver struct {
	store TaxonomyStore
}

// NewResolver creates a taxonomy resolver.
func NewResolver(store TaxonomyStore) *Resolver {
	return &Resolver{store: store}
}

// Attach attaches every classification present in the record. A model is only
// attached once its make resolved, and its parent is rewritten to that make each time.
// Failures of one key do not stop the others; they are returned together.
func (r *Resolver) Attach(ctx context.Context, vehicleID uint, classifications map[string]string) error {
	var errs error
	for _, taxonomy := range FlatTaxonomies {
		label, ok := classifications[taxonomy]
		if !ok || label == "" {
			continue
		}
		if _, err := r.attach(ctx, vehicleID, taxonomy, label); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return multierr.Append(errs, r.attachMakeModel(ctx, vehicleID, classifications))
}

func (r *Resolver) attachMakeModel(ctx context.Context, vehicleID uint, classifications map[string]string) error {
	makeLabel := classifications[models.TaxonomyMake]
	if makeLabel == "" {
		return nil
	}
	makeID, err := r.attach(ctx, vehicleID, models.TaxonomyMake, makeLabel)
	if err != nil {
		return err
	}

	modelLabel := classifications[models.TaxonomyModel]
	if modelLabel == "" {
		return nil
	}
	modelID, err := r.store.FindOrCreateTerm(ctx, models.TaxonomyModel, modelLabel)
	if err != nil {
		return fmt.Errorf("model %q: %w", modelLabel, err)
	}
	if err := r.store.SetParent(ctx, modelID, makeID); err != nil {
		return fmt.Errorf("model %q: %w", modelLabel, err)
	}
	if err := r.store.AttachTerm(ctx, vehicleID, models.TaxonomyModel, modelID); err != nil {
		return fmt.Errorf("model %q: %w", modelLabel, err)
	}
	return nil
}

func (r *Resolver) attach(ctx context.Context, vehicleID uint, taxonomy, label string) (uint, error) {
	id, err := r.store.FindOrCreateTerm(ctx, taxonomy, label)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", taxonomy, label, err)
	}
	if err := r.store.AttachTerm(ctx, vehicleID, taxonomy, id); err != nil {
		return 0, fmt.Errorf("%s %q: %w", taxonomy, label, err)
	}
	return id, nil
}
