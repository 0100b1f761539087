package reconcile

import (
	"inventory-sync/core/reconcile"
	"inventory-sync/feature/vehicle/normalize"
	"inventory-sync/feature/vehicle/store"

	"gorm.io/gorm"
)

// Stores are the gorm stores a vehicle sync works against.
type Stores struct {
	Inventory *store.Inventory
	Taxonomy  *store.Taxonomy
	History   *store.History
	Images    *store.Images
}

// NewStores creates the vehicle stores on db.
func NewStores(db *gorm.DB, historyLimit int) Stores {
	taxonomy := store.NewTaxonomy(db)
	return Stores{
		Inventory: store.NewInventory(db, taxonomy),
		Taxonomy:  taxonomy,
		History:   store.NewHistory(db, historyLimit),
		Images:    store.NewImages(db),
	}
}

// Components wires the vehicle adapters into engine components. images may be nil
// to disable image import.
func (s Stores) Components(source reconcile.Source, normalizer *normalize.Normalizer, images *Importer) reconcile.Components {
	c := reconcile.Components{
		Source:        source,
		Normalizer:    normalizer,
		Upserter:      NewUpserter(s.Inventory),
		Taxonomy:      NewResolver(s.Taxonomy),
		Inventory:     s.Inventory,
		Identity:      normalize.ResolveIdentity,
		History:       s.History,
		Checkpointers: []reconcile.Checkpointer{s.Taxonomy},
	}
	if images != nil {
		c.Images = images
	}
	return c
}
