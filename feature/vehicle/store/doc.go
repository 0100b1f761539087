// Package store implements the inventory, taxonomy and sync history stores on gorm.
//
// Inventory satisfies the pruner's reconcile.Inventory (with batch retirement) and the
// upsert side's lookups. Taxonomy resolves terms by slug and caches their ids until
// Checkpoint is called by the engine. History keeps a bounded sync log and the time of
// the last successful sync. Images records the bucket objects imported per vehicle.
//
// Every write is its own transaction; a run is never wrapped in one.
package store
