// Package reconcile adapts the vehicle stores to the sync engine.
//
// Upserter matches feed records to stored vehicles, Resolver maintains the classification
// terms and the make to model hierarchy, and Importer copies feed images into the bucket.
// Stores.Components assembles them into reconcile.Components for an engine run.
package reconcile
