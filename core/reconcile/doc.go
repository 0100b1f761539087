// Package reconcile runs inventory feed synchronization.
//
// A run moves through a fixed sequence of states:
//
//	Idle -> Fetching -> Parsing -> Processing -> Pruning -> Logged -> Idle
//
// Failed is reachable from Fetching and Parsing only (an unreachable source, an empty
// body, a feed whose structure cannot be read, or a cancelled context while streaming).
// A failed run writes one error entry with zero counts and never prunes.
//
// # Processing
//
// Each raw row is normalized into a Record, its identity added to the run's ActiveSet,
// then upserted, classified and, when enabled, given images. Failures of one record
// are counted and the run continues. Every Spec.CheckpointEvery created+updated
// records the registered Checkpointers drop their caches, keeping memory flat on
// large feeds.
//
// # Pruning
//
// Prune scans all active inventory in batches, recomputes each record's identity with
// the same IdentityFunc used for feed rows, and retires those absent from the ActiveSet.
// A feed with no identifiable record skips pruning entirely.
//
// # Collaborators
//
// The engine only knows the interfaces in adapter.go. The vehicle feature provides the
// gorm-backed stores, the normalizer and the image importer.
//
// # Usage Example
//
//	engine := reconcile.NewEngine(reconcile.Components{...}, log)
//	runner := reconcile.NewRunner(engine)
//	summary, shared, err := runner.Run(ctx, reconcile.Spec{
//	    FeedURL: cfg.Feed.URL,
//	    Format:  feed.FormatCSV,
//	})
package reconcile
