package reconcile

import (
	"context"
	"errors"
	"time"

	"inventory-sync/core/feed"
)

// ErrNoIdentity is returned by a Normalizer for a row with neither VIN nor stock number.
var ErrNoIdentity = errors.New("record has no identity")

// Source fetches the raw feed document.
type Source interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Normalizer maps a raw feed row onto a canonical Record with its identity resolved.
type Normalizer interface {
	Normalize(raw feed.RawRecord) (Record, error)
}

// Upserter creates or updates the inventory record for a canonical record.
type Upserter interface {
	Upsert(ctx context.Context, rec Record) (Outcome, uint, error)
}

// TaxonomyAttacher attaches classification terms to an inventory record.
type TaxonomyAttacher interface {
	Attach(ctx context.Context, recordID uint, classifications map[string]string) error
}

// ImageAttacher imports images for an inventory record. Failures are per URL.
type ImageAttacher interface {
	AttachImages(ctx context.Context, recordID uint, refs []string, setFirstAsPrimary bool) (int, []error)
}

// Inventory is the pruner's view of the inventory store.
type Inventory interface {
	// EachActive calls fn with successive batches of every active record.
	EachActive(ctx context.Context, batchSize int, fn func([]StoredRecord) error) error
	// Retire moves one record to the terminal retired status.
	Retire(ctx context.Context, id uint) error
}

// BatchRetirer is implemented by inventories that can retire many records at once.
type BatchRetirer interface {
	RetireBatch(ctx context.Context, ids []uint) error
}

// Checkpointer drops per-run caches. Called every few processed records.
type Checkpointer interface {
	Checkpoint()
}

// History stores the sync log.
type History interface {
	Append(ctx context.Context, entry LogEntry) error
	MarkSuccess(ctx context.Context, at time.Time) error
}

// IdentityFunc computes an identity from stored attributes.
type IdentityFunc func(attrs map[string]string) (string, bool)
