package reconcile

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"inventory-sync/core/feed"
)

type fakeSource struct {
	body  []byte
	err   error
	calls int
	block chan struct{}
}

func (s *fakeSource) Fetch(ctx context.Context, _ string) ([]byte, error) {
	s.calls++
	if s.block != nil {
		<-s.block
	}
	return s.body, s.err
}

// fakeNormalizer reads VIN/StockNo columns directly.
type fakeNormalizer struct{}

func (fakeNormalizer) Normalize(raw feed.RawRecord) (Record, error) {
	attrs := map[string]string{}
	if v, ok := raw.Get("VIN"); ok && v != "" {
		attrs["vin"] = v
	}
	if v, ok := raw.Get("StockNo"); ok && v != "" {
		attrs["stock_number"] = v
	}
	id, ok := testIdentity(attrs)
	if !ok {
		return Record{}, ErrNoIdentity
	}
	cls := map[string]string{}
	if v, ok := raw.Get("Make"); ok && v != "" {
		cls["make"] = v
	}
	var images []string
	if v, ok := raw.Get("Images"); ok && v != "" {
		images = strings.Split(v, ";")
	}
	return Record{Identity: id, Attributes: attrs, Classifications: cls, ImageRefs: images}, nil
}

func testIdentity(attrs map[string]string) (string, bool) {
	if v := strings.TrimSpace(attrs["vin"]); v != "" {
		return v, true
	}
	if v := strings.TrimSpace(attrs["stock_number"]); v != "" {
		return "STOCK-" + v, true
	}
	return "", false
}

type fakeRecord struct {
	id     uint
	attrs  map[string]string
	status string
}

// fakeInventory is an in-memory inventory implementing Upserter and Inventory.
type fakeInventory struct {
	mu        sync.Mutex
	records   map[string]*fakeRecord
	nextID    uint
	failFor   map[string]bool
	retireErr error
	retired   []uint
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{records: map[string]*fakeRecord{}, failFor: map[string]bool{}}
}

func (f *fakeInventory) seed(identity string, attrs map[string]string) uint {
	f.nextID++
	f.records[identity] = &fakeRecord{id: f.nextID, attrs: attrs, status: "active"}
	return f.nextID
}

func (f *fakeInventory) Upsert(_ context.Context, rec Record) (Outcome, uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[rec.Identity] {
		return "", 0, errors.New("store unavailable")
	}
	if r, ok := f.records[rec.Identity]; ok {
		r.attrs = rec.Attributes
		r.status = "active"
		return OutcomeUpdated, r.id, nil
	}
	id := f.seed(rec.Identity, rec.Attributes)
	return OutcomeCreated, id, nil
}

func (f *fakeInventory) EachActive(_ context.Context, batchSize int, fn func([]StoredRecord) error) error {
	var all []StoredRecord
	for _, r := range f.records {
		if r.status == "active" {
			all = append(all, StoredRecord{ID: r.id, Attributes: r.attrs})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	for start := 0; start < len(all); start += batchSize {
		end := min(start+batchSize, len(all))
		if err := fn(all[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeInventory) Retire(_ context.Context, id uint) error {
	if f.retireErr != nil {
		return f.retireErr
	}
	for _, r := range f.records {
		if r.id == id {
			r.status = "retired"
		}
	}
	f.retired = append(f.retired, id)
	return nil
}

func (f *fakeInventory) status(identity string) string {
	return f.records[identity].status
}

// batchInventory adds RetireBatch on top of fakeInventory.
type batchInventory struct {
	*fakeInventory
	batches [][]uint
}

func (b *batchInventory) RetireBatch(ctx context.Context, ids []uint) error {
	b.batches = append(b.batches, ids)
	for _, id := range ids {
		if err := b.fakeInventory.Retire(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

type fakeTaxonomy struct {
	failFor map[string]bool
	calls   int
}

func (t *fakeTaxonomy) Attach(_ context.Context, _ uint, cls map[string]string) error {
	t.calls++
	if t.failFor[cls["make"]] {
		return errors.New("term insert failed")
	}
	return nil
}

type fakeImages struct {
	calls int
}

func (i *fakeImages) AttachImages(_ context.Context, _ uint, refs []string, _ bool) (int, []error) {
	i.calls++
	var errs []error
	n := 0
	for _, ref := range refs {
		if strings.Contains(ref, "broken") {
			errs = append(errs, errors.New("download failed: "+ref))
			continue
		}
		n++
	}
	return n, errs
}

type fakeHistory struct {
	entries     []LogEntry
	lastSuccess time.Time
}

func (h *fakeHistory) Append(_ context.Context, e LogEntry) error {
	h.entries = append(h.entries, e)
	return nil
}

func (h *fakeHistory) MarkSuccess(_ context.Context, at time.Time) error {
	h.lastSuccess = at
	return nil
}

type countingCheckpointer struct {
	count int
}

func (c *countingCheckpointer) Checkpoint() { c.count++ }
