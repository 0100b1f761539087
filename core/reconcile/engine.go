package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"inventory-sync/core/feed"
	"inventory-sync/core/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Components are the collaborators a sync run calls into.
type Components struct {
	Source     Source
	Normalizer Normalizer
	Upserter   Upserter
	Taxonomy   TaxonomyAttacher
	// Images may be nil when image import is not wired.
	Images    ImageAttacher
	Inventory Inventory
	Identity  IdentityFunc
	History   History
	// Checkpointers are notified every Spec.CheckpointEvery created+updated records.
	Checkpointers []Checkpointer
}

// Engine runs feed reconciliation. A run is sequential; callers must not start two runs
// of the same feed concurrently (see Runner).
type Engine struct {
	c      Components
	logger *zap.Logger
	now    func() time.Time

	mu    sync.RWMutex
	state State
}

// NewEngine creates an engine over the given components.
func NewEngine(c Components, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{c: c, logger: log, now: time.Now, state: StateIdle}
}

// State returns the phase of the run in progress, or StateIdle.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// run carries the mutable state of one sync pass.
type run struct {
	spec    Spec
	sum     *Summary
	active  ActiveSet
	log     *zap.Logger
	touched int
}

// Run executes one full sync: fetch, parse, process every record, prune, log.
// Fatal failures in the fetch or parse phases return an error together with the
// summary; nothing is pruned in that case. Per-record failures never fail the run.
func (e *Engine) Run(ctx context.Context, spec Spec) (*Summary, error) {
	r := &run{
		spec:   spec,
		active: make(ActiveSet),
		sum: &Summary{
			RunID:     uuid.NewString(),
			Feed:      spec.FeedURL,
			StartedAt: e.now(),
		},
	}
	r.log = logger.WithRun(e.logger, r.sum.RunID, spec.FeedURL)
	defer e.enter(r, StateIdle)

	r.log.Info("Sync started", zap.String("format", string(spec.Format)))

	e.enter(r, StateFetching)
	if spec.FeedURL == "" {
		return e.fail(ctx, r, feed.ErrNoFeedURL)
	}
	body, err := e.c.Source.Fetch(ctx, spec.FeedURL)
	if err != nil {
		return e.fail(ctx, r, err)
	}
	if len(body) == 0 {
		return e.fail(ctx, r, feed.ErrEmptyFeed)
	}

	e.enter(r, StateParsing)
	it, err := feed.Parse(body, spec.Format)
	if err != nil {
		return e.fail(ctx, r, err)
	}

	e.enter(r, StateProcessing)
	for it.Next() {
		if err := ctx.Err(); err != nil {
			return e.fail(ctx, r, err)
		}
		e.process(ctx, r, it.Record())
	}
	if err := it.Err(); err != nil {
		return e.fail(ctx, r, err)
	}

	e.enter(r, StatePruning)
	e.prune(ctx, r)

	r.sum.Status = StatusSuccess
	e.finish(ctx, r)
	r.sum.Message = fmt.Sprintf("Sync completed in %.2f seconds. Pruned: %d", r.sum.Duration.Seconds(), r.sum.Pruned)
	e.log(ctx, r, LogEntry{
		Feed:      spec.FeedURL,
		Timestamp: r.sum.FinishedAt,
		Status:    StatusSuccess,
		Imported:  r.sum.Imported,
		Updated:   r.sum.Updated,
		Errors:    r.sum.Errors,
		Skipped:   r.sum.Skipped,
		Pruned:    r.sum.Pruned,
		Duration:  r.sum.Duration,
		Message:   r.sum.Message,
	})
	if err := e.c.History.MarkSuccess(ctx, r.sum.FinishedAt); err != nil {
		r.log.Warn("Failed to store last successful sync time", zap.Error(err))
	}

	r.log.Info("Sync finished",
		zap.Int("imported", r.sum.Imported),
		zap.Int("updated", r.sum.Updated),
		zap.Int("skipped", r.sum.Skipped),
		zap.Int("errors", r.sum.Errors),
		zap.Int("pruned", r.sum.Pruned),
		zap.Duration("duration", r.sum.Duration),
	)
	return r.sum, nil
}

// process runs one raw row through normalize, upsert, taxonomy and images.
func (e *Engine) process(ctx context.Context, r *run, raw feed.RawRecord) {
	rec, err := e.c.Normalizer.Normalize(raw)
	if errors.Is(err, ErrNoIdentity) {
		r.sum.Skipped++
		return
	}
	if err != nil {
		e.recordError(r, "", err)
		return
	}

	// A record present in the feed must never be retired, even if its upsert fails.
	r.active.Add(rec.Identity)

	outcome, id, err := e.c.Upserter.Upsert(ctx, rec)
	if err != nil {
		e.recordError(r, rec.Identity, fmt.Errorf("upsert: %w", err))
		return
	}

	if err := e.c.Taxonomy.Attach(ctx, id, rec.Classifications); err != nil {
		e.recordError(r, rec.Identity, fmt.Errorf("taxonomy: %w", err))
		return
	}

	if r.spec.DownloadImages && e.c.Images != nil && len(rec.ImageRefs) > 0 {
		attached, errs := e.c.Images.AttachImages(ctx, id, rec.ImageRefs, true)
		r.sum.ImagesAttached += attached
		r.sum.ImageErrors += len(errs)
		for _, imgErr := range errs {
			r.log.Debug("Image import failed", zap.String("identity", rec.Identity), zap.Error(imgErr))
		}
	}

	switch outcome {
	case OutcomeCreated:
		r.sum.Imported++
	case OutcomeUpdated:
		r.sum.Updated++
	}

	r.touched++
	if r.touched%r.spec.checkpointEvery() == 0 {
		for _, cp := range e.c.Checkpointers {
			cp.Checkpoint()
		}
		r.log.Debug("Checkpoint", zap.Int("processed", r.touched))
	}
}

func (e *Engine) prune(ctx context.Context, r *run) {
	if len(r.active) == 0 {
		r.log.Warn("No identifiable records in feed, pruning skipped")
		return
	}
	retired, err := Prune(ctx, e.c.Inventory, e.c.Identity, r.active, r.spec.pruneBatchSize())
	r.sum.Pruned = retired
	if err != nil {
		e.recordError(r, "", fmt.Errorf("prune: %w", err))
	}
}

func (e *Engine) recordError(r *run, identity string, err error) {
	r.sum.Errors++
	msg := err.Error()
	if identity != "" {
		msg = identity + ": " + msg
	}
	if len(r.sum.RecordErrors) < maxRecordErrors {
		r.sum.RecordErrors = append(r.sum.RecordErrors, msg)
	}
	r.log.Warn("Record failed", zap.String("identity", identity), zap.Error(err))
}

// fail ends a run in the failed state and writes a zero count error entry.
func (e *Engine) fail(ctx context.Context, r *run, cause error) (*Summary, error) {
	e.enter(r, StateFailed)
	r.sum.Status = StatusError
	r.sum.Message = cause.Error()
	e.finish(ctx, r)
	e.log(ctx, r, LogEntry{
		Feed:      r.spec.FeedURL,
		Timestamp: r.sum.FinishedAt,
		Status:    StatusError,
		Duration:  r.sum.Duration,
		Message:   r.sum.Message,
	})
	r.log.Error("Sync failed", zap.Error(cause))
	return r.sum, fmt.Errorf("sync %s: %w", r.sum.RunID, cause)
}

func (e *Engine) finish(_ context.Context, r *run) {
	r.sum.FinishedAt = e.now()
	r.sum.Duration = r.sum.FinishedAt.Sub(r.sum.StartedAt)
}

// log appends the run's single history entry. The logged state is entered even
// when the store rejects the entry.
func (e *Engine) log(ctx context.Context, r *run, entry LogEntry) {
	// The history write must land even when the run was cancelled.
	if err := e.c.History.Append(context.WithoutCancel(ctx), entry); err != nil {
		r.log.Error("Failed to append sync log entry", zap.Error(err))
	}
	if r.sum.Status == StatusSuccess {
		e.enter(r, StateLogged)
	}
}

func (e *Engine) enter(r *run, s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
	if s != StateIdle {
		r.sum.Transitions = append(r.sum.Transitions, s)
		r.sum.State = s
	}
}
