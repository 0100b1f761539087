package reconcile

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Runner serializes runs per feed. A trigger arriving while a run of the same feed
// is in flight waits for that run and shares its summary.
type Runner struct {
	engine *Engine
	sf     singleflight.Group
}

// NewRunner wraps an engine.
func NewRunner(engine *Engine) *Runner {
	return &Runner{engine: engine}
}

// Run starts a run for spec.FeedURL or joins the one in flight.
// shared reports whether the result came from a run started by another caller.
func (r *Runner) Run(ctx context.Context, spec Spec) (sum *Summary, shared bool, err error) {
	type result struct {
		sum *Summary
		err error
	}
	v, _, shared := r.sf.Do(spec.FeedURL, func() (interface{}, error) {
		// The run outlives the caller that happened to start it.
		s, err := r.engine.Run(context.WithoutCancel(ctx), spec)
		return result{sum: s, err: err}, nil
	})
	res := v.(result)
	return res.sum, shared, res.err
}

// State returns the phase of the engine's current run.
func (r *Runner) State() State {
	return r.engine.State()
}
