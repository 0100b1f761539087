package reconcile

import (
	"context"
	"fmt"
)

// Retirement is a planned transition of one active record to retired.
type Retirement struct {
	ID       uint   `json:"id"`
	Identity string `json:"identity"`
}

// PlanRetirements scans every active record and returns those whose identity,
// recomputed from stored attributes, is not in the active set. Records without a
// computable identity are left alone.
func PlanRetirements(ctx context.Context, inv Inventory, identity IdentityFunc, active ActiveSet, batchSize int) ([]Retirement, error) {
	var plan []Retirement
	err := inv.EachActive(ctx, batchSize, func(batch []StoredRecord) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, rec := range batch {
			id, ok := identity(rec.Attributes)
			if !ok {
				continue
			}
			if !active.Has(id) {
				plan = append(plan, Retirement{ID: rec.ID, Identity: id})
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan active inventory: %w", err)
	}
	return plan, nil
}

// ApplyRetirements retires the planned records in chunks of batchSize. Inventories
// implementing BatchRetirer get one call per chunk, others one Retire per record.
// The returned count covers records retired before any error.
func ApplyRetirements(ctx context.Context, inv Inventory, plan []Retirement, batchSize int) (retired int, err error) {
	if len(plan) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = defaultPruneBatchSize
	}

	if batcher, ok := inv.(BatchRetirer); ok {
		for start := 0; start < len(plan); start += batchSize {
			end := min(start+batchSize, len(plan))
			ids := make([]uint, 0, end-start)
			for _, r := range plan[start:end] {
				ids = append(ids, r.ID)
			}
			if err := batcher.RetireBatch(ctx, ids); err != nil {
				return retired, fmt.Errorf("failed to batch retire records: %w", err)
			}
			retired += len(ids)
		}
		return retired, nil
	}

	// Fallback to one-at-a-time
	for _, r := range plan {
		if err := inv.Retire(ctx, r.ID); err != nil {
			return retired, fmt.Errorf("failed to retire %s: %w", r.Identity, err)
		}
		retired++
	}
	return retired, nil
}

// Prune retires every active record whose identity is absent from the active set.
// The plan is built from a full scan before anything is written, so retiring never
// disturbs the pages still being read.
func Prune(ctx context.Context, inv Inventory, identity IdentityFunc, active ActiveSet, batchSize int) (int, error) {
	plan, err := PlanRetirements(ctx, inv, identity, active, batchSize)
	if err != nil {
		return 0, err
	}
	return ApplyRetirements(ctx, inv, plan, batchSize)
}
