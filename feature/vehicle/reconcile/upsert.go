package reconcile

import (
	"context"
	"fmt"
	"strings"

	"inventory-sync/core/reconcile"
	"inventory-sync/feature/vehicle/normalize"
)

// InventoryStore is the upsert side of the inventory store.
type InventoryStore interface {
	FindByIdentity(ctx context.Context, identity string) (uint, bool, error)
	FindByAttribute(ctx context.Context, name, value string) (uint, bool, error)
	Attributes(ctx context.Context, id uint) (map[string]string, error)
	Create(ctx context.Context, identity, title, description string, attrs map[string]string) (uint, error)
	Update(ctx context.Context, id uint, title, description string, attrs map[string]string, clear []string) error
}

// clearedAttributes are deleted on update when the feed row does not carry them:
// the identity attributes, so stored identity resolution follows the feed, and the
// sold badge of a vehicle listed again.
var clearedAttributes = []string{normalize.AttrVIN, normalize.AttrStockNumber, normalize.AttrStatusBadge}

// Upserter implements reconcile.Upserter on an InventoryStore.
type Upserter struct {
	store InventoryStore
}

// NewUpserter creates an upserter.
func NewUpserter(store InventoryStore) *Upserter {
	return &Upserter{store: store}
}

// Upsert creates the record when no stored vehicle matches it, otherwise overwrites
// the stored one. Lookup order: identity, STOCK-<stock number>, stored stock_number.
// A stock match whose stored VIN differs from the record's VIN is not a match.
func (u *Upserter) Upsert(ctx context.Context, rec reconcile.Record) (reconcile.Outcome, uint, error) {
	id, found, err := u.find(ctx, rec)
	if err != nil {
		return "", 0, err
	}

	title := rec.Title
	if title == "" {
		title = normalize.Title(rec.Attributes, nil, rec.Identity)
	}

	if !found {
		id, err = u.store.Create(ctx, rec.Identity, title, rec.Description, rec.Attributes)
		if err != nil {
			return "", 0, err
		}
		return reconcile.OutcomeCreated, id, nil
	}

	var clear []string
	for _, name := range clearedAttributes {
		if _, ok := rec.Attributes[name]; !ok {
			clear = append(clear, name)
		}
	}
	if err := u.store.Update(ctx, id, title, rec.Description, rec.Attributes, clear); err != nil {
		return "", 0, err
	}
	return reconcile.OutcomeUpdated, id, nil
}

func (u *Upserter) find(ctx context.Context, rec reconcile.Record) (uint, bool, error) {
	id, ok, err := u.store.FindByIdentity(ctx, rec.Identity)
	if err != nil || ok {
		return id, ok, err
	}

	stockID, hasStock := normalize.StockIdentity(rec.Attributes)
	if !hasStock {
		return 0, false, nil
	}
	if stockID != rec.Identity {
		id, ok, err = u.store.FindByIdentity(ctx, stockID)
		if err != nil {
			return 0, false, err
		}
		if ok {
			return u.sameVehicle(ctx, id, rec)
		}
	}

	id, ok, err = u.store.FindByAttribute(ctx, normalize.AttrStockNumber, rec.Attributes[normalize.AttrStockNumber])
	if err != nil {
		return 0, false, fmt.Errorf("stock number lookup: %w", err)
	}
	if !ok {
		return 0, false, nil
	}
	return u.sameVehicle(ctx, id, rec)
}

// sameVehicle accepts a stock number match unless both sides carry a VIN and the
// VINs differ: a reused stock number then belongs to another vehicle.
func (u *Upserter) sameVehicle(ctx context.Context, id uint, rec reconcile.Record) (uint, bool, error) {
	vin := strings.TrimSpace(rec.Attributes[normalize.AttrVIN])
	if vin == "" {
		return id, true, nil
	}
	stored, err := u.store.Attributes(ctx, id)
	if err != nil {
		return 0, false, fmt.Errorf("stock number lookup: %w", err)
	}
	if storedVIN := strings.TrimSpace(stored[normalize.AttrVIN]); storedVIN != "" && storedVIN != vin {
		return 0, false, nil
	}
	return id, true, nil
}
