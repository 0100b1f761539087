package store

import (
	"context"
	"errors"
	"fmt"

	"inventory-sync/core/reconcile"
	"inventory-sync/feature/vehicle/models"
	"inventory-sync/feature/vehicle/normalize"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SoldCondition is the condition term appended to retired vehicles.
const SoldCondition = "Sold"

// identityAttributes are the stored attributes the pruner needs to recompute identities.
var identityAttributes = []string{normalize.AttrVIN, normalize.AttrStockNumber}

// Inventory is the gorm-backed vehicle store.
type Inventory struct {
	db       *gorm.DB
	taxonomy *Taxonomy
}

// NewInventory creates an inventory store. Retirements tag vehicles through taxonomy.
func NewInventory(db *gorm.DB, taxonomy *Taxonomy) *Inventory {
	return &Inventory{db: db, taxonomy: taxonomy}
}

// FindByIdentity returns the id of the vehicle with the given identity.
func (s *Inventory) FindByIdentity(ctx context.Context, identity string) (uint, bool, error) {
	var v models.Vehicle
	err := s.db.WithContext(ctx).Select("id").Where("identity = ?", identity).Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to find vehicle %s: %w", identity, err)
	}
	return v.ID, true, nil
}

// FindByAttribute returns the lowest vehicle id carrying attribute name=value.
func (s *Inventory) FindByAttribute(ctx context.Context, name, value string) (uint, bool, error) {
	var a models.Attribute
	err := s.db.WithContext(ctx).
		Select("vehicle_id").
		Where("name = ? AND value = ?", name, value).
		Order("vehicle_id").
		Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to find vehicle by %s: %w", name, err)
	}
	return a.VehicleID, true, nil
}

// Create inserts an active vehicle and its attributes in one transaction.
func (s *Inventory) Create(ctx context.Context, identity, title, description string, attrs map[string]string) (uint, error) {
	v := models.Vehicle{
		Identity:    identity,
		Title:       title,
		Description: description,
		Status:      models.StatusActive,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&v).Error; err != nil {
			return err
		}
		return upsertAttributes(tx, v.ID, attrs)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create vehicle %s: %w", identity, err)
	}
	return v.ID, nil
}

// Update overwrites title, description and the given attributes, deletes the
// attributes named in clear and reactivates the vehicle, dropping its Sold condition
// tag. The identity is never changed.
func (s *Inventory) Update(ctx context.Context, id uint, title, description string, attrs map[string]string, clear []string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Vehicle{}).Where("id = ?", id).Updates(map[string]any{
			"title":       title,
			"description": description,
			"status":      models.StatusActive,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := upsertAttributes(tx, id, attrs); err != nil {
			return err
		}
		sold := tx.Session(&gorm.Session{NewDB: true}).Model(&models.Term{}).Select("id").
			Where("taxonomy = ? AND slug = ?", models.TaxonomyCondition, Slug(SoldCondition))
		if err := tx.Where("vehicle_id = ? AND taxonomy = ? AND term_id IN (?)", id, models.TaxonomyCondition, sold).
			Delete(&models.VehicleTerm{}).Error; err != nil {
			return err
		}
		if len(clear) > 0 {
			return tx.Where("vehicle_id = ? AND name IN ?", id, clear).Delete(&models.Attribute{}).Error
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update vehicle %d: %w", id, err)
	}
	return nil
}

func upsertAttributes(tx *gorm.DB, vehicleID uint, attrs map[string]string) error {
	if len(attrs) == 0 {
		return nil
	}
	rows := make([]models.Attribute, 0, len(attrs))
	for name, value := range attrs {
		rows = append(rows, models.Attribute{VehicleID: vehicleID, Name: name, Value: value})
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "vehicle_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&rows).Error
}

// Attributes returns every attribute of a vehicle.
func (s *Inventory) Attributes(ctx context.Context, id uint) (map[string]string, error) {
	var rows []models.Attribute
	if err := s.db.WithContext(ctx).Where("vehicle_id = ?", id).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load attributes of vehicle %d: %w", id, err)
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Name] = r.Value
	}
	return out, nil
}

// Get returns a vehicle with its attributes.
func (s *Inventory) Get(ctx context.Context, id uint) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := s.db.WithContext(ctx).Preload("Attributes").Take(&v, id).Error; err != nil {
		return nil, fmt.Errorf("failed to load vehicle %d: %w", id, err)
	}
	return &v, nil
}

// EachActive pages through active vehicles by id, loading only the identity attributes.
func (s *Inventory) EachActive(ctx context.Context, batchSize int, fn func([]reconcile.StoredRecord) error) error {
	if batchSize <= 0 {
		batchSize = 200
	}
	var lastID uint
	for {
		var ids []uint
		err := s.db.WithContext(ctx).Model(&models.Vehicle{}).
			Where("status = ? AND id > ?", models.StatusActive, lastID).
			Order("id").
			Limit(batchSize).
			Pluck("id", &ids).Error
		if err != nil {
			return fmt.Errorf("failed to list active vehicles: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}

		var attrs []models.Attribute
		err = s.db.WithContext(ctx).
			Where("vehicle_id IN ? AND name IN ?", ids, identityAttributes).
			Find(&attrs).Error
		if err != nil {
			return fmt.Errorf("failed to load identity attributes: %w", err)
		}

		byID := make(map[uint]map[string]string, len(ids))
		for _, a := range attrs {
			m, ok := byID[a.VehicleID]
			if !ok {
				m = make(map[string]string, len(identityAttributes))
				byID[a.VehicleID] = m
			}
			m[a.Name] = a.Value
		}

		batch := make([]reconcile.StoredRecord, len(ids))
		for i, id := range ids {
			batch[i] = reconcile.StoredRecord{ID: id, Attributes: byID[id]}
		}
		if err := fn(batch); err != nil {
			return err
		}

		if len(ids) < batchSize {
			return nil
		}
		lastID = ids[len(ids)-1]
	}
}

// Retire retires one vehicle.
func (s *Inventory) Retire(ctx context.Context, id uint) error {
	return s.RetireBatch(ctx, []uint{id})
}

// RetireBatch sets status retired, writes status_badge=sold and appends the Sold
// condition term for every id, in one transaction.
func (s *Inventory) RetireBatch(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	soldID, err := s.taxonomy.FindOrCreateTerm(ctx, models.TaxonomyCondition, SoldCondition)
	if err != nil {
		return fmt.Errorf("failed to resolve sold condition: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Vehicle{}).Where("id IN ?", ids).Update("status", models.StatusRetired).Error; err != nil {
			return err
		}
		badges := make([]models.Attribute, len(ids))
		tags := make([]models.VehicleTerm, len(ids))
		for i, id := range ids {
			badges[i] = models.Attribute{VehicleID: id, Name: normalize.AttrStatusBadge, Value: "sold"}
			tags[i] = models.VehicleTerm{VehicleID: id, Taxonomy: models.TaxonomyCondition, TermID: soldID}
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "vehicle_id"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).Create(&badges).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&tags).Error
	})
	if err != nil {
		return fmt.Errorf("failed to retire %d vehicles: %w", len(ids), err)
	}
	return nil
}

// CountByStatus returns the number of vehicles per status.
func (s *Inventory) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := s.db.WithContext(ctx).Model(&models.Vehicle{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count vehicles: %w", err)
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Count
	}
	return out, nil
}
