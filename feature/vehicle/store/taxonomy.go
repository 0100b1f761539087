package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"inventory-sync/feature/vehicle/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrEmptyLabel is returned when a term is requested for a blank label.
var ErrEmptyLabel = errors.New("term label is empty")

// Taxonomy is the gorm-backed term store. Term ids are cached per taxonomy and slug
// until the next Checkpoint.
type Taxonomy struct {
	db *gorm.DB

	mu    sync.Mutex
	cache map[string]uint
}

// NewTaxonomy creates a taxonomy store.
func NewTaxonomy(db *gorm.DB) *Taxonomy {
	return &Taxonomy{db: db, cache: make(map[string]uint)}
}

func cacheKey(taxonomy, slug string) string {
	return taxonomy + "|" + slug
}

// FindOrCreateTerm returns the id of the term with the label's slug, creating it when missing.
// Labels differing only in case or diacritics share one term; the first label seen is kept.
func (s *Taxonomy) FindOrCreateTerm(ctx context.Context, taxonomy, label string) (uint, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return 0, ErrEmptyLabel
	}
	slug := Slug(label)
	key := cacheKey(taxonomy, slug)

	s.mu.Lock()
	id, ok := s.cache[key]
	s.mu.Unlock()
	if ok {
		return id, nil
	}

	db := s.db.WithContext(ctx)
	var term models.Term
	err := db.Where("taxonomy = ? AND slug = ?", taxonomy, slug).Take(&term).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		term = models.Term{Taxonomy: taxonomy, Slug: slug, Label: label}
		// A concurrent insert of the same slug is absorbed by the unique index.
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&term)
		if res.Error != nil {
			return 0, fmt.Errorf("failed to create %s term %q: %w", taxonomy, label, res.Error)
		}
		if res.RowsAffected == 0 {
			err = db.Where("taxonomy = ? AND slug = ?", taxonomy, slug).Take(&term).Error
		} else {
			err = nil
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to find %s term %q: %w", taxonomy, label, err)
	}

	s.mu.Lock()
	s.cache[key] = term.ID
	s.mu.Unlock()
	return term.ID, nil
}

// AttachTerm makes termID the single term of the taxonomy on the vehicle.
func (s *Taxonomy) AttachTerm(ctx context.Context, vehicleID uint, taxonomy string, termID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vehicle_id = ? AND taxonomy = ? AND term_id <> ?", vehicleID, taxonomy, termID).
			Delete(&models.VehicleTerm{}).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.VehicleTerm{VehicleID: vehicleID, Taxonomy: taxonomy, TermID: termID}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to attach %s term %d to vehicle %d: %w", taxonomy, termID, vehicleID, err)
	}
	return nil
}

// TagTerm adds termID to the vehicle's terms of the taxonomy, keeping the others.
func (s *Taxonomy) TagTerm(ctx context.Context, vehicleID uint, taxonomy string, termID uint) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.VehicleTerm{VehicleID: vehicleID, Taxonomy: taxonomy, TermID: termID}).Error
	if err != nil {
		return fmt.Errorf("failed to tag vehicle %d with %s term %d: %w", vehicleID, taxonomy, termID, err)
	}
	return nil
}

// SetParent links a model term to its make term. The link is written on every call.
func (s *Taxonomy) SetParent(ctx context.Context, modelTermID, makeTermID uint) error {
	db := s.db.WithContext(ctx)
	var term models.Term
	err := db.Select("id", "parent_make_id").
		Where("id = ? AND taxonomy = ?", modelTermID, models.TaxonomyModel).
		Take(&term).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("model term %d not found", modelTermID)
	}
	if err != nil {
		return fmt.Errorf("failed to load model term %d: %w", modelTermID, err)
	}
	if err := db.Model(&models.Term{}).Where("id = ?", modelTermID).Update("parent_make_id", makeTermID).Error; err != nil {
		return fmt.Errorf("failed to set parent of model term %d: %w", modelTermID, err)
	}
	return nil
}

// GetParent returns the make term id of a model term.
func (s *Taxonomy) GetParent(ctx context.Context, modelTermID uint) (uint, bool, error) {
	var term models.Term
	err := s.db.WithContext(ctx).Select("id", "parent_make_id").Take(&term, modelTermID).Error
	if err != nil {
		return 0, false, fmt.Errorf("failed to load model term %d: %w", modelTermID, err)
	}
	if term.ParentMakeID == nil {
		return 0, false, nil
	}
	return *term.ParentMakeID, true, nil
}

// TermsOf returns the labels attached to a vehicle, per taxonomy.
func (s *Taxonomy) TermsOf(ctx context.Context, vehicleID uint) (map[string][]string, error) {
	var rows []struct {
		Taxonomy string
		Label    string
	}
	err := s.db.WithContext(ctx).Table("vehicle_terms").
		Select("vehicle_terms.taxonomy, terms.label").
		Joins("JOIN terms ON terms.id = vehicle_terms.term_id").
		Where("vehicle_terms.vehicle_id = ?", vehicleID).
		Order("terms.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load terms of vehicle %d: %w", vehicleID, err)
	}
	out := make(map[string][]string)
	for _, r := range rows {
		out[r.Taxonomy] = append(out[r.Taxonomy], r.Label)
	}
	return out, nil
}

// Checkpoint drops the term id cache.
func (s *Taxonomy) Checkpoint() {
	s.mu.Lock()
	s.cache = make(map[string]uint)
	s.mu.Unlock()
}

// cached reports the number of cached term ids.
func (s *Taxonomy) cached() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}
