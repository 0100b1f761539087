package checks

import (
	"context"
	"fmt"

	"inventory-sync/feature/vehicle/models"

	"gorm.io/gorm"
)

// HierarchyReport lists breaks of the make to model hierarchy.
type HierarchyReport struct {
	Matched bool `json:"matched"`
	// Orphans are attached model terms without a parent make.
	Orphans []string `json:"orphans"`
	// Dangling are model terms whose parent is not an existing make term.
	Dangling []string `json:"dangling"`
	// Mismatched are vehicles whose model belongs to another make than theirs.
	Mismatched []uint `json:"mismatched"`
}

// CheckHierarchy verifies that every model term in use points at an existing make.
func CheckHierarchy(ctx context.Context, db *gorm.DB) (*HierarchyReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	db = db.WithContext(ctx)
	report := &HierarchyReport{Orphans: []string{}, Dangling: []string{}, Mismatched: []uint{}}

	err := db.Table("terms").
		Where("terms.taxonomy = ? AND terms.parent_make_id IS NULL", models.TaxonomyModel).
		Where("EXISTS (SELECT 1 FROM vehicle_terms WHERE vehicle_terms.term_id = terms.id)").
		Order("terms.id").
		Pluck("terms.label", &report.Orphans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find orphan models: %w", err)
	}

	err = db.Table("terms AS m").
		Joins("LEFT JOIN terms AS p ON p.id = m.parent_make_id AND p.taxonomy = ?", models.TaxonomyMake).
		Where("m.taxonomy = ? AND m.parent_make_id IS NOT NULL AND p.id IS NULL", models.TaxonomyModel).
		Order("m.id").
		Pluck("m.label", &report.Dangling).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find dangling models: %w", err)
	}

	err = db.Raw(`SELECT vm.vehicle_id FROM vehicle_terms vm
		JOIN terms m ON m.id = vm.term_id
		LEFT JOIN vehicle_terms vk ON vk.vehicle_id = vm.vehicle_id AND vk.taxonomy = ?
		WHERE vm.taxonomy = ? AND m.parent_make_id IS NOT NULL AND (vk.term_id IS NULL OR vk.term_id <> m.parent_make_id)
		ORDER BY vm.vehicle_id`, models.TaxonomyMake, models.TaxonomyModel).
		Scan(&report.Mismatched).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find mismatched vehicles: %w", err)
	}

	report.Matched = len(report.Orphans) == 0 && len(report.Dangling) == 0 && len(report.Mismatched) == 0
	return report, nil
}
