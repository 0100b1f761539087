package store

import (
	"context"
	"fmt"

	"inventory-sync/feature/vehicle/models"

	"gorm.io/gorm"
)

// Images is the gorm-backed record of imported vehicle images.
type Images struct {
	db *gorm.DB
}

// NewImages creates an image store.
func NewImages(db *gorm.DB) *Images {
	return &Images{db: db}
}

// Identity returns the identity of a vehicle, used to place its images in the bucket.
func (s *Images) Identity(ctx context.Context, vehicleID uint) (string, error) {
	var v models.Vehicle
	if err := s.db.WithContext(ctx).Select("id", "identity").Take(&v, vehicleID).Error; err != nil {
		return "", fmt.Errorf("failed to load vehicle %d: %w", vehicleID, err)
	}
	return v.Identity, nil
}

// ImagesOf returns the images of a vehicle in position order.
func (s *Images) ImagesOf(ctx context.Context, vehicleID uint) ([]models.VehicleImage, error) {
	var rows []models.VehicleImage
	err := s.db.WithContext(ctx).Where("vehicle_id = ?", vehicleID).Order("position, id").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load images of vehicle %d: %w", vehicleID, err)
	}
	return rows, nil
}

// AddImage stores a new image row.
func (s *Images) AddImage(ctx context.Context, img *models.VehicleImage) error {
	if err := s.db.WithContext(ctx).Create(img).Error; err != nil {
		return fmt.Errorf("failed to store image %s: %w", img.SourceURL, err)
	}
	return nil
}

// SetPrimary makes imageID the only primary image of the vehicle.
func (s *Images) SetPrimary(ctx context.Context, vehicleID, imageID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.VehicleImage{}).
			Where("vehicle_id = ? AND id <> ? AND is_primary = ?", vehicleID, imageID, true).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.VehicleImage{}).
			Where("vehicle_id = ? AND id = ?", vehicleID, imageID).
			Update("is_primary", true).Error
	})
	if err != nil {
		return fmt.Errorf("failed to set primary image of vehicle %d: %w", vehicleID, err)
	}
	return nil
}

// ArrangeGallery keeps only the images in ordered and writes their position from
// their index. Other image rows of the vehicle are removed.
func (s *Images) ArrangeGallery(ctx context.Context, vehicleID uint, ordered []uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stale := tx.Where("vehicle_id = ?", vehicleID)
		if len(ordered) > 0 {
			stale = stale.Where("id NOT IN ?", ordered)
		}
		if err := stale.Delete(&models.VehicleImage{}).Error; err != nil {
			return err
		}
		for pos, id := range ordered {
			if err := tx.Model(&models.VehicleImage{}).
				Where("vehicle_id = ? AND id = ?", vehicleID, id).
				Update("position", pos).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to arrange gallery of vehicle %d: %w", vehicleID, err)
	}
	return nil
}
