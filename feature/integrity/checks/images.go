package checks

import (
	"context"
	"fmt"

	"inventory-sync/core/storage"
	"inventory-sync/feature/vehicle/models"

	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"
)

// ImageReport lists recorded vehicle images whose object is gone from the bucket.
type ImageReport struct {
	Checked int      `json:"checked"`
	Missing []string `json:"missing"`
}

// CheckImages stats the objects of up to limit recorded images of active vehicles.
// limit <= 0 checks every image.
func CheckImages(ctx context.Context, client storage.Client, bucket string, db *gorm.DB, limit int) (*ImageReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	var images []models.VehicleImage
	q := db.WithContext(ctx).
		Joins("JOIN vehicles ON vehicles.id = vehicle_images.vehicle_id").
		Where("vehicles.status = ?", models.StatusActive).
		Order("vehicle_images.id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to list vehicle images: %w", err)
	}

	report := &ImageReport{Missing: []string{}}
	for _, img := range images {
		_, err := client.StatObject(ctx, bucket, img.ObjectKey, minio.StatObjectOptions{})
		report.Checked++
		if err == nil {
			continue
		}
		if storage.IsNotFound(err) {
			report.Missing = append(report.Missing, img.ObjectKey)
			continue
		}
		return nil, fmt.Errorf("failed to stat %s: %w", img.ObjectKey, err)
	}
	return report, nil
}
