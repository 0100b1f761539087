package integrity

import (
	"context"

	"inventory-sync/core/storage"
	"inventory-sync/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	client storage.Client
	bucket string
	prefix string
	logger *zap.Logger
	db     *gorm.DB
}

// NewService creates a new integrity service. prefix is the image folder of the bucket.
func NewService(client storage.Client, bucket, prefix string, logger *zap.Logger, db *gorm.DB) *Service {
	if prefix == "" {
		prefix = "vehicles"
	}
	return &Service{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
		db:     db,
	}
}

// RequiredFolders lists the folders that must exist in the bucket.
func (s *Service) RequiredFolders() []string {
	return []string{s.prefix}
}

// CheckStructure returns a list of missing folders.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	return checks.CheckStructure(ctx, s.client, s.bucket, s.RequiredFolders())
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	return checks.FixStructure(ctx, s.client, s.bucket, s.logger, missing)
}

// CheckImages verifies that recorded images still exist in the bucket.
func (s *Service) CheckImages(ctx context.Context, limit int) (*checks.ImageReport, error) {
	return checks.CheckImages(ctx, s.client, s.bucket, s.db, limit)
}

// CheckSchema verifies the database schema.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db)
}

// CheckHierarchy verifies the make to model hierarchy.
func (s *Service) CheckHierarchy(ctx context.Context) (*checks.HierarchyReport, error) {
	return checks.CheckHierarchy(ctx, s.db)
}
