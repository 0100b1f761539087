package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory-sync/core/reconcile"
	"inventory-sync/feature/vehicle/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// DefaultHistoryLimit is the number of sync log entries kept.
	DefaultHistoryLimit = 50

	lastSuccessKey = "last_successful_sync"
)

// History is the gorm-backed sync log. Only the newest limit entries are kept.
type History struct {
	db    *gorm.DB
	limit int
}

// NewHistory creates a history store. limit <= 0 uses DefaultHistoryLimit.
func NewHistory(db *gorm.DB, limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{db: db, limit: limit}
}

// Append stores an entry and evicts the oldest ones beyond the limit.
func (h *History) Append(ctx context.Context, entry reconcile.LogEntry) error {
	row := models.SyncLog{
		Feed:       entry.Feed,
		Timestamp:  entry.Timestamp,
		Status:     entry.Status,
		Imported:   entry.Imported,
		Updated:    entry.Updated,
		Errors:     entry.Errors,
		Skipped:    entry.Skipped,
		Pruned:     entry.Pruned,
		DurationMS: entry.Duration.Milliseconds(),
		Message:    entry.Message,
	}
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		var overflow []uint
		if err := tx.Model(&models.SyncLog{}).
			Order("id desc").
			Offset(h.limit).
			Limit(1).
			Pluck("id", &overflow).Error; err != nil {
			return err
		}
		if len(overflow) == 0 {
			return nil
		}
		return tx.Where("id <= ?", overflow[0]).Delete(&models.SyncLog{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to append sync log: %w", err)
	}
	return nil
}

// List returns the stored entries, newest first.
func (h *History) List(ctx context.Context) ([]reconcile.LogEntry, error) {
	var rows []models.SyncLog
	if err := h.db.WithContext(ctx).Order("id desc").Limit(h.limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list sync logs: %w", err)
	}
	out := make([]reconcile.LogEntry, len(rows))
	for i, r := range rows {
		out[i] = reconcile.LogEntry{
			Feed:      r.Feed,
			Timestamp: r.Timestamp,
			Status:    r.Status,
			Imported:  r.Imported,
			Updated:   r.Updated,
			Errors:    r.Errors,
			Skipped:   r.Skipped,
			Pruned:    r.Pruned,
			Duration:  time.Duration(r.DurationMS) * time.Millisecond,
			Message:   r.Message,
		}
	}
	return out, nil
}

// MarkSuccess stores the time of the last successful sync.
func (h *History) MarkSuccess(ctx context.Context, at time.Time) error {
	setting := models.Setting{Key: lastSuccessKey, Value: at.UTC().Format(time.RFC3339Nano)}
	err := h.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&setting).Error
	if err != nil {
		return fmt.Errorf("failed to store last successful sync: %w", err)
	}
	return nil
}

// LastSuccess returns the time of the last successful sync, if any.
func (h *History) LastSuccess(ctx context.Context) (time.Time, bool, error) {
	var setting models.Setting
	err := h.db.WithContext(ctx).Where("name = ?", lastSuccessKey).Take(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to load last successful sync: %w", err)
	}
	at, err := time.Parse(time.RFC3339Nano, setting.Value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid last successful sync %q: %w", setting.Value, err)
	}
	return at, true, nil
}
