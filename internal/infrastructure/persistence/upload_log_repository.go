package persistence

import (
	"context"

	"github.com/bookpress/backend/internal/domain/integration"
	"gorm.io/gorm"
)

// UploadLogRepository implements integration.UploadLogRepository using GORM
type UploadLogRepository struct {
	db *gorm.DB
}

// NewUploadLogRepository creates a new UploadLogRepository
func NewUploadLogRepository(db *gorm.DB) *UploadLogRepository {
	return &UploadLogRepository{db: db}
}

// Save persists an upload log (create or update)
func (r *UploadLogRepository) Save(ctx context.Context, log *integration.UploadLog) error {
	return r.db.WithContext(ctx).Save(log).Error
}

// FindRecent retrieves the most recent upload logs, newest first
func (r *UploadLogRepository) FindRecent(ctx context.Context, limit int) ([]integration.UploadLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var logs []integration.UploadLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
