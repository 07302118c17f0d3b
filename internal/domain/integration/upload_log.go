package integration

import (
	"context"

	"github.com/bookpress/backend/internal/domain/shared"
)

// UploadRecordType distinguishes what a CSV export contains
type UploadRecordType string

const (
	UploadRecordProducts UploadRecordType = "products"
	UploadRecordOrders   UploadRecordType = "orders"
)

// UploadStatus is the processing outcome of one uploaded file
type UploadStatus string

const (
	UploadStatusProcessing UploadStatus = "processing"
	UploadStatusCompleted  UploadStatus = "completed"
	UploadStatusFailed     UploadStatus = "failed"
)

// UploadLog is the audit record for one ingested marketplace export file
type UploadLog struct {
	shared.BaseEntity
	FileName     string           `gorm:"not null"`
	Marketplace  Marketplace      `gorm:"index;not null"`
	RecordType   UploadRecordType `gorm:"not null"`
	TotalRows    int
	SuccessCount int
	FailedCount  int
	Status       UploadStatus `gorm:"index;not null"`
	Error        string
}

// TableName returns the table name for GORM
func (UploadLog) TableName() string {
	return "upload_logs"
}

// NewUploadLog starts the audit record for a file being processed
func NewUploadLog(fileName string, marketplace Marketplace, recordType UploadRecordType) *UploadLog {
	return &UploadLog{
		BaseEntity:  shared.NewBaseEntity(),
		FileName:    fileName,
		Marketplace: marketplace,
		RecordType:  recordType,
		Status:      UploadStatusProcessing,
	}
}

// Complete records the final row counts
func (u *UploadLog) Complete(total, success, failed int) {
	u.TotalRows = total
	u.SuccessCount = success
	u.FailedCount = failed
	u.Status = UploadStatusCompleted
	u.Touch()
}

// Fail marks the upload as unprocessable
func (u *UploadLog) Fail(err error) {
	u.Status = UploadStatusFailed
	if err != nil {
		u.Error = err.Error()
	}
	u.Touch()
}

// UploadLogRepository defines the persistence interface for upload audit records
type UploadLogRepository interface {
	// Save persists an upload log (create or update)
	Save(ctx context.Context, log *UploadLog) error

	// FindRecent retrieves the most recent upload logs, newest first
	FindRecent(ctx context.Context, limit int) ([]UploadLog, error)
}
