package repositories

import (
	"context"

	"gorm.io/gorm"

	"notegpt/internal/models"
)

type CompletionRecordRepository interface {
	Create(ctx context.Context, record *models.CompletionRecord) error
	ListRecent(ctx context.Context, limit int) ([]models.CompletionRecord, error)
}

type completionRecordRepository struct {
	db *gorm.DB
}

func NewCompletionRecordRepository(db *gorm.DB) CompletionRecordRepository {
	return &completionRecordRepository{db: db}
}

func (r *completionRecordRepository) Create(ctx context.Context, record *models.CompletionRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *completionRecordRepository) ListRecent(ctx context.Context, limit int) ([]models.CompletionRecord, error) {
	var records []models.CompletionRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
