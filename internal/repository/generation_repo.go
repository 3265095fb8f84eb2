package repository

import (
	"context"
	"fmt"

	"github.com/sabin/memeforge/internal/domain"
	"gorm.io/gorm"
)

// GenerationRepository persists pipeline run metadata.
type GenerationRepository struct {
	db *gorm.DB
}

// NewGenerationRepository creates a new generation repository.
func NewGenerationRepository(db *gorm.DB) *GenerationRepository {
	return &GenerationRepository{db: db}
}

// Save inserts one generation record.
func (r *GenerationRepository) Save(ctx context.Context, rec *domain.GenerationRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to save generation record: %w", err)
	}
	return nil
}

// List returns the most recent generation records, newest first.
func (r *GenerationRepository) List(ctx context.Context, limit, offset int) ([]domain.GenerationRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var records []domain.GenerationRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list generation records: %w", err)
	}
	return records, nil
}

// CountByStatus returns how many runs finished in the given status.
func (r *GenerationRepository) CountByStatus(ctx context.Context, status domain.GenerationStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.GenerationRecord{}).
		Where("status = ?", status).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count generation records: %w", err)
	}
	return count, nil
}
