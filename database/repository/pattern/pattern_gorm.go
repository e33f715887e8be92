package patternRepo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"naksha/models"
)

func (r *gormPatternRepo) WithTx(tx *gorm.DB) PatternRepository {
	return &gormPatternRepo{db: tx}
}

func (r *gormPatternRepo) ListByConsultant(ctx context.Context, consultantID string) ([]models.WeeklyPattern, error) {
	var patterns []models.WeeklyPattern
	err := r.db.WithContext(ctx).
		Where("consultant_id = ?", consultantID).
		Order("session_type, day_of_week, start_time").
		Find(&patterns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list patterns: %w", err)
	}
	return patterns, nil
}

func (r *gormPatternRepo) GetByID(ctx context.Context, id string) (*models.WeeklyPattern, error) {
	var p models.WeeklyPattern
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pattern %s: %w", id, err)
	}
	return &p, nil
}

func (r *gormPatternRepo) Create(ctx context.Context, p *models.WeeklyPattern) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create pattern: %w", err)
	}
	return nil
}

func (r *gormPatternRepo) Update(ctx context.Context, p *models.WeeklyPattern) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("failed to update pattern %s: %w", p.ID, err)
	}
	return nil
}

func (r *gormPatternRepo) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.WeeklyPattern{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete pattern %s: %w", id, err)
	}
	return nil
}

// Two [start, end) ranges intersect when startA < endB AND endA > startB.
// Zero-padded "HH:MM" strings compare correctly as text.
func (r *gormPatternRepo) HasOverlap(ctx context.Context, consultantID, sessionType string, dayOfWeek int, startTime, endTime, excludeID string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.WeeklyPattern{}).
		Where("consultant_id = ? AND session_type = ? AND day_of_week = ? AND is_active = ?",
			consultantID, sessionType, dayOfWeek, true).
		Where("start_time < ? AND end_time > ?", endTime, startTime)
	if excludeID != "" {
		query = query.Where("id != ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check pattern overlap: %w", err)
	}
	return count > 0, nil
}

func (r *gormPatternRepo) DeleteAllForConsultant(ctx context.Context, consultantID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("consultant_id = ?", consultantID).Delete(&models.WeeklyPattern{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete patterns for consultant %s: %w", consultantID, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *gormPatternRepo) CreateBatch(ctx context.Context, patterns []models.WeeklyPattern) error {
	if len(patterns) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(patterns, 100).Error; err != nil {
		return fmt.Errorf("failed to insert pattern batch: %w", err)
	}
	return nil
}
