package consultantRepo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"naksha/models"
)

func (r *gormConsultantRepo) GetByID(ctx context.Context, id string) (*models.Consultant, error) {
	var c models.Consultant
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch consultant %s: %w", id, err)
	}
	return &c, nil
}

func (r *gormConsultantRepo) GetBySlug(ctx context.Context, slug string) (*models.Consultant, error) {
	var c models.Consultant
	err := r.db.WithContext(ctx).First(&c, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch consultant by slug %s: %w", slug, err)
	}
	return &c, nil
}

func (r *gormConsultantRepo) ListActive(ctx context.Context) ([]models.Consultant, error) {
	var consultants []models.Consultant
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Find(&consultants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active consultants: %w", err)
	}
	return consultants, nil
}
