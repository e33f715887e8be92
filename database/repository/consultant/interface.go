package consultantRepo

import (
	"context"

	"gorm.io/gorm"

	"naksha/models"
)

// ConsultantRepository resolves consultants; lifecycle is managed elsewhere.
type ConsultantRepository interface {
	GetByID(ctx context.Context, id string) (*models.Consultant, error)
	GetBySlug(ctx context.Context, slug string) (*models.Consultant, error)
	ListActive(ctx context.Context) ([]models.Consultant, error)
}

type gormConsultantRepo struct {
	db *gorm.DB
}

// NewGormConsultantRepo constructs a GORM-backed ConsultantRepository.
func NewGormConsultantRepo(db *gorm.DB) ConsultantRepository {
	return &gormConsultantRepo{db: db}
}
