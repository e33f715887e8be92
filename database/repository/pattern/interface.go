package patternRepo

import (
	"context"

	"gorm.io/gorm"

	"naksha/models"
)

// PatternRepository persists weekly availability patterns.
type PatternRepository interface {
	ListByConsultant(ctx context.Context, consultantID string) ([]models.WeeklyPattern, error)
	GetByID(ctx context.Context, id string) (*models.WeeklyPattern, error)
	Create(ctx context.Context, p *models.WeeklyPattern) error
	Update(ctx context.Context, p *models.WeeklyPattern) error
	Delete(ctx context.Context, id string) error

	// HasOverlap reports whether an active pattern for the same
	// (consultant, sessionType, dayOfWeek) intersects [startTime, endTime).
	// excludeID skips a pattern, for update checks.
	HasOverlap(ctx context.Context, consultantID, sessionType string, dayOfWeek int, startTime, endTime, excludeID string) (bool, error)

	DeleteAllForConsultant(ctx context.Context, consultantID string) (int64, error)
	CreateBatch(ctx context.Context, patterns []models.WeeklyPattern) error

	// WithTx returns a repository bound to tx so callers can compose
	// multi-repository transactions.
	WithTx(tx *gorm.DB) PatternRepository
}

type gormPatternRepo struct {
	db *gorm.DB
}

// NewGormPatternRepo constructs a GORM-backed PatternRepository.
func NewGormPatternRepo(db *gorm.DB) PatternRepository {
	return &gormPatternRepo{db: db}
}
