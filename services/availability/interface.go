package availability

import (
	"context"
	"time"

	"gorm.io/gorm"

	consultantRepo "naksha/database/repository/consultant"
	patternRepo "naksha/database/repository/pattern"
	slotRepo "naksha/database/repository/slot"
	"naksha/models"
	"naksha/services/coherence"
	"naksha/utils"
)

// Cache and lock policy.
const (
	patternsCacheTTL = 120 * time.Second
	slotsCacheTTL    = 30 * time.Second
	lockTTL          = 30 * time.Second
	lockStaleAfter   = 25 * time.Second

	// maxGenerateWindowDays bounds one explicit materialization request.
	maxGenerateWindowDays = 90
)

// AvailabilityService owns weekly patterns and their materialized slots.
type AvailabilityService interface {
	GetPatterns(ctx context.Context, consultantID string) ([]models.WeeklyPattern, error)
	CreatePattern(ctx context.Context, consultantID string, in PatternInput) (*models.WeeklyPattern, error)
	UpdatePattern(ctx context.Context, consultantID, patternID string, in PatternUpdate) (*models.WeeklyPattern, error)
	DeletePattern(ctx context.Context, consultantID, patternID string) error

	// ReplacePatterns atomically swaps the consultant's entire pattern set
	// and reconciles the slot inventory by diff.
	ReplacePatterns(ctx context.Context, consultantID string, in []PatternInput) (*BulkReplaceResult, error)

	// GenerateSlots materializes hourly slots over [StartDate, EndDate].
	GenerateSlots(ctx context.Context, consultantID string, req GenerateRequest) (int64, error)

	// ListPublicSlots serves the public, cached slot page for a slug.
	ListPublicSlots(ctx context.Context, req PublicSlotsRequest) (*PublicSlotsResponse, error)
}

// DefaultAvailabilityService is the production implementation.
type DefaultAvailabilityService struct {
	DB          *gorm.DB
	Patterns    patternRepo.PatternRepository
	Slots       slotRepo.SlotRepository
	Consultants consultantRepo.ConsultantRepository
	Cache       utils.CacheStore
	Coherence   *coherence.Controller

	// HorizonDays is the rolling window kept materialized after pattern
	// changes; 30 unless configured otherwise.
	HorizonDays int

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultAvailabilityService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultAvailabilityService) today() string {
	return s.now().Format(utils.DateLayout)
}

func (s *DefaultAvailabilityService) horizonDays() int {
	if s.HorizonDays > 0 {
		return s.HorizonDays
	}
	return 30
}
