package sessionRepo

import (
	"context"

	"gorm.io/gorm"

	"naksha/models"
)

// SessionRepository persists booked sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)

	// HasActiveAt reports whether a non-CANCELLED session already occupies
	// (consultantID, date, timeStr).
	HasActiveAt(ctx context.Context, consultantID, date, timeStr string) (bool, error)

	UpdateStatus(ctx context.Context, id, status string) error
	SetMeetingDetails(ctx context.Context, id, link, meetingID, password string) error
	ListUpcoming(ctx context.Context, consultantID, fromDate string) ([]models.Session, error)

	WithTx(tx *gorm.DB) SessionRepository
}

type gormSessionRepo struct {
	db *gorm.DB
}

// NewGormSessionRepo constructs a GORM-backed SessionRepository.
func NewGormSessionRepo(db *gorm.DB) SessionRepository {
	return &gormSessionRepo{db: db}
}
