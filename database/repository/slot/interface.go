package slotRepo

import (
	"context"

	"gorm.io/gorm"

	"naksha/models"
)

// PublicSlotFilter narrows a public slot listing. SessionType empty means
// all types. Dates are inclusive "YYYY-MM-DD" strings.
type PublicSlotFilter struct {
	ConsultantID string
	SessionType  string
	FromDate     string
	ToDate       string
	Limit        int
	Offset       int
}

// SlotRepository persists materialized availability slots.
type SlotRepository interface {
	// ListExisting returns slots for the consultant in [fromDate, toDate],
	// across all session types, for duplicate-avoidance during generation.
	ListExisting(ctx context.Context, consultantID, fromDate, toDate string) ([]models.AvailabilitySlot, error)

	// ListFutureUnbooked returns candidate rows for diff-driven blocking:
	// unbooked, unblocked slots of the session type on or after fromDate.
	ListFutureUnbooked(ctx context.Context, consultantID, sessionType, fromDate string) ([]models.AvailabilitySlot, error)

	ListPublic(ctx context.Context, f PublicSlotFilter) ([]models.AvailabilitySlot, error)
	CountPublic(ctx context.Context, f PublicSlotFilter) (int64, error)

	// CreateIgnoringDuplicates inserts rows in batches, skipping any that
	// violate the (consultant, sessionType, date, startTime) identity.
	// Returns the number actually inserted.
	CreateIgnoringDuplicates(ctx context.Context, slots []models.AvailabilitySlot) (int64, error)

	// BlockUnbooked marks the given rows blocked. Booked rows are excluded
	// by predicate no matter what IDs the caller computed.
	BlockUnbooked(ctx context.Context, consultantID string, ids []string) (int64, error)

	// ClaimSlot conditionally books the identified slot for sessionID.
	// claimed reports success; exists distinguishes a lost race from a slot
	// that was never materialized.
	ClaimSlot(ctx context.Context, consultantID, sessionType, date, startTime, sessionID string) (claimed bool, exists bool, err error)

	// ReleaseBySession frees the slot claimed by sessionID.
	ReleaseBySession(ctx context.Context, sessionID string) error

	GetByIdentity(ctx context.Context, consultantID, sessionType, date, startTime string) (*models.AvailabilitySlot, error)

	WithTx(tx *gorm.DB) SlotRepository
}

type gormSlotRepo struct {
	db *gorm.DB
}

// NewGormSlotRepo constructs a GORM-backed SlotRepository.
func NewGormSlotRepo(db *gorm.DB) SlotRepository {
	return &gormSlotRepo{db: db}
}
