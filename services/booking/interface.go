package booking

import (
	"context"
	"time"

	"gorm.io/gorm"

	clientRepo "naksha/database/repository/client"
	consultantRepo "naksha/database/repository/consultant"
	sessionRepo "naksha/database/repository/session"
	slotRepo "naksha/database/repository/slot"
	"naksha/models"
	"naksha/services/coherence"
	"naksha/services/notification"
	"naksha/services/tasks"
)

// reminderLead is how long before the scheduled start a reminder fires.
const reminderLead = time.Hour

// BookingService admits, cancels and reads session bookings.
type BookingService interface {
	// Book admits one booking. Slot claiming is conditional inside the
	// transaction, so two racing requests for the same slot resolve to one
	// winner and one SLOT_TAKEN.
	Book(ctx context.Context, req BookingRequest) (*BookingResult, error)

	// Cancel marks the session CANCELLED and releases its claimed slot.
	// Blocked slots stay blocked.
	Cancel(ctx context.Context, consultantID, sessionID string) (*models.Session, error)

	GetSession(ctx context.Context, consultantID, sessionID string) (*models.Session, error)
	ListUpcoming(ctx context.Context, consultantID, fromDate string) ([]models.Session, error)
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	DB          *gorm.DB
	Sessions    sessionRepo.SessionRepository
	Clients     clientRepo.ClientRepository
	Slots       slotRepo.SlotRepository
	Consultants consultantRepo.ConsultantRepository
	Coherence   *coherence.Controller

	Notifier  notification.NotificationService
	Reminders tasks.ReminderScheduler

	// Meetings is optional; nil means sessions are created without a
	// meeting link.
	Meetings notification.MeetingProvisioner

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
