package notification

import (
	"context"

	"naksha/models"
)

// NotificationService informs interested parties about booking events.
// Implementations are fire-and-forget: failures are logged, never returned
// into the booking path.
type NotificationService interface {
	SessionBooked(ctx context.Context, session models.Session, client models.Client, consultant models.Consultant)
	SessionCancelled(ctx context.Context, session models.Session, consultant models.Consultant)
}

// MeetingDetails is what a provisioner hands back for a booked session.
type MeetingDetails struct {
	Link     string
	ID       string
	Password string
}

// MeetingProvisioner creates a meeting room for a session. Optional: when
// unavailable the session is created without a link and may be enriched
// later.
type MeetingProvisioner interface {
	Create(ctx context.Context, consultant models.Consultant, session models.Session) (*MeetingDetails, error)
}
