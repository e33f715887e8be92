package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"naksha/models"
	"naksha/services/coherence"
	"naksha/utils"
)

func validateRequest(req *BookingRequest) error {
	if req.ConsultantSlug == "" {
		return newError(utils.CodeBadInput, "consultant slug is required")
	}
	if !models.ValidSessionType(req.SessionType) {
		return newError(utils.CodeBadInput, "unknown session type %q", req.SessionType)
	}
	if _, err := utils.ParseDate(req.Date); err != nil {
		return newError(utils.CodeBadInput, "%v", err)
	}
	if _, err := utils.ParseHHMM(req.StartTime); err != nil {
		return newError(utils.CodeBadInput, "%v", err)
	}
	if req.ClientEmail == "" {
		return newError(utils.CodeBadInput, "client email is required")
	}
	if req.Amount.IsNegative() {
		return newError(utils.CodeBadInput, "amount must not be negative")
	}
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = 60
	}
	switch req.Source {
	case "":
		req.Source = models.BookingSourcePublic
	case models.BookingSourcePublic, models.BookingSourceManual, models.BookingSourcePlatform:
	default:
		return newError(utils.CodeBadInput, "unknown booking source %q", req.Source)
	}
	return nil
}

// scheduledAt resolves the booking's wall-clock moment in the consultant's
// timezone.
func scheduledAt(date, hhmm, tz string) time.Time {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	t, _ := time.ParseInLocation(utils.DateLayout+" 15:04", date+" "+hhmm, loc)
	return t
}

// Book admits one booking. Everything that must hold together holds inside
// one transaction: client resolution, the one-active-session check, session
// creation, the conditional slot claim and the client stats bump. Cache
// invalidation, notifications and reminder scheduling run strictly after
// commit.
func (s *DefaultBookingService) Book(ctx context.Context, req BookingRequest) (*BookingResult, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	consultant, err := s.Consultants.GetBySlug(ctx, req.ConsultantSlug)
	if err != nil {
		return nil, wrapDB(err)
	}
	if consultant == nil || !consultant.IsActive {
		return nil, newError(utils.CodeNotFound, "consultant %q not found", req.ConsultantSlug)
	}

	if !scheduledAt(req.Date, req.StartTime, consultant.Timezone).After(s.now()) {
		return nil, newError(utils.CodeBadInput, "%s %s is not in the future", req.Date, req.StartTime)
	}

	sessionID := uuid.New().String()
	var result BookingResult

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sessions := s.Sessions.WithTx(tx)
		clients := s.Clients.WithTx(tx)
		slots := s.Slots.WithTx(tx)

		client, err := clients.FindOrCreate(ctx, consultant.ID, req.ClientEmail, req.ClientName, req.ClientPhone)
		if err != nil {
			return err
		}

		taken, err := sessions.HasActiveAt(ctx, consultant.ID, req.Date, req.StartTime)
		if err != nil {
			return err
		}
		if taken {
			return newError(utils.CodeConflict, "consultant already has a session at %s %s", req.Date, req.StartTime)
		}

		claimed, exists, err := slots.ClaimSlot(ctx, consultant.ID, req.SessionType, req.Date, req.StartTime, sessionID)
		if err != nil {
			return err
		}

		var slotID *string
		switch {
		case claimed:
			slot, err := slots.GetByIdentity(ctx, consultant.ID, req.SessionType, req.Date, req.StartTime)
			if err != nil {
				return err
			}
			if slot != nil {
				slotID = &slot.ID
			}
		case exists:
			// Slot row is there but booked or blocked: a racing booking won,
			// or availability changed under the client.
			return newError(utils.CodeSlotTaken, "slot %s %s is no longer available", req.Date, req.StartTime)
		case req.Source == models.BookingSourceManual:
			// Manual entries may record sessions outside the published
			// inventory.
		default:
			return newError(utils.CodeSlotTaken, "no open %s slot at %s %s", req.SessionType, req.Date, req.StartTime)
		}

		session := models.Session{
			ID:              sessionID,
			ConsultantID:    consultant.ID,
			ClientID:        client.ID,
			SessionType:     req.SessionType,
			ScheduledDate:   req.Date,
			ScheduledTime:   req.StartTime,
			DurationMinutes: req.DurationMinutes,
			Amount:          req.Amount,
			Currency:        "INR",
			Status:          models.SessionStatusPending,
			PaymentStatus:   models.PaymentStatusPending,
			BookingSource:   req.Source,
			SlotID:          slotID,
			Notes:           req.Notes,
		}
		if err := sessions.Create(ctx, &session); err != nil {
			return err
		}

		if err := clients.IncrementSessionStats(ctx, client.ID, req.Amount); err != nil {
			return err
		}

		result = BookingResult{Session: session, Client: *client}
		return nil
	})
	if err != nil {
		return nil, wrapDB(err)
	}

	s.Coherence.AfterCommit(consultant.ID, consultant.Slug, coherence.ScopeSlots, models.ChangeSlotsUpdated, req.SessionType)
	s.afterBooking(&result, consultant)

	return &result, nil
}

// afterBooking runs the best-effort tail of a successful admission. None of
// it can fail the booking: the session is already committed.
func (s *DefaultBookingService) afterBooking(result *BookingResult, consultant *models.Consultant) {
	logger := utils.GetLogger()
	session := &result.Session

	if s.Meetings != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if details, err := s.Meetings.Create(ctx, *consultant, *session); err != nil {
			logger.Warn("meeting provisioning failed",
				zap.String("sessionID", session.ID), zap.Error(err))
		} else if details != nil {
			if err := s.Sessions.SetMeetingDetails(ctx, session.ID, details.Link, details.ID, details.Password); err != nil {
				logger.Warn("meeting details persist failed",
					zap.String("sessionID", session.ID), zap.Error(err))
			} else {
				session.MeetingLink = details.Link
				session.MeetingID = details.ID
				session.MeetingPassword = details.Password
			}
		}
	}

	if s.Notifier != nil {
		s.Notifier.SessionBooked(context.Background(), *session, result.Client, *consultant)
	}

	if s.Reminders != nil {
		fireAt := scheduledAt(session.ScheduledDate, session.ScheduledTime, consultant.Timezone).Add(-reminderLead)
		if fireAt.After(s.now()) {
			payload := models.ReminderPayload{
				SessionID:      session.ID,
				ConsultantSlug: consultant.Slug,
				ClientEmail:    result.Client.Email,
				ClientName:     result.Client.Name,
				ScheduledDate:  session.ScheduledDate,
				ScheduledTime:  session.ScheduledTime,
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.Reminders.Schedule(ctx, payload, fireAt); err != nil {
				logger.Warn("reminder scheduling failed",
					zap.String("sessionID", session.ID), zap.Error(err))
			}
		}
	}
}

// Cancel marks the session CANCELLED and frees its slot so the time becomes
// bookable again, unless the slot was meanwhile blocked by a pattern change.
func (s *DefaultBookingService) Cancel(ctx context.Context, consultantID, sessionID string) (*models.Session, error) {
	session, err := s.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, wrapDB(err)
	}
	if session == nil || session.ConsultantID != consultantID {
		return nil, newError(utils.CodeNotFound, "session %s not found", sessionID)
	}
	switch session.Status {
	case models.SessionStatusCancelled:
		return nil, newError(utils.CodeBadState, "session %s is already cancelled", sessionID)
	case models.SessionStatusCompleted:
		return nil, newError(utils.CodeBadState, "session %s is already completed", sessionID)
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sessions := s.Sessions.WithTx(tx)
		slots := s.Slots.WithTx(tx)

		if err := sessions.UpdateStatus(ctx, sessionID, models.SessionStatusCancelled); err != nil {
			return err
		}
		return slots.ReleaseBySession(ctx, sessionID)
	})
	if err != nil {
		return nil, wrapDB(err)
	}
	session.Status = models.SessionStatusCancelled

	consultant, err := s.Consultants.GetByID(ctx, consultantID)
	if err == nil && consultant != nil {
		s.Coherence.AfterCommit(consultantID, consultant.Slug, coherence.ScopeSlots, models.ChangeSlotsUpdated, session.SessionType)
		if s.Notifier != nil {
			s.Notifier.SessionCancelled(context.Background(), *session, *consultant)
		}
	}

	return session, nil
}

// GetSession reads one session, scoped to its consultant.
func (s *DefaultBookingService) GetSession(ctx context.Context, consultantID, sessionID string) (*models.Session, error) {
	session, err := s.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, wrapDB(err)
	}
	if session == nil || session.ConsultantID != consultantID {
		return nil, newError(utils.CodeNotFound, "session %s not found", sessionID)
	}
	return session, nil
}

// ListUpcoming returns the consultant's sessions on or after fromDate,
// defaulting to today. Cancelled and abandoned sessions are excluded.
func (s *DefaultBookingService) ListUpcoming(ctx context.Context, consultantID, fromDate string) ([]models.Session, error) {
	if fromDate == "" {
		fromDate = s.now().Format(utils.DateLayout)
	} else if _, err := utils.ParseDate(fromDate); err != nil {
		return nil, newError(utils.CodeBadInput, "%v", err)
	}
	sessions, err := s.Sessions.ListUpcoming(ctx, consultantID, fromDate)
	if err != nil {
		return nil, wrapDB(err)
	}
	return sessions, nil
}
