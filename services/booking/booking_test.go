package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"naksha/database"
	clientRepo "naksha/database/repository/client"
	consultantRepo "naksha/database/repository/consultant"
	sessionRepo "naksha/database/repository/session"
	slotRepo "naksha/database/repository/slot"
	"naksha/models"
	"naksha/services/coherence"
	"naksha/utils"
)

// testNow is a Monday morning; 2025-01-06 is a Monday.
var testNow = time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	booked    []models.Session
	cancelled []models.Session
}

func (n *recordingNotifier) SessionBooked(ctx context.Context, s models.Session, c models.Client, con models.Consultant) {
	n.booked = append(n.booked, s)
}

func (n *recordingNotifier) SessionCancelled(ctx context.Context, s models.Session, con models.Consultant) {
	n.cancelled = append(n.cancelled, s)
}

type recordingScheduler struct {
	payloads []models.ReminderPayload
	fireAt   []time.Time
}

func (r *recordingScheduler) Schedule(ctx context.Context, p models.ReminderPayload, at time.Time) error {
	r.payloads = append(r.payloads, p)
	r.fireAt = append(r.fireAt, at)
	return nil
}

func newTestService(t *testing.T) (*DefaultBookingService, *recordingNotifier, *recordingScheduler) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	notifier := &recordingNotifier{}
	scheduler := &recordingScheduler{}
	cache := utils.NewMemoryCacheStore()

	svc := &DefaultBookingService{
		DB:          db,
		Sessions:    sessionRepo.NewGormSessionRepo(db),
		Clients:     clientRepo.NewGormClientRepo(db),
		Slots:       slotRepo.NewGormSlotRepo(db),
		Consultants: consultantRepo.NewGormConsultantRepo(db),
		Coherence:   coherence.NewController(cache, zap.NewNop()),
		Notifier:    notifier,
		Reminders:   scheduler,
		Now:         func() time.Time { return testNow },
	}
	return svc, notifier, scheduler
}

func seedConsultant(t *testing.T, db *gorm.DB, slug string) models.Consultant {
	t.Helper()
	c := models.Consultant{
		ID:       uuid.New().String(),
		Slug:     slug,
		FullName: "Asha Rao",
		Email:    slug + "@example.com",
		Timezone: "UTC",
		IsActive: true,
	}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func seedSlot(t *testing.T, db *gorm.DB, consultantID, sessionType, date, start, end string) models.AvailabilitySlot {
	t.Helper()
	s := models.AvailabilitySlot{
		ID:           uuid.New().String(),
		ConsultantID: consultantID,
		SessionType:  sessionType,
		Date:         date,
		StartTime:    start,
		EndTime:      end,
	}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func publicRequest(slug, date, start string) BookingRequest {
	return BookingRequest{
		ConsultantSlug: slug,
		SessionType:    models.SessionTypePersonal,
		Date:           date,
		StartTime:      start,
		ClientEmail:    "ravi@example.com",
		ClientName:     "Ravi Kumar",
		Amount:         decimal.NewFromInt(1500),
	}
}

func TestBookClaimsSlotAndCreatesSession(t *testing.T) {
	svc, notifier, scheduler := newTestService(t)
	c := seedConsultant(t, svc.DB, "asha-rao")
	slot := seedSlot(t, svc.DB, c.ID, models.SessionTypePersonal, "2025-01-07", "10:00", "11:00")

	result, err := svc.Book(context.Background(), publicRequest("asha-rao", "2025-01-07", "10:00"))
	require.NoError(t, err)

	session := result.Session
	assert.Equal(t, models.SessionStatusPending, session.Status)
	assert.Equal(t, models.PaymentStatusPending, session.PaymentStatus)
	assert.Equal(t, models.BookingSourcePublic, session.BookingSource)
	assert.Equal(t, 60, session.DurationMinutes)
	require.NotNil(t, session.SlotID)
	assert.Equal(t, slot.ID, *session.SlotID)

	var stored models.AvailabilitySlot
	require.NoError(t, svc.DB.First(&stored, "id = ?", slot.ID).Error)
	assert.True(t, stored.IsBooked)
	require.NotNil(t, stored.SessionID)
	assert.Equal(t, session.ID, *stored.SessionID)

	assert.Equal(t, "ravi@example.com", result.Client.Email)

	require.Len(t, notifier.booked, 1)
	require.Len(t, scheduler.payloads, 1)
	assert.Equal(t, session.ID, scheduler.payloads[0].SessionID)
	assert.Equal(t, time.Date(2025, 1, 7, 9, 0, 0, 0, time.UTC), scheduler.fireAt[0])
}

func TestBookRejectsDoubleBookingOfSameTime(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := seedConsultant(t, svc.DB, "asha-rao")
	seedSlot(t, svc.DB, c.ID, models.SessionTypePersonal, "2025-01-07", "10:00", "11:00")

	_, err := svc.Book(context.Background(), publicRequest("asha-rao", "2025-01-07", "10:00"))
	require.NoError(t, err)

	second := publicRequest("asha-rao", "2025-01-07", "10:00")
	second.ClientEmail = "meera@example.com"
	_, err = svc.Book(context.Background(), second)
	require.Error(t, err)
	assert.Contains(t, []string{utils.CodeConflict, utils.CodeSlotTaken}, CodeOf(err))

	var sessions, clients int64
	require.NoError(t, svc.DB.Model(&models.Session{}).Count(&sessions).Error)
	require.NoError(t, svc.DB.Model(&models.Client{}).Count(&clients).Error)
	assert.EqualValues(t, 1, sessions)
	// The losing transaction rolled back, so its client row is gone too.
	assert.EqualValues(t, 1, clients)
}

func TestBookSlotTakenWhenSlotBlocked(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := seedConsultant(t, svc.DB, "asha-rao")
	slot := seedSlot(t, svc.DB, c.ID, models.SessionTypePersonal, "2025-01-07", "10:00", "11:00")
	require.NoError(t, svc.DB.Model(&models.AvailabilitySlot{}).
		Where("id = ?", slot.ID).Update("is_blocked", true).Error)

	_, err := svc.Book(context.Background(), publicRequest("asha-rao", "2025-01-07", "10:00"))
	require.Error(t, err)
	assert.Equal(t, utils.CodeSlotTaken, CodeOf(err))
}

func TestBookPublicRequiresMaterializedSlot(t *testing.T) {
	svc, _, _ := newTestService(t)
	seedConsultant(t, svc.DB, "asha-rao")

	_, err := svc.Book(context.Background(), publicRequest("asha-rao", "2025-01-07", "10:00"))
	require.Error(t, err)
	assert.Equal(t, utils.CodeSlotTaken, CodeOf(err))
}

func TestBookManualAdmitsWithoutSlot(t *testing.T) {
	svc, _, _ := newTestService(t)
	seedConsultant(t, svc.DB, "asha-rao")

	req := publicRequest("asha-rao", "2025-01-07", "10:00")
	req.Source = models.BookingSourceManual

	result, err := svc.Book(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, result.Session.SlotID)
	assert.Equal(t, models.BookingSourceManual, result.Session.BookingSource)
}

func TestBookRejectsPastTime(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := seedConsultant(t, svc.DB, "asha-rao")
	seedSlot(t, svc.DB, c.ID, models.SessionTypePersonal, "2025-01-05", "10:00", "11:00")

	_, err := svc.Book(context.Background(), publicRequest("asha-rao", "2025-01-05", "10:00"))
	require.Error(t, err)
	assert.Equal(t, utils.CodeBadInput, CodeOf(err))
}

func TestBookValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	seedConsultant(t, svc.DB, "asha-rao")

	cases := []struct {
		name   string
		mutate func(*BookingRequest)
		code   string
	}{
		{"missing email", func(r *BookingRequest) { r.ClientEmail = "" }, utils.CodeBadInput},
		{"unknown type", func(r *BookingRequest) { r.SessionType = "group" }, utils.CodeBadInput},
		{"negative amount", func(r *BookingRequest) { r.Amount = decimal.NewFromInt(-1) }, utils.CodeBadInput},
		{"bad source", func(r *BookingRequest) { r.Source = "walk_in" }, utils.CodeBadInput},
		{"unknown consultant", func(r *BookingRequest) { r.ConsultantSlug = "nobody" }, utils.CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := publicRequest("asha-rao", "2025-01-07", "10:00")
			tc.mutate(&req)
			_, err := svc.Book(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, tc.code, CodeOf(err))
		})
	}
}

func TestBookAccumulatesClientStats(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := seedConsultant(t, svc.DB, "asha-rao")
	seedSlot(t, svc.DB, c.ID, models.SessionTypePersonal, "2025-01-07", "10:00", "11:00")
	seedSlot(t, svc.DB, c.ID, models.SessionTypePersonal, "2025-01-08", "10:00", "11:00")

	_, err := svc.Book(context.Background(), publicRequest("asha-rao", "2025-01-07", "10:00"))
	require.NoError(t, err)
	_, err = svc.Book(context.Background(), publicRequest("asha-rao", "2025-01-08", "10:00"))
	require.NoError(t, err)

	var client models.Client
	require.NoError(t, svc.DB.First(&client, "email = ?", "ravi@example.com").Error)
	assert.Equal(t, 2, client.TotalSessions)
	assert.True(t, client.TotalAmountPaid.Equal(decimal.NewFromInt(3000)),
		"got %s", client.TotalAmountPaid)
}

func TestCancelReleasesSlotForRebooking(t *testing.T) {
	svc, notifier, _ := newTestService(t)
	c := seedConsultant(t, svc.DB, "asha-rao")
	slot := seedSlot(t, svc.DB, c.ID, models.SessionTypePersonal, "2025-01-07", "10:00", "11:00")

	result, err := svc.Book(context.Background(), publicRequest("asha-rao", "2025-01-07", "10:00"))
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), c.ID, result.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusCancelled, cancelled.Status)
	require.Len(t, notifier.cancelled, 1)

	var stored models.AvailabilitySlot
	require.NoError(t, svc.DB.First(&stored, "id = ?", slot.ID).Error)
	assert.False(t, stored.IsBooked)
	assert.Nil(t, stored.SessionID)

	// The freed time is bookable again.
	rebook := publicRequest("asha-rao", "2025-01-07", "10:00")
	rebook.ClientEmail = "meera@example.com"
	_, err = svc.Book(context.Background(), rebook)
	require.NoError(t, err)
}

func TestCancelLeavesBlockedSlotBlocked(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := seedConsultant(t, svc.DB, "asha-rao")
	slot := seedSlot(t, svc.DB, c.ID, models.SessionTypePersonal, "2025-01-07", "10:00", "11:00")

	result, err := svc.Book(context.Background(), publicRequest("asha-rao", "2025-01-07", "10:00"))
	require.NoError(t, err)

	// Availability changed while the session was live.
	require.NoError(t, svc.DB.Model(&models.AvailabilitySlot{}).
		Where("id = ?", slot.ID).Update("is_blocked", true).Error)

	_, err = svc.Cancel(context.Background(), c.ID, result.Session.ID)
	require.NoError(t, err)

	var stored models.AvailabilitySlot
	require.NoError(t, svc.DB.First(&stored, "id = ?", slot.ID).Error)
	assert.False(t, stored.IsBooked)
	assert.True(t, stored.IsBlocked)
}

func TestCancelGuards(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := seedConsultant(t, svc.DB, "asha-rao")
	other := seedConsultant(t, svc.DB, "vik-mehta")
	seedSlot(t, svc.DB, c.ID, models.SessionTypePersonal, "2025-01-07", "10:00", "11:00")

	result, err := svc.Book(context.Background(), publicRequest("asha-rao", "2025-01-07", "10:00"))
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), other.ID, result.Session.ID)
	require.Error(t, err)
	assert.Equal(t, utils.CodeNotFound, CodeOf(err))

	_, err = svc.Cancel(context.Background(), c.ID, result.Session.ID)
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), c.ID, result.Session.ID)
	require.Error(t, err)
	assert.Equal(t, utils.CodeBadState, CodeOf(err))
}

func TestListUpcomingExcludesCancelled(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := seedConsultant(t, svc.DB, "asha-rao")
	seedSlot(t, svc.DB, c.ID, models.SessionTypePersonal, "2025-01-07", "10:00", "11:00")
	seedSlot(t, svc.DB, c.ID, models.SessionTypePersonal, "2025-01-08", "10:00", "11:00")

	first, err := svc.Book(context.Background(), publicRequest("asha-rao", "2025-01-07", "10:00"))
	require.NoError(t, err)
	_, err = svc.Book(context.Background(), publicRequest("asha-rao", "2025-01-08", "10:00"))
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), c.ID, first.Session.ID)
	require.NoError(t, err)

	upcoming, err := svc.ListUpcoming(context.Background(), c.ID, "")
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "2025-01-08", upcoming[0].ScheduledDate)
}

func TestGetSessionScopedToConsultant(t *testing.T) {
	svc, _, _ := newTestService(t)
	c := seedConsultant(t, svc.DB, "asha-rao")
	other := seedConsultant(t, svc.DB, "vik-mehta")
	seedSlot(t, svc.DB, c.ID, models.SessionTypePersonal, "2025-01-07", "10:00", "11:00")

	result, err := svc.Book(context.Background(), publicRequest("asha-rao", "2025-01-07", "10:00"))
	require.NoError(t, err)

	got, err := svc.GetSession(context.Background(), c.ID, result.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Session.ID, got.ID)

	_, err = svc.GetSession(context.Background(), other.ID, result.Session.ID)
	require.Error(t, err)
	assert.Equal(t, utils.CodeNotFound, CodeOf(err))
}
