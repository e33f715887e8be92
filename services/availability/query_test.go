package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"naksha/models"
	"naksha/utils"
)

func seedListing(t *testing.T, svc *DefaultAvailabilityService, consultantID string) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.CreatePattern(ctx, consultantID, PatternInput{
		SessionType: models.SessionTypePersonal, DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00",
	})
	require.NoError(t, err)
	created, err := svc.GenerateSlots(ctx, consultantID, GenerateRequest{StartDate: "2025-01-06", EndDate: "2025-01-19"})
	require.NoError(t, err)
	require.EqualValues(t, 6, created) // two Mondays, three hours each
}

func TestListPublicSlotsPagination(t *testing.T) {
	svc, _ := newTestService(t)
	c := seedConsultant(t, svc.DB, "asha-rao")
	seedListing(t, svc, c.ID)

	resp, err := svc.ListPublicSlots(context.Background(), PublicSlotsRequest{
		Slug: "asha-rao", FromDate: "2025-01-06", ToDate: "2025-01-19", Limit: 4,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 4)
	assert.EqualValues(t, 6, resp.Pagination.Total)
	assert.True(t, resp.Pagination.HasMore)
	assert.Len(t, resp.SlotsByDate["2025-01-06"], 3)
	assert.Len(t, resp.SlotsByDate["2025-01-13"], 1)

	rest, err := svc.ListPublicSlots(context.Background(), PublicSlotsRequest{
		Slug: "asha-rao", FromDate: "2025-01-06", ToDate: "2025-01-19", Limit: 4, Offset: 4,
	})
	require.NoError(t, err)
	assert.Len(t, rest.Slots, 2)
	assert.False(t, rest.Pagination.HasMore)
}

func TestListPublicSlotsExcludesBookedAndBlocked(t *testing.T) {
	svc, _ := newTestService(t)
	c := seedConsultant(t, svc.DB, "asha-rao")
	seedListing(t, svc, c.ID)

	require.NoError(t, svc.DB.Model(&models.AvailabilitySlot{}).
		Where("consultant_id = ? AND date = ? AND start_time = ?", c.ID, "2025-01-06", "09:00").
		Update("is_booked", true).Error)
	require.NoError(t, svc.DB.Model(&models.AvailabilitySlot{}).
		Where("consultant_id = ? AND date = ? AND start_time = ?", c.ID, "2025-01-06", "10:00").
		Update("is_blocked", true).Error)

	resp, err := svc.ListPublicSlots(context.Background(), PublicSlotsRequest{
		Slug: "asha-rao", FromDate: "2025-01-06", ToDate: "2025-01-19",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 4, resp.Pagination.Total)
	for _, s := range resp.Slots {
		if s.Date == "2025-01-06" {
			assert.Equal(t, "11:00", s.StartTime)
		}
	}
	assert.Len(t, resp.SlotsByDate["2025-01-06"], 1)
}

func TestListPublicSlotsUnknownSlug(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ListPublicSlots(context.Background(), PublicSlotsRequest{Slug: "nobody"})
	require.Error(t, err)
	assert.Equal(t, utils.CodeNotFound, CodeOf(err))
}

func TestListPublicSlotsInactiveConsultantHidden(t *testing.T) {
	svc, _ := newTestService(t)
	c := seedConsultant(t, svc.DB, "asha-rao")
	require.NoError(t, svc.DB.Model(&models.Consultant{}).
		Where("id = ?", c.ID).Update("is_active", false).Error)

	_, err := svc.ListPublicSlots(context.Background(), PublicSlotsRequest{Slug: "asha-rao"})
	require.Error(t, err)
	assert.Equal(t, utils.CodeNotFound, CodeOf(err))
}

func TestListPublicSlotsServedFromCache(t *testing.T) {
	svc, _ := newTestService(t)
	c := seedConsultant(t, svc.DB, "asha-rao")
	seedListing(t, svc, c.ID)

	req := PublicSlotsRequest{Slug: "asha-rao", FromDate: "2025-01-06", ToDate: "2025-01-19"}
	first, err := svc.ListPublicSlots(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, first.Slots, 6)

	// Bypass the service; the cached page should still serve until it
	// expires or is invalidated.
	require.NoError(t, svc.DB.Where("consultant_id = ?", c.ID).
		Delete(&models.AvailabilitySlot{}).Error)

	second, err := svc.ListPublicSlots(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, second.Slots, 6)
}

// brokenCacheStore fails every operation, simulating a Redis outage.
type brokenCacheStore struct {
	utils.NoopCacheStore
}

func (brokenCacheStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

func (brokenCacheStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return errors.New("connection refused")
}

func (brokenCacheStore) Delete(ctx context.Context, keys ...string) error {
	return errors.New("connection refused")
}

func (brokenCacheStore) DeletePrefix(ctx context.Context, prefix string) error {
	return errors.New("connection refused")
}

func TestListPublicSlotsSurvivesCacheOutage(t *testing.T) {
	svc, _ := newTestService(t)
	c := seedConsultant(t, svc.DB, "asha-rao")
	seedListing(t, svc, c.ID)

	svc.Cache = brokenCacheStore{}
	svc.Coherence.Cache = brokenCacheStore{}

	resp, err := svc.ListPublicSlots(context.Background(), PublicSlotsRequest{
		Slug: "asha-rao", FromDate: "2025-01-06", ToDate: "2025-01-19",
	})
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 6)
}

func TestListPublicSlotsDefaultsAndClamps(t *testing.T) {
	svc, _ := newTestService(t)
	c := seedConsultant(t, svc.DB, "asha-rao")
	seedListing(t, svc, c.ID)

	// No dates given: today through today+14, which covers both Mondays.
	resp, err := svc.ListPublicSlots(context.Background(), PublicSlotsRequest{
		Slug: "asha-rao", Limit: 100000, Offset: -3,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 6, resp.Pagination.Total)
	assert.Equal(t, 200, resp.Pagination.Limit)
	assert.Equal(t, 0, resp.Pagination.Offset)
}
