package availability

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"naksha/database"
	consultantRepo "naksha/database/repository/consultant"
	patternRepo "naksha/database/repository/pattern"
	slotRepo "naksha/database/repository/slot"
	"naksha/models"
	"naksha/services/coherence"
	"naksha/utils"
)

// testNow is a Monday morning; 2025-01-06 is a Monday.
var testNow = time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*DefaultAvailabilityService, *utils.MemoryCacheStore) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cache := utils.NewMemoryCacheStore()
	svc := &DefaultAvailabilityService{
		DB:          db,
		Patterns:    patternRepo.NewGormPatternRepo(db),
		Slots:       slotRepo.NewGormSlotRepo(db),
		Consultants: consultantRepo.NewGormConsultantRepo(db),
		Cache:       cache,
		Coherence:   coherence.NewController(cache, zap.NewNop()),
		HorizonDays: 14,
		Now:         func() time.Time { return testNow },
	}
	return svc, cache
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

func boolPtr(b bool) *bool { return &b }
