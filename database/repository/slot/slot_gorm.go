package slotRepo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"naksha/models"
)

func (r *gormSlotRepo) WithTx(tx *gorm.DB) SlotRepository {
	return &gormSlotRepo{db: tx}
}

func (r *gormSlotRepo) ListExisting(ctx context.Context, consultantID, fromDate, toDate string) ([]models.AvailabilitySlot, error) {
	var slots []models.AvailabilitySlot
	err := r.db.WithContext(ctx).
		Where("consultant_id = ? AND date >= ? AND date <= ?", consultantID, fromDate, toDate).
		Find(&slots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list existing slots: %w", err)
	}
	return slots, nil
}

func (r *gormSlotRepo) ListFutureUnbooked(ctx context.Context, consultantID, sessionType, fromDate string) ([]models.AvailabilitySlot, error) {
	var slots []models.AvailabilitySlot
	err := r.db.WithContext(ctx).
		Where("consultant_id = ? AND session_type = ? AND date >= ? AND is_booked = ? AND is_blocked = ?",
			consultantID, sessionType, fromDate, false, false).
		Find(&slots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list future unbooked slots: %w", err)
	}
	return slots, nil
}

func publicQuery(db *gorm.DB, f PublicSlotFilter) *gorm.DB {
	q := db.Model(&models.AvailabilitySlot{}).
		Where("consultant_id = ? AND is_booked = ? AND is_blocked = ?", f.ConsultantID, false, false).
		Where("date >= ? AND date <= ?", f.FromDate, f.ToDate)
	if f.SessionType != "" {
		q = q.Where("session_type = ?", f.SessionType)
	}
	return q
}

func (r *gormSlotRepo) ListPublic(ctx context.Context, f PublicSlotFilter) ([]models.AvailabilitySlot, error) {
	var slots []models.AvailabilitySlot
	q := publicQuery(r.db.WithContext(ctx), f).Order("date, start_time")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	if err := q.Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("failed to list public slots: %w", err)
	}
	return slots, nil
}

func (r *gormSlotRepo) CountPublic(ctx context.Context, f PublicSlotFilter) (int64, error) {
	var count int64
	if err := publicQuery(r.db.WithContext(ctx), f).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count public slots: %w", err)
	}
	return count, nil
}

func (r *gormSlotRepo) CreateIgnoringDuplicates(ctx context.Context, slots []models.AvailabilitySlot) (int64, error) {
	if len(slots) == 0 {
		return 0, nil
	}
	var inserted int64
	for start := 0; start < len(slots); start += 100 {
		end := start + 100
		if end > len(slots) {
			end = len(slots)
		}
		batch := slots[start:end]
		res := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&batch)
		if res.Error != nil {
			return inserted, fmt.Errorf("failed to insert slot batch: %w", res.Error)
		}
		inserted += res.RowsAffected
	}
	return inserted, nil
}

func (r *gormSlotRepo) BlockUnbooked(ctx context.Context, consultantID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&models.AvailabilitySlot{}).
		Where("consultant_id = ? AND id IN ? AND is_booked = ?", consultantID, ids, false).
		Update("is_blocked", true)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to block slots: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// ClaimSlot is the admission point for bookings: a conditional update that
// exactly one concurrent caller can win.
func (r *gormSlotRepo) ClaimSlot(ctx context.Context, consultantID, sessionType, date, startTime, sessionID string) (bool, bool, error) {
	res := r.db.WithContext(ctx).Model(&models.AvailabilitySlot{}).
		Where("consultant_id = ? AND session_type = ? AND date = ? AND start_time = ?",
			consultantID, sessionType, date, startTime).
		Where("is_booked = ? AND is_blocked = ?", false, false).
		Updates(map[string]interface{}{"is_booked": true, "session_id": sessionID})
	if res.Error != nil {
		return false, false, fmt.Errorf("failed to claim slot: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		return true, true, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AvailabilitySlot{}).
		Where("consultant_id = ? AND session_type = ? AND date = ? AND start_time = ?",
			consultantID, sessionType, date, startTime).
		Count(&count).Error
	if err != nil {
		return false, false, fmt.Errorf("failed to probe slot existence: %w", err)
	}
	return false, count > 0, nil
}

func (r *gormSlotRepo) ReleaseBySession(ctx context.Context, sessionID string) error {
	err := r.db.WithContext(ctx).Model(&models.AvailabilitySlot{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{"is_booked": false, "session_id": nil}).Error
	if err != nil {
		return fmt.Errorf("failed to release slot for session %s: %w", sessionID, err)
	}
	return nil
}

func (r *gormSlotRepo) GetByIdentity(ctx context.Context, consultantID, sessionType, date, startTime string) (*models.AvailabilitySlot, error) {
	var slot models.AvailabilitySlot
	err := r.db.WithContext(ctx).
		Where("consultant_id = ? AND session_type = ? AND date = ? AND start_time = ?",
			consultantID, sessionType, date, startTime).
		First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch slot: %w", err)
	}
	return &slot, nil
}
