package sessionRepo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"naksha/models"
)

func (r *gormSessionRepo) WithTx(tx *gorm.DB) SessionRepository {
	return &gormSessionRepo{db: tx}
}

func (r *gormSessionRepo) Create(ctx context.Context, s *models.Session) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *gormSessionRepo) GetByID(ctx context.Context, id string) (*models.Session, error) {
	var s models.Session
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session %s: %w", id, err)
	}
	return &s, nil
}

func (r *gormSessionRepo) HasActiveAt(ctx context.Context, consultantID, date, timeStr string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Session{}).
		Where("consultant_id = ? AND scheduled_date = ? AND scheduled_time = ? AND status != ?",
			consultantID, date, timeStr, models.SessionStatusCancelled).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check session conflict: %w", err)
	}
	return count > 0, nil
}

func (r *gormSessionRepo) UpdateStatus(ctx context.Context, id, status string) error {
	err := r.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("failed to update session %s status: %w", id, err)
	}
	return nil
}

func (r *gormSessionRepo) SetMeetingDetails(ctx context.Context, id, link, meetingID, password string) error {
	err := r.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"meeting_link":     link,
			"meeting_id":       meetingID,
			"meeting_password": password,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to set meeting details on session %s: %w", id, err)
	}
	return nil
}

func (r *gormSessionRepo) ListUpcoming(ctx context.Context, consultantID, fromDate string) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.WithContext(ctx).
		Where("consultant_id = ? AND scheduled_date >= ? AND status NOT IN ?",
			consultantID, fromDate, []string{models.SessionStatusCancelled, models.SessionStatusAbandoned}).
		Order("scheduled_date, scheduled_time").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming sessions: %w", err)
	}
	return sessions, nil
}
