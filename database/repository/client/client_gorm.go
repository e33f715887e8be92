package clientRepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"naksha/models"
)

func (r *gormClientRepo) WithTx(tx *gorm.DB) ClientRepository {
	return &gormClientRepo{db: tx}
}

func (r *gormClientRepo) FindOrCreate(ctx context.Context, consultantID, email, name, phone string) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Where("consultant_id = ? AND email = ?", consultantID, email).
		First(&client).Error
	if err == nil {
		return &client, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up client: %w", err)
	}

	client = models.Client{
		ID:           uuid.New().String(),
		ConsultantID: consultantID,
		Email:        email,
		Name:         name,
		Phone:        phone,
	}
	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		// Lost the unique-index race; the row exists now.
		var existing models.Client
		if err2 := r.db.WithContext(ctx).
			Where("consultant_id = ? AND email = ?", consultantID, email).
			First(&existing).Error; err2 == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &client, nil
}

func (r *gormClientRepo) GetByID(ctx context.Context, id string) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch client %s: %w", id, err)
	}
	return &client, nil
}

func (r *gormClientRepo) IncrementSessionStats(ctx context.Context, clientID string, amount decimal.Decimal) error {
	err := r.db.WithContext(ctx).Model(&models.Client{}).
		Where("id = ?", clientID).
		Updates(map[string]interface{}{
			"total_sessions":    gorm.Expr("total_sessions + 1"),
			"total_amount_paid": gorm.Expr("total_amount_paid + ?", amount),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update client stats %s: %w", clientID, err)
	}
	return nil
}
