package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"naksha/config"
	consultantRepo "naksha/database/repository/consultant"
	"naksha/services/availability"
	"naksha/utils"
)

// InitHorizonTopUp schedules the daily job that keeps every active
// consultant's slot inventory materialized through the rolling horizon.
// Generation is idempotent, so overlapping runs are harmless.
func InitHorizonTopUp(svc availability.AvailabilityService, consultants consultantRepo.ConsultantRepository) (*cron.Cron, error) {
	spec := config.AppConfig.HorizonCronSpec
	if spec == "" {
		spec = "0 2 * * *"
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() { topUpHorizon(svc, consultants) }); err != nil {
		return nil, err
	}
	c.Start()

	utils.GetLogger().Info("horizon top-up scheduled", zap.String("spec", spec))
	return c, nil
}

func topUpHorizon(svc availability.AvailabilityService, consultants consultantRepo.ConsultantRepository) {
	logger := utils.GetLogger()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	active, err := consultants.ListActive(ctx)
	if err != nil {
		logger.Error("horizon top-up: listing consultants failed", zap.Error(err))
		return
	}

	horizon := config.AppConfig.SlotHorizonDays
	if horizon <= 0 {
		horizon = 30
	}
	now := time.Now()
	req := availability.GenerateRequest{
		StartDate: now.Format(utils.DateLayout),
		EndDate:   now.AddDate(0, 0, horizon).Format(utils.DateLayout),
	}

	var total int64
	for _, consultant := range active {
		created, err := svc.GenerateSlots(ctx, consultant.ID, req)
		if err != nil {
			logger.Warn("horizon top-up failed for consultant",
				zap.String("consultantID", consultant.ID), zap.Error(err))
			continue
		}
		total += created
	}
	logger.Info("horizon top-up complete",
		zap.Int("consultants", len(active)), zap.Int64("slotsCreated", total))
}
