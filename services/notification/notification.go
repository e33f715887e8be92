package notification

import (
	"context"

	"go.uber.org/zap"

	"naksha/models"
	"naksha/utils"
)

// LogNotificationService is the default NotificationService: it records the
// event and nothing else. Email/push dispatch is an external collaborator
// wired in deployment-specific builds.
type LogNotificationService struct{}

func (LogNotificationService) SessionBooked(ctx context.Context, session models.Session, client models.Client, consultant models.Consultant) {
	utils.GetLogger().Info("session booked",
		zap.String("sessionID", session.ID),
		zap.String("consultant", consultant.Slug),
		zap.String("clientEmail", client.Email),
		zap.String("date", session.ScheduledDate),
		zap.String("time", session.ScheduledTime),
		zap.String("sessionType", session.SessionType))
}

func (LogNotificationService) SessionCancelled(ctx context.Context, session models.Session, consultant models.Consultant) {
	utils.GetLogger().Info("session cancelled",
		zap.String("sessionID", session.ID),
		zap.String("consultant", consultant.Slug),
		zap.String("date", session.ScheduledDate),
		zap.String("time", session.ScheduledTime))
}
