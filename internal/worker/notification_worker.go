package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/quote-service/internal/config"
	"github.com/spec-kit/quote-service/internal/events"
	"github.com/spec-kit/quote-service/internal/service"
)

// StartNotificationWorker wires quote notifications onto the dispatcher. Handlers run
// synchronously on the publishing request; no goroutine is started.
func StartNotificationWorker(dispatcher events.Dispatcher, cfg config.NotificationConfig, logger *zap.Logger) *service.NotificationService {
	if dispatcher == nil {
		return nil
	}
	notifications := service.NewNotificationService(dispatcher, logger.Named("notifications"), cfg)
	notifications.RegisterHandlers()
	logger.Info("notification handlers registered",
		zap.Bool("webhook", cfg.WebhookURL != ""),
		zap.String("email_from", cfg.EmailFrom))
	return notifications
}
