package worker

import (
	"context"

	"github.com/spec-kit/civic-issue-service/internal/service"
)

// StartNotificationWorker registers notification handlers and starts the
// outbox drain goroutine. The goroutine exits when ctx is cancelled.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	go notificationService.Run(ctx)
}
