// Package notify defines the outbound citizen-notification gateway.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/civic-issue-service/internal/config"
)

// Gateway delivers a message to a citizen contact. Best-effort: callers must
// never fail their own operation on a delivery error.
type Gateway interface {
	Send(ctx context.Context, contact, message string) error
}

// logGateway is the delivery stub used until an SMS/email provider is wired.
type logGateway struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewLogGateway builds the logging-backed gateway.
func NewLogGateway(logger *zap.Logger, cfg config.NotificationConfig) Gateway {
	return &logGateway{logger: logger, cfg: cfg}
}

func (g *logGateway) Send(ctx context.Context, contact, message string) error {
	g.logger.Info("notification dispatched",
		zap.String("sender", g.cfg.SenderName),
		zap.String("contact", contact),
		zap.String("message", message))
	if g.cfg.WebhookURL != "" {
		g.logger.Debug("webhook delivery", zap.String("url", g.cfg.WebhookURL))
	}
	return nil
}
