package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/civic-issue-service/internal/config"
	"github.com/spec-kit/civic-issue-service/internal/events"
	"github.com/spec-kit/civic-issue-service/internal/notify"
	"github.com/spec-kit/civic-issue-service/internal/observability"
)

// outboundMessage is one queued citizen notification.
type outboundMessage struct {
	Contact string
	Message string
}

// NotificationService turns domain events into citizen messages. Delivery is
// decoupled from the triggering operation through a buffered outbox drained
// by the notification worker: a full queue or a gateway failure is logged and
// never surfaces to the mutation that raised the event.
type NotificationService struct {
	dispatcher events.Dispatcher
	gateway    notify.Gateway
	logger     *zap.Logger
	metrics    *observability.Metrics
	outbox     chan outboundMessage
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, gateway notify.Gateway, logger *zap.Logger, metrics *observability.Metrics, cfg config.NotificationConfig) *NotificationService {
	size := cfg.OutboxSize
	if size <= 0 {
		size = 256
	}
	return &NotificationService{
		dispatcher: dispatcher,
		gateway:    gateway,
		logger:     logger,
		metrics:    metrics,
		outbox:     make(chan outboundMessage, size),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventIssueCreated, n.handleIssueCreated)
	n.dispatcher.Subscribe(events.EventIssueStatusChanged, n.handleIssueStatusChanged)
	n.dispatcher.Subscribe(events.EventIssueAssigned, n.handleIssueAssigned)
}

// Run drains the outbox until ctx is cancelled.
func (n *NotificationService) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-n.outbox:
			if err := n.gateway.Send(ctx, msg.Contact, msg.Message); err != nil {
				n.logger.Warn("notification delivery failed",
					zap.String("contact", msg.Contact),
					zap.Error(err))
				n.metrics.RecordNotification(false)
				continue
			}
			n.metrics.RecordNotification(true)
		}
	}
}

func (n *NotificationService) handleIssueCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.IssueCreatedPayload)
	if !ok {
		return nil
	}
	n.enqueue(event.Contact, fmt.Sprintf(
		"Your report has been received. Tracking ID: %s. It was routed to %s.",
		event.TrackingID, payload.Department))
	return nil
}

func (n *NotificationService) handleIssueStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.IssueStatusChangedPayload)
	if !ok {
		return nil
	}
	n.enqueue(event.Contact, fmt.Sprintf(
		"Update on report %s: status changed to %s.",
		event.TrackingID, payload.NewStatus))
	return nil
}

func (n *NotificationService) handleIssueAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.IssueAssignedPayload)
	if !ok {
		return nil
	}
	n.enqueue(event.Contact, fmt.Sprintf(
		"Report %s has been assigned to %s (%s).",
		event.TrackingID, payload.StaffName, payload.Department))
	return nil
}

// enqueue never blocks: if the outbox is full the message is dropped, which
// keeps the best-effort contract on the hot path.
func (n *NotificationService) enqueue(contact, message string) {
	if contact == "" {
		return
	}
	select {
	case n.outbox <- outboundMessage{Contact: contact, Message: message}:
	default:
		n.logger.Warn("notification outbox full, dropping message", zap.String("contact", contact))
		n.metrics.RecordNotification(false)
	}
}

// Pending reports the number of queued messages. Test and health hook.
func (n *NotificationService) Pending() int {
	return len(n.outbox)
}
