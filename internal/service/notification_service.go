package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/commercekit/catalog-service/internal/config"
	"github.com/commercekit/catalog-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserCreated, n.handleUserCreated)
	n.dispatcher.Subscribe(events.EventUserConfirmed, n.handleUserConfirmed)
	n.dispatcher.Subscribe(events.EventContactMessageReceived, n.handleContactMessageReceived)
}

func (n *NotificationService) handleUserCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserCreatedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("UserCreated", zap.String("user_id", payload.UserID), zap.String("email", payload.Email))
	n.sendEmailNotificationStub(ctx, "confirmation", payload.Email)
	return nil
}

func (n *NotificationService) handleUserConfirmed(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserConfirmedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("UserConfirmed", zap.String("user_id", payload.UserID), zap.String("email", payload.Email))
	n.sendEmailNotificationStub(ctx, "welcome", payload.Email)
	return nil
}

func (n *NotificationService) handleContactMessageReceived(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ContactMessageReceivedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("ContactMessageReceived",
		zap.String("message_id", payload.MessageID),
		zap.String("from", payload.Email))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, kind, to string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", to),
		zap.String("kind", kind))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)))
}
