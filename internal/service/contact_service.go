package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/commercekit/catalog-service/internal/domain"
	"github.com/commercekit/catalog-service/internal/events"
	"github.com/commercekit/catalog-service/internal/repository"
	apperrors "github.com/commercekit/catalog-service/pkg/util"
)

// ContactService records storefront inquiries and notifies listeners.
type ContactService struct {
	messages   repository.ContactRepository
	dispatcher events.Dispatcher
}

// NewContactService builds the service.
func NewContactService(messages repository.ContactRepository, dispatcher events.Dispatcher) *ContactService {
	return &ContactService{messages: messages, dispatcher: dispatcher}
}

// Submit stores a visitor message and publishes a received event.
func (s *ContactService) Submit(ctx context.Context, name, email, message string) (*domain.ContactMessage, error) {
	if name == "" || email == "" || message == "" {
		return nil, apperrors.NewValidationError("name, email and message required", nil)
	}

	msg := &domain.ContactMessage{Name: name, Email: email, Message: message}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventContactMessageReceived,
			Timestamp: time.Now(),
			Payload: events.ContactMessageReceivedPayload{
				MessageID:   msg.ID,
				Name:        msg.Name,
				Email:       msg.Email,
				BodyPreview: preview(msg.Message, 120),
			},
		})
	}
	return msg, nil
}

// List returns all stored messages, newest first.
func (s *ContactService) List(ctx context.Context) ([]domain.ContactMessage, error) {
	return s.messages.List(ctx)
}

// Delete removes a message.
func (s *ContactService) Delete(ctx context.Context, id string) error {
	if err := s.messages.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("contact message", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

func preview(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	// Back up to a rune boundary so a multi-byte character is never
	// split mid-sequence.
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
