package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated            EventType = "user_created"
	EventUserConfirmed          EventType = "user_confirmed"
	EventContactMessageReceived EventType = "contact_message_received"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserCreatedPayload carries what the confirmation email needs.
type UserCreatedPayload struct {
	UserID            string `json:"user_id"`
	Email             string `json:"email"`
	ConfirmationToken string `json:"confirmation_token"`
}

// UserConfirmedPayload payload.
type UserConfirmedPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// ContactMessageReceivedPayload payload.
type ContactMessageReceivedPayload struct {
	MessageID   string `json:"message_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	BodyPreview string `json:"body_preview"`
}
