package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/commercekit/catalog-service/internal/auth"
	"github.com/commercekit/catalog-service/internal/domain"
	"github.com/commercekit/catalog-service/internal/events"
	"github.com/commercekit/catalog-service/internal/repository"
	apperrors "github.com/commercekit/catalog-service/pkg/util"
)

// UserService covers the administrative side of account management:
// creating accounts (which mints the single-use confirmation token)
// and listing/removing them. Auth flows live in AuthService.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher, bcryptCost int) *UserService {
	return &UserService{users: users, dispatcher: dispatcher, bcryptCost: bcryptCost}
}

// Create provisions an unconfirmed account and publishes a
// user_created event so the notification stub can "send" the
// confirmation email.
func (s *UserService) Create(ctx context.Context, email, password string, role domain.Role) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password required", nil)
	}
	if role != domain.RoleUser && role != domain.RoleSuperadmin {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	confirmationToken := uuid.NewString()
	user := &domain.User{
		Email:             email,
		PasswordHash:      hash,
		Role:              role,
		IsConfirmed:       false,
		ConfirmationToken: &confirmationToken,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventUserCreated,
			Timestamp: time.Now(),
			Payload: events.UserCreatedPayload{
				UserID:            user.ID,
				Email:             user.Email,
				ConfirmationToken: confirmationToken,
			},
		})
	}
	return user, nil
}

// List returns all accounts.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return err
	}
	return nil
}
