package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/commercekit/catalog-service/internal/auth"
	"github.com/commercekit/catalog-service/internal/config"
	"github.com/commercekit/catalog-service/internal/domain"
	"github.com/commercekit/catalog-service/internal/events"
	"github.com/commercekit/catalog-service/internal/repository"
	apperrors "github.com/commercekit/catalog-service/pkg/util"
)

// AuthService coordinates login, session renewal and account
// confirmation.
type AuthService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	tokens     *auth.TokenIssuer
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, dispatcher events.Dispatcher) *AuthService {
	return &AuthService{
		users:      users,
		dispatcher: dispatcher,
		tokens: auth.NewTokenIssuer(
			cfg.AccessTokenSecret,
			cfg.RefreshTokenSecret,
			cfg.AccessTokenTTL(),
			cfg.RefreshTokenTTL(),
		),
	}
}

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         domain.Identity
}

// Login authenticates credentials and issues a fresh token pair. The
// stored refresh token is overwritten, so at most one refresh token
// per user is ever live; an older session's token stops working on
// its next use. Unknown email, unconfirmed account and wrong password
// are deliberately indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if !user.IsConfirmed {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	identity := user.Identity()
	accessToken, _, err := s.tokens.IssueAccess(identity)
	if err != nil {
		return nil, err
	}
	refreshToken, _, err := s.tokens.IssueRefresh(identity)
	if err != nil {
		return nil, err
	}

	// Last write wins: a concurrent login for the same user simply
	// supersedes this token.
	if err := s.users.UpdateRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         identity,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// presented token must exactly equal the one stored on the user; a
// token superseded by a later login fails here even though it was
// valid at issuance. The refresh token itself is not rotated and no
// store write happens.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", apperrors.NewUnauthorized("no refresh token provided")
	}

	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return "", apperrors.NewUnauthorized("invalid or expired refresh token")
	}

	user, err := s.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewUnauthorized("refresh token does not match")
		}
		return "", err
	}
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return "", apperrors.NewUnauthorized("refresh token does not match")
	}

	// Mint from the current user record, not the stale refresh
	// claims, so a role change takes effect immediately.
	accessToken, _, err := s.tokens.IssueAccess(user.Identity())
	if err != nil {
		return "", err
	}
	return accessToken, nil
}

// Confirm redeems a single-use confirmation token, unlocking login
// for the account.
func (s *AuthService) Confirm(ctx context.Context, confirmationToken string) (string, error) {
	if confirmationToken == "" {
		return "", apperrors.NewNotFound("confirmation token", nil)
	}

	user, err := s.users.GetByConfirmationToken(ctx, confirmationToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFound("confirmation token", nil)
		}
		return "", err
	}

	if err := s.users.MarkConfirmed(ctx, user.ID); err != nil {
		return "", err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventUserConfirmed,
			Timestamp: time.Now(),
			Payload: events.UserConfirmedPayload{
				UserID: user.ID,
				Email:  user.Email,
			},
		})
	}
	return user.ID, nil
}

// TokenIssuer exposes the underlying issuer for guard wiring.
func (s *AuthService) TokenIssuer() *auth.TokenIssuer {
	return s.tokens
}
