package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/commercekit/catalog-service/internal/auth"
	"github.com/commercekit/catalog-service/internal/config"
	"github.com/commercekit/catalog-service/internal/domain"
	"github.com/commercekit/catalog-service/internal/events"
	"github.com/commercekit/catalog-service/internal/service"
	apperrors "github.com/commercekit/catalog-service/pkg/util"
)

// fakeUserRepo is an in-memory stand-in for the Postgres repository.
// It returns copies so that updates are only visible through
// subsequent reads, like a real store.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User // keyed by id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByConfirmationToken(_ context.Context, token string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ConfirmationToken != nil && *u.ConfirmationToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) UpdateRefreshToken(_ context.Context, id, refreshToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	token := refreshToken
	u.RefreshToken = &token
	return nil
}

func (f *fakeUserRepo) MarkConfirmed(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.IsConfirmed = true
	u.ConfirmationToken = nil
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) setRole(id string, role domain.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[id].Role = role
}

var testAuthCfg = config.AuthConfig{
	AccessTokenSecret:     "test-access-secret",
	RefreshTokenSecret:    "test-refresh-secret",
	AccessTokenTTLMinutes: 60,
	RefreshTokenTTLHours:  168,
	BcryptCost:            bcrypt.MinCost,
}

func seedUser(t *testing.T, repo *fakeUserRepo, id, email, password string, role domain.Role, confirmed bool) {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsConfirmed:  confirmed,
	}
	if !confirmed {
		token := "confirm-" + id
		user.ConfirmationToken = &token
	}
	require.NoError(t, repo.Create(context.Background(), user))
}

func assertUnauthorized(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "UNAUTHORIZED", de.Code)
	assert.Equal(t, message, de.Message)
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "u1", "a@x.com", "p1", domain.RoleUser, true)
	svc := service.NewAuthService(testAuthCfg, repo, nil)

	result, err := svc.Login(context.Background(), "a@x.com", "p1")
	require.NoError(t, err)
	assert.Equal(t, "u1", result.User.ID)
	assert.Equal(t, "a@x.com", result.User.Email)
	assert.Equal(t, domain.RoleUser, result.User.Role)

	// Both tokens verify under their own secret and embed the same identity.
	accessClaims, err := svc.TokenIssuer().ParseAccess(result.AccessToken)
	require.NoError(t, err)
	refreshClaims, err := svc.TokenIssuer().ParseRefresh(result.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, accessClaims.Identity(), refreshClaims.Identity())
	assert.Equal(t, result.User, accessClaims.Identity())

	// The refresh token was persisted.
	user, err := repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, user.RefreshToken)
	assert.Equal(t, result.RefreshToken, *user.RefreshToken)
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "u1", "a@x.com", "p1", domain.RoleUser, true)
	seedUser(t, repo, "u2", "pending@x.com", "p2", domain.RoleUser, false)
	svc := service.NewAuthService(testAuthCfg, repo, nil)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@x.com", "p1"},
		{"wrong password", "a@x.com", "wrong"},
		{"unconfirmed account", "pending@x.com", "p2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.email, tc.password)
			assertUnauthorized(t, err, "invalid credentials")
		})
	}
}

func TestAuthService_Refresh_Success(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "u1", "a@x.com", "p1", domain.RoleUser, true)
	svc := service.NewAuthService(testAuthCfg, repo, nil)

	result, err := svc.Login(context.Background(), "a@x.com", "p1")
	require.NoError(t, err)

	accessToken, err := svc.Refresh(context.Background(), result.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.TokenIssuer().ParseAccess(accessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)

	// Refresh does not rotate: the same refresh token still works.
	_, err = svc.Refresh(context.Background(), result.RefreshToken)
	assert.NoError(t, err)
}

func TestAuthService_Refresh_EmptyToken(t *testing.T) {
	svc := service.NewAuthService(testAuthCfg, newFakeUserRepo(), nil)

	_, err := svc.Refresh(context.Background(), "")
	assertUnauthorized(t, err, "no refresh token provided")
}

func TestAuthService_Refresh_RejectsInvalidToken(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "u1", "a@x.com", "p1", domain.RoleUser, true)
	svc := service.NewAuthService(testAuthCfg, repo, nil)

	result, err := svc.Login(context.Background(), "a@x.com", "p1")
	require.NoError(t, err)

	t.Run("tampered signature", func(t *testing.T) {
		token := result.RefreshToken
		suffix := "xx"
		if token[len(token)-2:] == suffix {
			suffix = "yy"
		}
		_, err := svc.Refresh(context.Background(), token[:len(token)-2]+suffix)
		assertUnauthorized(t, err, "invalid or expired refresh token")
	})

	t.Run("expired", func(t *testing.T) {
		shortIssuer := auth.NewTokenIssuer("test-access-secret", "test-refresh-secret", time.Nanosecond, time.Nanosecond)
		expired, _, err := shortIssuer.IssueRefresh(domain.Identity{ID: "u1", Email: "a@x.com", Role: domain.RoleUser})
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)

		_, err = svc.Refresh(context.Background(), expired)
		assertUnauthorized(t, err, "invalid or expired refresh token")
	})

	t.Run("user gone", func(t *testing.T) {
		require.NoError(t, repo.Delete(context.Background(), "u1"))
		_, err := svc.Refresh(context.Background(), result.RefreshToken)
		assertUnauthorized(t, err, "refresh token does not match")
	})
}

func TestAuthService_Refresh_SupersededBySecondLogin(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "u1", "a@x.com", "p1", domain.RoleUser, true)
	svc := service.NewAuthService(testAuthCfg, repo, nil)

	first, err := svc.Login(context.Background(), "a@x.com", "p1")
	require.NoError(t, err)
	_, err = svc.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "a@x.com", "wrong")
	assertUnauthorized(t, err, "invalid credentials")

	// Last write wins: the second login overwrites the stored token.
	second, err := svc.Login(context.Background(), "a@x.com", "p1")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), first.RefreshToken)
	assertUnauthorized(t, err, "refresh token does not match")

	_, err = svc.Refresh(context.Background(), second.RefreshToken)
	assert.NoError(t, err)
}

func TestAuthService_Refresh_PicksUpRoleChange(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "u1", "a@x.com", "p1", domain.RoleUser, true)
	svc := service.NewAuthService(testAuthCfg, repo, nil)

	result, err := svc.Login(context.Background(), "a@x.com", "p1")
	require.NoError(t, err)

	repo.setRole("u1", domain.RoleSuperadmin)

	accessToken, err := svc.Refresh(context.Background(), result.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.TokenIssuer().ParseAccess(accessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSuperadmin, claims.Role, "new access token must reflect the current role, not the refresh claims")
}

func TestAuthService_Confirm_SingleUse(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "u1", "a@x.com", "p1", domain.RoleUser, false)
	svc := service.NewAuthService(testAuthCfg, repo, nil)

	// Login is blocked while unconfirmed.
	_, err := svc.Login(context.Background(), "a@x.com", "p1")
	assertUnauthorized(t, err, "invalid credentials")

	userID, err := svc.Confirm(context.Background(), "confirm-u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	// Confirmation unlocks login.
	_, err = svc.Login(context.Background(), "a@x.com", "p1")
	assert.NoError(t, err)

	// Second redemption of the same token fails.
	_, err = svc.Confirm(context.Background(), "confirm-u1")
	require.Error(t, err)
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "NOT_FOUND", de.Code)
}

func TestAuthService_Confirm_PublishesEvent(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "u1", "a@x.com", "p1", domain.RoleUser, false)
	dispatcher := &capturingDispatcher{}
	svc := service.NewAuthService(testAuthCfg, repo, dispatcher)

	_, err := svc.Confirm(context.Background(), "confirm-u1")
	require.NoError(t, err)

	require.Len(t, dispatcher.events, 1)
	event := dispatcher.events[0]
	assert.Equal(t, events.EventUserConfirmed, event.Type)
	payload, ok := event.Payload.(events.UserConfirmedPayload)
	require.True(t, ok)
	assert.Equal(t, "u1", payload.UserID)
	assert.Equal(t, "a@x.com", payload.Email)
}

func TestAuthService_Confirm_UnknownToken(t *testing.T) {
	svc := service.NewAuthService(testAuthCfg, newFakeUserRepo(), nil)

	_, err := svc.Confirm(context.Background(), "no-such-token")
	require.Error(t, err)
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "NOT_FOUND", de.Code)
}
