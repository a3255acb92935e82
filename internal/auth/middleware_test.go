package auth_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/commercekit/catalog-service/internal/api/http"
	"github.com/commercekit/catalog-service/internal/auth"
	"github.com/commercekit/catalog-service/internal/domain"
	"github.com/commercekit/catalog-service/internal/observability"
)

type guardedApp struct {
	app        *fiber.App
	issuer     *auth.TokenIssuer
	handlerRan bool
}

func newGuardedApp(required domain.Role) *guardedApp {
	issuer := auth.NewTokenIssuer("access-secret", "refresh-secret", time.Hour, time.Hour)
	guard := auth.NewAccessGuard(issuer)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)

	ga := &guardedApp{app: app, issuer: issuer}
	app.Get("/protected", guard.Handle, auth.RequireRole(required), func(c *fiber.Ctx) error {
		ga.handlerRan = true
		identity, _ := auth.IdentityFromContext(c)
		return c.JSON(identity)
	})
	return ga
}

func (ga *guardedApp) request(t *testing.T, authHeader string) int {
	t.Helper()
	req := httptest.NewRequest("GET", "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := ga.app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAccessGuard_RejectsMissingHeader(t *testing.T) {
	ga := newGuardedApp(domain.RoleUser)

	assert.Equal(t, fiber.StatusUnauthorized, ga.request(t, ""))
	assert.False(t, ga.handlerRan, "handler must not run when the guard fails")
}

func TestAccessGuard_RejectsNonBearerHeader(t *testing.T) {
	ga := newGuardedApp(domain.RoleUser)

	assert.Equal(t, fiber.StatusUnauthorized, ga.request(t, "Basic abc123"))
	assert.False(t, ga.handlerRan)
}

func TestAccessGuard_RejectsExpiredToken(t *testing.T) {
	ga := newGuardedApp(domain.RoleUser)

	expiredIssuer := auth.NewTokenIssuer("access-secret", "refresh-secret", time.Nanosecond, time.Nanosecond)
	token, _, err := expiredIssuer.IssueAccess(testIdentity)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, fiber.StatusUnauthorized, ga.request(t, "Bearer "+token))
	assert.False(t, ga.handlerRan)
}

func TestAccessGuard_RejectsTamperedToken(t *testing.T) {
	ga := newGuardedApp(domain.RoleUser)

	token, _, err := ga.issuer.IssueAccess(testIdentity)
	require.NoError(t, err)
	suffix := "xx"
	if token[len(token)-2:] == suffix {
		suffix = "yy"
	}

	assert.Equal(t, fiber.StatusUnauthorized, ga.request(t, "Bearer "+token[:len(token)-2]+suffix))
	assert.False(t, ga.handlerRan)
}

func TestAccessGuard_AllowsValidToken(t *testing.T) {
	ga := newGuardedApp(domain.RoleUser)

	token, _, err := ga.issuer.IssueAccess(testIdentity)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, ga.request(t, "Bearer "+token))
	assert.True(t, ga.handlerRan)
}

func TestRequireRole_RejectsWrongRole(t *testing.T) {
	ga := newGuardedApp(domain.RoleSuperadmin)

	token, _, err := ga.issuer.IssueAccess(testIdentity) // role USER
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusForbidden, ga.request(t, "Bearer "+token))
	assert.False(t, ga.handlerRan)
}

func TestRequireRole_AllowsMatchingRole(t *testing.T) {
	ga := newGuardedApp(domain.RoleSuperadmin)

	admin := domain.Identity{ID: "2", Email: "admin@x.com", Role: domain.RoleSuperadmin}
	token, _, err := ga.issuer.IssueAccess(admin)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, ga.request(t, "Bearer "+token))
	assert.True(t, ga.handlerRan)
}

func TestRequireRole_ExactMatchNoHierarchy(t *testing.T) {
	// SUPERADMIN does not implicitly satisfy a USER-gated route.
	ga := newGuardedApp(domain.RoleUser)

	admin := domain.Identity{ID: "2", Email: "admin@x.com", Role: domain.RoleSuperadmin}
	token, _, err := ga.issuer.IssueAccess(admin)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusForbidden, ga.request(t, "Bearer "+token))
	assert.False(t, ga.handlerRan)
}
