package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/commercekit/catalog-service/internal/domain"
	apperrors "github.com/commercekit/catalog-service/pkg/util"
)

const principalKey = "auth_principal"

// AccessGuard verifies bearer tokens and attaches the caller's
// identity to the request. The token claims are the principal; no
// store read happens here.
type AccessGuard struct {
	tokens *TokenIssuer
}

// NewAccessGuard constructs the guard.
func NewAccessGuard(tokens *TokenIssuer) *AccessGuard {
	return &AccessGuard{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (g *AccessGuard) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing or invalid token")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("missing or invalid token")
	}

	claims, err := g.tokens.ParseAccess(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid or expired token")
	}

	c.Locals(principalKey, claims.Identity())
	return c.Next()
}

// IdentityFromContext retrieves the authenticated identity, if any.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return domain.Identity{}, false
	}
	id, ok := val.(domain.Identity)
	return id, ok
}
