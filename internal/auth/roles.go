package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/commercekit/catalog-service/internal/domain"
	apperrors "github.com/commercekit/catalog-service/pkg/util"
)

// RequireRole gates a route on an exact role match. It is registered
// after AccessGuard.Handle, which is responsible for populating the
// principal; an absent principal therefore reads as an access-guard
// failure, not a role failure.
func RequireRole(required domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("missing or invalid token")
		}
		if identity.Role != required {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
