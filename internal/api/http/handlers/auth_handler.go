package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/commercekit/catalog-service/internal/api/dto"
	"github.com/commercekit/catalog-service/internal/auth"
	"github.com/commercekit/catalog-service/internal/service"
)

// AuthHandler exposes login, refresh and confirmation endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	result, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.LoginResponse{
		Token:        result.AccessToken,
		RefreshToken: result.RefreshToken,
		User: dto.IdentityView{
			ID:    result.User.ID,
			Email: result.User.Email,
			Role:  string(result.User.Role),
		},
	})
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	token, err := h.auth.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(dto.RefreshResponse{Token: token})
}

// Confirm handles GET /auth/confirm?token=...
func (h *AuthHandler) Confirm(c *fiber.Ctx) error {
	token := c.Query("token")

	userID, err := h.auth.Confirm(c.Context(), token)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "account confirmed",
		"user_id": userID,
	})
}

// Me handles GET /me, echoing the authenticated identity.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	return c.JSON(dto.IdentityView{
		ID:    identity.ID,
		Email: identity.Email,
		Role:  string(identity.Role),
	})
}
