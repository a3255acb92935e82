package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/commercekit/catalog-service/internal/api/dto"
	"github.com/commercekit/catalog-service/internal/domain"
	"github.com/commercekit/catalog-service/internal/service"
)

// UsersHandler exposes administrative account management.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// Create handles POST /admin/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.UserCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	role := domain.Role(req.Role)
	if role == "" {
		role = domain.RoleUser
	}

	user, err := h.users.Create(c.Context(), req.Email, req.Password, role)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": userView(user)})
}

// List handles GET /admin/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.Context())
	if err != nil {
		return err
	}
	views := make([]dto.UserView, 0, len(users))
	for i := range users {
		views = append(views, userView(&users[i]))
	}
	return c.JSON(fiber.Map{"data": views})
}

// Delete handles DELETE /admin/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	if err := h.users.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func userView(user *domain.User) dto.UserView {
	return dto.UserView{
		ID:          user.ID,
		Email:       user.Email,
		Role:        string(user.Role),
		IsConfirmed: user.IsConfirmed,
		CreatedAt:   user.CreatedAt,
	}
}
