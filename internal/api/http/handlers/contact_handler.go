package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/commercekit/catalog-service/internal/api/dto"
	"github.com/commercekit/catalog-service/internal/service"
)

// ContactHandler exposes the public inquiry endpoint and its
// admin-side management.
type ContactHandler struct {
	contacts *service.ContactService
}

// NewContactHandler constructs handler.
func NewContactHandler(contacts *service.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// Submit handles POST /contact.
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	msg, err := h.contacts.Submit(c.Context(), req.Name, req.Email, req.Message)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"id": msg.ID}})
}

// List handles GET /admin/contact-messages.
func (h *ContactHandler) List(c *fiber.Ctx) error {
	messages, err := h.contacts.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": messages})
}

// Delete handles DELETE /admin/contact-messages/:id.
func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	if err := h.contacts.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
