package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/commercekit/catalog-service/internal/api/dto"
	"github.com/commercekit/catalog-service/internal/service"
)

// BlogHandler exposes blog endpoints.
type BlogHandler struct {
	blogs *service.BlogService
}

// NewBlogHandler constructs handler.
func NewBlogHandler(blogs *service.BlogService) *BlogHandler {
	return &BlogHandler{blogs: blogs}
}

// ListPublished handles GET /blogs.
func (h *BlogHandler) ListPublished(c *fiber.Ctx) error {
	blogs, err := h.blogs.ListPublished(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": blogs})
}

// GetPublished handles GET /blogs/:id.
func (h *BlogHandler) GetPublished(c *fiber.Ctx) error {
	blog, err := h.blogs.GetPublished(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": blog})
}

// List handles GET /admin/blogs, including drafts.
func (h *BlogHandler) List(c *fiber.Ctx) error {
	blogs, err := h.blogs.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": blogs})
}

// Create handles POST /admin/blogs.
func (h *BlogHandler) Create(c *fiber.Ctx) error {
	var req dto.BlogRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	blog, err := h.blogs.Create(c.Context(), service.BlogInput{
		Title:     req.Title,
		Body:      req.Body,
		ImagePath: req.ImagePath,
		Published: req.Published,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": blog})
}

// Update handles PUT /admin/blogs/:id.
func (h *BlogHandler) Update(c *fiber.Ctx) error {
	var req dto.BlogRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	blog, err := h.blogs.Update(c.Context(), c.Params("id"), service.BlogInput{
		Title:     req.Title,
		Body:      req.Body,
		ImagePath: req.ImagePath,
		Published: req.Published,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": blog})
}

// Delete handles DELETE /admin/blogs/:id.
func (h *BlogHandler) Delete(c *fiber.Ctx) error {
	if err := h.blogs.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
