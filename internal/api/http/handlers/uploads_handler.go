package handlers

import (
	"net/http"
	"path"

	"github.com/gofiber/fiber/v2"

	"github.com/commercekit/catalog-service/internal/storage"
)

// UploadsHandler accepts multipart image uploads for products and
// blog posts.
type UploadsHandler struct {
	store      *storage.LocalStore
	publicPath string
}

// NewUploadsHandler constructs handler.
func NewUploadsHandler(store *storage.LocalStore, publicPath string) *UploadsHandler {
	return &UploadsHandler{store: store, publicPath: publicPath}
}

// Upload handles POST /admin/uploads.
func (h *UploadsHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "file field required")
	}

	name, err := h.store.Save(file)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"path": path.Join(h.publicPath, name),
		},
	})
}
