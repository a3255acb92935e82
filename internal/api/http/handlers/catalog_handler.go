package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/commercekit/catalog-service/internal/api/dto"
	"github.com/commercekit/catalog-service/internal/service"
)

// CatalogHandler exposes category, subcategory and product endpoints.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListCategories handles GET /catalog/categories.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categories})
}

// CreateCategory handles POST /admin/categories.
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	category, err := h.catalog.CreateCategory(c.Context(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": category})
}

// UpdateCategory handles PUT /admin/categories/:id.
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	category, err := h.catalog.UpdateCategory(c.Context(), c.Params("id"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": category})
}

// DeleteCategory handles DELETE /admin/categories/:id.
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.catalog.DeleteCategory(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// CreateSubcategory handles POST /admin/subcategories.
func (h *CatalogHandler) CreateSubcategory(c *fiber.Ctx) error {
	var req dto.SubcategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	sub, err := h.catalog.CreateSubcategory(c.Context(), req.CategoryID, req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": sub})
}

// UpdateSubcategory handles PUT /admin/subcategories/:id.
func (h *CatalogHandler) UpdateSubcategory(c *fiber.Ctx) error {
	var req dto.SubcategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	sub, err := h.catalog.UpdateSubcategory(c.Context(), c.Params("id"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sub})
}

// DeleteSubcategory handles DELETE /admin/subcategories/:id.
func (h *CatalogHandler) DeleteSubcategory(c *fiber.Ctx) error {
	if err := h.catalog.DeleteSubcategory(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListPublishedProducts handles GET /catalog/subcategories/:id/products.
func (h *CatalogHandler) ListPublishedProducts(c *fiber.Ctx) error {
	products, err := h.catalog.ListPublishedProducts(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": products})
}

// ListProducts handles GET /admin/products.
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.catalog.ListProducts(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": products})
}

// CreateProduct handles POST /admin/products.
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	product, err := h.catalog.CreateProduct(c.Context(), service.ProductInput{
		SubcategoryID: req.SubcategoryID,
		Name:          req.Name,
		Description:   req.Description,
		PriceCents:    req.PriceCents,
		ImagePath:     req.ImagePath,
		Published:     req.Published,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": product})
}

// UpdateProduct handles PUT /admin/products/:id.
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	product, err := h.catalog.UpdateProduct(c.Context(), c.Params("id"), service.ProductInput{
		SubcategoryID: req.SubcategoryID,
		Name:          req.Name,
		Description:   req.Description,
		PriceCents:    req.PriceCents,
		ImagePath:     req.ImagePath,
		Published:     req.Published,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": product})
}

// DeleteProduct handles DELETE /admin/products/:id.
func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.catalog.DeleteProduct(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
