package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/commercekit/catalog-service/internal/api/http/handlers"
	"github.com/commercekit/catalog-service/internal/auth"
	"github.com/commercekit/catalog-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Catalog     *handlers.CatalogHandler
	Blogs       *handlers.BlogHandler
	Contact     *handlers.ContactHandler
	Users       *handlers.UsersHandler
	Uploads     *handlers.UploadsHandler
	AccessGuard *auth.AccessGuard
	StaticDir   string
	StaticPath  string
}

// RegisterRoutes wires HTTP routes. Role requirements are declared
// here, per route; guard failures short-circuit before any handler
// body runs.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Get("/confirm", cfg.Auth.Confirm)

	app.Get("/catalog/categories", cfg.Catalog.ListCategories)
	app.Get("/catalog/subcategories/:id/products", cfg.Catalog.ListPublishedProducts)
	app.Get("/blogs", cfg.Blogs.ListPublished)
	app.Get("/blogs/:id", cfg.Blogs.GetPublished)
	app.Post("/contact", cfg.Contact.Submit)

	if cfg.StaticDir != "" {
		app.Static(cfg.StaticPath, cfg.StaticDir)
	}

	app.Get("/me", cfg.AccessGuard.Handle, auth.RequireRole(domain.RoleUser), cfg.Auth.Me)

	admin := app.Group("/admin", cfg.AccessGuard.Handle, auth.RequireRole(domain.RoleSuperadmin))

	admin.Post("/categories", cfg.Catalog.CreateCategory)
	admin.Put("/categories/:id", cfg.Catalog.UpdateCategory)
	admin.Delete("/categories/:id", cfg.Catalog.DeleteCategory)

	admin.Post("/subcategories", cfg.Catalog.CreateSubcategory)
	admin.Put("/subcategories/:id", cfg.Catalog.UpdateSubcategory)
	admin.Delete("/subcategories/:id", cfg.Catalog.DeleteSubcategory)

	admin.Get("/products", cfg.Catalog.ListProducts)
	admin.Post("/products", cfg.Catalog.CreateProduct)
	admin.Put("/products/:id", cfg.Catalog.UpdateProduct)
	admin.Delete("/products/:id", cfg.Catalog.DeleteProduct)

	admin.Get("/blogs", cfg.Blogs.List)
	admin.Post("/blogs", cfg.Blogs.Create)
	admin.Put("/blogs/:id", cfg.Blogs.Update)
	admin.Delete("/blogs/:id", cfg.Blogs.Delete)

	admin.Get("/contact-messages", cfg.Contact.List)
	admin.Delete("/contact-messages/:id", cfg.Contact.Delete)

	admin.Post("/users", cfg.Users.Create)
	admin.Get("/users", cfg.Users.List)
	admin.Delete("/users/:id", cfg.Users.Delete)

	admin.Post("/uploads", cfg.Uploads.Upload)
}
