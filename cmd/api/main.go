package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/commercekit/catalog-service/internal/api/http"
	"github.com/commercekit/catalog-service/internal/api/http/handlers"
	"github.com/commercekit/catalog-service/internal/auth"
	"github.com/commercekit/catalog-service/internal/config"
	"github.com/commercekit/catalog-service/internal/events"
	"github.com/commercekit/catalog-service/internal/observability"
	"github.com/commercekit/catalog-service/internal/persistence"
	"github.com/commercekit/catalog-service/internal/repository"
	"github.com/commercekit/catalog-service/internal/service"
	"github.com/commercekit/catalog-service/internal/storage"
	"github.com/commercekit/catalog-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	uploadStore, err := storage.NewLocalStore(cfg.Upload)
	if err != nil {
		logger.Fatal("failed to init upload store", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	subcategoryRepo := repository.NewSubcategoryRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	blogRepo := repository.NewBlogRepository(pool)
	contactRepo := repository.NewContactRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	var cache service.Cache
	if c := redis.Cache(); c != nil {
		cache = c
	}

	authService := service.NewAuthService(cfg.Auth, userRepo, dispatcher)
	userService := service.NewUserService(userRepo, dispatcher, cfg.Auth.BcryptCost)
	catalogService := service.NewCatalogService(categoryRepo, subcategoryRepo, productRepo, cache, logger)
	blogService := service.NewBlogService(blogRepo, cache, logger)
	contactService := service.NewContactService(contactRepo, dispatcher)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	worker.StartNotificationWorker(notificationService)

	accessGuard := auth.NewAccessGuard(authService.TokenIssuer())
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:        handlers.NewAuthHandler(authService),
		Catalog:     handlers.NewCatalogHandler(catalogService),
		Blogs:       handlers.NewBlogHandler(blogService),
		Contact:     handlers.NewContactHandler(contactService),
		Users:       handlers.NewUsersHandler(userService),
		Uploads:     handlers.NewUploadsHandler(uploadStore, cfg.Upload.PublicPath),
		AccessGuard: accessGuard,
		StaticDir:   uploadStore.Dir(),
		StaticPath:  cfg.Upload.PublicPath,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
