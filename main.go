package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/internal/storage"
	"storefront/internal/telemetry"
	"storefront/pkg/kafka"
	"storefront/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.App.Env); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	if cfg.Tracing.Enabled {
		tp, err := telemetry.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.JaegerEndpoint)
		if err != nil {
			log.Fatal("failed to init tracer", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tp.Shutdown(ctx)
		}()
	}

	app, cleanup, err := NewApp(cfg)
	if err != nil {
		log.Fatal("failed to build app", zap.Error(err))
	}
	defer cleanup()

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("starting server", zap.String("port", cfg.App.Port))
		if err := app.Listen(cfg.App.Port); err != nil {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-quit
	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error("error during fiber shutdown", zap.Error(err))
	}
	log.Info("server gracefully stopped")
}

// NewApp wires every layer from cfg. The returned cleanup releases the
// storage backend and the event publisher.
func NewApp(cfg *config.Config) (*fiber.App, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	log := logger.Get()

	// --- Persistence ---
	backend, closeKV, err := openKV(cfg.Storage)
	if err != nil {
		return nil, cleanup, err
	}
	closers = append(closers, closeKV)
	kv := storage.Prefixed(backend, cfg.App.Namespace)

	// --- Policies ---
	identity, err := services.NewIdentityPolicy(cfg.Auth.IdentityScheme)
	if err != nil {
		return nil, cleanup, err
	}
	hasher, err := services.NewPasswordHasher(cfg.Auth.PasswordHasher)
	if err != nil {
		return nil, cleanup, err
	}
	statusPolicy, err := services.NewStatusPolicy(cfg.Orders.StatusPolicy)
	if err != nil {
		return nil, cleanup, err
	}
	storeIDs := models.IDSpace{Floor: cfg.Catalog.StoreIDFloor}
	productIDs := models.IDSpace{Floor: cfg.Catalog.ProductIDFloor}

	// --- Collaborators ---
	remote := newRemote(cfg.Remote)
	publisher, closePublisher := openPublisher(cfg.Events)
	closers = append(closers, closePublisher)

	// --- Repositories ---
	userRepo := repositories.NewKVUserRepository(kv)
	sessionRepo := repositories.NewKVSessionRepository(kv)
	cartRepo := repositories.NewKVCartRepository(kv)
	storeRepo := repositories.NewKVStoreRepository(kv, storeIDs)
	productRepo := repositories.NewKVProductRepository(kv, productIDs)
	orderRepo := repositories.NewKVOrderRepository(kv)

	// --- Services ---
	authService := services.NewAuthService(userRepo, sessionRepo, identity, hasher, services.AuthSettings{
		AutoProvision: cfg.Auth.AutoProvision,
		JWTSecret:     cfg.Auth.JWTSecret,
		TokenTTL:      cfg.Auth.TokenTTL,
	})
	cartService := services.NewCartService(cartRepo)
	catalogService := services.NewCatalogService(remote, storeRepo, productRepo, storeIDs, productIDs)
	orderService := services.NewOrderService(orderRepo,
		services.NewLocalOrderSink(orderRepo), services.NewRemoteOrderSink(remote), statusPolicy, publisher)
	checkoutService := services.NewCheckoutService(authService, cartService, orderService, cfg.Orders.ShippingFee)

	ctx := context.Background()
	state := authService.Init(ctx)
	log.Info("session rehydrated", zap.Stringer("state", state))
	if err := catalogService.VerifyPartition(ctx); err != nil {
		log.Warn("catalog id partition check failed", zap.Error(err))
	}

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService, catalogService, checkoutService)
	orderHandler := handlers.NewOrderHandler(orderService, checkoutService)
	adminHandler := handlers.NewAdminHandler(catalogService, orderService, authService)

	app := fiber.New(fiber.Config{AppName: "storefront"})
	if cfg.App.Env != "test" {
		app.Use(fiberlogger.New())
	}

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)
	catalogHandler.RegisterRoutes(apiV1)
	adminHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.SessionRequired(authService))
	cartHandler.RegisterRoutes(protected)
	orderHandler.RegisterRoutes(protected)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"time":    time.Now().Format(time.RFC3339),
			"storage": cfg.Storage.Driver,
			"events":  cfg.Events.Backend,
			"session": authService.State().String(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return app, cleanup, nil
}

func openKV(cfg config.StorageConfig) (storage.KV, func(), error) {
	noop := func() {}
	switch cfg.Driver {
	case "sqlite", "postgres":
		open := storage.OpenSQLite
		target := cfg.SQLitePath
		if cfg.Driver == "postgres" {
			open = storage.OpenPostgres
			target = cfg.DatabaseDSN
		}
		db, err := open(target)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open %s storage: %w", cfg.Driver, err)
		}
		kv, err := storage.NewGORMKV(db)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to migrate %s storage: %w", cfg.Driver, err)
		}
		return kv, func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}, nil
	case "redis":
		kv, err := storage.NewRedisKV(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return kv, func() { _ = kv.Close() }, nil
	}
	return storage.NewMemoryKV(), noop, nil
}

func newRemote(cfg config.RemoteConfig) catalog.Remote {
	if cfg.BaseURL == "" {
		logger.Get().Info("no remote catalog configured, serving the built-in catalog")
		return catalog.NewSeededRemote()
	}
	return catalog.NewHTTPRemote(cfg.BaseURL, cfg.Timeout)
}

// openPublisher connects the configured event backend. Events are best
// effort, so a broker that cannot be reached only disables publishing.
func openPublisher(cfg config.EventsConfig) (services.EventPublisher, func()) {
	log := logger.Get()
	switch cfg.Backend {
	case "rabbitmq":
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			log.Warn("RabbitMQ unavailable, order events disabled", zap.Error(err))
			return nil, func() {}
		}
		return client, func() {
			if err := client.Close(); err != nil {
				log.Warn("failed to close RabbitMQ client", zap.Error(err))
			}
		}
	case "kafka":
		producer := kafka.NewProducer(cfg.KafkaBroker, cfg.KafkaTopic)
		return producer, func() {
			if err := producer.Close(); err != nil {
				log.Warn("failed to close Kafka producer", zap.Error(err))
			}
		}
	}
	return nil, func() {}
}
