package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/product-service/internal/api/http"
	"github.com/spec-kit/product-service/internal/api/http/handlers"
	"github.com/spec-kit/product-service/internal/auth"
	"github.com/spec-kit/product-service/internal/config"
	"github.com/spec-kit/product-service/internal/events"
	"github.com/spec-kit/product-service/internal/observability"
	"github.com/spec-kit/product-service/internal/persistence"
	"github.com/spec-kit/product-service/internal/repository"
	"github.com/spec-kit/product-service/internal/service"
	"github.com/spec-kit/product-service/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	productRepo, closeStore, err := openProductStore(cfg, pg, logger)
	if err != nil {
		logger.Fatal("failed to open product store", zap.Error(err))
	}
	defer closeStore()

	if cfg.Store.Seed {
		inserted, err := repository.SeedProducts(ctx, productRepo)
		if err != nil {
			logger.Fatal("failed to seed products", zap.Error(err))
		}
		if inserted > 0 {
			logger.Info("seeded products", zap.Int("count", inserted))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	verifier, err := auth.NewCredentialVerifier(cfg.Auth)
	if err != nil {
		logger.Fatal("invalid credential configuration", zap.Error(err))
	}
	if cfg.Auth.CredentialMode == config.CredentialModeStatic {
		logger.Warn("static demo credentials enabled; configure AUTH_CREDENTIAL_MODE=bcrypt for real users")
	}

	tokens, err := auth.NewTokenManager(auth.TokenSettingsFromConfig(cfg.Auth))
	if err != nil {
		logger.Fatal("invalid token configuration", zap.Error(err))
	}

	validator, err := newTokenValidator(ctx, cfg, tokens)
	if err != nil {
		logger.Fatal("failed to init token validator", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger)

	authService := service.NewAuthService(service.AuthDependencies{
		Verifier: verifier,
		Tokens:   tokens,
		Throttle: auth.NewLoginThrottle(redis.Client, cfg.Throttle, logger),
		Logger:   logger,
	})
	productService := service.NewProductService(service.ProductDependencies{
		ProductRepo: productRepo,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Store.Driver, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Products:       handlers.NewProductsHandler(productService),
		Admin:          handlers.NewAdminHandler(metrics),
		AuthMiddleware: auth.NewAuthMiddleware(validator, logger),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	logger.Info("product service started",
		zap.String("addr", cfg.App.Addr()),
		zap.String("store", cfg.Store.Driver),
		zap.String("validator", cfg.Auth.ValidatorMode),
	)

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}

func openProductStore(cfg *config.Config, pg *persistence.Postgres, logger *zap.Logger) (repository.ProductRepository, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPgx:
		return repository.NewProductRepository(pg.PoolHandle()), func() {}, nil
	case config.StoreDriverGorm:
		db, err := persistence.NewGorm(cfg.Postgres, logger)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewGormProductRepository(db), func() { persistence.CloseGorm(db) }, nil
	default:
		logger.Warn("using in-memory product store; data is lost on restart")
		return repository.NewMemoryProductRepository(), func() {}, nil
	}
}

func newTokenValidator(ctx context.Context, cfg *config.Config, tokens *auth.TokenManager) (auth.TokenValidator, error) {
	if cfg.Auth.ValidatorMode == config.ValidatorModeOIDC {
		return auth.NewOIDCValidator(ctx, cfg.OIDC, cfg.Auth.ClockSkew())
	}
	return tokens, nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
