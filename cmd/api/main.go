package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/medreview-console/internal/api/http"
	"github.com/spec-kit/medreview-console/internal/api/http/handlers"
	"github.com/spec-kit/medreview-console/internal/auth"
	"github.com/spec-kit/medreview-console/internal/config"
	"github.com/spec-kit/medreview-console/internal/events"
	"github.com/spec-kit/medreview-console/internal/observability"
	"github.com/spec-kit/medreview-console/internal/persistence"
	"github.com/spec-kit/medreview-console/internal/repository"
	"github.com/spec-kit/medreview-console/internal/service"
	"github.com/spec-kit/medreview-console/internal/worker"
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

	pool := pg.PoolHandle()
	accountRepo := repository.NewAccountRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	doctorRepo := repository.NewDoctorRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, accountRepo)
	accountService := service.NewAccountService(service.AccountDependencies{
		AccountRepo: accountRepo,
		Dispatcher:  dispatcher,
		BcryptCost:  cfg.Auth.BcryptCost,
	})
	moderationService := service.NewModerationService(service.ModerationDependencies{
		ReviewRepo: reviewRepo,
		Dispatcher: dispatcher,
	})
	doctorService := service.NewDoctorService(service.DoctorDependencies{
		DoctorRepo: doctorRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	analyticsService := service.NewAnalyticsService(service.AnalyticsDependencies{
		ReviewRepo:  reviewRepo,
		AccountRepo: accountRepo,
		DoctorRepo:  doctorRepo,
	})
	invalidationService := service.NewInvalidationService(service.InvalidationDependencies{
		Redis:  redis,
		Logger: logger,
	})

	worker.Start(worker.Dependencies{
		Dispatcher:    dispatcher,
		DoctorService: doctorService,
		Invalidation:  invalidationService,
		Logger:        logger,
	})

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), accountRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Reviews:        handlers.NewReviewsHandler(moderationService),
		Accounts:       handlers.NewAccountsHandler(accountService),
		Doctors:        handlers.NewDoctorsHandler(doctorService),
		Analytics:      handlers.NewAnalyticsHandler(analyticsService),
		AuthMiddleware: authMiddleware,
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
