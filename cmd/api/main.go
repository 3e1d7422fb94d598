package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/civic-issue-service/internal/api/http"
	"github.com/spec-kit/civic-issue-service/internal/api/http/handlers"
	"github.com/spec-kit/civic-issue-service/internal/config"
	"github.com/spec-kit/civic-issue-service/internal/events"
	"github.com/spec-kit/civic-issue-service/internal/notify"
	"github.com/spec-kit/civic-issue-service/internal/observability"
	"github.com/spec-kit/civic-issue-service/internal/persistence"
	"github.com/spec-kit/civic-issue-service/internal/repository"
	"github.com/spec-kit/civic-issue-service/internal/service"
	"github.com/spec-kit/civic-issue-service/internal/tracking"
	"github.com/spec-kit/civic-issue-service/internal/worker"
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

	redisConn := persistence.NewRedis(cfg.Redis, logger)
	defer redisConn.Close()

	pool := pg.PoolHandle()
	issueRepo := repository.NewIssueRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	historyRepo := repository.NewIssueHistoryRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	issueService := service.NewIssueService(service.IssueDependencies{
		IssueRepo:          issueRepo,
		StaffRepo:          staffRepo,
		HistoryRepo:        historyRepo,
		Generator:          tracking.NewDefaultGenerator(),
		Dispatcher:         dispatcher,
		TrackingIDAttempts: cfg.Intake.TrackingIDAttempts,
	})
	analyticsService := service.NewAnalyticsService(issueRepo)
	staffService := service.NewStaffService(cfg.Staff, staffRepo, issueRepo)

	gateway := notify.NewLogGateway(logger, cfg.Notification)
	notificationService := service.NewNotificationService(dispatcher, gateway, logger, metrics, cfg.Notification)
	worker.StartNotificationWorker(ctx, notificationService)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisConn),
		Issues:      handlers.NewIssuesHandler(issueService),
		Staff:       handlers.NewStaffHandler(issueService, staffService),
		Analytics:   handlers.NewAnalyticsHandler(analyticsService),
		RedisClient: redisConn.ClientHandle(),
		IntakeLimit: cfg.Intake.DailyLimitPerContact,
		Logger:      logger,
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
