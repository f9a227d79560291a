package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/complaint-service/internal/api/http"
	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/cache"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/persistence"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/repository/memory"
	"github.com/spec-kit/complaint-service/internal/service"
	"github.com/spec-kit/complaint-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
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

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	rabbit, err := persistence.NewRabbitMQ(cfg.RabbitMQ, logger)
	if err != nil {
		logger.Fatal("failed to connect rabbitmq", zap.Error(err))
	}
	defer rabbit.Close()

	var (
		userRepo         repository.UserRepository
		complaintRepo    repository.ComplaintRepository
		notificationRepo repository.NotificationRepository
	)
	if pool := pg.PoolHandle(); pool != nil {
		userRepo = repository.NewUserRepository(pool)
		complaintRepo = repository.NewComplaintRepository(pool)
		notificationRepo = repository.NewNotificationRepository(pool)
	} else {
		userRepo = memory.NewUserRepository()
		complaintRepo = memory.NewComplaintRepository()
		notificationRepo = memory.NewNotificationRepository()
	}

	var counter repository.CounterCache
	if redis.Enabled() {
		counter = cache.NewRedisCounter(redis.Client)
	}
	notificationRepo = repository.NewCachedNotificationRepository(notificationRepo, counter, cfg.Redis.UnreadTTL(), logger)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	var publisher service.Publisher
	if rabbit != nil {
		publisher = rabbit
	}
	worker.StartEventRelay(service.NewEventRelay(dispatcher, publisher, logger))

	server := httptransport.NewServer(httptransport.ServerDependencies{
		Config:           *cfg,
		Logger:           logger,
		Metrics:          metrics,
		Dispatcher:       dispatcher,
		UserRepo:         userRepo,
		ComplaintRepo:    complaintRepo,
		NotificationRepo: notificationRepo,
		Readiness: []handlers.Dependency{
			{Name: "postgres", Pinger: pg},
			{Name: "redis", Pinger: redis},
			{Name: "rabbitmq", Pinger: rabbit},
		},
	})

	if cfg.Auth.BootstrapAdminEmail != "" && cfg.Auth.BootstrapAdminPassword != "" {
		if err := server.Auth.EnsureAdmin(ctx, cfg.Auth.BootstrapAdminEmail, cfg.Auth.BootstrapAdminPassword); err != nil {
			logger.Fatal("failed to bootstrap admin", zap.Error(err))
		}
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := server.App.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := server.App.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
