package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tokopos/internal/config"
	"tokopos/internal/database"
	"tokopos/internal/handlers"
	"tokopos/internal/repositories"
	"tokopos/internal/server"
	"tokopos/internal/services"
	"tokopos/pkg/rabbitmq"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
	logger.Info("server gracefully stopped")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func openStore(cfg *config.Config, logger *zap.Logger) (repositories.Store, func(), error) {
	if cfg.DBDriver == "memory" {
		logger.Warn("using in-memory store; data is lost on restart")
		return repositories.NewMemoryStore(), func() {}, nil
	}

	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN, !cfg.IsProduction())
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	store, err := repositories.NewGORMStore(db, cfg.SaleTxRetries)
	if err != nil {
		sqlDB.Close()
		return nil, nil, err
	}
	logger.Info("database connected", zap.String("driver", cfg.DBDriver))
	return store, func() { sqlDB.Close() }, nil
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var publisher services.SaleEventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, logger.Named("rabbitmq"))
		if err != nil {
			return err
		}
		defer mqClient.Close()
		publisher = mqClient
	} else {
		logger.Info("RABBITMQ_URL not set; sale events are not published")
	}

	app, err := server.New(cfg, store, publisher, logger)
	if err != nil {
		return err
	}

	if err := app.Auth.EnsureUser(ctx, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminEmail); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", zap.String("addr", cfg.AppPort))
		return app.Fiber.Listen(cfg.AppPort)
	})
	if mqClient != nil {
		g.Go(func() error {
			return mqClient.ConsumeSaleEvents(gctx, handlers.NewSaleEventHandler(app.Loyalty, logger.Named("loyalty")))
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		return app.Fiber.Shutdown()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
