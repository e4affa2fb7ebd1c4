package main

// @title           Remote Update - Controller API
// @version         1.0
// @description     Controller service for remote WordPress updates. Registers sites, checks their agents for pending updates and applies them.
// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html
// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.basic  BasicAuth

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/Alwanly/service-remote-update/docs/controller"
	"github.com/Alwanly/service-remote-update/internal/config"
	"github.com/Alwanly/service-remote-update/internal/server/controller/handler"
	"github.com/Alwanly/service-remote-update/internal/server/controller/repository"
	authentication "github.com/Alwanly/service-remote-update/pkg/auth"
	"github.com/Alwanly/service-remote-update/pkg/database"
	"github.com/Alwanly/service-remote-update/pkg/deps"
	"github.com/Alwanly/service-remote-update/pkg/logger"
	"github.com/Alwanly/service-remote-update/pkg/middleware"
	"github.com/Alwanly/service-remote-update/pkg/pubsub"
	swagger "github.com/gofiber/swagger"
)

func main() {
	log, err := logger.NewLoggerFromEnv("controller")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("starting controller service")

	cfg, err := config.LoadControllerConfig()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	log.Info("configuration loaded",
		logger.String("server_addr", cfg.ServerAddr),
		logger.String("database_path", cfg.DatabasePath),
		logger.Duration("agent_request_timeout", cfg.AgentRequestTimeout),
		logger.Int("check_concurrency", cfg.CheckConcurrency),
	)
	if cfg.InsecureSkipVerify {
		log.Warn("TLS verification of agent certificates is disabled")
	}

	auth := middleware.SetBasicAuth(&authentication.BasicAuthTConfig{
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
	})
	mid := middleware.NewAuthMiddleware(auth)
	log.Info("authentication initialized")

	db, err := database.NewSQLiteDB(cfg.DatabasePath)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	log.Info("database initialized", logger.String("path", cfg.DatabasePath))

	if err := database.RunControllerMigrations(db); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}
	log.Info("database migrations applied successfully")

	app := fiber.New(fiber.Config{
		AppName:               "Controller Service",
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.CanonicalLoggerMiddleware(log))

	deps := deps.App{
		Fiber:      app,
		Database:   db,
		Logger:     log,
		Middleware: mid,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Redis != nil {
		redisCfg := pubsub.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}
		redisPub, err := pubsub.NewRedisPublisher(ctx, redisCfg, log)
		if err != nil {
			log.WithError(err).Error("failed to initialize Redis, update log notifications disabled",
				logger.String("impact", "update_logs_not_published"))
		} else {
			deps.Pub = redisPub
			log.Info("Redis publisher initialized successfully",
				logger.String("host", cfg.Redis.Host),
				logger.Int("port", cfg.Redis.Port),
				logger.String("channel", repository.UpdateLogChannel))
			defer redisPub.Close()
		}
	} else {
		log.Info("no Redis configuration provided; skipping update log notifications")
	}

	handler.NewHandler(deps, cfg, repository.NewAgentClient(cfg, log))

	app.Get("/swagger/*", swagger.HandlerDefault)

	gErr, gCtx := errgroup.WithContext(ctx)

	gErr.Go(func() error {
		log.Info("controller service is running", logger.String("address", cfg.ServerAddr))
		if err := app.Listen(cfg.ServerAddr); err != nil {
			cancel()
			return err
		}
		return nil
	})

	gErr.Go(func() error {
		<-gCtx.Done()

		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("failed to shutdown fiber app")
			return err
		}

		if err := database.Close(db); err != nil {
			log.WithError(err).Error("failed to close database")
			return err
		}

		return nil
	})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		log.Info("listening for shutdown signals")
		<-sigChan
		log.Info("shutdown signal received")
		cancel()
	}()

	if err := gErr.Wait(); err != nil {
		log.WithError(err).Fatal("controller service encountered an error")
	}

	log.Info("controller service stopped gracefully")
}
