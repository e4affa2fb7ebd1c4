package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Alwanly/service-remote-update/internal/config"
	"github.com/Alwanly/service-remote-update/internal/server/agent/dto"
	agenthandler "github.com/Alwanly/service-remote-update/internal/server/agent/handler"
	"github.com/Alwanly/service-remote-update/internal/server/agent/host"
	"github.com/Alwanly/service-remote-update/pkg/database"
	"github.com/Alwanly/service-remote-update/pkg/deps"
	"github.com/Alwanly/service-remote-update/pkg/logger"
	"github.com/Alwanly/service-remote-update/pkg/middleware"
	"github.com/Alwanly/service-remote-update/pkg/retry"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the update API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	log, err := logger.NewLoggerFromEnv("agent")
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Info("starting agent service", logger.String("version", Version))

	cfg, err := config.LoadAgentConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log.Info("configuration loaded",
		logger.String("server_addr", cfg.ServerAddr),
		logger.String("database_path", cfg.DatabasePath),
		logger.String("wp_path", cfg.WPPath),
		logger.Bool("tls", cfg.TLSCertFile != ""),
	)
	if cfg.Debug {
		log.Warn("debug mode enabled; update API accepts plain HTTP")
	}

	db, err := openAgentDB(cfg.DatabasePath)
	if err != nil {
		return err
	}
	log.Info("token store ready", logger.String("path", cfg.DatabasePath))

	wp := host.NewWPCLI(host.WPCLIConfig{
		Bin:       cfg.WPCLIBin,
		Path:      cfg.WPPath,
		AllowRoot: cfg.WPAllowRoot,
	}, log)

	hostname, _ := os.Hostname()
	health := dto.NewHealthStatus(hostname, Version, time.Now())

	app := fiber.New(fiber.Config{
		AppName:                 "Remote Update Agent",
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler(log),
		EnableTrustedProxyCheck: true,
		TrustedProxies:          cfg.TrustedProxies,
		ProxyHeader:             fiber.HeaderXForwardedFor,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.CanonicalLoggerMiddleware(log))

	agenthandler.NewHandler(deps.App{
		Fiber:    app,
		Database: db,
		Logger:   log,
	}, cfg, wp, health)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// The API serves immediately; /health reports whether the install was reached.
	g.Go(func() error {
		probeHost(gCtx, cfg, wp, health, log)
		return nil
	})

	g.Go(func() error {
		log.Info("agent service is running", logger.String("address", cfg.ServerAddr))
		var err error
		if cfg.TLSCertFile != "" {
			err = app.ListenTLS(cfg.ServerAddr, cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = app.Listen(cfg.ServerAddr)
		}
		if err != nil {
			cancel()
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			log.Info("received shutdown signal", logger.String("signal", sig.String()))
		case <-gCtx.Done():
			log.Info("context cancelled")
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.WithError(err).Error("error during server shutdown")
		}
		if err := database.Close(db); err != nil {
			log.WithError(err).Error("failed to close database")
		}

		cancel()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("agent service stopped with error")
		return err
	}

	log.Info("agent service stopped gracefully")
	return nil
}

// probeHost checks that WP-CLI can reach the install, retrying while the
// site (or its database) is still coming up.
func probeHost(ctx context.Context, cfg *config.AgentConfig, wp host.Runtime, health *dto.HealthStatus, log *logger.CanonicalLogger) {
	var version string
	attempts := 0

	backoffCfg := retry.Config{
		MaxRetries:     cfg.HostProbeMaxRetries,
		InitialBackoff: cfg.HostProbeInitialBackoff,
		MaxBackoff:     cfg.HostProbeMaxBackoff,
		Multiplier:     2.0,
		Jitter:         true,
		OnRetry: func(attempt int, err error, wait time.Duration) {
			log.WithError(err).Warn("wordpress host not reachable yet",
				logger.Int("attempt", attempt),
				logger.Duration("retry_in", wait),
			)
		},
	}

	err := retry.WithExponentialBackoff(ctx, backoffCfg, func(c context.Context) error {
		attempts++
		health.IncrementAttempts()
		v, err := wp.Version(c)
		if errors.Is(err, host.ErrBinaryNotFound) {
			return retry.Permanent(err)
		}
		if err != nil {
			return err
		}
		version = v
		return nil
	})
	if err != nil {
		health.SetUnavailable(err, attempts)
		log.WithError(err).Error("wordpress host unavailable", logger.Int("attempts", attempts))
		return
	}

	health.SetReady(version)
	log.Info("wordpress host reachable", logger.String("wordpress_version", version))
}
