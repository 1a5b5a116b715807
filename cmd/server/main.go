package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mkarsten/tablehost/internal/api"
	"github.com/mkarsten/tablehost/internal/config"
	"github.com/mkarsten/tablehost/internal/dependencies/mailer"
	"github.com/mkarsten/tablehost/internal/factory"
	"github.com/mkarsten/tablehost/internal/services/user"
	redisstorage "github.com/mkarsten/tablehost/internal/storage/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Build factory config
	appCfg := factory.Config{
		Logger:      logger,
		StorageType: cfg.StorageType,
		UserConfig: user.Config{
			ConfirmationWindow:  cfg.ConfirmationWindow,
			SessionDuration:     cfg.SessionDuration,
			ConfirmationBaseURL: cfg.ConfirmationBaseURL,
			InitialUsername:     cfg.InitialUsername,
			InitialEmail:        cfg.InitialEmail,
			InitialPassword:     cfg.InitialPassword,
		},
	}

	if cfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		appCfg.RedisConfig = &redisCfg
	}

	// Deliver real email only when SMTP is configured
	if cfg.SMTP.Host != "" {
		smtpMailer, err := mailer.NewSMTP(mailer.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			UseTLS:   cfg.SMTP.UseTLS,
		})
		if err != nil {
			logger.Error("invalid SMTP configuration", slog.String("error", err.Error()))
			os.Exit(1)
		}
		appCfg.Mailer = smtpMailer
	}

	app, err := factory.New(appCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Bootstrap the initial administrator
	if err := app.UserService.InitializeUsers(context.Background()); err != nil {
		logger.Error("failed to initialize users", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		UserService: app.UserService,
		GameService: app.GameService,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
