package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "unihub/docs" // swagger docs

	"unihub/internal/app"
	"unihub/internal/cache"
	"unihub/internal/config"
	"unihub/internal/db"
	"unihub/internal/logger"
	"unihub/internal/mail"
	"unihub/internal/storage"
)

// @title UniHub API
// @version 1.0
// @description University club platform: clubs, memberships, posts, events and feeds.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	log := logger.Must(cfg.Env)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, nil); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// run serves the API until ctx ends, then shuts down gracefully. When
// listening is non-nil it receives the bound address once the server accepts
// connections.
func run(ctx context.Context, cfg *config.Config, log *zap.Logger, listening func(net.Addr)) error {
	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("database init: %w", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			return fmt.Errorf("reset database: %w", err)
		}
	}

	if err := db.Migrate(gormDB); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	store := openCache(ctx, cfg, log)
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}
	blobs, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}

	server := app.New(app.Deps{
		Config:  cfg,
		Logger:  log,
		DB:      gormDB,
		Cache:   store,
		Mailer:  mail.New(cfg.Mail, log.Named("mail")),
		Storage: blobs,
	})
	server.Start(ctx)
	// drains queued notification emails before the process exits
	defer server.Close()

	ln, err := net.Listen("tcp", ":"+cfg.ServerPort)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	server.Echo.Listener = ln

	log.Info("swagger documentation available", zap.String("url", swaggerURL(cfg)))
	log.Info("server listening", zap.String("addr", ln.Addr().String()), zap.String("env", cfg.Env))

	serveErr := make(chan error, 1)
	go func() {
		if err := server.Echo.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	if listening != nil {
		listening(ln.Addr())
	}

	// Graceful shutdown
	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Echo.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
	return nil
}

// openCache prefers redis and falls back to an in-process store when redis
// cannot be reached, so local runs work without it.
func openCache(ctx context.Context, cfg *config.Config, log *zap.Logger) cache.Store {
	client := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		log.Warn("redis unreachable, using in-memory cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = client.Close()
		return cache.NewMemory()
	}
	return client
}

func openStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.Service, error) {
	if !cfg.Storage.Enabled() {
		log.Warn("object storage not configured, uploads are disabled")
		return storage.Disabled{}, nil
	}
	client, err := storage.NewMinio(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("object storage init: %w", err)
	}
	return client, nil
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
