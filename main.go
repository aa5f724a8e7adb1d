package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"smartcart/config"
	"smartcart/database"
	"smartcart/handlers"
	"smartcart/logger"
	"smartcart/middleware"
	"smartcart/routes"
	"smartcart/session"
	"smartcart/store"
	"smartcart/voice"
)

func main() {
	cfg, envLoaded, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zl, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck
	if !envLoaded {
		zl.Info("no .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, coupons, users, cleanup := openStores(ctx, cfg, zl)
	defer cleanup()

	parser, closeParser := newParser(ctx, cfg, zl)
	defer closeParser()

	sessions := session.NewRegistry(cfg.SessionTTL, session.WithLogger(zl))
	if cfg.SessionTTL > 0 {
		go sessions.Run(ctx, cfg.SessionTTL/4)
	}

	h := &handlers.Handler{
		Catalog:  catalog,
		Coupons:  coupons,
		Users:    users,
		Sessions: sessions,
		Tokens:   session.NewTokens(cfg.JWTSecret, cfg.SessionTTL),
		Voice:    voice.NewResolver(parser, catalog, zl, cfg.LLMTimeout),
		Logger:   zl,
	}

	app := fiber.New(fiber.Config{AppName: "smartcart"})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(middleware.RequestLogger(zl))

	routes.SetupRoutes(app, h)

	go func() {
		<-ctx.Done()
		zl.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zl.Error("shutdown failed", zap.Error(err))
		}
	}()

	zl.Info("server starting", zap.String("port", cfg.Port), zap.String("llm_provider", cfg.LLMProvider))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

// openStores picks PostgreSQL when DATABASE_URL is set and JSON files
// otherwise, with an optional Redis cache in front of the catalog.
func openStores(ctx context.Context, cfg config.Config, zl *zap.Logger) (store.Catalog, store.Coupons, store.Users, func()) {
	var (
		catalog store.Catalog
		coupons store.Coupons
		users   store.Users
		closers []func()
	)

	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.DatabaseURL, zl)
		if err != nil {
			zl.Fatal("database unavailable", zap.Error(err))
		}
		if err := database.EnsureSchema(ctx, pool); err != nil {
			zl.Fatal("database schema", zap.Error(err))
		}
		closers = append(closers, func() { database.Close(pool, zl) })
		pg := store.NewPostgresStore(pool)
		catalog, coupons, users = pg, pg, pg
	} else {
		zl.Info("serving catalog from JSON files", zap.String("dir", cfg.DataDir))
		js := store.NewJSONStore(cfg.DataDir)
		catalog, coupons, users = js, js, js
	}

	if cfg.RedisURL != "" {
		if rdb := store.ConnectRedis(ctx, cfg.RedisURL, zl); rdb != nil {
			catalog = store.NewCachedCatalog(catalog, rdb, cfg.CacheTTL, zl)
			closers = append(closers, func() { _ = rdb.Close() })
		}
	}

	return catalog, coupons, users, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
}

// newParser builds the configured transcript parser. Missing credentials
// are not fatal: voice requests then fail with an upstream error.
func newParser(ctx context.Context, cfg config.Config, zl *zap.Logger) (voice.Parser, func()) {
	switch cfg.LLMProvider {
	case config.ProviderOpenRouter:
		p, err := voice.NewOpenRouterParser(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.OpenRouterURL, &http.Client{Timeout: cfg.LLMTimeout})
		if err != nil {
			zl.Warn("voice parsing disabled", zap.Error(err))
			return voice.UnconfiguredParser{Err: err}, func() {}
		}
		return p, func() {}
	default:
		p, err := voice.NewGeminiParser(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			zl.Warn("voice parsing disabled", zap.Error(err))
			return voice.UnconfiguredParser{Err: err}, func() {}
		}
		return p, func() { _ = p.Close() }
	}
}
