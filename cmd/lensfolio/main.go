// Package main is the entry point for the Lensfolio server. It loads
// configuration, connects to services, warms the repository caches, and
// starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lensfolio/internal/cache"
	"lensfolio/internal/config"
	"lensfolio/internal/database"
	"lensfolio/internal/handlers"
	"lensfolio/internal/render"
	"lensfolio/internal/repo"
	"lensfolio/internal/router"
	"lensfolio/internal/session"
	"lensfolio/internal/storage"
	"lensfolio/internal/store"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL and run pending migrations.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (session store + full-page cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	renderer, err := render.New(cfg.IsDev())
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	userStore := store.NewUserStore(db)
	photoStore := store.NewPhotoStore(db)
	categoryStore := store.NewCategoryStore(db)

	// Startup inventory, straight from the database.
	if nPhotos, err := photoStore.Count(); err == nil {
		nCategories, _ := categoryStore.Count()
		slog.Info("catalog counted", "photos", nPhotos, "categories", nCategories)
	}

	// Connect to S3-compatible object storage. Without it the site still
	// serves pages, but photo uploads fail with a storage error.
	var (
		blobs        repo.BlobStore
		accessDenied func(error) bool
	)
	if cfg.HasStorage() {
		storageClient, err := storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		if storageClient != nil {
			slog.Info("s3 storage connected",
				"endpoint", cfg.S3Endpoint,
				"bucket", storageClient.Bucket(),
			)
			blobs = storageClient
			accessDenied = storage.IsAccessDenied
		} else {
			slog.Warn("s3 storage incompletely configured — photo uploads disabled")
			blobs = disabledBlobStore{}
		}
	} else {
		slog.Warn("s3 storage not configured — photo uploads disabled")
		blobs = disabledBlobStore{}
	}

	// Repositories: remote-write-first caches over the stores.
	photos := repo.NewPhotoRepository(photoStore, blobs, accessDenied)
	categories := repo.NewCategoryRepository(categoryStore)

	// Warm the caches. Failures are not fatal: the repositories record
	// the error and the admin pages surface it.
	warmCtx, cancelWarm := context.WithTimeout(context.Background(), 10*time.Second)
	if err := photos.List(warmCtx); err != nil {
		slog.Warn("initial photo fetch failed", "error", err)
	}
	if err := categories.List(warmCtx); err != nil {
		slog.Warn("initial category fetch failed", "error", err)
	}
	cancelWarm()

	// Full-page cache for the public site, cleared on every repository
	// mutation.
	pageCache := cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)
	invalidate := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		pageCache.InvalidateAll(ctx)
	}
	photos.Subscribe(invalidate)
	categories.Subscribe(invalidate)

	adminHandlers := handlers.NewAdmin(renderer, sessionStore, photos, categories)
	authHandlers := handlers.NewAuth(renderer, sessionStore, userStore)
	publicHandlers := handlers.NewPublic(renderer, photos, categories, pageCache)

	r := router.New(sessionStore, adminHandlers, authHandlers, publicHandlers, secureCookies)

	// WriteTimeout must accommodate multi-megabyte photo uploads on slow
	// links.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// disabledBlobStore stands in when object storage is not configured.
// Every write fails so the admin UI reports the misconfiguration.
type disabledBlobStore struct{}

func (disabledBlobStore) Upload(context.Context, string, string, io.Reader, int64) error {
	return fmt.Errorf("object storage not configured")
}

func (disabledBlobStore) Delete(context.Context, string) error {
	return fmt.Errorf("object storage not configured")
}

func (disabledBlobStore) FileURL(string) string { return "" }
