package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"schooldirectory/internal/app"
	"schooldirectory/internal/config"
	"schooldirectory/internal/server"
	"schooldirectory/internal/util"
	"schooldirectory/pkg/cache"
	"schooldirectory/pkg/storage"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	util.InitLogger(cfg.LogLevel)

	var listing *cache.ListingCache
	if cfg.RedisAddr != "" {
		listing, err = cache.NewListingCache(cfg.RedisAddr, cfg.RedisPassword, time.Duration(cfg.ListingCacheTTLSeconds)*time.Second)
		if err != nil {
			log.Fatalf("failed to init listing cache: %v", err)
		}
	}

	appCore, err := app.New(app.Config{
		DatabaseURL: cfg.DatabaseURL,
		Minio: storage.MinioConfig{
			Endpoint:      cfg.MinioEndpoint,
			AccessKey:     cfg.MinioAccessKey,
			SecretKey:     cfg.MinioSecretKey,
			Bucket:        cfg.MinioBucket,
			UseSSL:        cfg.MinioUseSSL,
			PublicBaseURL: cfg.MinioPublicBaseURL,
		},
		ListingCache:  listing,
		ImageRequired: cfg.ImageRequired,
	})
	if err != nil {
		if listing != nil {
			_ = listing.Close()
		}
		log.Fatalf("failed to init app: %v", err)
	}

	httpServer := server.New(server.Config{
		App:               appCore,
		MaxUploadBytes:    cfg.MaxUploadBytes,
		AllowedExtensions: cfg.AllowedExtensions,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	waitErr := g.Wait()
	if listing != nil {
		if err := listing.Close(); err != nil {
			slog.Warn("failed to close listing cache", "error", err)
		}
	}
	if waitErr != nil {
		log.Fatalf("server error: %v", waitErr)
	}
	slog.Info("server stopped")
}
