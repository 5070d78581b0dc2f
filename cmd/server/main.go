// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/JTR-Brands/fore-fairways-and-greens/internal/auth"
	"github.com/JTR-Brands/fore-fairways-and-greens/internal/cache"
	"github.com/JTR-Brands/fore-fairways-and-greens/internal/config"
	"github.com/JTR-Brands/fore-fairways-and-greens/internal/database"
	"github.com/JTR-Brands/fore-fairways-and-greens/internal/game"
	"github.com/JTR-Brands/fore-fairways-and-greens/internal/server"
)

func main() {
	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	issuer, err := auth.NewIssuer(cfg.JWTSecret)
	if err != nil {
		log.WithError(err).Fatal("init token issuer")
	}

	var persister game.Persister
	if cfg.DatabaseURL != "" {
		store, err := database.Connect(ctx, cfg.DatabaseURL, log)
		if err != nil {
			log.WithError(err).Fatal("connect database")
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			log.WithError(err).Fatal("ensure schema")
		}
		persister = store
	} else {
		log.Warn("DATABASE_URL not set, games will not survive a restart")
	}

	hub := server.NewHub(log)

	broadcast := game.BroadcastFunc(hub.Publish)
	if cfg.RedisURL != "" {
		pub, err := cache.Connect(ctx, cfg.RedisURL, log)
		if err != nil {
			log.WithError(err).Fatal("connect redis")
		}
		defer pub.Close()

		// Local updates go through Redis so every instance, this one
		// included, fans them out from the same stream.
		broadcast = pub.Publish
		updates, err := pub.Subscribe(ctx)
		if err != nil {
			log.WithError(err).Fatal("subscribe redis")
		}
		go hub.RunRedisFeed(ctx, updates)
	}

	manager := game.NewManager(log, broadcast, persister)
	if persister != nil {
		if err := manager.Restore(ctx); err != nil {
			log.WithError(err).Error("restore games")
		}
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New(manager, hub, issuer, log).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("shutdown")
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("serve")
		}
	}
}
