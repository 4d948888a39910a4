package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"vetcontrol/internal/adapters/auth/sivigila"
	pg "vetcontrol/internal/adapters/storage/postgres"
	"vetcontrol/internal/config"
	"vetcontrol/internal/platform/logger"
	"vetcontrol/internal/ports/auth"
	"vetcontrol/internal/router"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	log := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = log.Sync() }()

	// Verifier remoto solo si está configurado; sin él corre en modo dev
	// con headers X-Debug-*.
	var verifier auth.AuthVerifier
	if cfg.Auth.BaseURL != "" {
		client, err := sivigila.NewClient(sivigila.Config{
			BaseURL: cfg.Auth.BaseURL,
			APIKey:  cfg.Auth.APIKey,
		})
		if err != nil {
			log.Fatal("sivigila client", zap.Error(err))
		}
		verifier = sivigila.NewVerifier(client)
	} else {
		log.Warn("auth verifier not configured, running in dev mode")
	}

	var db *sql.DB
	if cfg.DB.DSN != "" {
		opened, err := pg.Open(cfg.DB.DSN)
		if err != nil {
			log.Fatal("opening postgres", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := pg.EnsureSchema(ctx, opened); err != nil {
			cancel()
			log.Fatal("ensuring schema", zap.Error(err))
		}
		cancel()
		db = opened
	} else {
		log.Warn("DB_DSN not set, using in-memory repositories")
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		DB:           db,
		Logger:       log,
	})

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("starting server", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server error", zap.Error(err))
	}
}
