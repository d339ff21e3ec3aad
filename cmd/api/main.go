package main

import (
	"log"
	"net/http"
	"time"

	"appointment-lifecycle/internal/adapters/auth/jwtauth"
	"appointment-lifecycle/internal/adapters/storage/postgres"
	"appointment-lifecycle/internal/domain/status"
	"appointment-lifecycle/internal/platform/config"
	"appointment-lifecycle/internal/platform/logger"
	"appointment-lifecycle/internal/ports/auth"
	"appointment-lifecycle/internal/router"
)

func main() {
	cfg := config.Load()

	lg := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	classifier := status.NewClassifier()
	if cfg.AliasesFile != "" {
		if err := classifier.LoadAliasesFile(cfg.AliasesFile); err != nil {
			log.Fatalf("loading aliases from %s: %v", cfg.AliasesFile, err)
		}
		lg.Info("legacy status aliases loaded", map[string]any{"file": cfg.AliasesFile})
	}

	var verifier auth.AuthVerifier
	if cfg.JWTSecret != "" {
		verifier = jwtauth.NewVerifier(cfg.JWTSecret)
	} else {
		lg.Warn("no AUTH_JWT_SECRET set, running in dev mode (X-Debug-* headers)", nil)
	}

	opts := router.Options{
		AuthVerifier: verifier,
		Logger:       lg,
		StoreBaseURL: cfg.StoreBaseURL,
		StoreAPIKey:  cfg.StoreAPIKey,
		Classifier:   classifier,
	}

	if cfg.DBDSN != "" {
		db, err := postgres.Open(cfg.DBDSN)
		if err != nil {
			log.Fatalf("connecting to postgres: %v", err)
		}
		defer db.Close()
		opts.DB = db
		lg.Info("using postgres storage", nil)
	}

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	lg.Info("starting server", map[string]any{"addr": cfg.HTTPAddr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
