package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"infant-care-log/internal/platform/config"
	"infant-care-log/internal/platform/logger"
	"infant-care-log/internal/router"
)

// @title infant-care-log dev store
// @version 1.0
// @description Subconjunto de la API REST de Firebase Realtime Database para desarrollo local.
// @BasePath /
func main() {
	cfgPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.NewFromEnv().Error("config error", logger.Fields{"err": err})
		os.Exit(1)
	}
	log := logger.New(cfg.LoggerOptions()).With(logger.Fields{"service": "devstore"})

	r := router.NewRouter(router.Options{DSN: cfg.DevStore.DSN, Log: log})

	srv := &http.Server{
		Addr:         cfg.DevStore.Addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("starting server", logger.Fields{"addr": cfg.DevStore.Addr})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", logger.Fields{"err": err})
		os.Exit(1)
	}
}
