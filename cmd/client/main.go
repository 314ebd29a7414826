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

	"infant-care-log/internal/adapters/remote"
	"infant-care-log/internal/engine"
	"infant-care-log/internal/platform/config"
	"infant-care-log/internal/platform/logger"
	"infant-care-log/internal/platform/metrics"
	"infant-care-log/internal/ui"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.NewFromEnv().Error("config error", logger.Fields{"err": err})
		os.Exit(1)
	}
	log := logger.New(cfg.LoggerOptions()).With(logger.Fields{"service": "client"})

	if err := run(cfg, log); err != nil {
		log.Error("client stopped with error", logger.Fields{"err": err})
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.Logger) error {
	policy, err := cfg.ReadPolicy()
	if err != nil {
		return err
	}
	summaryOpts, err := cfg.SummaryOptions()
	if err != nil {
		return err
	}

	store, err := remote.NewClient(remote.Config{BaseURL: cfg.Store.URL, Timeout: cfg.Store.Timeout})
	if err != nil {
		return err
	}

	sampler := engine.NewSampler(cfg.ShiftRule())
	builder, err := engine.NewCommandBuilder(cfg.Store.Collection, cfg.Actions, sampler, time.Now)
	if err != nil {
		return err
	}
	m := metrics.New()

	eng, err := engine.New(engine.Options{
		Network: store,
		Triggers: engine.TriggerSource{
			Resource: cfg.Store.Collection,
			Policy:   policy,
			Marker:   cfg.Engine.TickMarker,
		},
		Sampler:  sampler,
		Builder:  builder,
		Composer: engine.NewComposer(cfg.Actions, engine.NewSummarizer(summaryOpts), time.Now),
		Log:      log,
		Observer: m,
	})
	if err != nil {
		return err
	}

	handler, err := ui.NewRouter(ui.Options{
		Engine:    eng,
		Metrics:   m.Handler(),
		Location:  summaryOpts.Location,
		ShiftMin:  cfg.UI.ShiftMin,
		ShiftMax:  cfg.UI.ShiftMax,
		ShiftStep: cfg.UI.ShiftStep,
		Log:       log,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:         cfg.UI.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errc := make(chan error, 2)
	go func() { errc <- eng.Run(ctx) }()
	go func() {
		log.Info("starting ui", logger.Fields{"addr": cfg.UI.Addr, "store": cfg.Store.URL})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
			return
		}
		errc <- nil
	}()

	select {
	case <-ctx.Done():
	case err := <-errc:
		if err != nil {
			stop()
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
