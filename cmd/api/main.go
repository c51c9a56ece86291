package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"workout-stats-go/internal/api"
	"workout-stats-go/internal/config"
	"workout-stats-go/internal/dataset"
	"workout-stats-go/internal/logger"
	"workout-stats-go/internal/metrics"
	"workout-stats-go/internal/processor"
	"workout-stats-go/internal/session"
)

func main() {
	cfg := config.Load()

	log := logger.New()
	log.WithField("service", "workout-stats-go").Info("starting service")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewManager(cfg.MetricsNamespace, "api", reg)

	store := session.NewStore(cfg.SessionCacheBytes, cfg.SessionTTL)
	proc := processor.New(cfg.Discipline, store, m, log)
	policy := dataset.Policy{AllowHTTP: cfg.FetchAllowHTTP, AllowPrivate: cfg.FetchAllowPrivate}
	fetcher := dataset.NewFetcher(cfg.FetchTimeout, cfg.FetchMaxElapsed, cfg.MaxUploadBytes, policy, log)

	// preload dataset into the default session
	if cfg.DatasetPath != "" {
		log.WithField("dataset_path", cfg.DatasetPath).Info("loading dataset")
		table, err := dataset.Load(cfg.DatasetPath)
		if err != nil {
			log.WithError(err).Fatal("failed to load dataset")
		}
		res, err := proc.ProcessAs(context.Background(), api.DefaultSession, table, cfg.DatasetPath)
		if err != nil {
			log.WithError(err).Fatal("failed to process dataset")
		}
		log.WithField("workouts", res.Workouts).Info("default session loaded")
	}

	mux := http.NewServeMux()
	api.NewHandler(proc, store, fetcher, m, log, cfg.MaxUploadBytes, cfg.ProcessTimeout).Routes(mux)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:         cfg.HTTPAddress,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddress).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server terminated")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown failed")
	}
	log.Info("server stopped")
}
