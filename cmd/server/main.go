package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"regdesk/internal/audit"
	auditmem "regdesk/internal/audit/store/memory"
	auditpg "regdesk/internal/audit/store/postgres"
	"regdesk/internal/events"
	issuancehandler "regdesk/internal/issuance/handler"
	issuanceservice "regdesk/internal/issuance/service"
	issuancestore "regdesk/internal/issuance/store"
	"regdesk/internal/kv"
	"regdesk/internal/platform/config"
	"regdesk/internal/platform/httpserver"
	"regdesk/internal/platform/logger"
	"regdesk/internal/platform/metrics"
	"regdesk/internal/platform/middleware"
	"regdesk/internal/platform/postgres"
	platformredis "regdesk/internal/platform/redis"
	regclient "regdesk/internal/registration/client"
	reghandler "regdesk/internal/registration/handler"
	regservice "regdesk/internal/registration/service"
	"regdesk/internal/registration/store/overlay"
	"regdesk/internal/stats"
	statshandler "regdesk/internal/stats/handler"
	statsservice "regdesk/internal/stats/service"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Environment)
	m := metrics.New()
	bus := events.NewBus(log)

	// Desk-local persistence: redis when configured, in-memory otherwise.
	var store kv.Store = kv.NewInMemoryStore()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		store = kv.NewRedisStore(redisClient.Client)
		defer redisClient.Close()
	}

	// Audit trail: postgres when configured, in-memory otherwise.
	var auditStore audit.Store = auditmem.New()
	db, err := postgres.Open(cfg.Postgres.URL)
	if err != nil {
		log.Error("postgres init failed", "error", err.Error())
		os.Exit(1)
	}
	if db != nil {
		pgStore := auditpg.New(db)
		if err := pgStore.Migrate(context.Background()); err != nil {
			log.Error("audit migration failed", "error", err.Error())
			os.Exit(1)
		}
		auditStore = pgStore
		defer db.Close()
	}
	auditor := audit.NewPublisher(256, log)

	var remote regclient.Client
	if cfg.Remote.BaseURL != "" {
		remote = regclient.NewHTTPClient(cfg.Remote.BaseURL, cfg.Remote.Timeout)
	} else {
		log.Warn("no remote URL configured, serving an empty mock listing")
		remote = &regclient.MockClient{}
	}

	overlayStore := overlay.NewKVStore(store, log)
	registrations := regservice.New(remote, overlayStore, bus, m, auditor, log)

	ledger := issuancestore.NewKVLedger(store, log)
	issuances := issuanceservice.New(ledger, bus, m, auditor, log)

	charts := statsservice.New(registrations, stats.NewBuilder(cfg.BucketDays, cfg.GrowthCapPercent), bus, m)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Group(func(api chi.Router) {
		api.Use(middleware.ContentTypeJSON)
		reghandler.New(registrations, log).Register(api)
		issuancehandler.New(issuances, log).Register(api)
		statshandler.New(charts, log).Register(api)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := httpserver.New(cfg.Addr, r)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go func() {
		_ = audit.NewWorker(auditStore, auditor.Inbox(), log).Run(workerCtx)
	}()

	log.Info("starting regdesk", "addr", cfg.Addr, "env", cfg.Environment)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
}
