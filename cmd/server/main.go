package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/smart-office/dashboard/backend/internal/config"
	"github.com/smart-office/dashboard/backend/internal/devices"
	"github.com/smart-office/dashboard/backend/internal/eventlog"
	httpapi "github.com/smart-office/dashboard/backend/internal/http"
	"github.com/smart-office/dashboard/backend/internal/http/handlers"
	"github.com/smart-office/dashboard/backend/internal/live"
	"github.com/smart-office/dashboard/backend/internal/logging"
	"github.com/smart-office/dashboard/backend/internal/model"
	"github.com/smart-office/dashboard/backend/internal/poller"
	"github.com/smart-office/dashboard/backend/internal/reconcile"
	"github.com/smart-office/dashboard/backend/internal/repository/sqlite"
	"github.com/smart-office/dashboard/backend/internal/schedule"
	"github.com/smart-office/dashboard/backend/internal/security"
	authservice "github.com/smart-office/dashboard/backend/internal/services/auth"
	"github.com/smart-office/dashboard/backend/internal/storage"
	"github.com/smart-office/dashboard/backend/internal/thingspeak"
)

const revocationPurgeInterval = time.Hour

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.DBDir(), 0o755); err != nil {
		logger.Error("failed to create db directory", "err", err)
		os.Exit(1)
	}
	db, err := storage.New(ctx, cfg.DBPath, logging.Component(logger, "storage"))
	if err != nil {
		logger.Error("failed to initialize storage", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	secret := cfg.JWTSecret
	if secret == "" {
		secret, err = security.RandomSecret(32)
		if err != nil {
			logger.Error("failed to generate signing secret", "err", err)
			os.Exit(1)
		}
		logger.Warn("JWT_SECRET is empty; using an ephemeral secret, sessions end on restart")
	}
	authSvc := authservice.New(
		sqlite.NewUserRepository(db),
		security.NewHasher(cfg.BcryptCost),
		security.NewTokenProvider([]byte(secret), cfg.JWTIssuer, cfg.JWTTTL),
		logging.Component(logger, "auth"),
	)

	alertLog := eventlog.New(cfg.EventLogCapacity)
	attendance := eventlog.New(cfg.EventLogCapacity)
	timers := schedule.NewDeferred()
	defer timers.Stop()
	store := devices.NewStore(cfg.Devices, attendance, timers, logging.Component(logger, "devices"))

	if !cfg.Feed.Configured() {
		logger.Warn("THINGSPEAK_CHANNEL_ID is empty; every telemetry signal will read as unavailable")
	}
	feed := thingspeak.NewClient(cfg.Feed, cfg.TelemetryTimeout).WithLogger(logging.Component(logger, "thingspeak"))
	hub := live.NewHub(logging.Component(logger, "live"))

	deps := reconcile.Deps{
		Telemetry: feed,
		State:     store,
		LDR:       store,
		Publisher: hub,
		Recency:   cfg.Recency.Recency,
		Logger:    logging.Component(logger, "reconcile"),
	}
	features := handlers.Features{
		Monitoring:   reconcile.NewMonitoring(deps, cfg.Feed.Fields),
		Alerts:       reconcile.NewAlerts(deps, cfg.Feed.Fields, alertLog),
		AccessSafety: reconcile.NewAccessSafety(deps, cfg.Feed.Fields, alertLog, attendance),
	}

	pollLogger := logging.Component(logger, "poller")
	pollers := poller.Group{
		poller.New(string(model.FeatureMonitoring), cfg.MonitoringInterval, features.Monitoring, pollLogger),
		poller.New(string(model.FeatureAlerts), cfg.AlertsInterval, features.Alerts, pollLogger),
		poller.New(string(model.FeatureAccessSafety), cfg.AccessSafetyInterval, features.AccessSafety, pollLogger),
	}
	store.Subscribe(refreshOnControlChange(store.Get(), pollers))

	go pollers.Run(ctx)
	pollers.TriggerRefresh()

	purge := poller.New("token-purge", revocationPurgeInterval, poller.TickFunc(authSvc.PurgeExpiredRevocations), pollLogger)
	go purge.Run(ctx)

	api := handlers.New(handlers.Deps{
		Auth:           authSvc,
		Devices:        store,
		Features:       features,
		AlertLog:       alertLog,
		History:        feed,
		Fields:         cfg.Feed.Fields,
		Refresher:      pollers,
		Live:           hub,
		DB:             db,
		FeedConfigured: cfg.Feed.Configured(),
		Logger:         logging.Component(logger, "http"),
		StaticDir:      cfg.FrontendDist,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(api),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("server starting", "addr", httpServer.Addr, "channel", cfg.Feed.ChannelID)
	if err := httpapi.RunServer(ctx, httpServer, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server terminated with error", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// refreshOnControlChange ticks every feature when a command changes the
// device state, so the new views are published with a fresh seq. Light
// changes driven by the LDR in auto mode come from a tick already.
func refreshOnControlChange(initial model.DeviceState, pollers poller.Group) func(model.DeviceState) {
	var (
		mu   sync.Mutex
		last = controlState(initial)
	)
	return func(state model.DeviceState) {
		next := controlState(state)
		mu.Lock()
		changed := next != last
		last = next
		mu.Unlock()
		if changed {
			pollers.TriggerRefresh()
		}
	}
}

func controlState(state model.DeviceState) model.DeviceState {
	state.LDRValue = 0
	if state.LightAutoMode {
		state.LightOn = false
	}
	return state
}
