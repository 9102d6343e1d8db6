package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/smart-office/dashboard/backend/internal/devices"
	authdomain "github.com/smart-office/dashboard/backend/internal/domain/auth"
	"github.com/smart-office/dashboard/backend/internal/live"
	"github.com/smart-office/dashboard/backend/internal/model"
	"github.com/smart-office/dashboard/backend/internal/reconcile"
)

// Refresher triggers asynchronous reconciliation ticks.
type Refresher interface {
	TriggerRefresh()
}

// DeviceController applies control commands to the device state.
type DeviceController interface {
	Get() model.DeviceState
	Apply(cmd devices.Command) (model.DeviceState, error)
	TriggerScan() (model.EventRecord, model.DeviceState)
}

// FeatureSource is one reconciled dashboard feature.
type FeatureSource interface {
	Feature() model.Feature
	Latest() reconcile.Snapshot
	View() any
}

// EventAppender is the alert history as seen by manual logging.
type EventAppender interface {
	Append(eventType string, status model.EventStatus, subject string) model.EventRecord
}

// HistorySource reads a window of past samples of one feed field.
type HistorySource interface {
	FetchRecent(ctx context.Context, fieldID int, windowStart time.Time) ([]model.TelemetrySample, error)
}

// LiveStream upgrades a request into a live view stream.
type LiveStream interface {
	Serve(w http.ResponseWriter, r *http.Request, initial []live.Message)
}

// Pinger reports storage health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Features groups the three reconciled dashboard tabs.
type Features struct {
	Monitoring   *reconcile.Monitoring
	Alerts       *reconcile.Alerts
	AccessSafety *reconcile.AccessSafety
}

func (f Features) all() []FeatureSource {
	return []FeatureSource{f.Monitoring, f.Alerts, f.AccessSafety}
}

// API groups HTTP handlers and dependencies.
type API struct {
	auth           authdomain.Service
	devices        DeviceController
	features       Features
	alertLog       EventAppender
	history        HistorySource
	fields         model.FieldMap
	refresher      Refresher
	live           LiveStream
	db             Pinger
	feedConfigured bool
	logger         *slog.Logger
	staticDir      string
}

// Deps are the collaborators of the HTTP handlers.
type Deps struct {
	Auth           authdomain.Service
	Devices        DeviceController
	Features       Features
	AlertLog       EventAppender
	History        HistorySource
	Fields         model.FieldMap
	Refresher      Refresher
	Live           LiveStream
	DB             Pinger
	FeedConfigured bool
	Logger         *slog.Logger
	StaticDir      string
}

func New(deps Deps) *API {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		auth:           deps.Auth,
		devices:        deps.Devices,
		features:       deps.Features,
		alertLog:       deps.AlertLog,
		history:        deps.History,
		fields:         deps.Fields,
		refresher:      deps.Refresher,
		live:           deps.Live,
		db:             deps.DB,
		feedConfigured: deps.FeedConfigured,
		logger:         logger,
		staticDir:      deps.StaticDir,
	}
}

// Logger returns request logger used by HTTP middleware.
func (a *API) Logger() *slog.Logger {
	return a.logger
}

// Authenticator exposes token validation to the auth middleware.
func (a *API) Authenticator() authdomain.Service {
	return a.auth
}

// Health reports liveness, storage reachability and whether a feed is configured.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if a.db != nil {
		if err := a.db.Ping(r.Context()); err != nil {
			a.logger.Warn("health check database ping failed", "err", err)
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, map[string]any{"status": status, "configured": a.feedConfigured})
}

// Refresh triggers an immediate tick of every feature.
func (a *API) Refresh(w http.ResponseWriter, _ *http.Request) {
	a.refresher.TriggerRefresh()
	writeJSON(w, http.StatusAccepted, map[string]any{"ok": true})
}

// Live streams every published view; current views are sent on connect.
func (a *API) Live(w http.ResponseWriter, r *http.Request) {
	features := a.features.all()
	initial := make([]live.Message, 0, len(features))
	for _, f := range features {
		initial = append(initial, live.Message{Feature: f.Feature(), Seq: f.Latest().Seq, Data: f.View()})
	}
	a.live.Serve(w, r, initial)
}

// Static serves frontend assets and SPA fallback.
func (a *API) Static(w http.ResponseWriter, r *http.Request) {
	if a.staticDir == "" {
		writeError(w, http.StatusNotFound, "frontend_missing", "Frontend dist not found")
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/")
	if path == "" {
		path = "index.html"
	}
	cleanPath := strings.TrimPrefix(filepath.Clean("/"+path), "/")
	fullPath := filepath.Join(a.staticDir, cleanPath)
	if info, err := os.Stat(fullPath); err == nil && !info.IsDir() {
		http.ServeFile(w, r, fullPath)
		return
	}
	http.ServeFile(w, r, filepath.Join(a.staticDir, "index.html"))
}

func decodeJSON(r *http.Request, dst any) bool {
	if r.Body == nil {
		return true
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	return err == nil || errors.Is(err, io.EOF)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}

// WriteError is the JSON error envelope for middleware outside this package.
func WriteError(w http.ResponseWriter, status int, code string, message string) {
	writeError(w, status, code, message)
}
