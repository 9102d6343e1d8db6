package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/smart-office/dashboard/backend/internal/devices"
	"github.com/smart-office/dashboard/backend/internal/model"
	"github.com/smart-office/dashboard/backend/internal/thingspeak"
)

type lightControlRequest struct {
	AutoMode *bool `json:"autoMode"`
	LightOn  *bool `json:"lightOn"`
}

// GetMonitoring returns the smart light and air quality view.
func (a *API) GetMonitoring(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.features.Monitoring.Current())
}

// LightControl switches auto mode and, in manual mode, the light itself.
// Auto mode is applied first so {"autoMode":false,"lightOn":true} takes effect in one call.
func (a *API) LightControl(w http.ResponseWriter, r *http.Request) {
	var payload lightControlRequest
	if !decodeJSON(r, &payload) {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid JSON payload")
		return
	}

	state := a.devices.Get()
	var err error
	if payload.AutoMode != nil {
		if state, err = a.devices.Apply(devices.SetAutoMode(*payload.AutoMode)); err != nil {
			writeError(w, http.StatusInternalServerError, "command_failed", err.Error())
			return
		}
	}
	if payload.LightOn != nil {
		if state, err = a.devices.Apply(devices.SetLightOn(*payload.LightOn)); err != nil {
			writeError(w, http.StatusInternalServerError, "command_failed", err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, model.SmartLight{
		AutoMode: state.LightAutoMode,
		LightOn:  state.LightOn,
		LDRValue: state.LDRValue,
	})
}

const (
	defaultHistoryWindow = 10 * time.Minute
	maxHistoryWindow     = 24 * time.Hour
)

type historyResponse struct {
	Metric  model.Metric            `json:"metric"`
	Since   time.Time               `json:"since"`
	Samples []model.TelemetrySample `json:"samples"`
}

// MonitoringHistory returns recent samples of one numeric metric, oldest first.
// Query: metric=ldr|airQuality, window=<duration> (default 10m).
func (a *API) MonitoringHistory(w http.ResponseWriter, r *http.Request) {
	metric := model.Metric(strings.TrimSpace(r.URL.Query().Get("metric")))
	if metric == "" {
		metric = model.MetricLDR
	}
	var fieldID int
	switch metric {
	case model.MetricLDR:
		fieldID = a.fields.LDR
	case model.MetricAirQuality:
		fieldID = a.fields.AirQuality
	default:
		writeError(w, http.StatusBadRequest, "invalid_metric", "metric must be ldr or airQuality")
		return
	}

	window := defaultHistoryWindow
	if raw := strings.TrimSpace(r.URL.Query().Get("window")); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 || parsed > maxHistoryWindow {
			writeError(w, http.StatusBadRequest, "invalid_window", "window must be a positive duration up to 24h")
			return
		}
		window = parsed
	}

	since := time.Now().UTC().Add(-window)
	samples, err := a.history.FetchRecent(r.Context(), fieldID, since)
	if errors.Is(err, thingspeak.ErrUnavailable) {
		writeError(w, http.StatusBadGateway, "telemetry_unavailable", "Telemetry is unavailable")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "history_failed", err.Error())
		return
	}
	if samples == nil {
		samples = []model.TelemetrySample{}
	}
	writeJSON(w, http.StatusOK, historyResponse{Metric: metric, Since: since, Samples: samples})
}
