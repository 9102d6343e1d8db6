package handlers

import (
	"net/http"
	"strings"

	"github.com/smart-office/dashboard/backend/internal/devices"
	"github.com/smart-office/dashboard/backend/internal/model"
)

type alertModeRequest struct {
	AlertMode *bool `json:"alertMode"`
}

type logMotionRequest struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

func (a *API) GetAlerts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.features.Alerts.Current())
}

// ToggleAlertMode sets alert mode to the requested value.
func (a *API) ToggleAlertMode(w http.ResponseWriter, r *http.Request) {
	var payload alertModeRequest
	if !decodeJSON(r, &payload) || payload.AlertMode == nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "alertMode must be true or false")
		return
	}
	state, err := a.devices.Apply(devices.SetAlertMode(*payload.AlertMode))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "command_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"alertMode": state.AlertMode})
}

// LogMotion appends a manual record to the alert history.
func (a *API) LogMotion(w http.ResponseWriter, r *http.Request) {
	var payload logMotionRequest
	if !decodeJSON(r, &payload) {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid JSON payload")
		return
	}
	eventType := strings.TrimSpace(payload.Type)
	if eventType == "" {
		eventType = model.EventTypeMotion
	}
	status := model.EventStatus(strings.TrimSpace(payload.Status))
	if status == "" {
		status = model.EventStatusActive
	}
	if !status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid_status", "status must be one of Active, Resolved, Verified, Declined")
		return
	}
	record := a.alertLog.Append(eventType, status, "")
	writeJSON(w, http.StatusCreated, record)
}
