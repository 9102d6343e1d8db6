package handlers

import (
	"net/http"

	"github.com/smart-office/dashboard/backend/internal/devices"
)

type fireSystemRequest struct {
	FireSystemOn *bool `json:"fireSystemOn"`
}

func (a *API) GetAccessSafety(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.features.AccessSafety.Current())
}

// RFIDScan simulates a card scan; the gate opens now and closes on its own.
func (a *API) RFIDScan(w http.ResponseWriter, _ *http.Request) {
	record, state := a.devices.TriggerScan()
	writeJSON(w, http.StatusOK, map[string]any{"newRecord": record, "gateOpen": state.GateOpen})
}

func (a *API) ToggleFireSystem(w http.ResponseWriter, r *http.Request) {
	var payload fireSystemRequest
	if !decodeJSON(r, &payload) || payload.FireSystemOn == nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "fireSystemOn must be true or false")
		return
	}
	state, err := a.devices.Apply(devices.SetFireSystemOn(*payload.FireSystemOn))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "command_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"fireSystemOn": state.FireSystemOn})
}
