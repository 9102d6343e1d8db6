package reconcile

import (
	"github.com/smart-office/dashboard/backend/internal/eventlog"
	"github.com/smart-office/dashboard/backend/internal/model"
)

// Monitoring reconciles the light sensor and air quality readings.
type Monitoring struct{ *Reconciler }

func NewMonitoring(deps Deps, fields model.FieldMap) *Monitoring {
	gauges := []Gauge{
		{Metric: model.MetricLDR, FieldID: fields.LDR},
		{Metric: model.MetricAirQuality, FieldID: fields.AirQuality},
	}
	return &Monitoring{newReconciler(model.FeatureMonitoring, deps, nil, gauges, func(s Snapshot) any {
		return ComposeMonitoring(s)
	})}
}

// Current returns the typed view.
func (m *Monitoring) Current() model.MonitoringView {
	return m.View().(model.MonitoringView)
}

func ComposeMonitoring(s Snapshot) model.MonitoringView {
	aqi := s.Readings[model.MetricAirQuality]
	return model.MonitoringView{
		SmartLight: model.SmartLight{
			AutoMode: s.State.LightAutoMode,
			LightOn:  s.State.LightOn,
			LDRValue: s.State.LDRValue,
		},
		AirQuality:       aqi.Value,
		AirQualityStatus: model.AirQualityStatus(aqi),
	}
}

// Alerts reconciles the motion sensor against alert mode.
type Alerts struct {
	*Reconciler
	history *eventlog.Log
}

func NewAlerts(deps Deps, fields model.FieldMap, history *eventlog.Log) *Alerts {
	watches := []Watch{{
		Signal:    model.SignalMotion,
		FieldID:   fields.Motion,
		Log:       history,
		EventType: model.EventTypeMotion,
		Resolved:  model.EventStatusResolved,
		LogWhen:   func(state model.DeviceState) bool { return state.AlertMode },
	}}
	return &Alerts{
		Reconciler: newReconciler(model.FeatureAlerts, deps, watches, nil, func(s Snapshot) any {
			return ComposeAlerts(s, history)
		}),
		history: history,
	}
}

func (a *Alerts) Current() model.AlertsView {
	return a.View().(model.AlertsView)
}

// History is the alert log written by this reconciler.
func (a *Alerts) History() *eventlog.Log {
	return a.history
}

func ComposeAlerts(s Snapshot, history *eventlog.Log) model.AlertsView {
	return model.AlertsView{
		AlertMode:      s.State.AlertMode,
		MotionDetected: s.Signals[model.SignalMotion],
		AlertHistory:   history.List(),
	}
}

// AccessSafety reconciles the fire sensor and the RFID grant signal.
type AccessSafety struct {
	*Reconciler
	attendance *eventlog.Log
}

func NewAccessSafety(deps Deps, fields model.FieldMap, alerts, attendance *eventlog.Log) *AccessSafety {
	watches := []Watch{
		{
			Signal:    model.SignalFire,
			FieldID:   fields.Fire,
			Log:       alerts,
			EventType: model.EventTypeFire,
			Resolved:  model.EventStatusResolved,
			LogWhen:   func(state model.DeviceState) bool { return state.FireSystemOn },
		},
		{
			Signal:    model.SignalAccess,
			FieldID:   fields.Access,
			Log:       attendance,
			EventType: model.EventTypeAccess,
			Resolved:  model.EventStatusVerified,
		},
	}
	return &AccessSafety{
		Reconciler: newReconciler(model.FeatureAccessSafety, deps, watches, nil, func(s Snapshot) any {
			return ComposeAccessSafety(s, attendance)
		}),
		attendance: attendance,
	}
}

func (a *AccessSafety) Current() model.AccessSafetyView {
	return a.View().(model.AccessSafetyView)
}

func ComposeAccessSafety(s Snapshot, attendance *eventlog.Log) model.AccessSafetyView {
	return model.AccessSafetyView{
		GateOpen:     s.State.GateOpen,
		FireSystemOn: s.State.FireSystemOn,
		FireDetected: s.State.FireSystemOn && s.Signals[model.SignalFire],
		Attendance:   attendance.List(),
	}
}
