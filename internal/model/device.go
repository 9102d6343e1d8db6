package model

import "time"

// DefaultLightThreshold is the LDR reading below which auto mode turns the light on.
const DefaultLightThreshold = 500

type DeviceState struct {
	LightAutoMode bool    `json:"lightAutoMode"`
	LightOn       bool    `json:"lightOn"`
	LDRValue      float64 `json:"ldrValue"`
	FireSystemOn  bool    `json:"fireSystemOn"`
	AlertMode     bool    `json:"alertMode"`
	GateOpen      bool    `json:"gateOpen"`
}

// DeviceThresholds holds the tunables of local device behaviour.
type DeviceThresholds struct {
	LightThreshold float64
	GateCloseDelay time.Duration
}

func DefaultDeviceThresholds() DeviceThresholds {
	return DeviceThresholds{
		LightThreshold: DefaultLightThreshold,
		GateCloseDelay: 5 * time.Second,
	}
}

func (t DeviceThresholds) Normalize() DeviceThresholds {
	defaults := DefaultDeviceThresholds()
	if t.LightThreshold <= 0 {
		t.LightThreshold = defaults.LightThreshold
	}
	if t.GateCloseDelay <= 0 {
		t.GateCloseDelay = defaults.GateCloseDelay
	}
	return t
}
