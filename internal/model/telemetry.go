package model

import "time"

// TelemetrySample is one numeric reading of a feed field.
type TelemetrySample struct {
	FieldID    int       `json:"fieldId"`
	Value      float64   `json:"value"`
	CapturedAt time.Time `json:"capturedAt"`
}

// Age returns how old the sample is relative to now.
func (s TelemetrySample) Age(now time.Time) time.Duration {
	return now.Sub(s.CapturedAt)
}

// Reading is a numeric signal as shown to dashboard clients.
type Reading struct {
	Value     float64 `json:"value"`
	Available bool    `json:"available"`
}

// Signal names a boolean condition derived from telemetry.
type Signal string

const (
	SignalMotion Signal = "motion"
	SignalFire   Signal = "fire"
	SignalAccess Signal = "access"
)

// Metric names a numeric reading derived from telemetry.
type Metric string

const (
	MetricLDR        Metric = "ldr"
	MetricAirQuality Metric = "airQuality"
)
