package model

// AirQualityStatus labels an AQI reading.
func AirQualityStatus(aqi Reading) string {
	switch {
	case !aqi.Available:
		return "Unknown"
	case aqi.Value < 100:
		return "Good"
	case aqi.Value < 200:
		return "Moderate"
	default:
		return "Unhealthy"
	}
}

type SmartLight struct {
	AutoMode bool    `json:"autoMode"`
	LightOn  bool    `json:"lightOn"`
	LDRValue float64 `json:"ldrValue"`
}

type MonitoringView struct {
	SmartLight       SmartLight `json:"smartLight"`
	AirQuality       float64    `json:"airQuality"`
	AirQualityStatus string     `json:"airQualityStatus"`
}

type AlertsView struct {
	AlertMode      bool          `json:"alertMode"`
	MotionDetected bool          `json:"motionDetected"`
	AlertHistory   []EventRecord `json:"alertHistory"`
}

type AccessSafetyView struct {
	GateOpen     bool          `json:"gateOpen"`
	FireSystemOn bool          `json:"fireSystemOn"`
	FireDetected bool          `json:"fireDetected"`
	Attendance   []EventRecord `json:"attendance"`
}

// Feature identifies one dashboard tab.
type Feature string

const (
	FeatureMonitoring   Feature = "monitoring"
	FeatureAlerts       Feature = "alerts"
	FeatureAccessSafety Feature = "access-safety"
)
