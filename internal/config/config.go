// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/smart-office/dashboard/backend/internal/model"
)

const (
	defaultHTTPAddr             = ":8099"
	defaultDBPath               = "/data/smart_office.db"
	defaultFrontendDist         = "/app/frontend/dist"
	defaultTelemetryTimeout     = 10 * time.Second
	defaultMonitoringInterval   = 4 * time.Second
	defaultAlertsInterval       = 2 * time.Second
	defaultAccessSafetyInterval = 3 * time.Second
	defaultJWTTTL               = 24 * time.Hour
	defaultJWTIssuer            = "smart-office-dashboard"
	defaultBcryptCost           = 12
	defaultEventLogCapacity     = 50
)

// Config stores runtime settings.
type Config struct {
	HTTPAddr     string
	DBPath       string
	FrontendDist string
	LogLevel     slog.Level
	LogFormat    string

	Feed             model.FeedConfig
	TelemetryTimeout time.Duration
	Recency          model.RecencyThresholds
	Devices          model.DeviceThresholds
	EventLogCapacity int

	MonitoringInterval   time.Duration
	AlertsInterval       time.Duration
	AccessSafetyInterval time.Duration

	JWTSecret  string
	JWTIssuer  string
	JWTTTL     time.Duration
	BcryptCost int
}

// raw mirrors the environment keys; durations stay strings so a bad value
// falls back to its default instead of failing startup.
type raw struct {
	HTTPAddr     string `mapstructure:"HTTP_ADDR"`
	DBPath       string `mapstructure:"DB_PATH"`
	FrontendDist string `mapstructure:"FRONTEND_DIST"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`
	LogFormat    string `mapstructure:"LOG_FORMAT"`

	ThingSpeakBaseURL    string `mapstructure:"THINGSPEAK_BASE_URL"`
	ThingSpeakChannelID  string `mapstructure:"THINGSPEAK_CHANNEL_ID"`
	ThingSpeakReadAPIKey string `mapstructure:"THINGSPEAK_READ_API_KEY"`
	ThingSpeakTimeout    string `mapstructure:"THINGSPEAK_TIMEOUT"`

	FieldLDR        int `mapstructure:"FIELD_LDR"`
	FieldAirQuality int `mapstructure:"FIELD_AIR_QUALITY"`
	FieldFire       int `mapstructure:"FIELD_FIRE"`
	FieldRFID       int `mapstructure:"FIELD_RFID"`
	FieldMotion     int `mapstructure:"FIELD_MOTION"`

	RecencyThreshold       string  `mapstructure:"RECENCY_THRESHOLD"`
	MonitoringPollInterval string  `mapstructure:"MONITORING_POLL_INTERVAL"`
	AlertsPollInterval     string  `mapstructure:"ALERTS_POLL_INTERVAL"`
	AccessPollInterval     string  `mapstructure:"ACCESS_POLL_INTERVAL"`
	LightThreshold         float64 `mapstructure:"LIGHT_THRESHOLD"`
	GateCloseDelay         string  `mapstructure:"GATE_CLOSE_DELAY"`
	EventLogCapacity       int     `mapstructure:"EVENT_LOG_CAPACITY"`

	JWTSecret  string `mapstructure:"JWT_SECRET"`
	JWTIssuer  string `mapstructure:"JWT_ISSUER"`
	JWTTTL     string `mapstructure:"JWT_TTL"`
	BcryptCost int    `mapstructure:"BCRYPT_COST"`
}

// Load reads .env from the working directory (if present), then the environment.
func Load() (Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit .env path. A missing file is ignored;
// environment variables override it.
func LoadFile(envFile string) (Config, error) {
	v := viper.New()
	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		_ = v.ReadInConfig()
	}
	v.AutomaticEnv()
	setDefaults(v)

	var r raw
	if err := v.Unmarshal(&r); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	fields := model.DefaultFieldMap()
	cfg := Config{
		HTTPAddr:     orDefault(r.HTTPAddr, defaultHTTPAddr),
		DBPath:       orDefault(r.DBPath, defaultDBPath),
		FrontendDist: strings.TrimSpace(r.FrontendDist),
		LogLevel:     parseLogLevel(r.LogLevel),
		LogFormat:    strings.ToLower(strings.TrimSpace(r.LogFormat)),
		Feed: model.FeedConfig{
			BaseURL:    strings.TrimSpace(r.ThingSpeakBaseURL),
			ChannelID:  strings.TrimSpace(r.ThingSpeakChannelID),
			ReadAPIKey: strings.TrimSpace(r.ThingSpeakReadAPIKey),
			Fields: model.FieldMap{
				LDR:        positiveOr(r.FieldLDR, fields.LDR),
				AirQuality: positiveOr(r.FieldAirQuality, fields.AirQuality),
				Fire:       positiveOr(r.FieldFire, fields.Fire),
				Access:     positiveOr(r.FieldRFID, fields.Access),
				Motion:     positiveOr(r.FieldMotion, fields.Motion),
			},
		},
		TelemetryTimeout: parseDuration(r.ThingSpeakTimeout, defaultTelemetryTimeout),
		Recency: model.RecencyThresholds{
			Recency: parseDuration(r.RecencyThreshold, 0),
		}.Normalize(),
		Devices: model.DeviceThresholds{
			LightThreshold: r.LightThreshold,
			GateCloseDelay: parseDuration(r.GateCloseDelay, 0),
		}.Normalize(),
		EventLogCapacity:     positiveOr(r.EventLogCapacity, defaultEventLogCapacity),
		MonitoringInterval:   parseDuration(r.MonitoringPollInterval, defaultMonitoringInterval),
		AlertsInterval:       parseDuration(r.AlertsPollInterval, defaultAlertsInterval),
		AccessSafetyInterval: parseDuration(r.AccessPollInterval, defaultAccessSafetyInterval),
		JWTSecret:            strings.TrimSpace(r.JWTSecret),
		JWTIssuer:            orDefault(r.JWTIssuer, defaultJWTIssuer),
		JWTTTL:               parseDuration(r.JWTTTL, defaultJWTTTL),
		BcryptCost:           positiveOr(r.BcryptCost, defaultBcryptCost),
	}

	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return Config{}, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}
	if cfg.JWTSecret != "" && len(cfg.JWTSecret) < 16 {
		return Config{}, errors.New("config: JWT_SECRET must be at least 16 characters")
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// AutomaticEnv only reaches keys viper already knows about.
	for _, key := range []string{
		"FRONTEND_DIST", "LOG_FORMAT",
		"THINGSPEAK_BASE_URL", "THINGSPEAK_CHANNEL_ID", "THINGSPEAK_READ_API_KEY", "THINGSPEAK_TIMEOUT",
		"RECENCY_THRESHOLD", "MONITORING_POLL_INTERVAL", "ALERTS_POLL_INTERVAL", "ACCESS_POLL_INTERVAL",
		"GATE_CLOSE_DELAY", "JWT_SECRET", "JWT_TTL",
	} {
		v.SetDefault(key, "")
	}
	v.SetDefault("HTTP_ADDR", defaultHTTPAddr)
	v.SetDefault("DB_PATH", defaultDBPath)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_ISSUER", defaultJWTIssuer)
	v.SetDefault("BCRYPT_COST", defaultBcryptCost)
	v.SetDefault("EVENT_LOG_CAPACITY", defaultEventLogCapacity)
	v.SetDefault("LIGHT_THRESHOLD", model.DefaultLightThreshold)

	fields := model.DefaultFieldMap()
	v.SetDefault("FIELD_LDR", fields.LDR)
	v.SetDefault("FIELD_AIR_QUALITY", fields.AirQuality)
	v.SetDefault("FIELD_FIRE", fields.Fire)
	v.SetDefault("FIELD_RFID", fields.Access)
	v.SetDefault("FIELD_MOTION", fields.Motion)
}

// DBDir returns the target directory for DBPath.
func (c Config) DBDir() string {
	return filepath.Dir(c.DBPath)
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func positiveOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
