package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.HTTPAddr != defaultHTTPAddr {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, defaultHTTPAddr)
	}
	if cfg.Recency.Recency != 30*time.Second {
		t.Fatalf("Recency = %v, want 30s", cfg.Recency.Recency)
	}
	if cfg.Devices.LightThreshold != 500 || cfg.Devices.GateCloseDelay != 5*time.Second {
		t.Fatalf("Devices = %+v", cfg.Devices)
	}
	if cfg.Feed.Fields.Motion != 6 || cfg.Feed.Fields.Access != 4 {
		t.Fatalf("Fields = %+v", cfg.Feed.Fields)
	}
	if cfg.AlertsInterval != defaultAlertsInterval || cfg.EventLogCapacity != 50 {
		t.Fatalf("intervals/capacity = %v/%d", cfg.AlertsInterval, cfg.EventLogCapacity)
	}
	if cfg.Feed.Configured() {
		t.Fatalf("feed should not be configured without a channel id")
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "THINGSPEAK_CHANNEL_ID=12345\nFIELD_MOTION=7\nRECENCY_THRESHOLD=45s\nLOG_LEVEL=debug\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("FIELD_MOTION", "8")
	t.Setenv("GATE_CLOSE_DELAY", "not-a-duration")
	t.Setenv("LOG_FORMAT", "Text")

	cfg, err := LoadFile(envFile)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.Feed.ChannelID != "12345" || !cfg.Feed.Configured() {
		t.Fatalf("ChannelID = %q", cfg.Feed.ChannelID)
	}
	if cfg.Feed.Fields.Motion != 8 {
		t.Fatalf("Motion field = %d, want env override 8", cfg.Feed.Fields.Motion)
	}
	if cfg.Recency.Recency != 45*time.Second {
		t.Fatalf("Recency = %v, want 45s", cfg.Recency.Recency)
	}
	if cfg.Devices.GateCloseDelay != 5*time.Second {
		t.Fatalf("invalid GATE_CLOSE_DELAY should fall back, got %v", cfg.Devices.GateCloseDelay)
	}
	if cfg.LogLevel != slog.LevelDebug || cfg.LogFormat != "text" {
		t.Fatalf("log = %v/%q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadRejectsBadSecurityValues(t *testing.T) {
	t.Setenv("BCRYPT_COST", "40")
	if _, err := LoadFile(""); err == nil {
		t.Fatalf("expected BCRYPT_COST error")
	}

	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("JWT_SECRET", "short")
	if _, err := LoadFile(""); err == nil {
		t.Fatalf("expected JWT_SECRET length error")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		" WARN": slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for raw, want := range tests {
		if got := parseLogLevel(raw); got != want {
			t.Fatalf("parseLogLevel(%q) = %v, want %v", raw, got, want)
		}
	}
}
