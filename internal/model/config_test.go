package model

import (
	"testing"
	"time"
)

func TestFeedConfigFieldURL(t *testing.T) {
	t.Helper()

	tests := []struct {
		name  string
		cfg   FeedConfig
		field int
		want  string
	}{
		{
			name:  "empty base url falls back to thingspeak",
			cfg:   FeedConfig{ChannelID: "12345"},
			field: 6,
			want:  "https://api.thingspeak.com/channels/12345/fields/6.json",
		},
		{
			name:  "trailing slash is trimmed",
			cfg:   FeedConfig{BaseURL: "http://localhost:9000/", ChannelID: "7"},
			field: 1,
			want:  "http://localhost:9000/channels/7/fields/1.json",
		},
		{
			name:  "bare host gets https scheme",
			cfg:   FeedConfig{BaseURL: "feeds.example.com", ChannelID: "7"},
			field: 2,
			want:  "https://feeds.example.com/channels/7/fields/2.json",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Helper()
			got := tt.cfg.FieldURL(tt.field)
			if got != tt.want {
				t.Fatalf("FieldURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAirQualityStatus(t *testing.T) {
	t.Helper()

	tests := []struct {
		reading Reading
		want    string
	}{
		{Reading{}, "Unknown"},
		{Reading{Value: 42, Available: true}, "Good"},
		{Reading{Value: 99.9, Available: true}, "Good"},
		{Reading{Value: 100, Available: true}, "Moderate"},
		{Reading{Value: 250, Available: true}, "Unhealthy"},
	}
	for _, tt := range tests {
		if got := AirQualityStatus(tt.reading); got != tt.want {
			t.Fatalf("AirQualityStatus(%+v) = %q, want %q", tt.reading, got, tt.want)
		}
	}
}

func TestThresholdsNormalize(t *testing.T) {
	t.Helper()

	got := DeviceThresholds{}.Normalize()
	if got.LightThreshold != DefaultLightThreshold {
		t.Fatalf("LightThreshold = %v, want %v", got.LightThreshold, DefaultLightThreshold)
	}
	if got.GateCloseDelay != 5*time.Second {
		t.Fatalf("GateCloseDelay = %v, want 5s", got.GateCloseDelay)
	}
	if r := (RecencyThresholds{}).Normalize(); r.Recency != 30*time.Second {
		t.Fatalf("Recency = %v, want 30s", r.Recency)
	}
}
