package model

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultFeedBaseURL = "https://api.thingspeak.com"

// FeedConfig describes the remote telemetry channel and which field carries which signal.
type FeedConfig struct {
	BaseURL    string
	ChannelID  string
	ReadAPIKey string
	Fields     FieldMap
}

// FieldMap maps signals and metrics to numeric feed fields.
type FieldMap struct {
	LDR        int
	AirQuality int
	Fire       int
	Access     int
	Motion     int
}

func DefaultFieldMap() FieldMap {
	return FieldMap{LDR: 1, AirQuality: 2, Fire: 3, Access: 4, Motion: 6}
}

// FieldURL returns the read endpoint for one field of the channel.
func (c FeedConfig) FieldURL(fieldID int) string {
	base := strings.TrimSuffix(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = defaultFeedBaseURL
	}
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return base + "/channels/" + url.PathEscape(strings.TrimSpace(c.ChannelID)) + "/fields/" + strconv.Itoa(fieldID) + ".json"
}

// Configured reports whether a channel is set.
func (c FeedConfig) Configured() bool {
	return strings.TrimSpace(c.ChannelID) != ""
}

// RecencyThresholds bounds how old a sample may be while still counted as live.
type RecencyThresholds struct {
	Recency time.Duration
}

func DefaultRecencyThresholds() RecencyThresholds {
	return RecencyThresholds{Recency: 30 * time.Second}
}

func (r RecencyThresholds) Normalize() RecencyThresholds {
	if r.Recency <= 0 {
		r.Recency = DefaultRecencyThresholds().Recency
	}
	return r
}
