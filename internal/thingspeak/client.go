package thingspeak

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/smart-office/dashboard/backend/internal/model"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultRecentLimit = 100
	startLayout        = "2006-01-02 15:04:05"
)

// Client reads channel fields from the ThingSpeak REST API. It never retries:
// each poll tick is one best-effort attempt.
type Client struct {
	feed   model.FeedConfig
	http   *http.Client
	logger *slog.Logger
	limit  int
}

func NewClient(feed model.FeedConfig, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		feed:  feed,
		http:  &http.Client{Timeout: timeout},
		limit: defaultRecentLimit,
	}
}

// WithLogger returns the client with request-level debug logging enabled.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.logger = logger
	return c
}

type feedResponse struct {
	Feeds []map[string]any `json:"feeds"`
}

// FetchLatest returns the newest usable sample of fieldID.
func (c *Client) FetchLatest(ctx context.Context, fieldID int) (model.TelemetrySample, error) {
	samples, err := c.fetch(ctx, fieldID, url.Values{"results": []string{"1"}})
	if err != nil {
		return model.TelemetrySample{}, err
	}
	if len(samples) == 0 {
		return model.TelemetrySample{}, unavailable(fieldID, "no samples", nil)
	}
	return samples[len(samples)-1], nil
}

// FetchRecent returns samples captured at or after windowStart, oldest first.
func (c *Client) FetchRecent(ctx context.Context, fieldID int, windowStart time.Time) ([]model.TelemetrySample, error) {
	query := url.Values{"results": []string{strconv.Itoa(c.limit)}}
	if !windowStart.IsZero() {
		query.Set("start", windowStart.UTC().Format(startLayout))
		query.Set("timezone", "Etc/UTC")
	}
	samples, err := c.fetch(ctx, fieldID, query)
	if err != nil {
		return nil, err
	}
	result := samples[:0]
	for _, sample := range samples {
		if sample.CapturedAt.Before(windowStart) {
			continue
		}
		result = append(result, sample)
	}
	return result, nil
}

func (c *Client) fetch(ctx context.Context, fieldID int, query url.Values) ([]model.TelemetrySample, error) {
	if !c.feed.Configured() {
		return nil, unavailable(fieldID, "channel not configured", nil)
	}
	if key := strings.TrimSpace(c.feed.ReadAPIKey); key != "" {
		query.Set("api_key", key)
	}
	endpoint := c.feed.FieldURL(fieldID) + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, unavailable(fieldID, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	startedAt := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, unavailable(fieldID, "request failed", err)
	}
	defer resp.Body.Close()

	if c.logger != nil {
		c.logger.Debug("feed read", "field", fieldID, "status", resp.StatusCode, "duration_ms", time.Since(startedAt).Milliseconds())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, unavailable(fieldID, fmt.Sprintf("status %d", resp.StatusCode), fmt.Errorf("%s", strings.TrimSpace(string(body))))
	}

	var payload feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, unavailable(fieldID, "malformed payload", err)
	}
	return parseSamples(fieldID, payload.Feeds), nil
}

func parseSamples(fieldID int, feeds []map[string]any) []model.TelemetrySample {
	key := "field" + strconv.Itoa(fieldID)
	samples := make([]model.TelemetrySample, 0, len(feeds))
	for _, entry := range feeds {
		value, ok := parseValue(entry[key])
		if !ok {
			continue
		}
		rawTime, _ := entry["created_at"].(string)
		capturedAt, err := time.Parse(time.RFC3339, strings.TrimSpace(rawTime))
		if err != nil {
			continue
		}
		samples = append(samples, model.TelemetrySample{
			FieldID:    fieldID,
			Value:      value,
			CapturedAt: capturedAt.UTC(),
		})
	}
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].CapturedAt.Before(samples[j].CapturedAt)
	})
	return samples
}

func parseValue(raw any) (float64, bool) {
	switch v := raw.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		value, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		return value, true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
