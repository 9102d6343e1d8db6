package reconcile

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/smart-office/dashboard/backend/internal/devices"
	"github.com/smart-office/dashboard/backend/internal/eventlog"
	"github.com/smart-office/dashboard/backend/internal/model"
	"github.com/smart-office/dashboard/backend/internal/schedule"
	"github.com/smart-office/dashboard/backend/internal/thingspeak"
)

var testNow = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

type fakeFeed struct {
	mu      sync.Mutex
	samples map[int]model.TelemetrySample
	errs    map[int]error
	calls   map[int]int
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{samples: map[int]model.TelemetrySample{}, errs: map[int]error{}, calls: map[int]int{}}
}

func (f *fakeFeed) set(field int, value float64, age time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.errs, field)
	f.samples[field] = model.TelemetrySample{FieldID: field, Value: value, CapturedAt: testNow.Add(-age)}
}

func (f *fakeFeed) fail(field int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[field] = &thingspeak.UnavailableError{FieldID: field, Reason: "status 503"}
}

func (f *fakeFeed) FetchLatest(_ context.Context, field int) (model.TelemetrySample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[field]++
	if err, ok := f.errs[field]; ok {
		return model.TelemetrySample{}, err
	}
	sample, ok := f.samples[field]
	if !ok {
		return model.TelemetrySample{}, &thingspeak.UnavailableError{FieldID: field, Reason: "no samples"}
	}
	return sample, nil
}

type recordingPublisher struct {
	mu   sync.Mutex
	seqs map[model.Feature][]uint64
}

func (p *recordingPublisher) Publish(feature model.Feature, seq uint64, _ any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.seqs == nil {
		p.seqs = map[model.Feature][]uint64{}
	}
	p.seqs[feature] = append(p.seqs[feature], seq)
}

type fixture struct {
	feed       *fakeFeed
	store      *devices.Store
	alerts     *eventlog.Log
	attendance *eventlog.Log
	publisher  *recordingPublisher
	deps       Deps
	fields     model.FieldMap
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	timers := schedule.NewDeferred()
	t.Cleanup(timers.Stop)
	attendance := eventlog.New(20)
	store := devices.NewStore(model.DefaultDeviceThresholds(), attendance, timers, nil)
	feed := newFakeFeed()
	publisher := &recordingPublisher{}
	return &fixture{
		feed:       feed,
		store:      store,
		alerts:     eventlog.New(20),
		attendance: attendance,
		publisher:  publisher,
		fields:     model.DefaultFieldMap(),
		deps: Deps{
			Telemetry: feed,
			State:     store,
			LDR:       store,
			Publisher: publisher,
			Recency:   15 * time.Second,
			Now:       func() time.Time { return testNow },
		},
	}
}

func TestMotionScenarioAppendsActiveAlert(t *testing.T) {
	fx := newFixture(t)
	alerts := NewAlerts(fx.deps, fx.fields, fx.alerts)
	_, err := fx.store.Apply(devices.SetAlertMode(true))
	require.NoError(t, err)

	fx.feed.set(fx.fields.Motion, 0, time.Second)
	require.NoError(t, alerts.Tick(context.Background()))
	require.False(t, alerts.Current().MotionDetected)

	fx.feed.set(fx.fields.Motion, 1, 0)
	require.NoError(t, alerts.Tick(context.Background()))

	view := alerts.Current()
	require.True(t, view.AlertMode)
	require.True(t, view.MotionDetected)
	require.NotEmpty(t, view.AlertHistory)
	require.Equal(t, model.EventTypeMotion, view.AlertHistory[0].Type)
	require.Equal(t, model.EventStatusActive, view.AlertHistory[0].Status)
}

func TestEdgeTriggeringAppendsOnceAndResolvesOnce(t *testing.T) {
	fx := newFixture(t)
	alerts := NewAlerts(fx.deps, fx.fields, fx.alerts)
	_, err := fx.store.Apply(devices.SetAlertMode(true))
	require.NoError(t, err)

	for _, motion := range []float64{0, 1, 1, 0} {
		fx.feed.set(fx.fields.Motion, motion, time.Second)
		require.NoError(t, alerts.Tick(context.Background()))
	}

	history := fx.alerts.List()
	require.Len(t, history, 1)
	require.Equal(t, model.EventStatusResolved, history[0].Status)
}

func TestRepeatedTickIsIdempotent(t *testing.T) {
	fx := newFixture(t)
	alerts := NewAlerts(fx.deps, fx.fields, fx.alerts)
	_, err := fx.store.Apply(devices.SetAlertMode(true))
	require.NoError(t, err)
	fx.feed.set(fx.fields.Motion, 1, time.Second)

	require.NoError(t, alerts.Tick(context.Background()))
	first := alerts.Current()
	require.NoError(t, alerts.Tick(context.Background()))
	second := alerts.Current()

	require.Equal(t, first, second)
	require.Equal(t, 1, fx.alerts.Len())
	require.Equal(t, []uint64{1, 2}, fx.publisher.seqs[model.FeatureAlerts])
}

func TestStaleMotionDecaysToFalse(t *testing.T) {
	fx := newFixture(t)
	alerts := NewAlerts(fx.deps, fx.fields, fx.alerts)
	_, err := fx.store.Apply(devices.SetAlertMode(true))
	require.NoError(t, err)

	fx.feed.set(fx.fields.Motion, 1, 15*time.Second)
	require.NoError(t, alerts.Tick(context.Background()))
	require.True(t, alerts.Current().MotionDetected, "sample exactly at threshold is live")

	fx.feed.set(fx.fields.Motion, 1, 15*time.Second+time.Millisecond)
	require.NoError(t, alerts.Tick(context.Background()))
	require.False(t, alerts.Current().MotionDetected)
	require.Equal(t, model.EventStatusResolved, fx.alerts.List()[0].Status)
}

func TestMotionNotLoggedWhileAlertModeOff(t *testing.T) {
	fx := newFixture(t)
	alerts := NewAlerts(fx.deps, fx.fields, fx.alerts)

	fx.feed.set(fx.fields.Motion, 1, time.Second)
	require.NoError(t, alerts.Tick(context.Background()))

	view := alerts.Current()
	require.True(t, view.MotionDetected)
	require.Empty(t, view.AlertHistory)
}

func TestUnloggedRiseDoesNotResolveManualRecord(t *testing.T) {
	fx := newFixture(t)
	alerts := NewAlerts(fx.deps, fx.fields, fx.alerts)

	fx.feed.set(fx.fields.Motion, 1, time.Second)
	require.NoError(t, alerts.Tick(context.Background()))
	require.Zero(t, fx.alerts.Len())

	manual := fx.alerts.Append(model.EventTypeMotion, model.EventStatusActive, "")
	fx.feed.set(fx.fields.Motion, 0, time.Second)
	require.NoError(t, alerts.Tick(context.Background()))

	history := fx.alerts.List()
	require.Len(t, history, 1)
	require.Equal(t, manual.ID, history[0].ID)
	require.Equal(t, model.EventStatusActive, history[0].Status)
}

func TestFallResolvesTheRecordItsRiseAppended(t *testing.T) {
	fx := newFixture(t)
	alerts := NewAlerts(fx.deps, fx.fields, fx.alerts)
	_, err := fx.store.Apply(devices.SetAlertMode(true))
	require.NoError(t, err)

	fx.feed.set(fx.fields.Motion, 1, time.Second)
	require.NoError(t, alerts.Tick(context.Background()))
	raised := fx.alerts.List()[0]

	manual := fx.alerts.Append(model.EventTypeMotion, model.EventStatusActive, "")
	fx.feed.set(fx.fields.Motion, 0, time.Second)
	require.NoError(t, alerts.Tick(context.Background()))

	history := fx.alerts.List()
	require.Len(t, history, 2)
	require.Equal(t, manual.ID, history[0].ID)
	require.Equal(t, model.EventStatusActive, history[0].Status)
	require.Equal(t, raised.ID, history[1].ID)
	require.Equal(t, model.EventStatusResolved, history[1].Status)
}

func TestUnavailableFeedDegradesOnlyAffectedSignal(t *testing.T) {
	fx := newFixture(t)
	access := NewAccessSafety(fx.deps, fx.fields, fx.alerts, fx.attendance)

	fx.feed.set(fx.fields.Fire, 1, time.Second)
	fx.feed.set(fx.fields.Access, 1, time.Second)
	require.NoError(t, access.Tick(context.Background()))
	require.True(t, access.Current().FireDetected)
	require.Equal(t, 1, fx.alerts.Len())
	require.Equal(t, 1, fx.attendance.Len())

	fx.feed.fail(fx.fields.Fire)
	require.NoError(t, access.Tick(context.Background()))

	view := access.Current()
	require.False(t, view.FireDetected)
	require.True(t, access.Latest().Signals[model.SignalAccess])
	require.Equal(t, model.EventStatusResolved, fx.alerts.List()[0].Status)
	require.Equal(t, model.EventStatusActive, view.Attendance[0].Status)

	fx.feed.set(fx.fields.Access, 0, time.Second)
	require.NoError(t, access.Tick(context.Background()))
	require.Equal(t, model.EventStatusVerified, access.Current().Attendance[0].Status)
}

func TestFireIgnoredWhileSystemOff(t *testing.T) {
	fx := newFixture(t)
	access := NewAccessSafety(fx.deps, fx.fields, fx.alerts, fx.attendance)
	_, err := fx.store.Apply(devices.SetFireSystemOn(false))
	require.NoError(t, err)

	fx.feed.set(fx.fields.Fire, 1, time.Second)
	require.NoError(t, access.Tick(context.Background()))

	require.False(t, access.Current().FireDetected)
	require.Zero(t, fx.alerts.Len())
}

func TestMonitoringPushesLDRIntoStore(t *testing.T) {
	fx := newFixture(t)
	monitoring := NewMonitoring(fx.deps, fx.fields)

	fx.feed.set(fx.fields.LDR, 320, time.Second)
	fx.feed.set(fx.fields.AirQuality, 140, time.Second)
	require.NoError(t, monitoring.Tick(context.Background()))

	view := monitoring.Current()
	require.Equal(t, 320.0, view.SmartLight.LDRValue)
	require.True(t, view.SmartLight.LightOn)
	require.Equal(t, 140.0, view.AirQuality)
	require.Equal(t, "Moderate", view.AirQualityStatus)

	fx.feed.fail(fx.fields.AirQuality)
	fx.feed.set(fx.fields.LDR, 700, time.Second)
	require.NoError(t, monitoring.Tick(context.Background()))

	view = monitoring.Current()
	require.False(t, view.SmartLight.LightOn)
	require.Equal(t, "Unknown", view.AirQualityStatus)
}

func TestViewReflectsCommandsBeforeNextTick(t *testing.T) {
	fx := newFixture(t)
	monitoring := NewMonitoring(fx.deps, fx.fields)

	_, err := fx.store.Apply(devices.SetAutoMode(false))
	require.NoError(t, err)
	_, err = fx.store.Apply(devices.SetLightOn(false))
	require.NoError(t, err)

	view := monitoring.Current()
	require.False(t, view.SmartLight.AutoMode)
	require.False(t, view.SmartLight.LightOn)
	require.Empty(t, fx.publisher.seqs[model.FeatureMonitoring])
}

func TestTickHonoursCancelledContext(t *testing.T) {
	fx := newFixture(t)
	alerts := NewAlerts(fx.deps, fx.fields, fx.alerts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, alerts.Tick(ctx), context.Canceled)
	require.Zero(t, alerts.Latest().Seq)
}

func TestEdgeTracker(t *testing.T) {
	tracker := NewEdgeTracker()
	var edges []Edge
	for _, v := range []bool{false, true, true, false, false} {
		edges = append(edges, tracker.Observe(model.SignalMotion, v))
	}
	require.Equal(t, []Edge{EdgeNone, EdgeRising, EdgeNone, EdgeFalling, EdgeNone}, edges)
}
