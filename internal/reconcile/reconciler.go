// Package reconcile merges remote telemetry with local device state on each
// poll tick, detects signal transitions and records them as events.
package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/smart-office/dashboard/backend/internal/eventlog"
	"github.com/smart-office/dashboard/backend/internal/model"
	"github.com/smart-office/dashboard/backend/internal/thingspeak"
)

// TelemetrySource reads the newest sample of a feed field.
type TelemetrySource interface {
	FetchLatest(ctx context.Context, fieldID int) (model.TelemetrySample, error)
}

// StateSource exposes the local device state.
type StateSource interface {
	Get() model.DeviceState
}

// LDRSink accepts light sensor readings.
type LDRSink interface {
	ObserveLDR(value float64) model.DeviceState
}

// Publisher receives every composed view.
type Publisher interface {
	Publish(feature model.Feature, seq uint64, view any)
}

// Watch binds a boolean signal to a feed field and to the log its transitions go to.
type Watch struct {
	Signal    model.Signal
	FieldID   int
	Log       *eventlog.Log
	EventType string
	Resolved  model.EventStatus
	// LogWhen gates appends on the local state; nil always logs.
	LogWhen func(model.DeviceState) bool
}

// Gauge binds a numeric metric to a feed field.
type Gauge struct {
	Metric  model.Metric
	FieldID int
}

// Snapshot is the merged input of one tick.
type Snapshot struct {
	Seq      uint64
	At       time.Time
	State    model.DeviceState
	Signals  map[model.Signal]bool
	Readings map[model.Metric]model.Reading
}

// ComposeFunc derives a feature view from a snapshot.
type ComposeFunc func(Snapshot) any

type Reconciler struct {
	feature   model.Feature
	telemetry TelemetrySource
	state     StateSource
	ldr       LDRSink
	publisher Publisher
	watches   []Watch
	gauges    []Gauge
	compose   ComposeFunc
	recency   time.Duration
	now       func() time.Time
	logger    *slog.Logger

	tickMu sync.Mutex
	edges  *EdgeTracker
	// raised holds the id of the record each signal's current rise appended.
	raised map[model.Signal]string

	mu     sync.RWMutex
	seq    uint64
	latest Snapshot
}

// Deps are the collaborators shared by every feature reconciler.
type Deps struct {
	Telemetry TelemetrySource
	State     StateSource
	LDR       LDRSink
	Publisher Publisher
	Recency   time.Duration
	Now       func() time.Time
	Logger    *slog.Logger
}

func newReconciler(feature model.Feature, deps Deps, watches []Watch, gauges []Gauge, compose ComposeFunc) *Reconciler {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := &Reconciler{
		feature:   feature,
		telemetry: deps.Telemetry,
		state:     deps.State,
		ldr:       deps.LDR,
		publisher: deps.Publisher,
		watches:   watches,
		gauges:    gauges,
		compose:   compose,
		recency:   model.RecencyThresholds{Recency: deps.Recency}.Normalize().Recency,
		now:       now,
		logger:    logger.With("feature", string(feature)),
		edges:     NewEdgeTracker(),
		raised:    map[model.Signal]string{},
	}
	r.latest = r.emptySnapshot()
	return r
}

func (r *Reconciler) Feature() model.Feature {
	return r.feature
}

type fetchResult struct {
	sample model.TelemetrySample
	err    error
}

// Tick runs one reconciliation pass. Telemetry failures degrade the
// affected signal to false and never fail the tick.
func (r *Reconciler) Tick(ctx context.Context) error {
	r.tickMu.Lock()
	defer r.tickMu.Unlock()

	state := r.state.Get()

	fields := make([]int, 0, len(r.gauges)+len(r.watches))
	for _, g := range r.gauges {
		fields = append(fields, g.FieldID)
	}
	for _, w := range r.watches {
		fields = append(fields, w.FieldID)
	}
	results := r.fetchAll(ctx, fields)
	if err := ctx.Err(); err != nil {
		return err
	}
	now := r.now()

	snapshot := Snapshot{
		At:       now.UTC(),
		Signals:  make(map[model.Signal]bool, len(r.watches)),
		Readings: make(map[model.Metric]model.Reading, len(r.gauges)),
	}

	for i, g := range r.gauges {
		res := results[i]
		if res.err != nil {
			r.logUnavailable(g.FieldID, res.err)
			snapshot.Readings[g.Metric] = model.Reading{}
			continue
		}
		snapshot.Readings[g.Metric] = model.Reading{Value: res.sample.Value, Available: true}
		if g.Metric == model.MetricLDR && r.ldr != nil {
			state = r.ldr.ObserveLDR(res.sample.Value)
		}
	}

	for i, w := range r.watches {
		res := results[len(r.gauges)+i]
		if res.err != nil {
			r.logUnavailable(w.FieldID, res.err)
		}
		effective := thingspeak.Effective(res.sample, res.err, now, r.recency)
		snapshot.Signals[w.Signal] = effective
		r.recordEdge(w, r.edges.Observe(w.Signal, effective), state)
	}

	snapshot.State = state

	r.mu.Lock()
	r.seq++
	snapshot.Seq = r.seq
	r.latest = snapshot
	r.mu.Unlock()

	if r.publisher != nil {
		r.publisher.Publish(r.feature, snapshot.Seq, r.compose(snapshot))
	}
	return nil
}

func (r *Reconciler) fetchAll(ctx context.Context, fields []int) []fetchResult {
	results := make([]fetchResult, len(fields))
	if r.telemetry == nil {
		for i := range results {
			results[i].err = thingspeak.ErrUnavailable
		}
		return results
	}
	var wg sync.WaitGroup
	for i, field := range fields {
		wg.Add(1)
		go func(i, field int) {
			defer wg.Done()
			sample, err := r.telemetry.FetchLatest(ctx, field)
			results[i] = fetchResult{sample: sample, err: err}
		}(i, field)
	}
	wg.Wait()
	return results
}

func (r *Reconciler) recordEdge(w Watch, edge Edge, state model.DeviceState) {
	if w.Log == nil {
		return
	}
	switch edge {
	case EdgeRising:
		if w.LogWhen != nil && !w.LogWhen(state) {
			return
		}
		record := w.Log.Append(w.EventType, model.EventStatusActive, "")
		r.raised[w.Signal] = record.ID
		r.logger.Info("event raised", "signal", string(w.Signal), "event_id", record.ID, "type", record.Type)
	case EdgeFalling:
		id, ok := r.raised[w.Signal]
		if !ok {
			return
		}
		delete(r.raised, w.Signal)
		if record, ok := w.Log.Resolve(id, w.Resolved); ok {
			r.logger.Info("event cleared", "signal", string(w.Signal), "event_id", record.ID, "status", string(record.Status))
		}
	}
}

func (r *Reconciler) logUnavailable(fieldID int, err error) {
	if errors.Is(err, thingspeak.ErrUnavailable) {
		r.logger.Debug("telemetry unavailable", "field", fieldID, "err", err)
		return
	}
	r.logger.Warn("telemetry read failed", "field", fieldID, "err", err)
}

// Latest returns the snapshot of the most recent tick.
func (r *Reconciler) Latest() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}

// View composes the feature view from the latest telemetry and the current
// device state, so control commands show up before the next tick.
func (r *Reconciler) View() any {
	snapshot := r.Latest()
	snapshot.State = r.state.Get()
	return r.compose(snapshot)
}

func (r *Reconciler) emptySnapshot() Snapshot {
	snapshot := Snapshot{
		Signals:  map[model.Signal]bool{},
		Readings: map[model.Metric]model.Reading{},
	}
	for _, w := range r.watches {
		snapshot.Signals[w.Signal] = false
	}
	for _, g := range r.gauges {
		snapshot.Readings[g.Metric] = model.Reading{}
	}
	return snapshot
}
