// Package devices owns the mutable smart-office device state.
package devices

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/smart-office/dashboard/backend/internal/eventlog"
	"github.com/smart-office/dashboard/backend/internal/model"
	"github.com/smart-office/dashboard/backend/internal/schedule"
)

// Store is the single owner of DeviceState for the process. It is not
// shared across processes.
type Store struct {
	mu         sync.Mutex
	state      model.DeviceState
	thresholds model.DeviceThresholds
	attendance *eventlog.Log
	timers     *schedule.Deferred
	gateKey    string
	roster     []Card
	rand       *rand.Rand
	listeners  []func(model.DeviceState)
	logger     *slog.Logger
}

type Option func(*Store)

// WithRoster replaces the badge list used by simulated scans.
func WithRoster(cards []Card) Option {
	return func(s *Store) {
		if len(cards) > 0 {
			s.roster = cards
		}
	}
}

// WithRand makes card selection deterministic.
func WithRand(r *rand.Rand) Option {
	return func(s *Store) { s.rand = r }
}

// WithInitialState seeds the state.
func WithInitialState(state model.DeviceState) Option {
	return func(s *Store) { s.state = state }
}

func NewStore(
	thresholds model.DeviceThresholds,
	attendance *eventlog.Log,
	timers *schedule.Deferred,
	logger *slog.Logger,
	opts ...Option,
) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		state:      model.DeviceState{LightAutoMode: true, FireSystemOn: true},
		thresholds: thresholds.Normalize(),
		attendance: attendance,
		timers:     timers,
		roster:     DefaultRoster,
		rand:       rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.applyAutoLight()
	return s
}

// Subscribe registers fn to be called after every state change.
func (s *Store) Subscribe(fn func(model.DeviceState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Get returns a snapshot of the current state.
func (s *Store) Get() model.DeviceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Attendance exposes the RFID record log.
func (s *Store) Attendance() *eventlog.Log {
	return s.attendance
}

// Apply executes one command and returns the resulting state.
func (s *Store) Apply(cmd Command) (model.DeviceState, error) {
	if cmd.Kind == CommandTriggerScan {
		_, state := s.TriggerScan()
		return state, nil
	}

	s.mu.Lock()
	switch cmd.Kind {
	case CommandSetAutoMode:
		s.state.LightAutoMode = cmd.Value
		s.applyAutoLight()
	case CommandSetLightOn:
		if s.state.LightAutoMode {
			s.logger.Debug("manual light command ignored in auto mode", "requested", cmd.Value)
		} else {
			s.state.LightOn = cmd.Value
		}
	case CommandSetFireSystemOn:
		s.state.FireSystemOn = cmd.Value
	case CommandSetAlertMode:
		s.state.AlertMode = cmd.Value
	default:
		s.mu.Unlock()
		return s.Get(), unknownCommand(cmd.Kind)
	}
	state, listeners := s.state, s.listeners
	s.mu.Unlock()

	notify(listeners, state)
	return state, nil
}

// ObserveLDR records the latest light sensor reading.
func (s *Store) ObserveLDR(value float64) model.DeviceState {
	s.mu.Lock()
	changed := s.state.LDRValue != value
	s.state.LDRValue = value
	before := s.state.LightOn
	s.applyAutoLight()
	changed = changed || before != s.state.LightOn
	state, listeners := s.state, s.listeners
	s.mu.Unlock()

	if changed {
		notify(listeners, state)
	}
	return state
}

// TriggerScan simulates a badge read: it opens the gate, appends one
// attendance record and schedules the gate to close again.
func (s *Store) TriggerScan() (model.EventRecord, model.DeviceState) {
	s.mu.Lock()
	card := s.roster[s.rand.IntN(len(s.roster))]
	record := s.attendance.Append(model.EventTypeScan, model.EventStatusVerified, card.Subject())
	s.state.GateOpen = true

	if s.gateKey != "" {
		s.timers.Cancel(s.gateKey)
	}
	key := "gate-close:" + record.ID
	s.gateKey = key
	s.timers.Schedule(key, s.thresholds.GateCloseDelay, func() { s.closeGate(key) })

	state, listeners := s.state, s.listeners
	s.mu.Unlock()

	s.logger.Info("rfid scan", "event_id", record.ID, "card", card.ID)
	notify(listeners, state)
	return record, state
}

func (s *Store) closeGate(key string) {
	s.mu.Lock()
	if s.gateKey != key {
		s.mu.Unlock()
		return
	}
	s.gateKey = ""
	s.state.GateOpen = false
	state, listeners := s.state, s.listeners
	s.mu.Unlock()

	s.logger.Debug("gate closed", "key", key)
	notify(listeners, state)
}

// applyAutoLight enforces lightOn == ldr < threshold while auto mode is on.
// Callers hold s.mu.
func (s *Store) applyAutoLight() {
	if s.state.LightAutoMode {
		s.state.LightOn = s.state.LDRValue < s.thresholds.LightThreshold
	}
}

func notify(listeners []func(model.DeviceState), state model.DeviceState) {
	for _, fn := range listeners {
		fn(state)
	}
}
