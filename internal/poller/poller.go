package poller

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

const defaultInterval = 3 * time.Second

// ErrSkipped lets a tick report that it had nothing to do.
var ErrSkipped = errors.New("tick skipped")

// Ticker is one unit of periodic work.
type Ticker interface {
	Tick(ctx context.Context) error
}

// TickFunc adapts a function to Ticker.
type TickFunc func(ctx context.Context) error

func (f TickFunc) Tick(ctx context.Context) error { return f(ctx) }

// Poller runs a Ticker on a fixed interval until its context is cancelled.
// Ticks never overlap; a failed tick is logged and the next one runs on schedule.
type Poller struct {
	name      string
	interval  time.Duration
	ticker    Ticker
	refreshCh chan struct{}
	logger    *slog.Logger
}

func New(name string, interval time.Duration, ticker Ticker, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		name:      name,
		interval:  interval,
		ticker:    ticker,
		refreshCh: make(chan struct{}, 1),
		logger:    logger.With("poller", name),
	}
}

func (p *Poller) Name() string {
	return p.name
}

// TriggerRefresh requests an immediate tick. Requests coalesce.
func (p *Poller) TriggerRefresh() {
	select {
	case p.refreshCh <- struct{}{}:
	default:
	}
}

func (p *Poller) Run(ctx context.Context) {
	for {
		timer := time.NewTimer(p.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-p.refreshCh:
			timer.Stop()
		case <-timer.C:
		}
		if err := p.ticker.Tick(ctx); err != nil {
			if errors.Is(err, ErrSkipped) {
				p.logger.Debug("tick skipped")
				continue
			}
			if ctx.Err() != nil {
				return
			}
			p.logger.Warn("tick failed", "err", err)
		}
	}
}

// Group fans TriggerRefresh out to several pollers.
type Group []*Poller

func (g Group) TriggerRefresh() {
	for _, p := range g {
		p.TriggerRefresh()
	}
}

// Run starts every poller and blocks until ctx is done.
func (g Group) Run(ctx context.Context) {
	done := make(chan struct{}, len(g))
	for _, p := range g {
		go func(p *Poller) {
			p.Run(ctx)
			done <- struct{}{}
		}(p)
	}
	for range g {
		<-done
	}
}
