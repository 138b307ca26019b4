// Package poller keeps the dashboard in step with the device by fetching
// /status on a fixed interval and on demand.
//
// All fetches happen inside Run, one at a time. A tick that fires while a
// fetch is still outstanding is dropped, and any number of Trigger calls
// made during a fetch collapse into a single follow-up fetch.
package poller

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/sunrise/internal/device"
	"github.com/muurk/sunrise/internal/logging"
)

// DefaultInterval is the steady-state polling period
const DefaultInterval = 5 * time.Second

// Fetcher returns the authoritative device state. *device.Client satisfies it.
type Fetcher interface {
	Status(ctx context.Context) (*device.Status, error)
}

// Result is the outcome of one poll cycle. Exactly one of Status and Err is set.
type Result struct {
	Status *device.Status
	Err    error
	At     time.Time
}

// OK reports whether the cycle produced a status
func (r Result) OK() bool {
	return r.Err == nil && r.Status != nil
}

// Option configures a Poller
type Option func(*Poller)

// WithInterval overrides DefaultInterval. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// Poller drives periodic status fetches
type Poller struct {
	fetcher  Fetcher
	sink     func(Result)
	interval time.Duration
	timeout  time.Duration
	trigger  chan struct{}
	now      func() time.Time
}

// New creates a poller that hands every Result to sink.
// sink is called from the Run goroutine and must not block for long.
func New(fetcher Fetcher, sink func(Result), opts ...Option) *Poller {
	p := &Poller{
		fetcher:  fetcher,
		sink:     sink,
		interval: DefaultInterval,
		trigger:  make(chan struct{}, 1),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.timeout = p.interval
	return p
}

// Interval returns the configured polling period
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Trigger requests an out-of-band fetch. It never blocks; if a trigger is
// already pending the call is absorbed.
func (p *Poller) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// TriggerAfter requests a fetch once d has elapsed. The returned timer can be
// stopped to cancel it.
func (p *Poller) TriggerAfter(d time.Duration) *time.Timer {
	return time.AfterFunc(d, p.Trigger)
}

// Run fetches immediately, then on every tick and trigger, until ctx is
// cancelled. It always returns ctx.Err().
func (p *Poller) Run(ctx context.Context) error {
	logging.Debug("Status poller started", zap.Duration("interval", p.interval))
	defer logging.Debug("Status poller stopped")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.poll(ctx)
		case <-p.trigger:
			p.poll(ctx)
		}
		// A tick that landed during the fetch is stale; drop it so we do not
		// fetch twice back to back.
		select {
		case <-ticker.C:
		default:
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	fetchCtx, cancel := context.WithTimeout(ctx, p.timeout)
	status, err := p.fetcher.Status(fetchCtx)
	cancel()

	// Torn down mid-fetch; nobody is listening any more.
	if ctx.Err() != nil {
		return
	}

	res := Result{At: p.now()}
	if err != nil {
		logging.Debug("Status poll failed", zap.Error(err))
		res.Err = err
	} else {
		res.Status = status
	}
	p.sink(res)
}
