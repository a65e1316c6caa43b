// Package connectivity tracks whether the backend is reachable.
//
// A Monitor runs one blocking check at start (callers wait on Ready before
// showing any protected view) and then probes on a fixed interval. Probes
// never overlap: a check requested while another is running returns
// ErrProbeInFlight without touching the network. Any probe failure is
// reported as Offline.
package connectivity

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/creditmonitor/internal/logging"
)

const (
	DefaultInterval   = 5 * time.Minute
	DefaultTimeout    = 5 * time.Second
	DefaultMaxHistory = 512

	subscriberBuffer = 16
)

var (
	ErrProbeInFlight = errors.New("connectivity probe already in flight")
	ErrClosed        = errors.New("connectivity monitor closed")
)

// Prober performs a single reachability check. A nil error means reachable.
type Prober interface {
	Probe(ctx context.Context) error
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context) error

func (f ProberFunc) Probe(ctx context.Context) error { return f(ctx) }

type Options struct {
	Interval   time.Duration
	Timeout    time.Duration
	MaxHistory int
}

type Monitor struct {
	prober     Prober
	interval   time.Duration
	timeout    time.Duration
	maxHistory int
	logger     logging.Logger
	now        func() time.Time

	inFlight atomic.Bool

	mu      sync.RWMutex
	state   State
	history []Sample
	subs    []chan Event
	closed  bool

	ready     chan struct{}
	readyOnce sync.Once
}

func NewMonitor(p Prober, opts Options, logger logging.Logger) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxHistory <= 0 {
		opts.MaxHistory = DefaultMaxHistory
	}
	if logger == nil {
		logger = logging.Nop()
	}

	return &Monitor{
		prober:     p,
		interval:   opts.Interval,
		timeout:    opts.Timeout,
		maxHistory: opts.MaxHistory,
		logger:     logger.With("component", "connectivity"),
		now:        time.Now,
		state:      State{Status: StatusUnknown},
		ready:      make(chan struct{}),
	}
}

// Run performs the initial check and then probes every interval until ctx is
// cancelled, at which point the monitor is closed.
func (m *Monitor) Run(ctx context.Context) {
	defer m.Close()

	if _, err := m.CheckNow(ctx, true); err != nil {
		m.logger.Debug(ctx, "initial check skipped", "error", err)
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := m.CheckNow(ctx, false); err != nil {
				m.logger.Debug(ctx, "scheduled check skipped", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// CheckNow runs one probe and returns the resulting state. Probe failures
// are not errors: they yield an Offline state. The only errors are
// ErrProbeInFlight and ErrClosed.
func (m *Monitor) CheckNow(ctx context.Context, initial bool) (State, error) {
	if !m.inFlight.CompareAndSwap(false, true) {
		return m.Snapshot(), ErrProbeInFlight
	}
	defer m.inFlight.Store(false)

	if initial {
		defer m.markReady()

		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			return m.Snapshot(), ErrClosed
		}
		m.setLocked(State{Status: StatusChecking, Initial: true, LastCheckedAt: m.state.LastCheckedAt})
		m.mu.Unlock()
	} else if m.isClosed() {
		return m.Snapshot(), ErrClosed
	}

	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	started := m.now()
	err := m.prober.Probe(probeCtx)
	cancel()

	sample := Sample{CheckedAt: m.now().UTC()}
	if err != nil {
		sample.Error = err.Error()
	} else {
		sample.OK = true
		sample.LatencyMs = int64(m.now().Sub(started) / time.Millisecond)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return m.state, ErrClosed
	}

	m.history = append(m.history, sample)
	if len(m.history) > m.maxHistory {
		m.history = m.history[len(m.history)-m.maxHistory:]
	}

	next := State{Status: StatusOnline, LastCheckedAt: sample.CheckedAt, Initial: initial}
	if err != nil {
		next.Status = StatusOffline
		next.LastError = sample.Error
		m.logger.Warn(ctx, "backend unreachable", "initial", initial, "error", err)
	} else {
		m.logger.Debug(ctx, "backend reachable", "initial", initial, "latency_ms", sample.LatencyMs)
	}
	if m.state.Status == StatusOffline && next.Status == StatusOnline {
		m.logger.Info(ctx, "backend recovered")
	}

	m.setLocked(next)
	return next, nil
}

// setLocked stores next and publishes it. Callers hold m.mu.
func (m *Monitor) setLocked(next State) {
	ev := Event{State: next, Previous: m.state.Status}
	m.state = next

	for _, ch := range m.subs {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
}

func (m *Monitor) markReady() {
	m.readyOnce.Do(func() { close(m.ready) })
}

func (m *Monitor) isClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

// Ready is closed once the initial check has completed (or the monitor was
// closed before it could).
func (m *Monitor) Ready() <-chan struct{} {
	return m.ready
}

func (m *Monitor) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// History returns the retained probe samples, oldest first.
func (m *Monitor) History() []Sample {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.history) == 0 {
		return nil
	}
	out := make([]Sample, len(m.history))
	copy(out, m.history)
	return out
}

// Subscribe returns a channel receiving every state change. The channel is
// closed by Close.
func (m *Monitor) Subscribe() <-chan Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if m.closed {
		close(ch)
		return ch
	}
	m.subs = append(m.subs, ch)
	return ch
}

// Close stops publishing. Results of probes still running are discarded.
func (m *Monitor) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	for _, ch := range m.subs {
		close(ch)
	}
	m.subs = nil
	m.mu.Unlock()

	m.markReady()
}
