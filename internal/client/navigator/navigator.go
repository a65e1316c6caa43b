// Package navigator owns the current view of the terminal client.
//
// It is the only place that acts on guard decisions: every explicit
// navigation and every session or connectivity event re-runs the guard
// against the latest snapshots and moves the current view accordingly.
package navigator

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/creditmonitor/internal/client/connectivity"
	"github.com/dmitrijs2005/creditmonitor/internal/client/guard"
	"github.com/dmitrijs2005/creditmonitor/internal/client/session"
	"github.com/dmitrijs2005/creditmonitor/internal/logging"
)

// maxRedirects bounds a redirect chain. The route table never needs more
// than two hops (offline view -> entry -> default).
const maxRedirects = 8

const updatesBuffer = 16

type SessionSource interface {
	Snapshot() session.State
}

type ConnectivitySource interface {
	Snapshot() connectivity.State
}

// View is the resolved outcome of the latest navigation. Path is what is
// shown; Intent is where the user is trying to go. They differ while the
// guard holds (Path is the loading view).
type View struct {
	Path     string
	Intent   string
	Decision guard.Decision
}

type Navigator struct {
	routes  guard.Routes
	session SessionSource
	conn    ConnectivitySource
	logger  logging.Logger

	mu       sync.Mutex
	intent   string
	current  View
	lastConn connectivity.Status
	updates  chan View
}

func New(routes guard.Routes, s SessionSource, c ConnectivitySource, logger logging.Logger) *Navigator {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Navigator{
		routes:   routes,
		session:  s,
		conn:     c,
		logger:   logger.With("component", "navigator"),
		intent:   routes.Entry,
		current:  View{Path: routes.Loading, Intent: routes.Entry, Decision: guard.HoldDecision()},
		lastConn: c.Snapshot().Status,
		updates:  make(chan View, updatesBuffer),
	}
}

// Navigate sets a new intent and resolves it.
func (n *Navigator) Navigate(path string) View {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.intent = guard.Normalize(path)
	return n.resolveLocked()
}

// Reevaluate resolves the current intent against fresh snapshots.
func (n *Navigator) Reevaluate() View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.resolveLocked()
}

// Current returns the last resolved view.
func (n *Navigator) Current() View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Updates delivers every change of the resolved view. Slow readers only miss
// intermediate views, never the latest one.
func (n *Navigator) Updates() <-chan View {
	return n.updates
}

// Run consumes session and connectivity events until ctx is cancelled or
// both channels are closed.
func (n *Navigator) Run(ctx context.Context, sessions <-chan session.State, conns <-chan connectivity.Event) {
	for sessions != nil || conns != nil {
		select {
		case <-ctx.Done():
			return

		case st, ok := <-sessions:
			if !ok {
				sessions = nil
				continue
			}
			n.logger.Debug(ctx, "session changed", "status", st.Status, "generation", st.Generation)
			n.Reevaluate()

		case ev, ok := <-conns:
			if !ok {
				conns = nil
				continue
			}
			n.onConnectivity(ctx, ev)
		}
	}
}

func (n *Navigator) onConnectivity(ctx context.Context, ev connectivity.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	prev := n.lastConn
	next := ev.State.Status
	n.lastConn = next

	switch {
	case next == connectivity.StatusOffline:
		n.intent = n.routes.Offline
	case prev == connectivity.StatusOffline && next == connectivity.StatusOnline:
		// recovery restarts the normal flow from the entry view
		n.logger.Info(ctx, "backend recovered, returning to entry view")
		n.intent = n.routes.Entry
	}

	n.resolveLocked()
}

func (n *Navigator) resolveLocked() View {
	sess := n.session.Snapshot()
	conn := n.conn.Snapshot()

	intent := n.intent
	var d guard.Decision
	for i := 0; ; i++ {
		d = guard.Evaluate(n.routes, intent, sess, conn)
		if d.Kind != guard.Redirect || d.Target == intent || i >= maxRedirects {
			break
		}
		intent = d.Target
	}

	view := View{Path: intent, Intent: intent, Decision: d}
	switch d.Kind {
	case guard.Hold:
		view.Path = n.routes.Loading
	case guard.Redirect:
		// chain did not settle; show the last target
		n.logger.Warn(context.Background(), "redirect chain did not settle", "intent", n.intent, "target", d.Target)
		view.Path = d.Target
	}
	n.intent = intent

	if view != n.current {
		n.current = view
		n.publishLocked(view)
	}
	return view
}

func (n *Navigator) publishLocked(v View) {
	select {
	case n.updates <- v:
	default:
		select {
		case <-n.updates:
		default:
		}
		select {
		case n.updates <- v:
		default:
		}
	}
}
