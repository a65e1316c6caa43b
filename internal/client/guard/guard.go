// Package guard decides whether a navigation may proceed.
//
// Evaluate is a pure function of the navigation intent and the latest
// session and connectivity snapshots. It never blocks, never mutates its
// inputs and never talks to the network.
package guard

import (
	"strings"

	"github.com/dmitrijs2005/creditmonitor/internal/client/connectivity"
	"github.com/dmitrijs2005/creditmonitor/internal/client/session"
)

type Kind int

const (
	Allow Kind = iota
	Redirect
	Hold
)

func (k Kind) String() string {
	switch k {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	case Hold:
		return "hold"
	default:
		return "unknown"
	}
}

// Decision is the guard verdict. Target is set only for Redirect.
type Decision struct {
	Kind   Kind
	Target string
}

func AllowDecision() Decision { return Decision{Kind: Allow} }

func HoldDecision() Decision { return Decision{Kind: Hold} }

func RedirectTo(target string) Decision { return Decision{Kind: Redirect, Target: target} }

// Routes names the special views the guard redirects between.
type Routes struct {
	Entry   string
	Loading string
	Offline string
	Default string
}

// DefaultRoutes returns the application's route table.
func DefaultRoutes() Routes {
	return Routes{
		Entry:   "/",
		Loading: "/loading",
		Offline: "/server-offline",
		Default: "/dashboard",
	}
}

// Normalize returns path with a single leading slash and no trailing slash.
func Normalize(path string) string {
	return "/" + strings.Trim(strings.TrimSpace(path), "/")
}

// IsProtected reports whether path requires a valid session.
func (r Routes) IsProtected(path string) bool {
	switch Normalize(path) {
	case r.Entry, r.Loading, r.Offline:
		return false
	default:
		return true
	}
}

// Evaluate decides the outcome of navigating to intent.
func Evaluate(r Routes, intent string, sess session.State, conn connectivity.State) Decision {
	intent = Normalize(intent)

	if conn.Status == connectivity.StatusOffline {
		if intent == r.Offline {
			return AllowDecision()
		}
		return RedirectTo(r.Offline)
	}

	if !conn.Status.Settled() || sess.Status == session.StatusValidating {
		return HoldDecision()
	}

	valid := sess.Status == session.StatusValid && sess.Credential.Present()

	if r.IsProtected(intent) {
		if valid {
			return AllowDecision()
		}
		return RedirectTo(r.Entry)
	}

	// entry, loading and (while online) offline views
	if valid {
		return RedirectTo(r.Default)
	}
	if intent == r.Entry {
		return AllowDecision()
	}
	return RedirectTo(r.Entry)
}
