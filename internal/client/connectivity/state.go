package connectivity

import "time"

type Status int

const (
	StatusUnknown Status = iota
	StatusChecking
	StatusOnline
	StatusOffline
)

func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusChecking:
		return "checking"
	case StatusOnline:
		return "online"
	case StatusOffline:
		return "offline"
	default:
		return "invalid"
	}
}

// Settled reports whether s is a verdict rather than a pending check.
func (s Status) Settled() bool {
	return s == StatusOnline || s == StatusOffline
}

// State is a snapshot of backend reachability.
type State struct {
	Status        Status
	LastCheckedAt time.Time
	// Initial is true while the state comes from the first check after start.
	Initial   bool
	LastError string
}

// Event is published after every state change.
type Event struct {
	State    State
	Previous Status
}

// Recovered reports whether the event is an Offline to Online transition.
func (e Event) Recovered() bool {
	return e.Previous == StatusOffline && e.State.Status == StatusOnline
}

// WentOffline reports whether the event moved the monitor into Offline.
func (e Event) WentOffline() bool {
	return e.Previous != StatusOffline && e.State.Status == StatusOffline
}

// Sample is one probe result kept in the monitor history.
type Sample struct {
	CheckedAt time.Time
	OK        bool
	LatencyMs int64
	Error     string
}
