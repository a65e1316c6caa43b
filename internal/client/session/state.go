package session

import "github.com/dmitrijs2005/creditmonitor/internal/client/identity"

type Status int

const (
	StatusUnauthenticated Status = iota
	StatusValidating
	StatusValid
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusValidating:
		return "validating"
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Credential is the opaque backend-issued bearer token. The client never
// looks inside it.
type Credential string

func (c Credential) Present() bool {
	return c != ""
}

// State is a snapshot of the session. Generation increases on every
// user-initiated transition and is used to drop stale validation results.
type State struct {
	Status     Status
	Credential Credential
	Identity   *identity.Identity
	Generation uint64
}

// Consistent reports whether s satisfies the store invariant: a valid
// session always has a credential.
func (s State) Consistent() bool {
	return s.Status != StatusValid || s.Credential.Present()
}

// LoggedOut reports whether s is the terminal logged-out shape.
func (s State) LoggedOut() bool {
	return s.Status == StatusUnauthenticated && !s.Credential.Present()
}

func (s State) clone() State {
	if s.Identity != nil {
		id := *s.Identity
		s.Identity = &id
	}
	return s
}
